/*
Package schemachecker is a lightweight runtime payload validator.

A SchemaChecker holds two optional schemas: fields that must be present
(mandatory) and fields that may be absent (non-mandatory). Callers invoke three
checks in sequence before trusting a loosely-typed payload such as a decoded
API request body:

  - CheckHasPayload rejects falsy payloads with NO_PAYLOAD.
  - CheckHasMandatoryFields rejects payloads missing a mandatory key with NOT_CONTAIN_MANDATORY_FIELD.
  - CheckHasAppropriateSchema rejects fields of the wrong type with DATA_TYPE_NOT_MATCH.

Every check stops at the first violation. Fields not declared in either schema
are ignored.

# Usage

	type ContactPerson struct {
		Name        string
		PhoneNumber string
	}

	checker := schemachecker.New(
		schema.New(
			schema.F("username", schema.String()),
			schema.F("password", schema.String()),
		),
		schema.New(
			schema.F("contactPerson", schema.Class[ContactPerson]()),
		),
	)

	payload := schema.Payload{"username": "bpkcongli", "password": 123456}

	if err := checker.CheckHasPayload(payload); err != nil {
		return err
	}
	if err := checker.CheckHasMandatoryFields(payload); err != nil {
		return err
	}
	if err := checker.CheckHasAppropriateSchema(payload); err != nil {
		// errors.Is(err, schema.ErrTypeMismatch) == true
		return err
	}

Check runs the three in order.

# Observability

WithLogger attaches a *slog.Logger (failures are logged at debug level) and
WithHooks receives a CheckEvent after every check. The metrics package turns
those events into Prometheus series.
*/
package schemachecker
