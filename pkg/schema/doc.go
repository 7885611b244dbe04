// Package schema provides the data model for payload checks: ordered schemas,
// type descriptors and the errors raised when a payload does not conform.
//
// A descriptor is either a primitive tag ("string", "number", "boolean",
// "object", "function", "undefined", "symbol", "bigint") matched against the
// runtime type name of a value, or a class reference matched with an
// instance-of test. The two never overlap.
//
// Basic usage:
//
//	mandatory := schema.New(
//	    schema.F("username", schema.String()),
//	    schema.F("password", schema.String()),
//	)
//	optional := schema.New(
//	    schema.F("contactPerson", schema.Class[ContactPerson]()),
//	)
//
//	payload := schema.Payload{"username": "bpkcongli", "password": 123456}
//
//	if err := schema.RequireFields(mandatory, payload); err != nil {
//	    // NOT_CONTAIN_MANDATORY_FIELD
//	}
//	if err := schema.Conform(mandatory, payload, schema.Required); err != nil {
//	    // DATA_TYPE_NOT_MATCH
//	}
//	if err := schema.Conform(optional, payload, schema.Optional); err != nil {
//	    // DATA_TYPE_NOT_MATCH
//	}
//
// Every check is fail-fast: the first violation, in declaration order, is the
// only one reported. Errors carry a stable Code and can be matched with
// errors.Is against ErrNoPayload, ErrMissingMandatoryField and ErrTypeMismatch.
//
// Classes whose instances cannot be recognised from their Go type can be
// declared with an explicit predicate:
//
//	isoDate := schema.ClassFunc("ISODate", func(v any) bool {
//	    s, ok := v.(string)
//	    if !ok {
//	        return false
//	    }
//	    _, err := time.Parse(time.DateOnly, s)
//	    return err == nil
//	})
package schema
