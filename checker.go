package schemachecker

import (
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/bpkcongli/schema-checker/pkg/schema"
)

// SchemaChecker checks payloads against a mandatory and a non-mandatory schema.
// It holds no per-check state and is safe for concurrent use.
type SchemaChecker struct {
	name         string
	mandatory    *schema.Schema
	nonMandatory *schema.Schema
	hooks        Hooks
	logger       *slog.Logger
}

// Option defines a functional option for configuring the SchemaChecker.
type Option func(*SchemaChecker)

// WithName labels the checker in logs and check events.
func WithName(name string) Option {
	return func(c *SchemaChecker) {
		c.name = name
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks Hooks) Option {
	return func(c *SchemaChecker) {
		c.hooks = c.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the checker.
func WithLogger(logger *slog.Logger) Option {
	return func(c *SchemaChecker) {
		c.logger = logger
	}
}

// New creates a SchemaChecker. Either schema may be nil, meaning no
// constraint of that kind. Schemas are stored by reference and must not be
// changed afterwards.
func New(mandatory, nonMandatory *schema.Schema, opts ...Option) *SchemaChecker {
	c := &SchemaChecker{
		mandatory:    mandatory,
		nonMandatory: nonMandatory,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.name != "" {
		c.logger = c.logger.With("schema", c.name)
	}

	return c
}

// Name returns the label given with WithName.
func (c *SchemaChecker) Name() string { return c.name }

// Mandatory returns the mandatory schema, or nil.
func (c *SchemaChecker) Mandatory() *schema.Schema { return c.mandatory }

// NonMandatory returns the non-mandatory schema, or nil.
func (c *SchemaChecker) NonMandatory() *schema.Schema { return c.nonMandatory }

// CheckHasPayload fails with NO_PAYLOAD when payload is falsy (see schema.IsFalsy).
func (c *SchemaChecker) CheckHasPayload(payload any) error {
	return c.observe(StagePayload, func() error {
		if schema.IsFalsy(payload) {
			return &schema.Error{Code: schema.CodeNoPayload}
		}
		return nil
	})
}

// CheckHasMandatoryFields fails with NOT_CONTAIN_MANDATORY_FIELD on the first
// mandatory field, in declaration order, that is not a key of payload.
// It always succeeds when no mandatory schema is configured.
func (c *SchemaChecker) CheckHasMandatoryFields(payload schema.Payload) error {
	return c.observe(StageMandatoryFields, func() error {
		if c.mandatory == nil {
			return nil
		}
		return schema.RequireFields(c.mandatory, payload)
	})
}

// CheckHasAppropriateSchema checks field types, mandatory fields first, and
// fails with DATA_TYPE_NOT_MATCH on the first mismatch.
//
// Mandatory fields must match even when absent, so calling this without
// CheckHasMandatoryFields reports a missing field as a type mismatch.
// Non-mandatory fields may be Undefined.
func (c *SchemaChecker) CheckHasAppropriateSchema(payload schema.Payload) error {
	return c.observe(StageSchema, func() error {
		if c.mandatory != nil {
			if err := schema.Conform(c.mandatory, payload, schema.Required); err != nil {
				return err
			}
		}
		if c.nonMandatory != nil {
			if err := schema.Conform(c.nonMandatory, payload, schema.Optional); err != nil {
				return err
			}
		}
		return nil
	})
}

// Check runs CheckHasPayload, CheckHasMandatoryFields and
// CheckHasAppropriateSchema in that order and returns the first failure.
// A truthy payload that is not a map with string keys fails with
// DATA_TYPE_NOT_MATCH.
func (c *SchemaChecker) Check(payload any) error {
	if err := c.CheckHasPayload(payload); err != nil {
		return err
	}

	p, ok := AsPayload(payload)
	if !ok {
		return c.observe(StageSchema, func() error {
			return &schema.Error{
				Code:     schema.CodeTypeMismatch,
				Expected: string(schema.TagObject),
				Got:      schema.TypeOf(payload),
			}
		})
	}

	if err := c.CheckHasMandatoryFields(p); err != nil {
		return err
	}
	return c.CheckHasAppropriateSchema(p)
}

// AsPayload converts maps with string keys to a Payload without copying
// when possible.
func AsPayload(v any) (schema.Payload, bool) {
	switch p := v.(type) {
	case schema.Payload:
		return p, true
	case map[string]any:
		return p, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(schema.Payload, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func (c *SchemaChecker) observe(stage Stage, check func() error) error {
	start := time.Now()
	err := check()

	if err != nil {
		c.logger.Debug("payload check failed", "stage", stage, "error", err)
	}

	if c.hooks.OnCheck != nil {
		c.hooks.OnCheck(&CheckEvent{
			Checker:  c.name,
			Stage:    stage,
			Err:      err,
			Code:     schema.CodeOf(err),
			Field:    schema.FieldOf(err),
			Duration: time.Since(start),
		})
	}

	return err
}
