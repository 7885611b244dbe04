package catalog

import (
	"errors"
	"fmt"

	schemachecker "github.com/bpkcongli/schema-checker"
	"github.com/bpkcongli/schema-checker/pkg/schema"
)

// ErrUnknownSchema is returned when no checker is registered under a name.
var ErrUnknownSchema = errors.New("unknown schema")

// FieldDef names a field and its type by name.
type FieldDef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Definition describes a named checker by type names.
// A nil field list means the schema is absent; an empty one declares no fields.
type Definition struct {
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Mandatory    []FieldDef `json:"mandatory"`
	NonMandatory []FieldDef `json:"non_mandatory"`
}

// Compile resolves the definition's type names against reg.
func (d Definition) Compile(reg *Registry) (mandatory, nonMandatory *schema.Schema, err error) {
	mandatory, err = compileFields(d.Mandatory, reg)
	if err != nil {
		return nil, nil, fmt.Errorf("schema %s: mandatory: %w", d.Name, err)
	}
	nonMandatory, err = compileFields(d.NonMandatory, reg)
	if err != nil {
		return nil, nil, fmt.Errorf("schema %s: non_mandatory: %w", d.Name, err)
	}
	return mandatory, nonMandatory, nil
}

func compileFields(defs []FieldDef, reg *Registry) (*schema.Schema, error) {
	if defs == nil {
		return nil, nil
	}
	fields := make([]schema.Field, 0, len(defs))
	for _, def := range defs {
		t, err := reg.Resolve(def.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", def.Name, err)
		}
		fields = append(fields, schema.F(def.Name, t))
	}
	return schema.New(fields...), nil
}

// Entry is a compiled checker together with its definition.
type Entry struct {
	Definition Definition
	Checker    *schemachecker.SchemaChecker
}

// Catalog holds named checkers. It is read-only after Build.
type Catalog struct {
	entries map[string]*Entry
	order   []string
}

// Build compiles every definition. opts are applied to each checker after
// WithName(def.Name).
func Build(defs []Definition, reg *Registry, opts ...schemachecker.Option) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]*Entry, len(defs))}

	for _, def := range defs {
		if def.Name == "" {
			return nil, errors.New("schema definition without a name")
		}
		if _, exists := c.entries[def.Name]; exists {
			return nil, fmt.Errorf("schema %s: defined twice", def.Name)
		}

		mandatory, nonMandatory, err := def.Compile(reg)
		if err != nil {
			return nil, err
		}

		checkerOpts := append([]schemachecker.Option{schemachecker.WithName(def.Name)}, opts...)
		c.entries[def.Name] = &Entry{
			Definition: def,
			Checker:    schemachecker.New(mandatory, nonMandatory, checkerOpts...),
		}
		c.order = append(c.order, def.Name)
	}

	return c, nil
}

// Get returns the checker registered under name.
func (c *Catalog) Get(name string) (*schemachecker.SchemaChecker, error) {
	e, err := c.Entry(name)
	if err != nil {
		return nil, err
	}
	return e.Checker, nil
}

// Entry returns the entry registered under name.
func (c *Catalog) Entry(name string) (*Entry, error) {
	if c != nil {
		if e, ok := c.entries[name]; ok {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrUnknownSchema)
}

// Names returns checker names in definition order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Entries returns all entries in definition order.
func (c *Catalog) Entries() []*Entry {
	if c == nil {
		return nil
	}
	out := make([]*Entry, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.entries[name])
	}
	return out
}
