package schema

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Necessity is the validation tier of a field.
type Necessity string

const (
	Required  Necessity = "required"
	Preferred Necessity = "preferred"
	Optional  Necessity = "optional"
)

// Rank orders tiers for display: required, preferred, optional.
func (n Necessity) Rank() int {
	switch n {
	case Required:
		return 1
	case Preferred:
		return 2
	default:
		return 3
	}
}

// FieldType is the declared type of a field's values.
type FieldType string

const (
	String  FieldType = "string"
	Float   FieldType = "float"
	Integer FieldType = "integer"
)

// Bounds are inclusive numeric limits. A nil side is unbounded.
type Bounds struct {
	Min *float64 `yaml:"min,omitempty" json:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty" json:"max,omitempty"`
}

// Contains reports whether x lies within the bounds.
func (b *Bounds) Contains(x float64) bool {
	if b == nil {
		return true
	}
	if b.Min != nil && x < *b.Min {
		return false
	}
	if b.Max != nil && x > *b.Max {
		return false
	}
	return true
}

// FieldDefinition declares one feed field. Definitions are never mutated after load.
type FieldDefinition struct {
	Name        string    `yaml:"name" json:"name"`
	Necessity   Necessity `yaml:"necessity" json:"necessity"`
	Type        FieldType `yaml:"type" json:"type"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Validation  *Bounds   `yaml:"validation,omitempty" json:"validation,omitempty"`
	Aliases     []string  `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Catalog is a versioned, read-only list of field definitions.
type Catalog struct {
	Version string            `yaml:"version" json:"version"`
	Fields  []FieldDefinition `yaml:"fields" json:"fields"`
}

// ErrEmptyCatalog indicates a catalog without fields.
var ErrEmptyCatalog = errors.New("catalog has no fields")

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(b)
}

// ParseCatalog decodes and checks a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Check(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return b, nil
}

// Check verifies tiers and types are known and that every name and alias resolves to
// exactly one field.
func (c *Catalog) Check() error {
	if c == nil || len(c.Fields) == 0 {
		return ErrEmptyCatalog
	}
	owner := make(map[string]string)
	claim := func(key, field string) error {
		if prev, ok := owner[key]; ok {
			return fmt.Errorf("catalog: %q claimed by both %q and %q", key, prev, field)
		}
		owner[key] = field
		return nil
	}
	for _, f := range c.Fields {
		if f.Name == "" {
			return errors.New("catalog: field with empty name")
		}
		switch f.Necessity {
		case Required, Preferred, Optional:
		default:
			return fmt.Errorf("catalog: field %q has unknown necessity %q", f.Name, f.Necessity)
		}
		switch f.Type {
		case String, Float, Integer:
		default:
			return fmt.Errorf("catalog: field %q has unknown type %q", f.Name, f.Type)
		}
		if err := claim(f.Name, f.Name); err != nil {
			return err
		}
		for _, a := range f.Aliases {
			if err := claim(a, f.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Field looks up a definition by canonical name.
func (c *Catalog) Field(name string) (FieldDefinition, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// Names lists canonical names in catalog order, optionally restricted to the given tiers.
func (c *Catalog) Names(tiers ...Necessity) []string {
	var out []string
	for _, f := range c.Fields {
		if len(tiers) == 0 || containsTier(tiers, f.Necessity) {
			out = append(out, f.Name)
		}
	}
	return out
}

// Sorted returns the definitions ordered by tier, keeping catalog order within a tier.
func (c *Catalog) Sorted() []FieldDefinition {
	out := append([]FieldDefinition(nil), c.Fields...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Necessity.Rank() < out[j].Necessity.Rank()
	})
	return out
}

// Known reports whether column is a canonical name or alias of some field.
func (c *Catalog) Known(column string) bool {
	for _, f := range c.Fields {
		if f.Name == column {
			return true
		}
		for _, a := range f.Aliases {
			if a == column {
				return true
			}
		}
	}
	return false
}

// Columns lists the header columns that carry field f, canonical name first.
// Matching is exact: no trimming or case folding. With CanonicalOnly the aliases are ignored.
func (c *Catalog) Columns(f FieldDefinition, headers map[string]struct{}, mode AliasMode) []string {
	var out []string
	if _, ok := headers[f.Name]; ok {
		out = append(out, f.Name)
	}
	if mode == CanonicalOnly {
		return out
	}
	for _, a := range f.Aliases {
		if _, ok := headers[a]; ok {
			out = append(out, a)
		}
	}
	return out
}

func containsTier(tiers []Necessity, n Necessity) bool {
	for _, t := range tiers {
		if t == n {
			return true
		}
	}
	return false
}
