// Package schema provides the table schema model and type inference
// over delimited-text samples.
package schema

import (
	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/table"
)

// Field describes a single column: its name, semantic type and whether
// null (blank) cells were observed or are allowed.
type Field struct {
	Name     string     `json:"name" yaml:"name"`
	Type     table.Type `json:"-" yaml:"-"`
	TypeName string     `json:"type" yaml:"type"`
	Nullable bool       `json:"nullable" yaml:"nullable"`
}

// Schema defines the structure of a table.
type Schema struct {
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields" yaml:"fields"`
}

// NewField creates a field with a resolved type name.
func NewField(name string, t table.Type, nullable bool) Field {
	return Field{Name: name, Type: t, TypeName: t.String(), Nullable: nullable}
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Validate checks the schema for empty or duplicate field names.
func (s *Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return errors.New(errors.ErrorTypeConfig, "schema field with empty name")
		}
		if _, dup := seen[f.Name]; dup {
			return errors.Newf(errors.ErrorTypeDuplicateName, "schema field %q declared twice", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
