package model

import (
	"fmt"
	"strings"
)

// Type is the logical type of a row field.
//
// Each logical type has a fixed internal representation:
//
//	TypeString    string
//	TypeBoolean   bool
//	TypeInteger   int64
//	TypeFloat     float64
//	TypeTimestamp int64 (milliseconds since the Unix epoch, UTC)
//	TypeDate      int32 (days since the Unix epoch)
type Type int

const (
	TypeString Type = iota
	TypeBoolean
	TypeInteger
	TypeFloat
	TypeTimestamp
	TypeDate
)

// String returns the lowercase name of the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeTimestamp:
		return "timestamp"
	case TypeDate:
		return "date"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Temporal reports whether the type carries date/time semantics.
func (t Type) Temporal() bool {
	return t == TypeTimestamp || t == TypeDate
}

// Field is a named, typed slot in a physical row.
type Field struct {
	Name string
	Type Type
}

// Schema is the ordered physical layout of a row.
// It is immutable after construction.
type Schema struct {
	fields []Field
	byName map[string]int
}

// NewSchema builds a schema from the given fields.
// Field names must be non-empty and unique.
func NewSchema(fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("model: schema must have at least one field")
	}
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return nil, fmt.Errorf("model: field %d has an empty name", i)
		}
		if _, ok := byName[f.Name]; ok {
			return nil, fmt.Errorf("model: duplicate field name %q", f.Name)
		}
		byName[f.Name] = i
	}
	s := &Schema{
		fields: append([]Field(nil), fields...),
		byName: byName,
	}
	return s, nil
}

// MustSchema builds a schema, panicking on error. Intended for tests and
// static schema declarations.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the field at position i.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Index returns the position of the named field.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}

// FieldNames returns the field names in declaration order.
// The returned slice is a copy.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Row is a positional value container holding fields in their internal
// representation. A nil value represents SQL NULL.
type Row struct {
	values []any
}

// NewRow builds a row from positional values.
func NewRow(values ...any) Row {
	return Row{values: values}
}

// Len returns the number of values in the row.
func (r Row) Len() int { return len(r.values) }

// Value returns the internal value at position i.
func (r Row) Value(i int) any { return r.values[i] }
