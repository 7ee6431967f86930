// Package project maps lookup-key rows into the (field name, external value)
// pairs that drive query construction.
package project

import (
	"fmt"

	"github.com/hupe1980/eslookup/model"
)

// KeyValue is one projected key field.
type KeyValue struct {
	Field string
	Value any
}

type keyEntry struct {
	index int
	name  string
	typ   model.Type
}

// KeySpec is the resolved lookup-key declaration: for each declared key
// field, its row position, name and logical type, in declaration order.
// The order drives the order of query clauses and must match the order of
// values supplied at lookup time. KeySpec is immutable after construction.
type KeySpec struct {
	entries []keyEntry
}

// NewKeySpec resolves the declared key field names against the physical
// schema. At least one key field is required and every name must reference
// an existing field.
func NewKeySpec(schema *model.Schema, keyFields []string) (*KeySpec, error) {
	if len(keyFields) == 0 {
		return nil, fmt.Errorf("project: at least one lookup-key field is required")
	}
	entries := make([]keyEntry, len(keyFields))
	for i, name := range keyFields {
		idx, ok := schema.Index(name)
		if !ok {
			return nil, fmt.Errorf("project: lookup-key field %q does not exist in the physical schema", name)
		}
		entries[i] = keyEntry{index: idx, name: name, typ: schema.Field(idx).Type}
	}
	return &KeySpec{entries: entries}, nil
}

// Len returns the number of declared key fields.
func (ks *KeySpec) Len() int { return len(ks.entries) }

// FieldNames returns the key field names in declaration order.
func (ks *KeySpec) FieldNames() []string {
	names := make([]string, len(ks.entries))
	for i, e := range ks.entries {
		names[i] = e.name
	}
	return names
}

// Project extracts and converts the key values from the row. It always
// returns exactly Len() pairs in declaration order. A value that does not
// match its declared type returns a *model.ConversionError; this indicates
// an upstream schema mismatch and must abort the task rather than be masked.
func (ks *KeySpec) Project(row model.Row) ([]KeyValue, error) {
	out := make([]KeyValue, len(ks.entries))
	for i, e := range ks.entries {
		if e.index >= row.Len() {
			return nil, &model.ConversionError{Field: e.name, Type: e.typ}
		}
		ext, err := model.External(e.typ, row.Value(e.index))
		if err != nil {
			if ce, ok := err.(*model.ConversionError); ok {
				ce.Field = e.name
			}
			return nil, err
		}
		out[i] = KeyValue{Field: e.name, Value: ext}
	}
	return out, nil
}
