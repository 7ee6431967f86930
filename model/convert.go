package model

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	millisPerDay    = int64(24 * time.Hour / time.Millisecond)
	timestampLayout = time.RFC3339Nano
)

// ConversionError indicates that a value does not match the internal
// representation of its declared logical type. This is an upstream schema
// mismatch, not a runtime condition to recover from.
type ConversionError struct {
	Field string // optional; set when the failing field is known
	Type  Type
	Value any
}

func (e *ConversionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("field %q: cannot convert %T value to %s", e.Field, e.Value, e.Type)
	}
	return fmt.Sprintf("cannot convert %T value to %s", e.Value, e.Type)
}

// External converts an internal value to an externally comparable value:
//
//	TypeString    -> string
//	TypeBoolean   -> bool
//	TypeInteger   -> int64
//	TypeFloat     -> float64
//	TypeTimestamp -> time.Time (UTC)
//	TypeDate      -> string ("2006-01-02")
//
// A nil input stays nil. Any other representation mismatch returns a
// *ConversionError.
func External(t Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeInteger:
		if n, ok := asInt64(v); ok {
			return n, nil
		}
	case TypeFloat:
		switch f := v.(type) {
		case float64:
			return f, nil
		case float32:
			return float64(f), nil
		}
	case TypeTimestamp:
		if ms, ok := asInt64(v); ok {
			return time.UnixMilli(ms).UTC(), nil
		}
	case TypeDate:
		if days, ok := asInt64(v); ok {
			return time.UnixMilli(days * millisPerDay).UTC().Format(dateLayout), nil
		}
	}
	return nil, &ConversionError{Type: t, Value: v}
}

// FormatValue renders an internal value as a string, e.g. for use inside a
// resolved index name. The rendering is the string form of the external
// value.
func FormatValue(t Type, v any) (string, error) {
	ext, err := External(t, v)
	if err != nil {
		return "", err
	}
	switch x := ext.(type) {
	case nil:
		return "null", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case float64:
		// Fixed-point, never exponent notation: "1e+06" is not a usable
		// index-name fragment.
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case time.Time:
		return x.Format(timestampLayout), nil
	default:
		return fmt.Sprint(x), nil
	}
}

// RowFromDocument maps a decoded document body onto the schema, converting
// JSON-decoded values into the internal row representation. Fields absent
// from the document become nil. A value that cannot be coerced to its
// declared type returns a *ConversionError.
func RowFromDocument(schema *Schema, doc map[string]any) (Row, error) {
	values := make([]any, schema.Len())
	for i := 0; i < schema.Len(); i++ {
		f := schema.Field(i)
		raw, ok := doc[f.Name]
		if !ok || raw == nil {
			values[i] = nil
			continue
		}
		v, err := internalFromJSON(f.Type, raw)
		if err != nil {
			return Row{}, &ConversionError{Field: f.Name, Type: f.Type, Value: raw}
		}
		values[i] = v
	}
	return NewRow(values...), nil
}

func internalFromJSON(t Type, raw any) (any, error) {
	switch t {
	case TypeString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case TypeBoolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case TypeInteger:
		switch n := raw.(type) {
		case float64:
			if n == math.Trunc(n) {
				return int64(n), nil
			}
		case string:
			if i, err := strconv.ParseInt(n, 10, 64); err == nil {
				return i, nil
			}
		}
	case TypeFloat:
		if f, ok := raw.(float64); ok {
			return f, nil
		}
	case TypeTimestamp:
		switch ts := raw.(type) {
		case float64:
			return int64(ts), nil
		case string:
			if t, err := time.Parse(timestampLayout, ts); err == nil {
				return t.UnixMilli(), nil
			}
		}
	case TypeDate:
		switch d := raw.(type) {
		case float64:
			return int32(d), nil
		case string:
			if t, err := time.Parse(dateLayout, d); err == nil {
				return int32(t.UnixMilli() / millisPerDay), nil
			}
		}
	}
	return nil, fmt.Errorf("model: %T is not a valid %s", raw, t)
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}
