// Package codec centralizes document-body encoding.
//
// The lookup path treats the wire encoding of documents as a pluggable
// collaborator: a codec turns a raw _source body into the decoded form the
// row mapper consumes. The configured codec identifier is resolved once at
// plan time via ByName.
package codec

import "fmt"

// Codec encodes/decodes document bodies.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// This resolves the deserialization codec identifier from the connector
// configuration.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for internal tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
