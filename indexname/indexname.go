// Package indexname resolves the target index name for a row.
//
// An index-name pattern mixes literal text with dynamic segments:
//
//	users                    static
//	users-{region}           field-reference segment
//	logs-{ts|yyyy.MM.dd}     time segment (formats the reference time)
//	a{{b}}c                  escaped braces, resolves to "a{b}c"
//
// Patterns are compiled once against the physical row schema; resolution is
// a pure function of (row, reference time, zone) and performs no I/O.
package indexname

import (
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/eslookup/model"
)

// PatternError reports a malformed pattern or a dynamic segment that cannot
// be bound to the schema.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("index pattern %q: %s", e.Pattern, e.Reason)
}

type segmentKind uint8

const (
	segmentLiteral segmentKind = iota
	segmentField
	segmentTime
)

// segment is one compiled unit of the pattern. Exactly the fields for its
// kind are populated.
type segment struct {
	kind       segmentKind
	literal    string
	fieldIndex int
	fieldName  string
	fieldType  model.Type
	layout     string // Go time layout, time segments only
}

// Pattern is the compiled representation of an index-name pattern.
// It is immutable and safe for concurrent use.
type Pattern struct {
	raw      string
	segments []segment
	static   bool
}

// Compile parses the pattern and binds dynamic segments against the schema.
// It returns a *PatternError if a segment references an unknown field, a
// time segment references a non-temporal field, or the date-format syntax
// is malformed.
func Compile(pattern string, schema *model.Schema) (*Pattern, error) {
	if pattern == "" {
		return nil, &PatternError{Pattern: pattern, Reason: "pattern must not be empty"}
	}

	var (
		segments []segment
		literal  strings.Builder
		static   = true
	)
	flush := func() {
		if literal.Len() > 0 {
			segments = append(segments, segment{kind: segmentLiteral, literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '{':
			if i+1 < len(pattern) && pattern[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(pattern[i:], '}')
			if end < 0 {
				return nil, &PatternError{Pattern: pattern, Reason: fmt.Sprintf("unterminated '{' at position %d", i)}
			}
			seg, err := compileDynamic(pattern, pattern[i+1:i+end], schema)
			if err != nil {
				return nil, err
			}
			flush()
			segments = append(segments, seg)
			static = false
			i += end
		case '}':
			if i+1 < len(pattern) && pattern[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return nil, &PatternError{Pattern: pattern, Reason: fmt.Sprintf("unmatched '}' at position %d", i)}
		default:
			literal.WriteByte(c)
		}
	}
	flush()

	return &Pattern{raw: pattern, segments: segments, static: static}, nil
}

func compileDynamic(pattern, body string, schema *model.Schema) (segment, error) {
	name, format, hasFormat := strings.Cut(body, "|")
	if name == "" {
		return segment{}, &PatternError{Pattern: pattern, Reason: "dynamic segment has an empty field name"}
	}
	idx, ok := schema.Index(name)
	if !ok {
		return segment{}, &PatternError{Pattern: pattern, Reason: fmt.Sprintf("field %q does not exist in the schema", name)}
	}
	typ := schema.Field(idx).Type

	if !hasFormat {
		return segment{kind: segmentField, fieldIndex: idx, fieldName: name, fieldType: typ}, nil
	}

	if !typ.Temporal() {
		return segment{}, &PatternError{
			Pattern: pattern,
			Reason:  fmt.Sprintf("field %q has type %s; date formats require a timestamp or date field", name, typ),
		}
	}
	layout, err := convertDateFormat(format)
	if err != nil {
		return segment{}, &PatternError{Pattern: pattern, Reason: err.Error()}
	}
	return segment{kind: segmentTime, fieldIndex: idx, fieldName: name, fieldType: typ, layout: layout}, nil
}

// Raw returns the original pattern string.
func (p *Pattern) Raw() string { return p.raw }

// Static reports whether the pattern contains no dynamic segments, i.e.
// Resolve returns the same name for every row and reference time.
func (p *Pattern) Static() bool { return p.static }

// Resolve produces the concrete index name for the row. Time segments render
// now converted to zone; field-reference segments render the row's value.
//
// Compile validated all field references, so an error here indicates a row
// that does not conform to the schema.
func (p *Pattern) Resolve(row model.Row, now time.Time, zone *time.Location) (string, error) {
	if p.static {
		return p.raw, nil
	}
	if zone == nil {
		zone = time.Local
	}

	var b strings.Builder
	b.Grow(len(p.raw))
	for _, seg := range p.segments {
		switch seg.kind {
		case segmentLiteral:
			b.WriteString(seg.literal)
		case segmentField:
			if seg.fieldIndex >= row.Len() {
				return "", &model.ConversionError{Field: seg.fieldName, Type: seg.fieldType}
			}
			s, err := model.FormatValue(seg.fieldType, row.Value(seg.fieldIndex))
			if err != nil {
				return "", fmt.Errorf("indexname: segment {%s}: %w", seg.fieldName, err)
			}
			b.WriteString(s)
		case segmentTime:
			b.WriteString(now.In(zone).Format(seg.layout))
		}
	}
	return b.String(), nil
}
