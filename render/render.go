// Package render writes decode trees as JSON: a value object and a parallel
// location object carrying the same keys in the same order. Subtrees become
// nested objects.
package render

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rigado/dissect/field"
)

var (
	compact  = jsoniter.Config{}.Froze()
	indented = jsoniter.Config{IndentionStep: 2}.Froze()
)

type options struct {
	indent bool
}

// An Option configures the output.
type Option func(*options)

// Indent pretty prints the output.
func Indent(enable bool) Option {
	return func(o *options) {
		o.indent = enable
	}
}

func config(opts []Option) jsoniter.API {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.indent {
		return indented
	}
	return compact
}

// Value renders f the way the value object does, "value(name)".
func Value(f field.Field) string { return f.Annotated() }

// Location renders f the way the location object does, "(start,len)" with
// the bit range and a non-ok status appended.
func Location(f field.Field) string { return f.Where() }

// Values renders n as a JSON object of annotated values.
func Values(n *field.Node, opts ...Option) ([]byte, error) {
	return encode(config(opts), func(s *jsoniter.Stream) { object(s, n.Fields, Value) })
}

// Locations renders n as a JSON object of locations.
func Locations(n *field.Node, opts ...Option) ([]byte, error) {
	return encode(config(opts), func(s *jsoniter.Stream) { object(s, n.Fields, Location) })
}

// Document renders n as {"Type":…,"Values":{…},"Locations":{…}}.
func Document(n *field.Node, opts ...Option) ([]byte, error) {
	return encode(config(opts), func(s *jsoniter.Stream) { document(s, n) })
}

func encode(api jsoniter.API, fn func(*jsoniter.Stream)) ([]byte, error) {
	s := jsoniter.NewStream(api, nil, 512)
	fn(s)
	if s.Error != nil {
		return nil, errors.Wrap(s.Error, "can't render")
	}
	return append([]byte(nil), s.Buffer()...), nil
}

func document(s *jsoniter.Stream, n *field.Node) {
	s.WriteObjectStart()
	s.WriteObjectField("Type")
	s.WriteString(n.Type)
	s.WriteMore()
	s.WriteObjectField("Values")
	object(s, n.Fields, Value)
	s.WriteMore()
	s.WriteObjectField("Locations")
	object(s, n.Fields, Location)
	s.WriteObjectEnd()
}

// object writes fields as one JSON object, opening a nested object at every
// subtree start marker. Unbalanced markers are closed at the end.
func object(s *jsoniter.Stream, fields []field.Field, text func(field.Field) string) {
	s.WriteObjectStart()
	first, depth := true, 0
	for _, f := range fields {
		if f.Status == field.StatusSubtreeEnd {
			if depth > 0 {
				s.WriteObjectEnd()
				depth--
				first = false
			}
			continue
		}
		if !first {
			s.WriteMore()
		}
		first = false
		s.WriteObjectField(f.Key)
		if f.Status == field.StatusSubtreeStart {
			s.WriteObjectStart()
			depth++
			first = true
			continue
		}
		s.WriteString(text(f))
	}
	for ; depth >= 0; depth-- {
		s.WriteObjectEnd()
	}
}

// Encoder writes one document per line to a stream, the form a capture is
// rendered in.
type Encoder struct {
	s *jsoniter.Stream
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{s: jsoniter.NewStream(config(opts), w, 4096)}
}

// Encode writes n followed by a newline.
func (e *Encoder) Encode(n *field.Node) error {
	document(e.s, n)
	e.s.WriteRaw("\n")
	if err := e.s.Flush(); err != nil {
		return errors.Wrap(err, "can't write")
	}
	return nil
}
