// Package dispatch implements the decode step every protocol layer repeats:
// read a fixed-width discriminant at the front of a window, pick the decoder
// registered for its value, annotate the discriminant and hand the rest of the
// window to that decoder.
//
// The per-layer discriminant tables are plain data. A value missing from a
// table resolves to the Undefined variant, which has no name and decodes
// nothing, so unknown or future wire values never stop a decode.
package dispatch

import (
	"encoding/binary"

	"github.com/rigado/dissect/field"
)

// Undefined is the type name given to nodes whose discriminant is not known.
const Undefined = "Undefined"

// Match is the discriminant that selected a variant.
type Match struct {
	Value uint32
	Loc   field.Location
}

// Func decodes the bytes that follow a discriminant. ctx carries whatever
// state the layer threads through, typically the analysis session.
type Func[C any] func(c *field.Cursor, ctx C, m Match)

// Variant is one arm of a table.
type Variant[C any] struct {
	Name   string
	Decode Func[C]
}

// Range maps an inclusive span of discriminant values to one variant.
type Range[C any] struct {
	Lo, Hi uint32
	Variant[C]
}

// Table maps discriminant values to variants. Fallback, when set, runs for
// values with no variant; it is how a layer still walks its own framing
// (a length field, say) around a payload it cannot interpret.
type Table[C any] struct {
	Variants map[uint32]Variant[C]
	Ranges   []Range[C]
	Fallback Func[C]
}

// Lookup resolves d, trying exact values before ranges. ok is false for the
// Undefined variant.
func (t *Table[C]) Lookup(d uint32) (v Variant[C], ok bool) {
	if t == nil {
		return v, false
	}
	if v, ok = t.Variants[d]; ok {
		return v, true
	}
	for _, r := range t.Ranges {
		if d >= r.Lo && d <= r.Hi {
			return r.Variant, true
		}
	}
	return v, false
}

// Name returns the symbolic name for d, empty when d is unknown.
func (t *Table[C]) Name(d uint32) string {
	v, _ := t.Lookup(d)
	return v.Name
}

// Discriminant describes where a layer keeps its selector.
type Discriminant struct {
	Key       string
	Width     int // 1, 2 or 3 bytes
	BigEndian bool
	// Mask, when non-zero, is applied to the value before lookup. The rendered
	// value stays raw.
	Mask uint32
}

func (d Discriminant) value(b []byte) uint32 {
	switch d.Width {
	case 1:
		return uint32(b[0])
	case 2:
		if d.BigEndian {
			return uint32(binary.BigEndian.Uint16(b))
		}
		return uint32(binary.LittleEndian.Uint16(b))
	default:
		if d.BigEndian {
			return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		}
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	}
}

// Dispatch reads d at the front of c, adds it as a field named after the
// variant it selects, advances past it and runs the variant's decoder on the
// rest of c. An unknown value gets an empty name (so the field is marked
// Error) and runs t.Fallback if there is one. A window shorter than the
// discriminant reports the shortfall and returns the Undefined variant.
func Dispatch[C any](c *field.Cursor, ctx C, d Discriminant, t *Table[C]) (Match, Variant[C], bool) {
	b, at, ok := c.Take(d.Key, d.Width)
	if !ok {
		return Match{}, Variant[C]{}, false
	}

	m := Match{Value: d.value(b), Loc: field.Bytes(at, d.Width)}
	key := m.Value
	if d.Mask != 0 {
		key &= d.Mask
	}

	v, found := t.Lookup(key)
	c.Emit(d.Key, field.Hex(uint64(m.Value)), m.Loc)
	c.Name(v.Name)

	switch {
	case v.Decode != nil:
		v.Decode(c, ctx, m)
	case !found && t.Fallback != nil:
		t.Fallback(c, ctx, m)
	}
	return m, v, found
}

// Framed wraps fn for layers that put a length field of width bytes between
// the discriminant and the body: fn only sees the body. A length longer than
// what is left marks the length field Error. Body bytes fn does not consume are
// reported raw under "Data", marked Error when fn was expected to consume
// them.
func Framed[C any](lengthKey string, width int, fn Func[C]) Func[C] {
	return func(c *field.Cursor, ctx C, m Match) {
		var n int
		switch width {
		case 1:
			v, ok := c.Uint8(lengthKey)
			if !ok {
				return
			}
			n = int(v)
		default:
			v, ok := c.Uint16(lengthKey)
			if !ok {
				return
			}
			n = int(v)
		}
		c.Check(n <= c.Len())

		body := c.Sub(n)
		if fn != nil {
			fn(body, ctx, m)
		}
		if body.Len() > 0 {
			body.Remainder("Data")
			body.Check(fn == nil)
		}
	}
}
