package field

import (
	"encoding/binary"
	"fmt"
)

// Cursor walks a window of the top-level buffer, appending a field to its node
// for every value it reads. base is the absolute offset of the window's first
// byte, so every location a cursor emits is absolute.
//
// A read past the end of the window appends one Error field describing the
// shortfall and consumes the rest of the window; later reads on the same
// cursor fail without adding fields.
type Cursor struct {
	node  *Node
	buf   []byte
	base  uint32
	off   int
	short bool
}

// NewCursor returns a cursor over b, whose first byte sits at offset base of
// the top-level buffer, adding fields to n.
func NewCursor(n *Node, b []byte, base uint32) *Cursor {
	return &Cursor{node: n, buf: b, base: base}
}

// Node returns the node fields are added to.
func (c *Cursor) Node() *Node { return c.node }

// Pos returns the absolute offset of the next unread byte.
func (c *Cursor) Pos() uint32 { return c.base + uint32(c.off) }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return len(c.buf) - c.off }

// Rest returns the unread bytes without consuming them.
func (c *Cursor) Rest() []byte { return c.buf[c.off:] }

// Short reports whether a read on this cursor ran out of bytes.
func (c *Cursor) Short() bool { return c.short }

// Peek returns the next n bytes without consuming them.
func (c *Cursor) Peek(n int) ([]byte, bool) {
	if c.short || n > c.Len() {
		return nil, false
	}
	return c.buf[c.off : c.off+n], true
}

// Skip consumes up to n bytes without adding a field.
func (c *Cursor) Skip(n int) {
	if n > c.Len() {
		n = c.Len()
	}
	c.off += n
}

// Sub consumes up to n bytes and returns a cursor over them that adds fields
// to the same node. When fewer than n bytes are left the sub cursor covers
// what remains; reading past it reports the shortfall there.
func (c *Cursor) Sub(n int) *Cursor {
	if n > c.Len() {
		n = c.Len()
	}
	sub := &Cursor{node: c.node, buf: c.buf[c.off : c.off+n], base: c.Pos()}
	c.off += n
	return sub
}

// Truncated records that key needed want bytes where fewer were left, and
// consumes the rest of the window.
func (c *Cursor) Truncated(key string, want int) {
	if c.short {
		return
	}
	have := c.Len()
	c.node.Add(Field{
		Key:    key,
		Value:  fmt.Sprintf("truncated: want %d, have %d", want, have),
		Loc:    Bytes(c.Pos(), have),
		Status: StatusError,
	})
	c.off = len(c.buf)
	c.short = true
}

// Take consumes n raw bytes without adding a field, returning them and their
// absolute start. A shortfall is reported under key.
func (c *Cursor) Take(key string, n int) ([]byte, uint32, bool) {
	if c.short {
		return nil, 0, false
	}
	if n > c.Len() {
		c.Truncated(key, n)
		return nil, 0, false
	}
	at := c.Pos()
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, at, true
}

func (c *Cursor) read(key string, n int, v func([]byte) uint64) (uint64, bool) {
	b, at, ok := c.Take(key, n)
	if !ok {
		return 0, false
	}
	x := v(b)
	c.node.Add(Field{Key: key, Value: Hex(x), Loc: Bytes(at, n)})
	return x, true
}

// Uint8 reads a one byte field.
func (c *Cursor) Uint8(key string) (uint8, bool) {
	v, ok := c.read(key, 1, func(b []byte) uint64 { return uint64(b[0]) })
	return uint8(v), ok
}

// Uint16 reads a two byte little-endian field.
func (c *Cursor) Uint16(key string) (uint16, bool) {
	v, ok := c.read(key, 2, func(b []byte) uint64 { return uint64(binary.LittleEndian.Uint16(b)) })
	return uint16(v), ok
}

// Uint16BE reads a two byte big-endian field.
func (c *Cursor) Uint16BE(key string) (uint16, bool) {
	v, ok := c.read(key, 2, func(b []byte) uint64 { return uint64(binary.BigEndian.Uint16(b)) })
	return uint16(v), ok
}

// Uint24 reads a three byte little-endian field.
func (c *Cursor) Uint24(key string) (uint32, bool) {
	v, ok := c.read(key, 3, func(b []byte) uint64 {
		return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16
	})
	return uint32(v), ok
}

// Uint32 reads a four byte little-endian field.
func (c *Cursor) Uint32(key string) (uint32, bool) {
	v, ok := c.read(key, 4, func(b []byte) uint64 { return uint64(binary.LittleEndian.Uint32(b)) })
	return uint32(v), ok
}

// Bytes reads an n byte field rendered as hex.
func (c *Cursor) Bytes(key string, n int) ([]byte, bool) {
	b, at, ok := c.Take(key, n)
	if !ok {
		return nil, false
	}
	c.node.Add(Field{Key: key, Value: HexBytes(b), Loc: Bytes(at, n)})
	return b, true
}

// Remainder consumes whatever is left as one raw field. Nothing is added when
// the window is already exhausted.
func (c *Cursor) Remainder(key string) []byte {
	if c.short || c.Len() == 0 {
		return nil
	}
	b, _ := c.Bytes(key, c.Len())
	return b
}

// Emit adds a field that was not read through the cursor, such as a value
// derived from session state or a bit field of bytes already taken.
func (c *Cursor) Emit(key, value string, loc Location) {
	c.node.Add(Field{Key: key, Value: value, Loc: loc})
}

// Bits adds a bit field of bytes already consumed with Take.
func (c *Cursor) Bits(key string, loc Location, v uint64) {
	c.Emit(key, Hex(v), loc)
}

// Annotate attaches a symbolic name to the last field without judging it.
func (c *Cursor) Annotate(name string) {
	if f := c.node.Last(); f != nil && !f.Marker() {
		f.Name = name
	}
}

// Name attaches a symbolic name to the last field. An empty name means the
// raw value is not a known enumeration and marks the field Error.
func (c *Cursor) Name(name string) {
	c.Annotate(name)
	c.Check(name != "")
}

// Check marks the last field Error unless ok.
func (c *Cursor) Check(ok bool) {
	if f := c.node.Last(); f != nil && !ok && !f.Marker() {
		f.Status = StatusError
	}
}
