// Package hci decodes HCI transport packets [Vol 4, Part E, 5.4]: commands,
// events and the ACL, SCO and ISO data packets. ACL payloads are handed to
// the l2cap package together with the session.
//
// The packet type travels out of band. Buffers start at the HCI header; an H4
// stream is split and stripped of its indicator bytes by the capture package.
package hci

import (
	"encoding/binary"

	"github.com/rigado/dissect/dispatch"
	"github.com/rigado/dissect/field"
	"github.com/rigado/dissect/session"
)

var packetTypes = dispatch.Table[*session.Session]{
	Variants: map[uint32]dispatch.Variant[*session.Session]{
		uint32(PktTypeCommand): {Name: "HCI_Command", Decode: decodeCommand},
		uint32(PktTypeACLData): {Name: "HCI_ACL_Data", Decode: decodeACL},
		uint32(PktTypeSCOData): {Name: "HCI_SCO_Data", Decode: decodeSCO},
		uint32(PktTypeEvent):   {Name: "HCI_Event", Decode: decodeEvent},
		uint32(PktTypeISOData): {Name: "HCI_ISO_Data", Decode: decodeISO},
	},
}

func (pt PacketType) String() string {
	if v, ok := packetTypes.Lookup(uint32(pt)); ok {
		return v.Name
	}
	return dispatch.Undefined
}

// Decode decodes one complete HCI packet of type pt. s carries the L2CAP
// channels seen so far and is updated by signaling traffic; it may be nil.
//
// An undefined packet type yields an Undefined node holding the type, marked
// Error, and the buffer as raw Data.
func Decode(pt PacketType, b []byte, s *session.Session) *field.Node {
	v, ok := packetTypes.Lookup(uint32(pt))
	if !ok {
		n := field.NewNode(dispatch.Undefined)
		n.Add(field.Field{
			Key:    "Packet_Type",
			Value:  field.Hex(uint64(pt)),
			Loc:    field.Bytes(0, 0),
			Status: field.StatusError,
		})
		field.NewCursor(n, b, 0).Remainder("Data")
		return n
	}

	n := field.NewNode(v.Name)
	c := field.NewCursor(n, b, 0)
	v.Decode(c, s, dispatch.Match{Value: uint32(pt)})
	trailing(c)
	return n
}

// trailing reports bytes left after the packet's own length said it ended.
func trailing(c *field.Cursor) {
	if c.Len() > 0 {
		c.Remainder("Trailing_Data")
		c.Check(false)
	}
}

// handle reads the 2 byte handle and flags word shared by the data packets,
// adding the 12 bit handle. The raw word is returned for the flag bits.
func handle(c *field.Cursor, key string) (uint16, uint32, bool) {
	b, at, ok := c.Take(key, 2)
	if !ok {
		return 0, 0, false
	}
	w := binary.LittleEndian.Uint16(b)
	c.Bits(key, field.Bits(at, 2, 0, 12), uint64(w&0x0fff))
	c.Check(w&0x0fff <= 0x0eff)
	return w, at, true
}

// flag adds the two bit flag at bits 12-13 or 14-15 of a handle word and names it.
func flag(c *field.Cursor, key string, at uint32, w uint16, shift uint8, names map[uint8]string) uint8 {
	v := uint8(w>>shift) & 0x3
	c.Bits(key, field.Bits(at+1, 1, shift-8, 2), uint64(v))
	c.Name(names[v])
	return v
}
