// Package adv decodes advertising and scan response data, the AD structures
// carried by LE Advertising Reports [Core Specification Supplement, Part A].
package adv

import (
	"fmt"

	"github.com/rigado/dissect/dispatch"
	"github.com/rigado/dissect/field"
)

// https://www.bluetooth.org/en-us/specification/assigned-numbers/generic-access-profile
const (
	TypeFlags       = 0x01
	TypeUUID16Inc   = 0x02
	TypeUUID16Comp  = 0x03
	TypeUUID32Inc   = 0x04
	TypeUUID32Comp  = 0x05
	TypeUUID128Inc  = 0x06
	TypeUUID128Comp = 0x07
	TypeNameShort   = 0x08
	TypeNameComp    = 0x09
	TypeTxPower     = 0x0A
	TypeSol16       = 0x14
	TypeSol128      = 0x15
	TypeSvc16       = 0x16
	TypeSol32       = 0x1F
	TypeSvc32       = 0x20
	TypeSvc128      = 0x21
	TypeMfgData     = 0xFF
)

// MaxEIRPacketLength is the longest legacy advertising or scan response payload.
const MaxEIRPacketLength = 31

// pduRecord describes the body of one AD type.
type pduRecord struct {
	arrayElementSz int
	minSz          int
	svcDataUUIDSz  int
}

var adType = dispatch.Discriminant{Key: "Type", Width: 1}

var pduDecodeMap = dispatch.Table[pduRecord]{
	Variants: map[uint32]dispatch.Variant[pduRecord]{
		TypeFlags:       variant("Flags", pduRecord{0, 1, 0}, flags),
		TypeUUID16Inc:   variant("Incomplete List of 16-bit Service UUIDs", pduRecord{2, 2, 0}, uuids),
		TypeUUID16Comp:  variant("Complete List of 16-bit Service UUIDs", pduRecord{2, 2, 0}, uuids),
		TypeUUID32Inc:   variant("Incomplete List of 32-bit Service UUIDs", pduRecord{4, 4, 0}, uuids),
		TypeUUID32Comp:  variant("Complete List of 32-bit Service UUIDs", pduRecord{4, 4, 0}, uuids),
		TypeUUID128Inc:  variant("Incomplete List of 128-bit Service UUIDs", pduRecord{16, 16, 0}, uuids),
		TypeUUID128Comp: variant("Complete List of 128-bit Service UUIDs", pduRecord{16, 16, 0}, uuids),
		TypeNameShort:   variant("Shortened Local Name", pduRecord{0, 1, 0}, name),
		TypeNameComp:    variant("Complete Local Name", pduRecord{0, 1, 0}, name),
		TypeTxPower:     variant("Tx Power Level", pduRecord{0, 1, 0}, txPower),
		TypeSol16:       variant("List of 16-bit Service Solicitation UUIDs", pduRecord{2, 2, 0}, uuids),
		TypeSol32:       variant("List of 32-bit Service Solicitation UUIDs", pduRecord{4, 4, 0}, uuids),
		TypeSol128:      variant("List of 128-bit Service Solicitation UUIDs", pduRecord{16, 16, 0}, uuids),
		TypeSvc16:       variant("Service Data - 16-bit UUID", pduRecord{0, 2, 2}, serviceData),
		TypeSvc32:       variant("Service Data - 32-bit UUID", pduRecord{0, 4, 4}, serviceData),
		TypeSvc128:      variant("Service Data - 128-bit UUID", pduRecord{0, 16, 16}, serviceData),
		TypeMfgData:     variant("Manufacturer Specific Data", pduRecord{0, 2, 0}, mfgData),
	},
	Fallback: raw,
}

// variant binds a decoder to its record; the table's context is unused.
func variant(name string, rec pduRecord, fn dispatch.Func[pduRecord]) dispatch.Variant[pduRecord] {
	return dispatch.Variant[pduRecord]{
		Name: name,
		Decode: func(c *field.Cursor, _ pduRecord, m dispatch.Match) {
			c.Check(c.Len() >= rec.minSz)
			fn(c, rec, m)
		},
	}
}

// Decode decodes advertising data on its own.
func Decode(b []byte) *field.Node {
	n := field.NewNode("Advertising_Data")
	DecodeAt(field.NewCursor(n, b, 0))
	return n
}

// DecodeAt decodes the AD structures filling c, each in its own subtree. A
// zero length ends the significant part; what follows is reported as
// Padding.
func DecodeAt(c *field.Cursor) {
	for i := 1; c.Len() > 0 && !c.Short(); i++ {
		length, ok := c.Peek(1)
		if !ok {
			return
		}
		if length[0] == 0 {
			c.Remainder("Padding")
			return
		}

		c.Node().Begin(fmt.Sprintf("AD_%d", i), c.Pos())
		n, _ := c.Uint8("Length")
		c.Check(int(n) <= c.Len())
		dispatch.Dispatch(c.Sub(int(n)), pduRecord{}, adType, &pduDecodeMap)
		c.Node().End(c.Pos())
	}
}

func raw(c *field.Cursor, _ pduRecord, _ dispatch.Match) {
	c.Remainder("Data")
}

func flags(c *field.Cursor, _ pduRecord, _ dispatch.Match) {
	v, ok := c.Uint8("Flags")
	if !ok {
		return
	}
	switch {
	case v&0x02 != 0:
		c.Annotate("LE General Discoverable Mode")
	case v&0x01 != 0:
		c.Annotate("LE Limited Discoverable Mode")
	}
	raw(c, pduRecord{}, dispatch.Match{})
}

// uuids reads a list of UUIDs. A length that is not a whole number of UUIDs
// leaves the rest as Data, marked Error.
func uuids(c *field.Cursor, rec pduRecord, _ dispatch.Match) {
	for i := 1; c.Len() >= rec.arrayElementSz; i++ {
		b, at, _ := c.Take("UUID", rec.arrayElementSz)
		c.Emit(fmt.Sprintf("UUID_%d", i), field.UUID(b), field.Bytes(at, rec.arrayElementSz))
	}
	if c.Len() > 0 {
		raw(c, rec, dispatch.Match{})
		c.Check(false)
	}
}

func name(c *field.Cursor, _ pduRecord, _ dispatch.Match) {
	if b, at, ok := c.Take("Local_Name", c.Len()); ok {
		c.Emit("Local_Name", string(b), field.Bytes(at, len(b)))
	}
}

func txPower(c *field.Cursor, _ pduRecord, _ dispatch.Match) {
	if v, ok := c.Uint8("Tx_Power_Level"); ok {
		c.Annotate(fmt.Sprintf("%d dBm", int8(v)))
	}
	raw(c, pduRecord{}, dispatch.Match{})
}

func serviceData(c *field.Cursor, rec pduRecord, _ dispatch.Match) {
	b, at, ok := c.Take("UUID", rec.svcDataUUIDSz)
	if !ok {
		return
	}
	c.Emit("UUID", field.UUID(b), field.Bytes(at, rec.svcDataUUIDSz))
	c.Remainder("Service_Data")
}

func mfgData(c *field.Cursor, _ pduRecord, _ dispatch.Match) {
	if _, ok := c.Uint16("Company_ID"); !ok {
		return
	}
	c.Remainder("Data")
}
