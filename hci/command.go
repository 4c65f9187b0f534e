package hci

import (
	"encoding/binary"

	"github.com/rigado/dissect/dispatch"
	"github.com/rigado/dissect/field"
	"github.com/rigado/dissect/session"
)

var ogfs = dispatch.Table[*session.Session]{
	Variants: map[uint32]dispatch.Variant[*session.Session]{
		OGFLinkControl:             {Name: "Link Control"},
		OGFLinkPolicy:              {Name: "Link Policy"},
		OGFControllerBaseband:      {Name: "Controller & Baseband"},
		OGFInformationalParameters: {Name: "Informational Parameters"},
		OGFStatusParameters:        {Name: "Status Parameters"},
		OGFTesting:                 {Name: "Testing"},
		OGFLEController:            {Name: "LE Controller"},
	},
}

// ocfs holds the commands known within each group. Groups without an entry
// are still named; their commands decode as raw parameters.
var ocfs = map[uint8]*dispatch.Table[*session.Session]{
	OGFLinkControl: {
		Variants: map[uint32]dispatch.Variant[*session.Session]{
			OCFInquiry: {Name: "Inquiry", Decode: inquiry},
		},
	},
	OGFControllerBaseband: {
		Variants: map[uint32]dispatch.Variant[*session.Session]{
			OCFReset: {Name: "Reset"},
		},
	},
}

func split(op uint16) (ogf uint8, ocf uint16) {
	return uint8(op >> 10), op & 0x03ff
}

// LookupOpcode returns the group and command names of op. ok is false when
// the command is not known; group may still be set.
func LookupOpcode(op uint16) (group, command string, ok bool) {
	ogf, ocf := split(op)
	group = ogfs.Name(uint32(ogf))
	command = ocfs[ogf].Name(uint32(ocf))
	return group, command, command != ""
}

// opcode reads a command opcode as key and splits it into OCF and OGF bit
// fields, followed by the command name located on the whole opcode.
func opcode(c *field.Cursor, key string) (uint16, bool) {
	b, at, ok := c.Take(key, 2)
	if !ok {
		return 0, false
	}
	op := binary.LittleEndian.Uint16(b)
	ogf, ocf := split(op)
	group, command, known := LookupOpcode(op)

	c.Emit(key, field.Hex(uint64(op)), field.Bytes(at, 2))
	c.Bits("OCF", field.Bits(at, 2, 0, 10), uint64(ocf))
	c.Name(command)
	c.Bits("OGF", field.Bits(at+1, 1, 2, 6), uint64(ogf))
	c.Name(group)
	if !known {
		command = dispatch.Undefined
	}
	c.Emit("Command", command, field.Bytes(at, 2))
	c.Check(known)
	return op, true
}

func decodeCommand(c *field.Cursor, s *session.Session, _ dispatch.Match) {
	op, ok := opcode(c, "Opcode")
	if !ok {
		return
	}
	plen, ok := c.Uint8("Parameter_Total_Length")
	if !ok {
		return
	}
	c.Check(int(plen) == c.Len())

	ogf, ocf := split(op)
	v, known := ocfs[ogf].Lookup(uint32(ocf))
	params := c.Sub(int(plen))
	if v.Decode != nil {
		v.Decode(params, s, dispatch.Match{Value: uint32(op)})
	}
	if params.Len() > 0 {
		params.Remainder("Parameters")
		params.Check(!known)
	}
}

// inquiry decodes Inquiry parameters [Vol 4, Part E, 7.1.1].
func inquiry(c *field.Cursor, _ *session.Session, _ dispatch.Match) {
	lap, ok := c.Uint24("LAP")
	if !ok {
		return
	}
	switch lap {
	case lapGIAC:
		c.Annotate("GIAC")
	case lapLIAC:
		c.Annotate("LIAC")
	}
	c.Check(lap >= lapMin && lap <= lapMax)

	length, ok := c.Uint8("Inquiry_Length")
	if !ok {
		return
	}
	c.Check(length >= inquiryLengthMin && length <= inquiryLengthMax)

	if n, ok := c.Uint8("Num_Responses"); ok && n == 0 {
		c.Annotate("Unlimited")
	}
}
