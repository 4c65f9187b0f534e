// Package l2cap decodes L2CAP basic frames [Vol 3, Part A, 3]: the header, the
// fixed channels, the signaling channel and, through the session, the
// dynamically allocated channels and the protocols that own them.
package l2cap

import (
	"github.com/rigado/dissect/dispatch"
	"github.com/rigado/dissect/field"
	"github.com/rigado/dissect/sdp"
	"github.com/rigado/dissect/session"
)

const headerLen = 4

// frame is the state one L2CAP PDU is decoded with.
type frame struct {
	s *session.Session
}

var channelID = dispatch.Discriminant{Key: "Channel_ID", Width: 2}

var cids = dispatch.Table[*frame]{
	Variants: map[uint32]dispatch.Variant[*frame]{
		uint32(CIDNull):            {Name: "Null identifier", Decode: payload},
		uint32(CIDSignaling):       {Name: "L2CAP Signaling channel", Decode: decodeSignaling},
		uint32(CIDConnectionless):  {Name: "Connectionless channel", Decode: decodeConnectionless},
		uint32(CIDPreviouslyUsed):  {Name: "Previously used", Decode: payload},
		uint32(CIDSecurityManager): {Name: "BR/EDR Security Manager", Decode: decodeSecurityManager},
		uint32(CIDReserved):        {Name: "Previously used", Decode: payload},
	},
	Ranges: []dispatch.Range[*frame]{
		{Lo: minDynamicCID, Hi: maxDynamicCID, Variant: dispatch.Variant[*frame]{Name: "Dynamically allocated", Decode: decodeDynamic}},
	},
	Fallback: payload,
}

// psms routes the payload of a dynamic channel by the PSM it was opened for.
var psms = dispatch.Table[*frame]{
	Variants: map[uint32]dispatch.Variant[*frame]{
		PSMSDP:    {Name: "SDP", Decode: decodeSDP},
		PSMRFCOMM: {Name: "RFCOMM"},
		0x0005:    {Name: "TCS-BIN"},
		0x0007:    {Name: "TCS-BIN-CORDLESS"},
		PSMBNEP:   {Name: "BNEP"},
		PSMHIDCtl: {Name: "HID_Control"},
		PSMHIDInt: {Name: "HID_Interrupt"},
		0x0015:    {Name: "UPnP"},
		PSMAVCTP:  {Name: "AVCTP"},
		PSMAVDTP:  {Name: "AVDTP"},
		0x001B:    {Name: "AVCTP_Browsing"},
		0x001D:    {Name: "UDI_C-Plane"},
		PSMATT:    {Name: "ATT"},
		0x0021:    {Name: "3DSP"},
		0x0023:    {Name: "LE_PSM_IPSP"},
		0x0025:    {Name: "OTS"},
		PSMEATT:   {Name: "EATT"},
	},
	Ranges: []dispatch.Range[*frame]{
		{Lo: minDynamicPSM, Hi: 0xffff, Variant: dispatch.Variant[*frame]{Name: "Dynamic"}},
	},
}

var smpCode = dispatch.Discriminant{Key: "Code", Width: 1}

var smp = dispatch.Table[*frame]{Variants: map[uint32]dispatch.Variant[*frame]{}}

func init() {
	for code, name := range smpCodes {
		smp.Variants[code] = dispatch.Variant[*frame]{Name: name}
	}
}

// ChannelName returns the name of the channel a CID belongs to.
func ChannelName(cid uint16) string {
	return cids.Name(uint32(cid))
}

// PSMName returns the name of the protocol a PSM identifies, empty when unknown.
func PSMName(psm uint16) string {
	return psms.Name(uint32(psm))
}

// Decode decodes one complete L2CAP PDU. s may be nil, in which case dynamic
// channels cannot be resolved and signaling changes nothing.
func Decode(b []byte, s *session.Session) *field.Node {
	n := field.NewNode("L2CAP")
	DecodeAt(field.NewCursor(n, b, 0), s)
	return n
}

// DecodeAt decodes the L2CAP PDU at the front of c, updating s with whatever
// the signaling channel negotiates.
//
// A PDU_Length larger than what is left is expected for the first fragment of
// a fragmented PDU and only annotated; a smaller one marks trailing bytes.
func DecodeAt(c *field.Cursor, s *session.Session) {
	length, ok := c.Uint16("PDU_Length")
	if !ok {
		return
	}
	switch have := c.Len() - 2; {
	case have > int(length):
		c.Check(false)
	case have < int(length):
		c.Annotate("Incomplete")
	}

	body := c.Sub(int(length) + 2)
	dispatch.Dispatch(body, &frame{s: s}, channelID, &cids)

	if c.Len() > 0 {
		c.Remainder("Trailing_Data")
		c.Check(false)
	}
}

func payload(c *field.Cursor, _ *frame, _ dispatch.Match) {
	c.Remainder("Payload")
}

func decodeConnectionless(c *field.Cursor, _ *frame, _ dispatch.Match) {
	if psm, ok := c.Uint16("PSM"); ok {
		c.Name(PSMName(psm))
	}
	c.Remainder("Payload")
}

func decodeSecurityManager(c *field.Cursor, x *frame, _ dispatch.Match) {
	dispatch.Dispatch(c, x, smpCode, &smp)
	c.Remainder("Data")
}

// decodeDynamic resolves the channel through the session. The PSM it reports
// comes from the Connection Request that opened the channel, so it is located
// on the CID that selected it. Unknown channels fall back to PSM 0.
func decodeDynamic(c *field.Cursor, x *frame, m dispatch.Match) {
	r, toDest, ok := x.s.Resolve(uint16(m.Value))
	var psm uint16
	if ok {
		psm = r.PSM
	}
	v, known := psms.Lookup(uint32(psm))
	c.Emit("PSM", field.Hex(uint64(psm)), m.Loc)
	c.Name(v.Name)
	if !ok {
		c.Remainder("Payload")
		return
	}

	// Traffic toward the responder is bounded by the MTU it announced.
	mtu := r.LocalMTU
	if toDest {
		mtu = r.RemoteMTU
	}
	if mtu != 0 {
		c.Emit("MTU", field.Hex(uint64(mtu)), m.Loc)
		c.Check(c.Len() <= int(mtu))
	}

	if known && v.Decode != nil {
		start := c.Pos()
		c.Node().Begin(v.Name, start)
		v.Decode(c, x, m)
		c.Node().End(c.Pos())
	}
	c.Remainder("Payload")
}

func decodeSDP(c *field.Cursor, _ *frame, _ dispatch.Match) {
	sdp.DecodeAt(c)
}
