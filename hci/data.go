package hci

import (
	"github.com/rigado/dissect/dispatch"
	"github.com/rigado/dissect/field"
	"github.com/rigado/dissect/l2cap"
	"github.com/rigado/dissect/session"
)

// decodeACL decodes an HCI ACL Data Packet [Vol 4, Part E, 5.4.2]. Anything but
// a continuing fragment starts an L2CAP PDU, which may be longer than this
// packet.
func decodeACL(c *field.Cursor, s *session.Session, _ dispatch.Match) {
	w, at, ok := handle(c, "Handle")
	if !ok {
		return
	}
	pb := flag(c, "PB_Flag", at, w, 12, pbFlags)
	flag(c, "BC_Flag", at, w, 14, bcFlags)

	dlen, ok := c.Uint16("Data_Total_Length")
	if !ok {
		return
	}
	c.Check(int(dlen) <= c.Len())

	data := c.Sub(int(dlen))
	if pb == PbfContinuing {
		data.Remainder("Data")
		return
	}
	c.Node().Begin("L2CAP", data.Pos())
	l2cap.DecodeAt(data, s)
	c.Node().End(data.Pos())
}

// decodeSCO decodes an HCI Synchronous Data Packet [Vol 4, Part E, 5.4.3].
func decodeSCO(c *field.Cursor, _ *session.Session, _ dispatch.Match) {
	w, at, ok := handle(c, "Handle")
	if !ok {
		return
	}
	flag(c, "Packet_Status_Flag", at, w, 12, scoStatus)

	dlen, ok := c.Uint8("Data_Total_Length")
	if !ok {
		return
	}
	c.Check(int(dlen) <= c.Len())
	c.Sub(int(dlen)).Remainder("Data")
}

// decodeISO decodes an HCI ISO Data Packet [Vol 4, Part E, 5.4.5]. The
// optional timestamp and SDU header are reported with the data.
func decodeISO(c *field.Cursor, _ *session.Session, _ dispatch.Match) {
	w, at, ok := handle(c, "Handle")
	if !ok {
		return
	}
	flag(c, "PB_Flag", at, w, 12, isoPBFlags)
	c.Bits("TS_Flag", field.Bits(at+1, 1, 6, 1), uint64(w>>14)&0x1)

	b, at, ok := c.Take("Data_Total_Length", 2)
	if !ok {
		return
	}
	dlen := (uint16(b[0]) | uint16(b[1])<<8) & 0x3fff
	c.Bits("Data_Total_Length", field.Bits(at, 2, 0, 14), uint64(dlen))
	c.Check(int(dlen) <= c.Len())
	c.Sub(int(dlen)).Remainder("Data")
}
