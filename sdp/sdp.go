// Package sdp decodes the Service Discovery Protocol PDU header [Vol 3, Part B, 4.2].
// Parameters are reported raw.
package sdp

import (
	"github.com/rigado/dissect/dispatch"
	"github.com/rigado/dissect/field"
)

// HeaderLen is the size of the PDU ID, Transaction ID and Parameter Length.
const HeaderLen = 5

// SDP PDU IDs [Vol 3, Part B, 4.2].
const (
	ErrorResponse                  = 0x01
	ServiceSearchRequest           = 0x02
	ServiceSearchResponse          = 0x03
	ServiceAttributeRequest        = 0x04
	ServiceAttributeResponse       = 0x05
	ServiceSearchAttributeRequest  = 0x06
	ServiceSearchAttributeResponse = 0x07
)

var pduIDs = dispatch.Table[struct{}]{
	Variants: map[uint32]dispatch.Variant[struct{}]{
		ErrorResponse:                  {Name: "SDP_ErrorResponse"},
		ServiceSearchRequest:           {Name: "SDP_ServiceSearchRequest"},
		ServiceSearchResponse:          {Name: "SDP_ServiceSearchResponse"},
		ServiceAttributeRequest:        {Name: "SDP_ServiceAttributeRequest"},
		ServiceAttributeResponse:       {Name: "SDP_ServiceAttributeResponse"},
		ServiceSearchAttributeRequest:  {Name: "SDP_ServiceSearchAttributeRequest"},
		ServiceSearchAttributeResponse: {Name: "SDP_ServiceSearchAttributeResponse"},
	},
}

var pduID = dispatch.Discriminant{Key: "PDU_ID", Width: 1}

// PDUName returns the name of an SDP PDU ID, empty when unknown.
func PDUName(id uint8) string {
	return pduIDs.Name(uint32(id))
}

// Decode decodes one SDP PDU on its own.
func Decode(b []byte) *field.Node {
	n := field.NewNode("SDP")
	DecodeAt(field.NewCursor(n, b, 0))
	return n
}

// DecodeAt decodes the SDP PDU at the front of c. Multi-byte SDP fields are
// big-endian.
func DecodeAt(c *field.Cursor) {
	if _, _, ok := dispatch.Dispatch(c, struct{}{}, pduID, &pduIDs); !ok && c.Short() {
		return
	}
	if _, ok := c.Uint16BE("Transaction_ID"); !ok {
		return
	}
	plen, ok := c.Uint16BE("Parameter_Length")
	if !ok {
		return
	}
	c.Check(int(plen) == c.Len())

	params := c.Sub(int(plen))
	params.Remainder("Parameters")
	if c.Len() > 0 {
		c.Remainder("Trailing_Data")
		c.Check(false)
	}
}
