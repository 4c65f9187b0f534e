package l2cap

import (
	"fmt"

	"github.com/rigado/dissect/dispatch"
	"github.com/rigado/dissect/field"
	"github.com/rigado/dissect/session"
)

// The top bit of an option type marks a hint the recipient may skip.
var optionType = dispatch.Discriminant{Key: "Type", Width: 1, Mask: optionHint - 1}

var optionTypes = dispatch.Table[*session.Options]{
	Variants: map[uint32]dispatch.Variant[*session.Options]{
		OptionMTU:          {Name: "MTU", Decode: option(mtuOption)},
		OptionFlushTimeout: {Name: "Flush Timeout", Decode: option(flushTimeoutOption)},
		OptionQoS:          {Name: "Quality of Service", Decode: option(qosOption)},
		OptionRetransmit:   {Name: "Retransmission and Flow Control", Decode: option(retransmitOption)},
		OptionFCS:          {Name: "Frame Check Sequence", Decode: option(fcsOption)},
		OptionExtFlowSpec:  {Name: "Extended Flow Specification", Decode: option(extFlowSpecOption)},
		OptionExtWindow:    {Name: "Extended Window Size", Decode: option(extWindowOption)},
	},
	Fallback: option(nil),
}

var flushTimeouts = map[uint16]string{
	0x0001: "No retransmissions",
	0xFFFF: "Infinite",
}

var retransmitModes = map[uint8]string{
	0x00: "L2CAP Basic Mode",
	0x01: "Retransmission mode",
	0x02: "Flow control mode",
	0x03: "Enhanced Retransmission mode",
	0x04: "Streaming mode",
}

var serviceTypes = map[uint8]string{
	0x00: "No traffic",
	0x01: "Best effort",
	0x02: "Guaranteed",
}

var fcsTypes = map[uint8]string{
	0x00: "No FCS",
	0x01: "16-bit FCS",
}

// decodeOptions walks the configuration options that fill the rest of c, in
// order, each in its own subtree. A later option of the same type overrides
// an earlier one.
func decodeOptions(c *field.Cursor) session.Options {
	var o session.Options
	for i := 1; c.Len() > 0 && !c.Short(); i++ {
		c.Node().Begin(fmt.Sprintf("Option_%d", i), c.Pos())
		dispatch.Dispatch(c, &o, optionType, &optionTypes)
		c.Node().End(c.Pos())
	}
	return o
}

func option(fn dispatch.Func[*session.Options]) dispatch.Func[*session.Options] {
	return dispatch.Framed("Length", 1, fn)
}

func mtuOption(c *field.Cursor, o *session.Options, _ dispatch.Match) {
	mtu, ok := c.Uint16("MTU")
	if !ok {
		return
	}
	c.Check(mtu >= minMTU)
	o.MTU = mtu
}

func flushTimeoutOption(c *field.Cursor, o *session.Options, _ dispatch.Match) {
	v, ok := c.Uint16("Flush_Timeout")
	if !ok {
		return
	}
	c.Annotate(flushTimeouts[v])
	o.FlushTimeout = v
}

func serviceType(c *field.Cursor) bool {
	v, ok := c.Uint8("Service_Type")
	if ok {
		c.Name(serviceTypes[v])
	}
	return ok
}

func qosOption(c *field.Cursor, _ *session.Options, _ dispatch.Match) {
	if _, ok := c.Uint8("Flags"); !ok || !serviceType(c) {
		return
	}
	for _, key := range []string{"Token_Rate", "Token_Bucket_Size", "Peak_Bandwidth", "Access_Latency", "Delay_Variation"} {
		if _, ok := c.Uint32(key); !ok {
			return
		}
	}
}

func retransmitOption(c *field.Cursor, _ *session.Options, _ dispatch.Match) {
	mode, ok := c.Uint8("Mode")
	if !ok {
		return
	}
	c.Name(retransmitModes[mode])
	for _, key := range []string{"TxWindow_Size", "Max_Transmit"} {
		if _, ok := c.Uint8(key); !ok {
			return
		}
	}
	for _, key := range []string{"Retransmission_Timeout", "Monitor_Timeout", "Maximum_PDU_Size"} {
		if _, ok := c.Uint16(key); !ok {
			return
		}
	}
}

func fcsOption(c *field.Cursor, _ *session.Options, _ dispatch.Match) {
	if v, ok := c.Uint8("FCS_Type"); ok {
		c.Name(fcsTypes[v])
	}
}

func extFlowSpecOption(c *field.Cursor, _ *session.Options, _ dispatch.Match) {
	if _, ok := c.Uint8("Identifier"); !ok || !serviceType(c) {
		return
	}
	if _, ok := c.Uint16("Maximum_SDU_Size"); !ok {
		return
	}
	for _, key := range []string{"SDU_Inter_arrival_Time", "Access_Latency", "Flush_Timeout"} {
		if _, ok := c.Uint32(key); !ok {
			return
		}
	}
}

func extWindowOption(c *field.Cursor, _ *session.Options, _ dispatch.Match) {
	c.Uint16("Max_Window_Size")
}
