package hci

import (
	"fmt"

	"github.com/rigado/dissect/adv"
	"github.com/rigado/dissect/dispatch"
	"github.com/rigado/dissect/field"
	"github.com/rigado/dissect/session"
)

var eventCode = dispatch.Discriminant{Key: "Event_Code", Width: 1}

var events = dispatch.Table[*session.Session]{
	Variants: map[uint32]dispatch.Variant[*session.Session]{
		EvtInquiryComplete:       {Name: "Inquiry_Complete", Decode: event(inquiryComplete)},
		EvtInquiryResult:         {Name: "Inquiry_Result", Decode: event(inquiryResult)},
		EvtDisconnectionComplete: {Name: "Disconnection_Complete", Decode: event(disconnectionComplete)},
		EvtCommandComplete:       {Name: "Command_Complete", Decode: event(commandComplete)},
		EvtCommandStatus:         {Name: "Command_Status", Decode: event(commandStatus)},
		EvtNumberOfCompletedPkts: {Name: "Number_Of_Completed_Packets", Decode: event(numberOfCompletedPackets)},
		EvtLEMeta:                {Name: "LE_Meta", Decode: event(leMeta)},
	},
	Fallback: event(nil),
}

var leSubevent = dispatch.Discriminant{Key: "Subevent_Code", Width: 1}

var leSubevents = dispatch.Table[*session.Session]{
	Variants: map[uint32]dispatch.Variant[*session.Session]{
		0x01:                   {Name: "LE_Connection_Complete"},
		LeSubAdvertisingReport: {Name: "LE_Advertising_Report", Decode: advertisingReport},
		0x03:                   {Name: "LE_Connection_Update_Complete"},
		0x04:                   {Name: "LE_Read_Remote_Features_Complete"},
		0x05:                   {Name: "LE_Long_Term_Key_Request"},
		0x0A:                   {Name: "LE_Enhanced_Connection_Complete"},
	},
}

// event frames an event body behind its 1 byte Parameter_Total_Length.
func event(fn dispatch.Func[*session.Session]) dispatch.Func[*session.Session] {
	return dispatch.Framed("Parameter_Total_Length", 1, fn)
}

func decodeEvent(c *field.Cursor, s *session.Session, _ dispatch.Match) {
	dispatch.Dispatch(c, s, eventCode, &events)
}

// EventName returns the name of an event code, empty when unknown.
func EventName(code uint8) string {
	return events.Name(uint32(code))
}

func status(c *field.Cursor, key string) bool {
	v, ok := c.Uint8(key)
	if ok {
		c.Name(errorCodes[v])
	}
	return ok
}

func connectionHandle(c *field.Cursor) bool {
	v, ok := c.Uint16("Connection_Handle")
	if ok {
		c.Check(v <= 0x0eff)
	}
	return ok
}

func inquiryComplete(c *field.Cursor, _ *session.Session, _ dispatch.Match) {
	status(c, "Status")
}

func disconnectionComplete(c *field.Cursor, _ *session.Session, _ dispatch.Match) {
	if !status(c, "Status") || !connectionHandle(c) {
		return
	}
	status(c, "Reason")
}

// commandComplete names the opcode it completes through the opcode tables
// alone; the return parameters are reported raw.
func commandComplete(c *field.Cursor, _ *session.Session, _ dispatch.Match) {
	if _, ok := c.Uint8("Num_HCI_Command_Packets"); !ok {
		return
	}
	if _, ok := opcode(c, "Command_Opcode"); !ok {
		return
	}
	c.Remainder("Return_Parameters")
}

func commandStatus(c *field.Cursor, _ *session.Session, _ dispatch.Match) {
	if !status(c, "Status") {
		return
	}
	if _, ok := c.Uint8("Num_HCI_Command_Packets"); !ok {
		return
	}
	opcode(c, "Command_Opcode")
}

func numberOfCompletedPackets(c *field.Cursor, _ *session.Session, _ dispatch.Match) {
	n, ok := c.Uint8("Num_Handles")
	if !ok {
		return
	}
	for i := 1; i <= int(n) && !c.Short(); i++ {
		c.Node().Begin(fmt.Sprintf("Handle_%d", i), c.Pos())
		if connectionHandle(c) {
			c.Uint16("Num_Completed_Packets")
		}
		c.Node().End(c.Pos())
	}
}

func inquiryResult(c *field.Cursor, _ *session.Session, _ dispatch.Match) {
	n, ok := c.Uint8("Num_Responses")
	if !ok {
		return
	}
	for i := 1; i <= int(n) && !c.Short(); i++ {
		c.Node().Begin(fmt.Sprintf("Response_%d", i), c.Pos())
		if _, ok := c.Addr("BD_ADDR"); ok {
			c.Uint8("Page_Scan_Repetition_Mode")
			c.Uint16("Reserved")
			c.Uint24("Class_Of_Device")
			c.Uint16("Clock_Offset")
		}
		c.Node().End(c.Pos())
	}
}

// leMeta decodes the subevents it knows; the parameters of the others are
// reported raw.
func leMeta(c *field.Cursor, s *session.Session, _ dispatch.Match) {
	dispatch.Dispatch(c, s, leSubevent, &leSubevents)
	c.Remainder("Parameters")
}

// advertisingReport reads the reports one after another, each with its
// advertising data decoded in an "Advertising_Data" subtree.
func advertisingReport(c *field.Cursor, _ *session.Session, _ dispatch.Match) {
	n, ok := c.Uint8("Num_Reports")
	if !ok {
		return
	}
	for i := 1; i <= int(n) && !c.Short(); i++ {
		c.Node().Begin(fmt.Sprintf("Report_%d", i), c.Pos())
		advertisingReportEntry(c)
		c.Node().End(c.Pos())
	}
}

func advertisingReportEntry(c *field.Cursor) {
	typ, ok := c.Uint8("Event_Type")
	if !ok {
		return
	}
	c.Name(advEventTypes[typ])
	if typ, ok = c.Uint8("Address_Type"); !ok {
		return
	}
	c.Name(addressTypes[typ])
	if _, ok = c.Addr("Address"); !ok {
		return
	}
	length, ok := c.Uint8("Data_Length")
	if !ok {
		return
	}
	c.Check(length <= adv.MaxEIRPacketLength && int(length) < c.Len())

	c.Node().Begin("Advertising_Data", c.Pos())
	adv.DecodeAt(c.Sub(int(length)))
	c.Node().End(c.Pos())

	if v, ok := c.Uint8("RSSI"); ok {
		rssi := int8(v)
		if rssi == 127 {
			c.Annotate("Not available")
		} else {
			c.Annotate(fmt.Sprintf("%d dBm", rssi))
		}
	}
}
