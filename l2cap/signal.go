package l2cap

import (
	"fmt"

	"github.com/rigado/dissect/dispatch"
	"github.com/rigado/dissect/field"
	"github.com/rigado/dissect/session"
)

// signal is the state one signaling command is decoded with.
type signal struct {
	s  *session.Session
	id uint8
}

var signalCode = dispatch.Discriminant{Key: "Code", Width: 1}

var signals = dispatch.Table[*signal]{
	Variants: map[uint32]dispatch.Variant[*signal]{
		SignalCommandReject:         {Name: "L2CAP_COMMAND_REJECT_RSP", Decode: command(nil)},
		SignalConnectionRequest:     {Name: "L2CAP_CONNECTION_REQ", Decode: command(connectionRequest)},
		SignalConnectionResponse:    {Name: "L2CAP_CONNECTION_RSP", Decode: command(connectionResponse)},
		SignalConfigurationRequest:  {Name: "L2CAP_CONFIGURATION_REQ", Decode: command(configurationRequest)},
		SignalConfigurationResponse: {Name: "L2CAP_CONFIGURATION_RSP", Decode: command(configurationResponse)},
		SignalDisconnectionRequest:  {Name: "L2CAP_DISCONNECTION_REQ", Decode: command(disconnection)},
		SignalDisconnectionResponse: {Name: "L2CAP_DISCONNECTION_RSP", Decode: command(disconnection)},
		SignalEchoRequest:           {Name: "L2CAP_ECHO_REQ", Decode: command(echo)},
		SignalEchoResponse:          {Name: "L2CAP_ECHO_RSP", Decode: command(echo)},
		SignalInformationRequest:    {Name: "L2CAP_INFORMATION_REQ", Decode: command(informationRequest)},
		SignalInformationResponse:   {Name: "L2CAP_INFORMATION_RSP", Decode: command(informationResponse)},
	},
	Fallback: command(nil),
}

// SignalName returns the name of a signaling command code, empty when unknown.
func SignalName(code uint8) string {
	return signals.Name(uint32(code))
}

// decodeSignaling walks the commands packed into one C-frame. Each command
// is its own subtree so repeated keys stay apart.
func decodeSignaling(c *field.Cursor, x *frame, _ dispatch.Match) {
	for i := 1; c.Len() > 0 && !c.Short(); i++ {
		c.Node().Begin(fmt.Sprintf("Command_%d", i), c.Pos())
		dispatch.Dispatch(c, &signal{s: x.s}, signalCode, &signals)
		c.Node().End(c.Pos())
	}
}

// command reads the Identifier and Length every signaling command carries and
// runs fn on the body. An identifier of zero is never valid.
func command(fn dispatch.Func[*signal]) dispatch.Func[*signal] {
	framed := dispatch.Framed("Length", 2, fn)
	return func(c *field.Cursor, sig *signal, m dispatch.Match) {
		id, ok := c.Uint8("Identifier")
		if !ok {
			return
		}
		c.Check(id != 0)
		sig.id = id
		framed(c, sig, m)
	}
}

// cid reads a channel identifier that must name a dynamic channel.
func cid(c *field.Cursor, key string) (uint16, bool) {
	v, ok := c.Uint16(key)
	if ok {
		c.Check(isDynamic(v))
	}
	return v, ok
}

// named reads a two byte enumeration and names it from names. Unknown values
// are flagged.
func named(c *field.Cursor, key string, names map[uint16]string) (uint16, bool) {
	v, ok := c.Uint16(key)
	if ok {
		c.Name(names[v])
	}
	return v, ok
}

func connectionRequest(c *field.Cursor, sig *signal, _ dispatch.Match) {
	psm, ok := c.Uint16("PSM")
	if !ok {
		return
	}
	c.Name(PSMName(psm))
	scid, ok := cid(c, "Source_CID")
	if !ok {
		return
	}
	sig.s.Connect(sig.id, psm, scid)
}

func connectionResponse(c *field.Cursor, sig *signal, _ dispatch.Match) {
	dcid, ok := c.Uint16("Destination_CID")
	if !ok {
		return
	}
	scid, ok := cid(c, "Source_CID")
	if !ok {
		return
	}
	if _, ok = named(c, "Result", connectionResults); !ok {
		return
	}
	if _, ok = named(c, "Status", connectionStatus); !ok {
		return
	}
	// A pending response carries a zero destination CID, which leaves the
	// channel requested.
	sig.s.ConnectResponse(dcid, scid)
}

func flags(c *field.Cursor) bool {
	v, ok := c.Uint16("Flags")
	if !ok {
		return false
	}
	if v&0x0001 != 0 {
		c.Annotate("Continuation")
	}
	c.Check(v&^0x0001 == 0)
	return true
}

func configurationRequest(c *field.Cursor, sig *signal, _ dispatch.Match) {
	dcid, ok := c.Uint16("Destination_CID")
	if !ok || !flags(c) {
		return
	}
	o := decodeOptions(c)
	if c.Short() {
		return
	}
	sig.s.ConfigureRequest(dcid, o)
}

func configurationResponse(c *field.Cursor, sig *signal, _ dispatch.Match) {
	scid, ok := c.Uint16("Source_CID")
	if !ok || !flags(c) {
		return
	}
	if _, ok = named(c, "Result", configurationResults); !ok {
		return
	}
	o := decodeOptions(c)
	if c.Short() {
		return
	}
	sig.s.ConfigureResponse(scid, o)
}

func disconnection(c *field.Cursor, sig *signal, _ dispatch.Match) {
	dcid, ok := c.Uint16("Destination_CID")
	if !ok {
		return
	}
	scid, ok := c.Uint16("Source_CID")
	if !ok {
		return
	}
	sig.s.Disconnect(dcid, scid)
}

func echo(c *field.Cursor, _ *signal, _ dispatch.Match) {
	c.Remainder("Data")
}

func informationRequest(c *field.Cursor, _ *signal, _ dispatch.Match) {
	named(c, "InfoType", infoTypes)
}

func informationResponse(c *field.Cursor, _ *signal, _ dispatch.Match) {
	if _, ok := named(c, "InfoType", infoTypes); !ok {
		return
	}
	if _, ok := named(c, "Result", infoResults); !ok {
		return
	}
	c.Remainder("Data")
}
