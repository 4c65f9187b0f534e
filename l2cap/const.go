package l2cap

// Fixed channel identifiers on ACL-U [Vol 3, Part A, 2.1].
const (
	CIDNull            uint16 = 0x0000
	CIDSignaling       uint16 = 0x0001
	CIDConnectionless  uint16 = 0x0002
	CIDPreviouslyUsed  uint16 = 0x0003
	CIDSecurityManager uint16 = 0x0007
	CIDReserved        uint16 = 0x003F

	minDynamicCID = 0x0040
	maxDynamicCID = 0xffff
)

// Signaling command codes [Vol 3, Part A, 4].
const (
	SignalCommandReject         = 0x01
	SignalConnectionRequest     = 0x02
	SignalConnectionResponse    = 0x03
	SignalConfigurationRequest  = 0x04
	SignalConfigurationResponse = 0x05
	SignalDisconnectionRequest  = 0x06
	SignalDisconnectionResponse = 0x07
	SignalEchoRequest           = 0x08
	SignalEchoResponse          = 0x09
	SignalInformationRequest    = 0x0A
	SignalInformationResponse   = 0x0B
)

// Configuration option types [Vol 3, Part A, 5].
const (
	OptionMTU          = 0x01
	OptionFlushTimeout = 0x02
	OptionQoS          = 0x03
	OptionRetransmit   = 0x04
	OptionFCS          = 0x05
	OptionExtFlowSpec  = 0x06
	OptionExtWindow    = 0x07

	optionHint = 0x80
	minMTU     = 48
)

// Protocol/Service Multiplexers [Assigned Numbers, 2.2].
const (
	PSMSDP    = 0x0001
	PSMRFCOMM = 0x0003
	PSMBNEP   = 0x000F
	PSMHIDCtl = 0x0011
	PSMHIDInt = 0x0013
	PSMAVCTP  = 0x0017
	PSMAVDTP  = 0x0019
	PSMATT    = 0x001F
	PSMEATT   = 0x0027

	minDynamicPSM = 0x1001
)

var connectionResults = map[uint16]string{
	0x0000: "Connection Accepted",
	0x0001: "Connection Pending",
	0x0002: "Connection Refused - PSM not supported",
	0x0003: "Connection Refused - security block",
	0x0004: "Connection Refused - no resources available",
	0x0006: "Connection Refused - invalid Source CID",
	0x0007: "Connection Refused - Source CID already allocated",
}

var connectionStatus = map[uint16]string{
	0x0000: "No further information available",
	0x0001: "Authentication pending",
	0x0002: "Authorization pending",
}

var configurationResults = map[uint16]string{
	0x0000: "Success",
	0x0001: "Failure - unacceptable parameters",
	0x0002: "Failure - rejected",
	0x0003: "Failure - unknown options",
	0x0004: "Pending",
	0x0005: "Failure - flow spec rejected",
}

var infoTypes = map[uint16]string{
	0x0001: "Connectionless MTU",
	0x0002: "Extended features supported",
	0x0003: "Fixed channels supported",
}

var infoResults = map[uint16]string{
	0x0000: "Success",
	0x0001: "Not supported",
}

// Security Manager command codes [Vol 3, Part H, 3.3].
var smpCodes = map[uint32]string{
	0x01: "Pairing Request",
	0x02: "Pairing Response",
	0x03: "Pairing Confirm",
	0x04: "Pairing Random",
	0x05: "Pairing Failed",
	0x06: "Encryption Information",
	0x07: "Central Identification",
	0x08: "Identity Information",
	0x09: "Identity Address Information",
	0x0A: "Signing Information",
	0x0B: "Security Request",
	0x0C: "Pairing Public Key",
	0x0D: "Pairing DHKey Check",
	0x0E: "Pairing Keypress Notification",
}

func isDynamic(cid uint16) bool {
	return cid >= minDynamicCID
}
