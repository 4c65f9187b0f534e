package hci

// PacketType is the HCI packet indicator [Vol 4, Part A, 2].
type PacketType uint8

// HCI Packet types
const (
	PktTypeCommand PacketType = 0x01
	PktTypeACLData PacketType = 0x02
	PktTypeSCOData PacketType = 0x03
	PktTypeEvent   PacketType = 0x04
	PktTypeISOData PacketType = 0x05
)

// Opcode Group Fields [Vol 4, Part E, 7].
const (
	OGFLinkControl             = 0x01
	OGFLinkPolicy              = 0x02
	OGFControllerBaseband      = 0x03
	OGFInformationalParameters = 0x04
	OGFStatusParameters        = 0x05
	OGFTesting                 = 0x06
	OGFLEController            = 0x08
)

// Opcode Command Fields of the commands decoded in depth.
const (
	OCFInquiry = 0x0001
	OCFReset   = 0x0003
)

// Event codes [Vol 4, Part E, 7.7].
const (
	EvtInquiryComplete       = 0x01
	EvtInquiryResult         = 0x02
	EvtDisconnectionComplete = 0x05
	EvtCommandComplete       = 0x0E
	EvtCommandStatus         = 0x0F
	EvtNumberOfCompletedPkts = 0x13
	EvtLEMeta                = 0x3E

	LeSubAdvertisingReport = 0x02
)

// Packet boundary flags of HCI ACL Data Packet [Vol 2, Part E, 5.4.2].
const (
	PbfHostToControllerStart = 0x00 // Start of a non-automatically-flushable from host to controller.
	PbfContinuing            = 0x01 // Continuing fragment.
	PbfControllerToHostStart = 0x02 // Start of an automatically-flushable packet.
	PbfCompleteL2CAPPDU      = 0x03 // A automatically flushable complete PDU. (Not used in LE-U).
)

// Inquiry parameters [Vol 4, Part E, 7.1.1].
const (
	lapMin           = 0x9E8B00
	lapMax           = 0x9E8B3F
	lapGIAC          = 0x9E8B33
	lapLIAC          = 0x9E8B00
	inquiryLengthMin = 0x01
	inquiryLengthMax = 0x30
)

var pbFlags = map[uint8]string{
	PbfHostToControllerStart: "First non-automatically-flushable packet",
	PbfContinuing:            "Continuing fragment",
	PbfControllerToHostStart: "First automatically flushable packet",
	PbfCompleteL2CAPPDU:      "Complete automatically flushable packet",
}

var bcFlags = map[uint8]string{
	0x00: "Point-to-point",
	0x01: "BR/EDR broadcast",
}

var isoPBFlags = map[uint8]string{
	0x00: "First fragment",
	0x01: "Continuation fragment",
	0x02: "Complete SDU",
	0x03: "Last fragment",
}

// Advertising report event types [Vol 4, Part E, 7.7.65.2].
var advEventTypes = map[uint8]string{
	0x00: "ADV_IND",
	0x01: "ADV_DIRECT_IND",
	0x02: "ADV_SCAN_IND",
	0x03: "ADV_NONCONN_IND",
	0x04: "SCAN_RSP",
}

var addressTypes = map[uint8]string{
	0x00: "Public Device Address",
	0x01: "Random Device Address",
	0x02: "Public Identity Address",
	0x03: "Random (static) Identity Address",
}

var scoStatus = map[uint8]string{
	0x00: "Correctly received data",
	0x01: "Possibly invalid data",
	0x02: "No data received",
	0x03: "Data partially lost",
}

// Error codes [Vol 1, Part F, 1.3].
var errorCodes = map[uint8]string{
	0x00: "Success",
	0x01: "Unknown HCI Command",
	0x02: "Unknown Connection Identifier",
	0x03: "Hardware Failure",
	0x04: "Page Timeout",
	0x05: "Authentication Failure",
	0x06: "PIN or Key Missing",
	0x07: "Memory Capacity Exceeded",
	0x08: "Connection Timeout",
	0x09: "Connection Limit Exceeded",
	0x0A: "Synchronous Connection Limit To A Device Exceeded",
	0x0B: "Connection Already Exists",
	0x0C: "Command Disallowed",
	0x0D: "Connection Rejected due to Limited Resources",
	0x0E: "Connection Rejected Due To Security Reasons",
	0x0F: "Connection Rejected due to Unacceptable BD_ADDR",
	0x10: "Connection Accept Timeout Exceeded",
	0x11: "Unsupported Feature or Parameter Value",
	0x12: "Invalid HCI Command Parameters",
	0x13: "Remote User Terminated Connection",
	0x14: "Remote Device Terminated Connection due to Low Resources",
	0x15: "Remote Device Terminated Connection due to Power Off",
	0x16: "Connection Terminated By Local Host",
	0x17: "Repeated Attempts",
	0x18: "Pairing Not Allowed",
	0x19: "Unknown LMP PDU",
	0x1A: "Unsupported Remote Feature",
	0x1F: "Unspecified Error",
	0x22: "LMP Response Timeout / LL Response Timeout",
	0x28: "Instant Passed",
	0x29: "Pairing With Unit Key Not Supported",
	0x3B: "Unacceptable Connection Parameters",
	0x3D: "Connection Terminated due to MIC Failure",
	0x3E: "Connection Failed to be Established",
}
