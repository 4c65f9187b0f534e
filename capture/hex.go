// Package capture turns text captures, pcap files and H4 byte streams into HCI
// packets ready to be decoded in capture order.
package capture

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rigado/dissect/hci"
)

var packetTypes = map[string]hci.PacketType{
	"cmd":     hci.PktTypeCommand,
	"command": hci.PktTypeCommand,
	"acl":     hci.PktTypeACLData,
	"sco":     hci.PktTypeSCOData,
	"evt":     hci.PktTypeEvent,
	"event":   hci.PktTypeEvent,
	"iso":     hci.PktTypeISOData,
}

// ParsePacketType accepts a packet type name (cmd, acl, sco, evt, iso) or its
// number. Numbers outside the known types are returned as is and decode as
// Undefined.
func ParsePacketType(s string) (hci.PacketType, error) {
	if pt, ok := packetTypes[strings.ToLower(s)]; ok {
		return pt, nil
	}
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, errors.Errorf("unknown packet type %q", s)
	}
	return hci.PacketType(v), nil
}

func separator(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', ':', ',':
		return true
	}
	return false
}

// ParseHex decodes hex bytes written contiguously or separated by spaces,
// colons or commas, with or without 0x prefixes: "03 0c 00", "030c00",
// "0x03,0x0c,0x00". A single digit between separators is one byte.
func ParseHex(s string) ([]byte, error) {
	var sb strings.Builder
	for _, tok := range strings.FieldsFunc(s, separator) {
		tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
		if len(tok) == 1 {
			sb.WriteByte('0')
		}
		sb.WriteString(tok)
	}
	b, err := hex.DecodeString(sb.String())
	if err != nil {
		return nil, errors.Wrapf(err, "can't parse %q", s)
	}
	return b, nil
}
