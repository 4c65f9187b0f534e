package capture

import (
	"io"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rigado/dissect/hci"
)

// pcap link types carrying HCI packets behind their H4 indicator.
const (
	LinkTypeH4         layers.LinkType = 187 // LINKTYPE_BLUETOOTH_HCI_H4
	LinkTypeH4WithPhdr layers.LinkType = 201 // LINKTYPE_BLUETOOTH_HCI_H4_WITH_PHDR
)

// phdrLength is the 4 byte direction header of LinkTypeH4WithPhdr.
const phdrLength = 4

// ReadPcap reads a pcap file of HCI packets. Line is set to the 1-based packet
// number.
//
// Packets too short to hold their indicator are skipped and reported together
// in the returned error, as are read errors that end the file early.
func ReadPcap(r io.Reader) ([]Record, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "can't read pcap header")
	}

	skip := 0
	switch lt := pr.LinkType(); lt {
	case LinkTypeH4:
	case LinkTypeH4WithPhdr:
		skip = phdrLength
	default:
		return nil, errors.Errorf("unsupported link type %d", lt)
	}

	var out []Record
	var errs *multierror.Error
	for i := 1; ; i++ {
		data, _, err := pr.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "packet %d", i))
			break
		}
		if len(data) < skip+1 {
			errs = multierror.Append(errs, errors.Errorf("packet %d: %d bytes", i, len(data)))
			continue
		}
		data = data[skip:]
		out = append(out, Record{Type: hci.PacketType(data[0]), Data: data[1:], Line: i})
	}
	return out, errs.ErrorOrNil()
}
