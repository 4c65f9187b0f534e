package capture

import (
	"bufio"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rigado/dissect/hci"
)

// Record is one packet of a capture.
type Record struct {
	Type hci.PacketType
	Data []byte
	// Line is the 1-based source line of a text capture or packet number of a
	// pcap file, 0 for records split from an H4 stream.
	Line int
}

// ReadRecords reads a text capture: one packet per line, the packet type
// followed by its bytes in hex, e.g. "cmd 03 0c 00". Blank lines and lines
// starting with # are skipped.
//
// Lines that can't be parsed are skipped and reported together in the
// returned error; the records that could be parsed are returned regardless.
func ReadRecords(r io.Reader) ([]Record, error) {
	var out []Record
	var errs *multierror.Error

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		rec, err := parseRecord(text)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "line %d", line))
			continue
		}
		rec.Line = line
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "can't read capture"))
	}
	return out, errs.ErrorOrNil()
}

func parseRecord(text string) (Record, error) {
	typ, data := text, ""
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		typ, data = text[:i], text[i+1:]
	}
	pt, err := ParsePacketType(typ)
	if err != nil {
		return Record{}, err
	}
	b, err := ParseHex(data)
	if err != nil {
		return Record{}, err
	}
	return Record{Type: pt, Data: b}, nil
}
