package capture

import (
	"github.com/pkg/errors"
	"github.com/rigado/dissect/hci"
)

// headerLength is the number of bytes, indicator included, needed before an
// H4 packet's total length is known.
var headerLength = map[hci.PacketType]int{
	hci.PktTypeCommand: 4,
	hci.PktTypeACLData: 5,
	hci.PktTypeSCOData: 4,
	hci.PktTypeEvent:   3,
	hci.PktTypeISOData: 5,
}

// Framer splits an H4 byte stream [Vol 4, Part A, 2] into records. Bytes may
// arrive in chunks of any size; bytes that don't start a known packet type
// between packets are dropped.
type Framer struct {
	b   []byte
	typ hci.PacketType
	out []Record
}

// NewFramer returns an empty framer.
func NewFramer() *Framer {
	return &Framer{b: make([]byte, 0, 256)}
}

// Write appends stream bytes, queueing every packet they complete. It never
// fails.
func (f *Framer) Write(b []byte) (int, error) {
	f.assemble(b)
	return len(b), nil
}

// Next returns the next complete packet, if any.
func (f *Framer) Next() (Record, bool) {
	if len(f.out) == 0 {
		return Record{}, false
	}
	r := f.out[0]
	f.out = f.out[1:]
	return r, true
}

// Pending returns the number of bytes of an incomplete packet held back.
func (f *Framer) Pending() int {
	return len(f.b)
}

func (f *Framer) assemble(b []byte) {
	for len(b) > 0 {
		if len(f.b) == 0 {
			if b = f.waitStart(b); len(b) == 0 {
				return
			}
		}
		f.b = append(f.b, b...)
		b = nil

		rf, err := f.frame()
		if err != nil {
			return
		}
		data := make([]byte, len(rf)-1)
		copy(data, rf[1:])
		f.out = append(f.out, Record{Type: f.typ, Data: data})

		// shift
		b = append([]byte(nil), f.b[len(rf):]...)
		f.reset()
	}
}

func (f *Framer) reset() {
	f.b = f.b[:0]
	f.typ = 0
}

// waitStart drops bytes up to the first packet indicator and returns the rest.
func (f *Framer) waitStart(b []byte) []byte {
	for i, v := range b {
		if _, ok := headerLength[hci.PacketType(v)]; ok {
			f.typ = hci.PacketType(v)
			return b[i:]
		}
	}
	return nil
}

func (f *Framer) dataLength() (int, error) {
	hl, ok := headerLength[f.typ]
	if !ok {
		return 0, errors.Errorf("invalid packet type %v", f.typ)
	}
	if len(f.b) < hl {
		return 0, errors.New("not enough bytes")
	}

	switch f.typ {
	case hci.PktTypeACLData:
		return hl + (int(f.b[3]) | int(f.b[4])<<8), nil
	case hci.PktTypeISOData:
		return hl + (int(f.b[3])|int(f.b[4])<<8)&0x3fff, nil
	default:
		return hl + int(f.b[hl-1]), nil
	}
}

func (f *Framer) frame() ([]byte, error) {
	tl, err := f.dataLength()
	if err != nil {
		return nil, err
	}
	if len(f.b) < tl {
		return nil, errors.New("not enough bytes")
	}
	return f.b[:tl], nil
}

// SplitH4 splits a complete H4 stream. Bytes of a trailing incomplete packet
// are reported as an error along with the packets before them.
func SplitH4(b []byte) ([]Record, error) {
	f := NewFramer()
	f.Write(b)
	var out []Record
	for r, ok := f.Next(); ok; r, ok = f.Next() {
		out = append(out, r)
	}
	if n := f.Pending(); n > 0 {
		return out, errors.Errorf("%d bytes of an incomplete %v packet", n, f.typ)
	}
	return out, nil
}
