package capture

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/hashicorp/go-multierror"
	"github.com/rigado/dissect/hci"
)

func TestParseHex(t *testing.T) {
	want := []byte{0x03, 0x0c, 0x00}
	for _, s := range []string{"03 0c 00", "030c00", "03:0c:00", "0x03,0x0c,0x00", " 3 C 0 ", "0x030C00"} {
		b, err := ParseHex(s)
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if !reflect.DeepEqual(b, want) {
			t.Fatalf("%q: have %x, want %x", s, b, want)
		}
	}

	for _, s := range []string{"030", "zz", "0x0g"} {
		if _, err := ParseHex(s); err == nil {
			t.Fatalf("%q: no error", s)
		}
	}
}

func TestParsePacketType(t *testing.T) {
	for s, want := range map[string]hci.PacketType{
		"cmd":  hci.PktTypeCommand,
		"ACL":  hci.PktTypeACLData,
		"evt":  hci.PktTypeEvent,
		"iso":  hci.PktTypeISOData,
		"3":    hci.PktTypeSCOData,
		"0x09": hci.PacketType(0x09),
	} {
		have, err := ParsePacketType(s)
		if err != nil {
			t.Fatalf("%q: %v", s, err)
		}
		if have != want {
			t.Fatalf("%q: have %v, want %v", s, have, want)
		}
	}
	if _, err := ParsePacketType("vendor"); err == nil {
		t.Fatalf("no error")
	}
}

func TestReadRecords(t *testing.T) {
	in := `# reset
cmd 03 0c 00

evt 0e 04 01 03 0c 00
bogus 00
acl 0x40 0x20 0x00 0x00
cmd 0g
`
	recs, err := ReadRecords(strings.NewReader(in))
	if err == nil {
		t.Fatalf("no error")
	}
	merr, ok := err.(*multierror.Error)
	if !ok || len(merr.Errors) != 2 {
		t.Fatalf("have %v, want 2 errors", err)
	}
	if !strings.Contains(merr.Errors[0].Error(), "line 5") || !strings.Contains(merr.Errors[1].Error(), "line 7") {
		t.Fatalf("unexpected errors %v", merr.Errors)
	}

	want := []Record{
		{Type: hci.PktTypeCommand, Data: []byte{0x03, 0x0c, 0x00}, Line: 2},
		{Type: hci.PktTypeEvent, Data: []byte{0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00}, Line: 4},
		{Type: hci.PktTypeACLData, Data: []byte{0x40, 0x20, 0x00, 0x00}, Line: 6},
	}
	if !reflect.DeepEqual(recs, want) {
		t.Fatalf("have %v, want %v", recs, want)
	}
}

var stream = []byte{
	0x01, 0x03, 0x0c, 0x00, // reset
	0x04, 0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00, // command complete
	0x02, 0x40, 0x20, 0x02, 0x00, 0xaa, 0xbb, // acl
	0x05, 0x40, 0x20, 0x01, 0x40, 0xcc, // iso, top bits of the length are reserved
	0x03, 0x40, 0x00, 0x01, 0xdd, // sco
}

var streamRecords = []Record{
	{Type: hci.PktTypeCommand, Data: []byte{0x03, 0x0c, 0x00}},
	{Type: hci.PktTypeEvent, Data: []byte{0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00}},
	{Type: hci.PktTypeACLData, Data: []byte{0x40, 0x20, 0x02, 0x00, 0xaa, 0xbb}},
	{Type: hci.PktTypeISOData, Data: []byte{0x40, 0x20, 0x01, 0x40, 0xcc}},
	{Type: hci.PktTypeSCOData, Data: []byte{0x40, 0x00, 0x01, 0xdd}},
}

func TestSplitH4(t *testing.T) {
	recs, err := SplitH4(stream)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(recs, streamRecords) {
		t.Fatalf("have %v, want %v", recs, streamRecords)
	}

	recs, err = SplitH4(append([]byte{0x00, 0xff}, stream[:len(stream)-1]...))
	if err == nil {
		t.Fatalf("incomplete packet not reported")
	}
	if !reflect.DeepEqual(recs, streamRecords[:4]) {
		t.Fatalf("have %v, want %v", recs, streamRecords[:4])
	}
}

func TestFramerChunks(t *testing.T) {
	for size := 1; size <= len(stream); size++ {
		f := NewFramer()
		var recs []Record
		for i := 0; i < len(stream); i += size {
			end := i + size
			if end > len(stream) {
				end = len(stream)
			}
			f.Write(stream[i:end])
			for r, ok := f.Next(); ok; r, ok = f.Next() {
				recs = append(recs, r)
			}
		}
		if !reflect.DeepEqual(recs, streamRecords) {
			t.Fatalf("chunk %d: have %v, want %v", size, recs, streamRecords)
		}
		if f.Pending() != 0 {
			t.Fatalf("chunk %d: %d bytes pending", size, f.Pending())
		}
	}
}

func pcapFile(t *testing.T, lt layers.LinkType, pkts ...[]byte) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	if err := w.WriteFileHeader(65536, lt); err != nil {
		t.Fatal(err)
	}
	for _, p := range pkts {
		ci := gopacket.CaptureInfo{CaptureLength: len(p), Length: len(p)}
		if err := w.WritePacket(ci, p); err != nil {
			t.Fatal(err)
		}
	}
	return &buf
}

func TestReadPcap(t *testing.T) {
	want := []Record{
		{Type: hci.PktTypeCommand, Data: []byte{0x03, 0x0c, 0x00}, Line: 1},
		{Type: hci.PktTypeEvent, Data: []byte{0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00}, Line: 2},
		{Type: hci.PktTypeACLData, Data: []byte{0x40, 0x20, 0x00, 0x00}, Line: 4},
	}

	recs, err := ReadPcap(pcapFile(t, LinkTypeH4,
		[]byte{0x01, 0x03, 0x0c, 0x00},
		[]byte{0x04, 0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00},
		[]byte{},
		[]byte{0x02, 0x40, 0x20, 0x00, 0x00},
	))
	if err == nil {
		t.Fatalf("empty packet not reported")
	}
	if merr, ok := err.(*multierror.Error); !ok || len(merr.Errors) != 1 {
		t.Fatalf("have %v, want one error", err)
	}
	if !reflect.DeepEqual(recs, want) {
		t.Fatalf("have %v, want %v", recs, want)
	}

	phdr := []byte{0x00, 0x00, 0x00, 0x01}
	recs, err = ReadPcap(pcapFile(t, LinkTypeH4WithPhdr,
		append(append([]byte(nil), phdr...), 0x01, 0x03, 0x0c, 0x00),
		append(append([]byte(nil), phdr...), 0x04, 0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00),
	))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(recs, want[:2]) {
		t.Fatalf("have %v, want %v", recs, want[:2])
	}
}

func TestReadPcapBad(t *testing.T) {
	if _, err := ReadPcap(pcapFile(t, layers.LinkTypeEthernet)); err == nil {
		t.Errorf("unsupported link type not reported")
	}
	if _, err := ReadPcap(strings.NewReader("not a pcap file at all, really")); err == nil {
		t.Errorf("bad header not reported")
	}
}
