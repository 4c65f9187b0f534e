package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcapgo"
	"github.com/rigado/dissect/capture"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"hcidissect"}, args...))
	return out.String(), err
}

func TestDecodeCommand(t *testing.T) {
	out, err := run(t, "--format", "values", "decode", "--type", "cmd", "03", "0c", "00")
	if err != nil {
		t.Fatal(err)
	}
	want := `{"Opcode":"0xc03","OCF":"0x3(Reset)","OGF":"0x3(Controller & Baseband)","Command":"Reset","Parameter_Total_Length":"0x0"}` + "\n"
	if out != want {
		t.Fatalf("have %s, want %s", out, want)
	}

	out, err = run(t, "-f", "locations", "decode", "030c00")
	if err != nil {
		t.Fatal(err)
	}
	want = `{"Opcode":"(0,2)","OCF":"(0,2),bit(0,10)","OGF":"(1,1),bit(2,6)","Command":"(0,2)","Parameter_Total_Length":"(2,1)"}` + "\n"
	if out != want {
		t.Fatalf("have %s, want %s", out, want)
	}
}

func TestCaptureSharesSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.txt")
	content := strings.Join([]string{
		"# connection request, connection response, SDP request",
		"acl 40 20 0c 00 08 00 01 00 02 01 04 00 01 00 40 00",
		"acl 40 20 10 00 0c 00 01 00 03 01 08 00 41 00 40 00 00 00 00 00",
		"acl 40 20 0c 00 08 00 41 00 02 00 01 00 03 aa bb cc",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "capture", path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("have %d documents, want 3", len(lines))
	}
	if !strings.Contains(lines[2], `"SDP":{"PDU_ID":"0x2(SDP_ServiceSearchRequest)"`) {
		t.Fatalf("SDP not decoded: %s", lines[2])
	}
}

func TestH4(t *testing.T) {
	out, err := run(t, "-f", "values", "h4", "01 03 0c 00 04 0e 04 01 03 0c 00")
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 2 {
		t.Fatalf("have %d packets, want 2", len(lines))
	}

	if _, err := run(t, "h4", "01 03 0c"); err == nil {
		t.Fatalf("incomplete packet not reported")
	}
}

func TestPcap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hci.pcap")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, capture.LinkTypeH4); err != nil {
		t.Fatal(err)
	}
	for _, p := range [][]byte{{0x01, 0x03, 0x0c, 0x00}, {0x04, 0x0e, 0x04, 0x01, 0x03, 0x0c, 0x00}} {
		if err := w.WritePacket(gopacket.CaptureInfo{CaptureLength: len(p), Length: len(p)}, p); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "-f", "values", "pcap", path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("have %d packets, want 2", len(lines))
	}
	if !strings.Contains(lines[1], `"Command_Opcode":"0xc03"`) {
		t.Fatalf("event not decoded: %s", lines[1])
	}
}

func TestBadInput(t *testing.T) {
	for _, args := range [][]string{
		{"decode", "--type", "vendor", "00"},
		{"decode", "0g"},
		{"--format", "xml", "decode", "03 0c 00"},
		{"capture"},
		{"pcap"},
	} {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v: no error", args)
		}
	}
}
