package sdp

import (
	"testing"

	"github.com/rigado/dissect/field"
)

func TestHeader(t *testing.T) {
	n := Decode([]byte{0x06, 0x12, 0x34, 0x00, 0x02, 0x35, 0x03})
	for _, tc := range []struct {
		key   string
		value string
		loc   field.Location
	}{
		{"PDU_ID", "0x6(SDP_ServiceSearchAttributeRequest)", field.Bytes(0, 1)},
		{"Transaction_ID", "0x1234", field.Bytes(1, 2)},
		{"Parameter_Length", "0x2", field.Bytes(3, 2)},
		{"Parameters", "0x3503", field.Bytes(5, 2)},
	} {
		f, ok := n.Lookup(tc.key)
		if !ok {
			t.Fatalf("%v: missing", tc.key)
		}
		if f.Annotated() != tc.value || f.Loc != tc.loc || f.Status != field.StatusOk {
			t.Errorf("%v: have %v, want %v %v", tc.key, f, tc.value, tc.loc)
		}
	}
}

func TestMalformed(t *testing.T) {
	n := Decode([]byte{0x09, 0x00, 0x01, 0x00, 0x01, 0xaa, 0xbb})
	for _, key := range []string{"PDU_ID", "Trailing_Data"} {
		if f, _ := n.Lookup(key); f.Status != field.StatusError {
			t.Errorf("%v: have %v", key, f)
		}
	}
	if f, _ := n.Lookup("Parameter_Length"); f.Status != field.StatusError {
		t.Errorf("have %v", f)
	}

	for i := 0; i < HeaderLen; i++ {
		n := Decode(make([]byte, i))
		if len(n.Errors()) == 0 {
			t.Errorf("%d bytes: truncation not reported", i)
		}
	}
}

func TestPDUName(t *testing.T) {
	if have, want := PDUName(ErrorResponse), "SDP_ErrorResponse"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if PDUName(0) != "" {
		t.Errorf("unknown pdu named")
	}
}
