package dispatch

import (
	"testing"

	"github.com/rigado/dissect/field"
)

type counter struct {
	calls []string
}

func record(name string) Func[*counter] {
	return func(c *field.Cursor, ctx *counter, m Match) {
		ctx.calls = append(ctx.calls, name)
		c.Remainder("Body")
	}
}

var testTable = Table[*counter]{
	Variants: map[uint32]Variant[*counter]{
		0x01: {Name: "One", Decode: record("one")},
		0x02: {Name: "Two"},
	},
	Ranges: []Range[*counter]{
		{Lo: 0x40, Hi: 0xff, Variant: Variant[*counter]{Name: "High", Decode: record("high")}},
	},
}

var testKey = Discriminant{Key: "Code", Width: 1}

func TestDispatch(t *testing.T) {
	for _, tc := range []struct {
		b     []byte
		name  string
		found bool
		calls int
	}{
		{[]byte{0x01, 0xaa}, "One", true, 1},
		{[]byte{0x02, 0xaa}, "Two", true, 0},
		{[]byte{0x41, 0xaa}, "High", true, 1},
		{[]byte{0x03, 0xaa}, "", false, 0},
	} {
		n := field.NewNode("Test")
		ctx := &counter{}
		m, v, found := Dispatch(field.NewCursor(n, tc.b, 0), ctx, testKey, &testTable)
		if v.Name != tc.name || found != tc.found || len(ctx.calls) != tc.calls {
			t.Fatalf("%x: have %v %v %v", tc.b, v.Name, found, ctx.calls)
		}
		if m.Value != uint32(tc.b[0]) || m.Loc != field.Bytes(0, 1) {
			t.Fatalf("%x: have %+v", tc.b, m)
		}
		f := n.Fields[0]
		if f.Key != "Code" || f.Name != tc.name || (f.Status == field.StatusOk) != tc.found {
			t.Fatalf("%x: have %v", tc.b, f)
		}
	}
}

func TestDispatchTruncated(t *testing.T) {
	n := field.NewNode("Test")
	c := field.NewCursor(n, []byte{0x01}, 0)
	_, v, found := Dispatch(c, &counter{}, Discriminant{Key: "Code", Width: 2}, &testTable)
	if found || v.Name != "" {
		t.Fatalf("have %v %v", v.Name, found)
	}
	if len(n.Fields) != 1 || n.Fields[0].Status != field.StatusError || n.Fields[0].Loc != field.Bytes(0, 1) {
		t.Fatalf("unexpected fields %v", n.Fields)
	}

	n = field.NewNode("Test")
	Dispatch(field.NewCursor(n, nil, 0), &counter{}, testKey, &testTable)
	if len(n.Fields) != 1 || n.Fields[0].Loc != field.Bytes(0, 0) {
		t.Fatalf("unexpected fields %v", n.Fields)
	}
}

func TestDispatchWidths(t *testing.T) {
	for _, tc := range []struct {
		d    Discriminant
		b    []byte
		want uint32
	}{
		{Discriminant{Key: "K", Width: 2}, []byte{0x34, 0x12}, 0x1234},
		{Discriminant{Key: "K", Width: 2, BigEndian: true}, []byte{0x12, 0x34}, 0x1234},
		{Discriminant{Key: "K", Width: 3}, []byte{0x33, 0x8b, 0x9e}, 0x9e8b33},
		{Discriminant{Key: "K", Width: 3, BigEndian: true}, []byte{0x9e, 0x8b, 0x33}, 0x9e8b33},
	} {
		m, _, _ := Dispatch(field.NewCursor(field.NewNode("Test"), tc.b, 0), &counter{}, tc.d, &testTable)
		if m.Value != tc.want {
			t.Errorf("have %#x, want %#x", m.Value, tc.want)
		}
	}
}

func TestMaskAndFallback(t *testing.T) {
	table := testTable
	table.Fallback = record("fallback")

	n := field.NewNode("Test")
	ctx := &counter{}
	Dispatch(field.NewCursor(n, []byte{0x81, 0xaa}, 0), ctx, Discriminant{Key: "Type", Width: 1, Mask: 0x7f}, &table)
	if len(ctx.calls) != 1 || ctx.calls[0] != "one" || n.Fields[0].Annotated() != "0x81(One)" {
		t.Fatalf("have %v %v", ctx.calls, n.Fields[0])
	}

	ctx = &counter{}
	Dispatch(field.NewCursor(field.NewNode("Test"), []byte{0x05}, 0), ctx, testKey, &table)
	if len(ctx.calls) != 1 || ctx.calls[0] != "fallback" {
		t.Fatalf("have %v", ctx.calls)
	}
}

func TestLookup(t *testing.T) {
	var nilTable *Table[*counter]
	if _, ok := nilTable.Lookup(1); ok || nilTable.Name(1) != "" {
		t.Fatalf("nil table resolved")
	}
	if testTable.Name(0xff) != "High" || testTable.Name(0x3f) != "" {
		t.Fatalf("range lookup")
	}
}

func TestFramed(t *testing.T) {
	body := Framed("Length", 2, func(c *field.Cursor, _ *counter, _ Match) {
		c.Uint8("X")
	})

	n := field.NewNode("Test")
	c := field.NewCursor(n, []byte{0x02, 0x00, 0x01, 0x02, 0x03}, 0)
	body(c, &counter{}, Match{})
	if c.Len() != 1 {
		t.Fatalf("have %v left, want 1", c.Len())
	}
	data, ok := n.Lookup("Data")
	if !ok || data.Status != field.StatusError || data.Loc != field.Bytes(3, 1) {
		t.Fatalf("unconsumed body: %v %v", data, ok)
	}

	n = field.NewNode("Test")
	Framed[*counter]("Length", 1, nil)(field.NewCursor(n, []byte{0x05, 0x01}, 0), &counter{}, Match{})
	length, _ := n.Lookup("Length")
	data, _ = n.Lookup("Data")
	if length.Status != field.StatusError || data.Status != field.StatusOk || data.Value != "0x01" {
		t.Fatalf("have %v %v", length, data)
	}
}
