package field

import (
	"reflect"
	"testing"
)

func TestLocationString(t *testing.T) {
	for _, tc := range []struct {
		loc  Location
		want string
	}{
		{Bytes(0, 2), "(0,2)"},
		{Bits(1, 1, 2, 6), "(1,1),bit(2,6)"},
		{Bytes(7, 0), "(7,0)"},
	} {
		if have := tc.loc.String(); have != tc.want {
			t.Errorf("have %v, want %v", have, tc.want)
		}
	}
}

func TestFieldRendering(t *testing.T) {
	f := Field{Key: "OCF", Value: "0x3", Name: "Reset", Loc: Bits(0, 2, 0, 10)}
	if have, want := f.Annotated(), "0x3(Reset)"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	f.Status = StatusError
	if have, want := f.Where(), "(0,2),bit(0,10),error"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := HexBytes([]byte{0x0a, 0x0b}), "0x0a0b"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if have, want := Hex(0), "0x0"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestCursorReads(t *testing.T) {
	n := NewNode("Test")
	c := NewCursor(n, []byte{0x01, 0x03, 0x0c, 0x33, 0x8b, 0x9e, 0x12, 0x34, 0xaa, 0xbb}, 10)

	if v, ok := c.Uint8("A"); !ok || v != 0x01 {
		t.Fatalf("have %v %v", v, ok)
	}
	if v, ok := c.Uint16("B"); !ok || v != 0x0c03 {
		t.Fatalf("have %v %v", v, ok)
	}
	if v, ok := c.Uint24("C"); !ok || v != 0x9e8b33 {
		t.Fatalf("have %v %v", v, ok)
	}
	if v, ok := c.Uint16BE("D"); !ok || v != 0x1234 {
		t.Fatalf("have %v %v", v, ok)
	}
	if c.Pos() != 18 || c.Len() != 2 {
		t.Fatalf("have pos %v len %v", c.Pos(), c.Len())
	}
	if b := c.Remainder("E"); !reflect.DeepEqual(b, []byte{0xaa, 0xbb}) {
		t.Fatalf("have %x", b)
	}
	if c.Remainder("F") != nil {
		t.Fatalf("remainder of an empty cursor")
	}

	var have []string
	for _, f := range n.Fields {
		have = append(have, f.String())
	}
	want := []string{
		"A=0x1 (10,1)",
		"B=0xc03 (11,2)",
		"C=0x9e8b33 (13,3)",
		"D=0x1234 (16,2)",
		"E=0xaabb (18,2)",
	}
	if !reflect.DeepEqual(have, want) {
		t.Fatalf("have %v, want %v", have, want)
	}
}

func TestCursorTruncation(t *testing.T) {
	n := NewNode("Test")
	c := NewCursor(n, []byte{0x01, 0x02, 0x03}, 4)
	c.Uint8("A")
	if _, ok := c.Uint32("B"); ok {
		t.Fatalf("read past the end")
	}
	if _, ok := c.Uint8("C"); ok {
		t.Fatalf("read after a shortfall")
	}
	if !c.Short() || c.Len() != 0 {
		t.Fatalf("have short %v len %v", c.Short(), c.Len())
	}
	if len(n.Fields) != 2 {
		t.Fatalf("have %v fields, want 2", len(n.Fields))
	}
	f := n.Fields[1]
	if f.Key != "B" || f.Status != StatusError || f.Loc != Bytes(5, 2) || f.Value != "truncated: want 4, have 2" {
		t.Fatalf("unexpected %v", f)
	}
}

func TestCursorSub(t *testing.T) {
	n := NewNode("Test")
	c := NewCursor(n, []byte{0x01, 0x02, 0x03, 0x04}, 0)
	c.Skip(1)
	sub := c.Sub(2)
	if c.Pos() != 3 || sub.Pos() != 1 || sub.Len() != 2 {
		t.Fatalf("have parent %v sub %v/%v", c.Pos(), sub.Pos(), sub.Len())
	}
	sub.Uint16("A")
	if _, ok := sub.Uint8("B"); ok || !sub.Short() || c.Short() {
		t.Fatalf("shortfall leaked to the parent")
	}

	// A sub window longer than what is left covers the rest.
	if sub := c.Sub(5); sub.Len() != 1 || c.Len() != 0 {
		t.Fatalf("have sub %v parent %v", sub.Len(), c.Len())
	}
}

func TestAnnotation(t *testing.T) {
	n := NewNode("Test")
	c := NewCursor(n, []byte{0x01, 0x02, 0x03}, 0)
	c.Uint8("A")
	c.Name("one")
	c.Uint8("B")
	c.Name("")
	c.Uint8("C")
	c.Annotate("")
	c.Check(true)

	for i, want := range []Status{StatusOk, StatusError, StatusOk} {
		if n.Fields[i].Status != want {
			t.Errorf("%v: have %v, want %v", n.Fields[i].Key, n.Fields[i].Status, want)
		}
	}
	if n.Fields[0].Annotated() != "0x1(one)" {
		t.Errorf("have %v", n.Fields[0].Annotated())
	}

	// Markers are never annotated.
	n.Begin("S", 3)
	c.Check(false)
	if n.Last().Status != StatusSubtreeStart {
		t.Errorf("marker status changed")
	}
}

func TestSubtrees(t *testing.T) {
	n := NewNode("Test")
	c := NewCursor(n, []byte{0x01, 0x02, 0x03}, 0)
	c.Uint8("A")
	n.Begin("S", c.Pos())
	c.Uint8("A")
	n.Begin("T", c.Pos())
	c.Uint8("A")
	n.End(c.Pos())
	n.End(c.Pos())
	n.End(c.Pos())

	if len(n.Fields) != 7 {
		t.Fatalf("have %v fields, want 7", len(n.Fields))
	}
	if begin := n.Fields[1]; begin.Loc != Bytes(1, 2) {
		t.Errorf("have %v, want %v", begin.Loc, Bytes(1, 2))
	}
	for _, tc := range []struct {
		path []string
		loc  Location
	}{
		{[]string{"A"}, Bytes(0, 1)},
		{[]string{"S", "A"}, Bytes(1, 1)},
		{[]string{"S", "T", "A"}, Bytes(2, 1)},
	} {
		f, ok := n.Lookup(tc.path...)
		if !ok || f.Loc != tc.loc {
			t.Errorf("%v: have %v %v, want %v", tc.path, f, ok, tc.loc)
		}
	}
	if _, ok := n.Lookup("T", "A"); ok {
		t.Errorf("lookup ignored nesting")
	}
	if !n.Subtree("S", "T") || n.Subtree("T") {
		t.Errorf("subtree lookup")
	}

	var paths [][]string
	n.Walk(func(path []string, f Field) {
		paths = append(paths, append([]string(nil), path...))
	})
	want := [][]string{nil, {"S"}, {"S", "T"}}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("have %v, want %v", paths, want)
	}
}

func TestAddr(t *testing.T) {
	b := []byte{0x13, 0x71, 0xda, 0x7d, 0x1a, 0x00}
	if have, want := Addr(b), "00:1a:7d:da:71:13"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	if b[0] != 0x13 {
		t.Errorf("input modified")
	}
	if have, want := UUID([]byte{0x0d, 0x18}), "180d"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
	u := Swap([]byte{0x6e, 0x40, 0x00, 0x01, 0xb5, 0xa3, 0xf3, 0x93, 0xe0, 0xa9, 0xe5, 0x0e, 0x24, 0xdc, 0xca, 0x9e})
	if have, want := UUID(u), "6e400001-b5a3-f393-e0a9-e50e24dcca9e"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}

	n := NewNode("Test")
	c := NewCursor(n, b, 2)
	c.Addr("BD_ADDR")
	if have, want := n.Fields[0].String(), "BD_ADDR=00:1a:7d:da:71:13 (2,6)"; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}
