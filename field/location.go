package field

import "fmt"

// Location pins a decoded field to the bytes, and optionally the bits, it was
// read from. Start is an offset into the top-level buffer handed to the
// decoder, never into the sub-slice a nested decoder happens to see.
//
// BitLen == 0 means the field is byte aligned. Otherwise the field occupies
// BitLen bits starting BitOffset bits above the least significant bit of the
// little-endian value stored at [Start, Start+Len), and BitOffset+BitLen <= Len*8.
type Location struct {
	Start     uint32
	Len       uint16
	BitOffset uint8
	BitLen    uint8
}

// Bytes returns the location of an n byte field starting at start.
func Bytes(start uint32, n int) Location {
	return Location{Start: start, Len: uint16(n)}
}

// Bits returns the location of a bit field inside the n bytes starting at start.
func Bits(start uint32, n int, offset, length uint8) Location {
	return Location{Start: start, Len: uint16(n), BitOffset: offset, BitLen: length}
}

// HasBits reports whether the location describes a sub-byte bit range.
func (l Location) HasBits() bool { return l.BitLen != 0 }

// End returns the offset one past the last byte of the location.
func (l Location) End() uint32 { return l.Start + uint32(l.Len) }

// String renders the location as "(start,len)" or "(start,len),bit(off,len)".
func (l Location) String() string {
	if !l.HasBits() {
		return fmt.Sprintf("(%d,%d)", l.Start, l.Len)
	}
	return fmt.Sprintf("(%d,%d),bit(%d,%d)", l.Start, l.Len, l.BitOffset, l.BitLen)
}
