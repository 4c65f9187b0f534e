package field

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Swap returns a reversed copy of in. Addresses and UUIDs travel least
// significant byte first.
func Swap(in []byte) []byte {
	a := make([]byte, 0, len(in))
	a = append(a, in...)
	for i := len(a)/2 - 1; i >= 0; i-- {
		opp := len(a) - 1 - i
		a[i], a[opp] = a[opp], a[i]
	}
	return a
}

// Addr renders a BD_ADDR the way it is written, e.g. "00:1a:7d:da:71:13".
func Addr(b []byte) string {
	r := Swap(b)
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = fmt.Sprintf("%02x", v)
	}
	return strings.Join(parts, ":")
}

// UUID renders a 16, 32 or 128 bit UUID, e.g. "180d" or
// "6e400001-b5a3-f393-e0a9-e50e24dcca9e".
func UUID(b []byte) string {
	r := Swap(b)
	if len(r) != 16 {
		return hex.EncodeToString(r)
	}
	return fmt.Sprintf("%x-%x-%x-%x-%x", r[:4], r[4:6], r[6:8], r[8:10], r[10:])
}

// Addr reads a 6 byte BD_ADDR.
func (c *Cursor) Addr(key string) ([]byte, bool) {
	b, at, ok := c.Take(key, 6)
	if !ok {
		return nil, false
	}
	c.Emit(key, Addr(b), Bytes(at, 6))
	return b, true
}
