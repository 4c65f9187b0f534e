package field

import (
	"encoding/hex"
	"fmt"
)

// Status marks the outcome of decoding one field.
type Status uint8

const (
	// StatusOk is a field that decoded and passed its checks.
	StatusOk Status = iota
	// StatusError is a field that failed a range, symbol or length check. Its
	// raw value and location are still reported.
	StatusError
	// StatusSubtreeStart opens a named group of fields.
	StatusSubtreeStart
	// StatusSubtreeEnd closes the innermost open group.
	StatusSubtreeEnd
)

var statusNames = [...]string{"ok", "error", "begin", "end"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Field is one decoded value together with where it came from.
type Field struct {
	Key    string
	Value  string
	Name   string
	Loc    Location
	Status Status
}

// Marker reports whether f brackets a subtree rather than carrying a value.
func (f Field) Marker() bool {
	return f.Status == StatusSubtreeStart || f.Status == StatusSubtreeEnd
}

// Annotated renders the value with its symbolic name, "value(name)".
func (f Field) Annotated() string {
	if f.Name == "" {
		return f.Value
	}
	return f.Value + "(" + f.Name + ")"
}

// Where renders the location with the status appended when it is not ok.
func (f Field) Where() string {
	if f.Status == StatusOk || f.Marker() {
		return f.Loc.String()
	}
	return f.Loc.String() + "," + f.Status.String()
}

func (f Field) String() string {
	return fmt.Sprintf("%s=%s %s", f.Key, f.Annotated(), f.Where())
}

// Hex renders an integer field value the way every decoder does, e.g. 0xc03.
func Hex(v uint64) string {
	return fmt.Sprintf("%#x", v)
}

// HexBytes renders raw bytes, e.g. 0x0a0b0c.
func HexBytes(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
