// This package implements an order-preserving variable-length
// encoding for uint64 values. Comparing two encodings with
// bytes.Compare gives the same result as comparing the integers,
// so encoded values can be sorted and range-scanned without decoding.
//
// Based on D. Richard Hipp's "A Better Varint" from SQLite4.
//
// The first byte of an encoding selects one of nine length classes.
// Small values (0-240) are the lead byte itself. Larger values carry
// a fixed-width big-endian payload after the lead byte, and a larger
// class always has a larger lead byte.
package bvarint

import (
	"bytes"
	"errors"
	"io"

	"github.com/indexsupply/ordkey/bint"
)

// The buffer ends before the encoding its lead byte announces.
var ErrTruncatedInput = errors.New("bvarint: truncated input")

// Number of bytes needed to encode v: 1 through 9.
func Size(v uint64) int {
	return 1 + classFor(v).Width
}

// Writes the encoding of v to the front of b
// and returns the number of bytes written.
// Panics when b is shorter than Size(v).
func Put(b []byte, v uint64) int {
	c := classFor(v)
	n := 1 + c.Width
	if len(b) < n {
		panic("bvarint: supplied slice is too small for input")
	}
	p := v - c.Offset
	switch c.ID {
	case 0:
		b[0] = byte(v)
	case 1:
		// high bits of the payload ride in the lead byte
		b[0] = c.LeadMin + byte(p>>8)
		b[1] = byte(p)
	default:
		b[0] = c.LeadMin
		bint.Encode(b[1:n], p)
	}
	return n
}

func Append(b []byte, v uint64) []byte {
	var a [MaxLen]byte
	n := Put(a[:], v)
	return append(b, a[:n]...)
}

func AppendAll(b []byte, vs ...uint64) []byte {
	for _, v := range vs {
		b = Append(b, v)
	}
	return b
}

func Encode(v uint64) []byte {
	b := make([]byte, Size(v))
	Put(b, v)
	return b
}

func Write(w io.Writer, v uint64) error {
	var a [MaxLen]byte
	n := Put(a[:], v)
	_, err := w.Write(a[:n])
	return err
}

// Decodes the encoding starting at b[pos].
// Returns the value and the number of bytes consumed
// so that callers can advance pos to the next encoding.
//
// ErrTruncatedInput is returned when pos is outside of b
// or when b ends before the payload does.
func Decode(b []byte, pos int) (uint64, int, error) {
	if pos < 0 || pos >= len(b) {
		return 0, 0, ErrTruncatedInput
	}
	var (
		lead = b[pos]
		c    = classOf(lead)
		n    = 1 + c.Width
	)
	if len(b)-pos < n {
		return 0, 0, ErrTruncatedInput
	}
	switch c.ID {
	case 0:
		return uint64(lead), 1, nil
	case 1:
		p := uint64(lead-c.LeadMin)<<8 | uint64(b[pos+1])
		return c.Offset + p, n, nil
	default:
		return c.Offset + bint.Decode(b[pos+1:pos+n]), n, nil
	}
}

// Decodes the encoding at the front of b.
func Uint64(b []byte) (uint64, int, error) {
	return Decode(b, 0)
}

// Reads a single encoding from r.
// Returns io.EOF when r is empty before the lead byte
// and ErrTruncatedInput when it ends inside the payload.
func Read(r io.Reader) (uint64, error) {
	var a [MaxLen]byte
	if _, err := io.ReadFull(r, a[:1]); err != nil {
		return 0, err
	}
	n := 1 + classOf(a[0]).Width
	_, err := io.ReadFull(r, a[1:n])
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return 0, ErrTruncatedInput
	case err != nil:
		return 0, err
	}
	v, _, err := Decode(a[:n], 0)
	return v, err
}

// Reports whether b starts with the encoding
// that Encode would produce for the value it decodes to.
// Non-canonical spellings, such as F1 00 for 240,
// decode without error but sort after the canonical form.
func Canonical(b []byte) bool {
	v, n, err := Decode(b, 0)
	return err == nil && Size(v) == n
}

// Orders two encodings. Identical to bytes.Compare,
// which is the point.
func Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}
