// big endian, fixed-width uint64 binary encoding/decoding
package bint

import "github.com/holiman/uint256"

// Encodes a uint64 into a big-endian byte slice
// left-padded with zeros to len(b).
// To avoid an allocation, or to have a padded result,
// supply an initialized value for b -otherwise use nil.
// Panics when provided slice is too small for n.
func Encode(b []byte, n uint64) []byte {
	if b == nil {
		b = make([]byte, Size(n))
	}
	if Size(n) > len(b) && n > 0 {
		panic("bint: supplied slice is too small for input")
	}
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = byte(n & 0xff)
		n = n >> 8
	}
	return b
}

// Minimal number of bytes needed to hold n.
// Zero needs one byte.
func Size(n uint64) int {
	if n == 0 {
		return 1
	}
	var s int
	for n > 0 {
		n = n >> 8
		s++
	}
	return s
}

// Decodes big-endian byte array into a uint64
// left-padded zero bytes are ignored.
// Only the last 8 bytes count when len(b) > 8
func Decode(b []byte) uint64 {
	var n uint64
	for i := 0; i < len(b); i++ {
		n = n << 8
		n += uint64(b[i])
	}
	return n
}

func Uint16(b []byte) uint16 { return uint16(Decode(b)) }
func Uint32(b []byte) uint32 { return uint32(Decode(b)) }
func Uint64(b []byte) uint64 { return Decode(b) }

// Big-endian bytes of any length up to 32
func Uint256(b []byte) uint256.Int {
	var i uint256.Int
	i.SetBytes(b)
	return i
}

// Minimal big-endian bytes of i.
// Zero has no bytes.
func Bytes256(i *uint256.Int) []byte {
	if i.IsZero() {
		return []byte{}
	}
	return i.Bytes()
}
