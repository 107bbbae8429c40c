// Order-preserving composite keys.
//
// A Key is built by appending typed fields. Two keys built from
// the same field types compare with bytes.Compare in the same order
// as their fields compared one after the other, so they can be used
// directly as keys in a sorted store.
package key

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/indexsupply/ordkey/bint"
	"github.com/indexsupply/ordkey/bvarint"
	"golang.org/x/xerrors"
)

// Bytes are written in groups of 8. Each group is followed by
// a marker: more when another group follows, otherwise the number
// of meaningful bytes in the zero-padded group.
const (
	group = 8
	more  = group + 1
)

var (
	ErrMalformed = errors.New("key: malformed field")
	ErrTrailing  = errors.New("key: trailing bytes")
)

type Key []byte

func New() Key { return Key{} }

func (k Key) Uint64(v uint64) Key {
	return bvarint.Append(k, v)
}

func (k Key) Bytes(p []byte) Key {
	for {
		n := min(group, len(p))
		k = append(k, p[:n]...)
		p = p[n:]
		if n == group && len(p) > 0 {
			k = append(k, more)
			continue
		}
		for i := n; i < group; i++ {
			k = append(k, 0)
		}
		return append(k, byte(n))
	}
}

func (k Key) String(s string) Key {
	return k.Bytes([]byte(s))
}

// Writes the byte width of x followed by its
// minimal big-endian bytes. A wider number is always larger.
func (k Key) Uint256(x *uint256.Int) Key {
	b := bint.Bytes256(x)
	k = bvarint.Append(k, uint64(len(b)))
	return append(k, b...)
}

// Returns the smallest key that sorts after every key
// starting with k, or nil when there is none.
// Scanning [k, PrefixEnd(k)) visits exactly the keys prefixed by k.
func PrefixEnd(k []byte) []byte {
	end := append([]byte{}, k...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// Reads fields back in the order they were appended.
// The first error sticks: later reads return zero values
// and Done reports it.
type Decoder struct {
	b     []byte
	pos   int
	field int
	err   error
}

func NewDecoder(k []byte) *Decoder {
	return &Decoder{b: k}
}

func (d *Decoder) fail(err error) {
	if d.err == nil {
		d.err = xerrors.Errorf("field %d at %d: %w", d.field, d.pos, err)
	}
}

func (d *Decoder) Uint64() uint64 {
	if d.err != nil {
		return 0
	}
	v, n, err := bvarint.Decode(d.b, d.pos)
	if err != nil {
		d.fail(err)
		return 0
	}
	d.pos += n
	d.field++
	return v
}

func (d *Decoder) Bytes() []byte {
	if d.err != nil {
		return nil
	}
	res := []byte{}
	for i := d.pos; ; i += more {
		if len(d.b)-i < more {
			d.fail(bvarint.ErrTruncatedInput)
			return nil
		}
		m := d.b[i+group]
		switch {
		case m == more:
			res = append(res, d.b[i:i+group]...)
			continue
		case m > more:
			d.fail(ErrMalformed)
			return nil
		}
		for _, c := range d.b[i+int(m) : i+group] {
			if c != 0 {
				d.fail(ErrMalformed)
				return nil
			}
		}
		res = append(res, d.b[i:i+int(m)]...)
		d.pos = i + more
		d.field++
		return res
	}
}

func (d *Decoder) String() string {
	return string(d.Bytes())
}

func (d *Decoder) Uint256() uint256.Int {
	if d.err != nil {
		return uint256.Int{}
	}
	w, n, err := bvarint.Decode(d.b, d.pos)
	switch {
	case err != nil:
		d.fail(err)
		return uint256.Int{}
	case w > 32:
		d.fail(ErrMalformed)
		return uint256.Int{}
	case uint64(len(d.b)-d.pos-n) < w:
		d.fail(bvarint.ErrTruncatedInput)
		return uint256.Int{}
	}
	b := d.b[d.pos+n : d.pos+n+int(w)]
	if len(b) > 0 && b[0] == 0 {
		d.fail(ErrMalformed)
		return uint256.Int{}
	}
	d.pos += n + int(w)
	d.field++
	return bint.Uint256(b)
}

// Returns the first decoding error, or ErrTrailing
// when bytes remain after the last field read.
func (d *Decoder) Done() error {
	if d.err != nil {
		return d.err
	}
	if d.pos != len(d.b) {
		return xerrors.Errorf("%d bytes after field %d: %w", len(d.b)-d.pos, d.field, ErrTrailing)
	}
	return nil
}
