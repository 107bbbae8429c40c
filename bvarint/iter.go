package bvarint

import "golang.org/x/xerrors"

// Iter walks a buffer of back-to-back encodings.
//
//	for it := bvarint.NewIter(b); it.HasNext(); {
//		v := it.Next()
//	}
//	if err := it.Err(); err != nil {
type Iter struct {
	b   []byte
	pos int
	err error
}

func NewIter(b []byte) *Iter {
	return &Iter{b: b}
}

func (it *Iter) HasNext() bool {
	return it.err == nil && it.pos < len(it.b)
}

// Returns 0 and stops the iteration
// when the remaining bytes are truncated.
func (it *Iter) Next() uint64 {
	v, n, err := Decode(it.b, it.pos)
	if err != nil {
		it.err = xerrors.Errorf("decoding at %d: %w", it.pos, err)
		return 0
	}
	it.pos += n
	return v
}

// Offset of the next encoding
func (it *Iter) Pos() int { return it.pos }

func (it *Iter) Err() error { return it.err }

// Decodes every encoding in b.
// The buffer must be consumed exactly.
func DecodeAll(b []byte) ([]uint64, error) {
	var (
		res []uint64
		it  = NewIter(b)
	)
	for it.HasNext() {
		v := it.Next()
		if it.Err() != nil {
			break
		}
		res = append(res, v)
	}
	return res, it.Err()
}
