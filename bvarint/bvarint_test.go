package bvarint

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/indexsupply/ordkey/tc"
	"kr.dev/diff"
)

func h(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

func TestEncode(t *testing.T) {
	cases := []struct {
		v    uint64
		want []byte
	}{
		{0, h("00")},
		{5, h("05")},
		{240, h("f0")},
		{241, h("f101")},
		{1000, h("f3f8")},
		{2287, h("f8ff")},
		{2288, h("f90000")},
		{67823, h("f9ffff")},
		{67824, h("fa0108f0")},
		{70000, h("fa011170")},
		{1<<24 - 1, h("faffffff")},
		{1 << 24, h("fb01000000")},
		{1<<32 - 1, h("fbffffffff")},
		{1 << 32, h("fc0100000000")},
		{1 << 40, h("fd010000000000")},
		{1 << 48, h("fe01000000000000")},
		{1<<56 - 1, h("feffffffffffffff")},
		{1 << 56, h("ff0100000000000000")},
		{math.MaxUint64, h("ffffffffffffffffff")},
	}
	for _, tc := range cases {
		got := Encode(tc.v)
		diff.Test(t, t.Errorf, got, tc.want)
		diff.Test(t, t.Errorf, Size(tc.v), len(tc.want))
		diff.Test(t, t.Errorf, Append([]byte{0xaa}, tc.v), append([]byte{0xaa}, tc.want...))
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		input []byte
		pos   int
		want  uint64
		n     int
	}{
		{h("00"), 0, 0, 1},
		{h("f0"), 0, 240, 1},
		{h("f101"), 0, 241, 2},
		{h("f8ff"), 0, 2287, 2},
		{h("f9ffff"), 0, 67823, 3},
		{h("fa0108f0"), 0, 67824, 4},
		{h("ffffffffffffffffff"), 0, math.MaxUint64, 9},
		{h("0005f0"), 1, 5, 1},
		{h("00fa011170ee"), 1, 70000, 4},
		// non-canonical spellings decode by formula
		{h("f100"), 0, 240, 2},
		{h("fa000000"), 0, 0, 4},
	}
	for _, tc := range cases {
		v, n, err := Decode(tc.input, tc.pos)
		if err != nil {
			t.Errorf("decoding %x at %d: %s", tc.input, tc.pos, err)
			continue
		}
		diff.Test(t, t.Errorf, v, tc.want)
		diff.Test(t, t.Errorf, n, tc.n)
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		desc  string
		input []byte
		pos   int
	}{
		{"empty", nil, 0},
		{"pos past end", h("00"), 1},
		{"negative pos", h("00"), -1},
		{"class 1 no payload", h("f1"), 0},
		{"class 3 one payload byte", h("fa00"), 0},
		{"class 8 seven payload bytes", h("ff00000000000000"), 0},
		{"truncated after pos", h("00f9ff"), 1},
	}
	for _, tc := range cases {
		_, n, err := Decode(tc.input, tc.pos)
		if !errors.Is(err, ErrTruncatedInput) {
			t.Errorf("%s: want ErrTruncatedInput got: %v", tc.desc, err)
		}
		diff.Test(t, t.Errorf, n, 0)
	}
}

// values on both sides of every class edge
// and every power of two
func interesting() []uint64 {
	var res []uint64
	seed := []uint64{0, 0xef, 0x7ee, 0x8ee, 0x107ee, 0x108ee}
	for _, c := range classes {
		seed = append(seed, c.Min, c.Max-3)
	}
	for b := 5; b < 64; b++ {
		seed = append(seed, uint64(1)<<b-2)
	}
	for _, v := range seed {
		for i := uint64(0); i < 4 && v+i >= v; i++ {
			res = append(res, v+i)
		}
	}
	return res
}

func checkRoundTrip(tb testing.TB, v uint64) {
	b := Encode(v)
	got, n, err := Decode(b, 0)
	if err != nil {
		tb.Fatalf("decoding %d (%x): %s", v, b, err)
	}
	if got != v || n != len(b) {
		tb.Errorf("round trip %d: got %d (%d bytes of %x)", v, got, n, b)
	}
	if !Canonical(b) {
		tb.Errorf("%x not canonical", b)
	}
}

func checkOrder(tb testing.TB, x, y uint64) {
	var (
		bx   = Encode(x)
		by   = Encode(y)
		want = 0
	)
	switch {
	case x < y:
		want = -1
	case x > y:
		want = 1
	}
	if got := bytes.Compare(bx, by); got != want {
		tb.Errorf("order(%d, %d) want: %d got: %d (%x %x)", x, y, want, got, bx, by)
	}
}

func TestRoundTrip(t *testing.T) {
	for v := uint64(0); v < 1<<20; v++ {
		checkRoundTrip(t, v)
	}
	for _, v := range interesting() {
		checkRoundTrip(t, v)
	}
}

func TestOrder(t *testing.T) {
	for v := uint64(0); v < 1<<20; v++ {
		checkOrder(t, v, v+1)
	}
	vals := interesting()
	for _, x := range vals {
		for _, y := range vals {
			checkOrder(t, x, y)
		}
	}
}

func TestSize_Monotonic(t *testing.T) {
	vals := interesting()
	for _, x := range vals {
		for _, y := range vals {
			if x <= y && Size(x) > Size(y) {
				t.Errorf("Size(%d)=%d > Size(%d)=%d", x, Size(x), y, Size(y))
			}
		}
	}
}

func TestNoPrefix(t *testing.T) {
	vals := interesting()
	for _, x := range vals {
		for _, y := range vals {
			if x == y {
				continue
			}
			if bytes.HasPrefix(Encode(y), Encode(x)) {
				t.Errorf("%x is a prefix of %x", Encode(x), Encode(y))
			}
		}
	}
}

func TestConcat(t *testing.T) {
	var (
		want = []uint64{5, 1000, 70000}
		buf  = AppendAll(nil, want...)
		got  []uint64
		pos  int
	)
	diff.Test(t, t.Errorf, buf, h("05f3f8fa011170"))
	for pos < len(buf) {
		v, n, err := Decode(buf, pos)
		tc.NoErr(t, err)
		got = append(got, v)
		pos += n
	}
	diff.Test(t, t.Errorf, got, want)
	diff.Test(t, t.Errorf, pos, len(buf))
}

func TestReadWrite(t *testing.T) {
	var buf bytes.Buffer
	vals := interesting()
	for _, v := range vals {
		tc.NoErr(t, Write(&buf, v))
	}
	for _, v := range vals {
		got, err := Read(&buf)
		tc.NoErr(t, err)
		tc.WantGot(t, v, got)
	}
	_, err := Read(&buf)
	tc.WantErr(t, err, io.EOF)

	_, err = Read(bytes.NewReader(h("fb0000")))
	tc.WantErr(t, err, ErrTruncatedInput)
}

func TestCanonical(t *testing.T) {
	cases := []struct {
		input []byte
		want  bool
	}{
		{h("f0"), true},
		{h("f101"), true},
		{h("f100"), false},
		{h("f90000"), true},
		{h("fa0108ef"), false},
		{h("fa0108f0"), true},
		{h("fb00ffffff"), false},
		{h("fa01"), false},
	}
	for _, tc := range cases {
		diff.Test(t, t.Errorf, Canonical(tc.input), tc.want)
	}
}

func TestPut_Panic(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for short slice")
		}
	}()
	Put(make([]byte, 2), 2288)
}

func FuzzRoundTrip(f *testing.F) {
	for _, v := range interesting() {
		f.Add(v)
	}
	f.Fuzz(func(t *testing.T, v uint64) {
		checkRoundTrip(t, v)
	})
}

func FuzzOrder(f *testing.F) {
	f.Add(uint64(240), uint64(241))
	f.Add(uint64(67823), uint64(67824))
	f.Add(uint64(1<<56-1), uint64(1<<56))
	f.Fuzz(func(t *testing.T, x, y uint64) {
		checkOrder(t, x, y)
		if bytes.Equal(Encode(x), Encode(y)) != (x == y) {
			t.Errorf("equality mismatch for %d %d", x, y)
		}
	})
}

func FuzzDecode(f *testing.F) {
	f.Add(h("fa0108f0"))
	f.Add(h("f1"))
	f.Fuzz(func(t *testing.T, b []byte) {
		v, n, err := Decode(b, 0)
		if err != nil {
			if !errors.Is(err, ErrTruncatedInput) {
				t.Fatalf("unexpected error: %s", err)
			}
			return
		}
		if n < 1 || n > len(b) {
			t.Fatalf("consumed %d of %d", n, len(b))
		}
		if Canonical(b) && !bytes.Equal(Encode(v), b[:n]) {
			t.Errorf("canonical %x re-encodes as %x", b[:n], Encode(v))
		}
	})
}

func BenchmarkEncode(b *testing.B) {
	buf := make([]byte, MaxLen)
	b.ReportAllocs()
	for n := 0; n < b.N; n++ {
		Put(buf, uint64(n)*2654435761)
	}
}

func BenchmarkDecode(b *testing.B) {
	buf := Encode(1<<40 + 12345)
	b.ReportAllocs()
	for n := 0; n < b.N; n++ {
		Decode(buf, 0)
	}
}
