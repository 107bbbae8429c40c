package bvarint

import (
	"math"

	"github.com/indexsupply/ordkey/bint"
)

// A Class is one of the nine length classes.
// The lead byte of an encoding selects exactly one class
// and every uint64 belongs to exactly one class.
type Class struct {
	ID      int
	LeadMin byte
	LeadMax byte
	Width   int // payload bytes after the lead byte
	Min     uint64
	Max     uint64
	Offset  uint64 // subtracted from a value before writing its payload
}

// Longest encoding: a lead byte and 8 payload bytes.
const MaxLen = 9

var classes = [9]Class{
	{ID: 0, LeadMin: 0x00, LeadMax: 0xf0, Width: 0, Min: 0, Max: 240},
	{ID: 1, LeadMin: 0xf1, LeadMax: 0xf8, Width: 1, Min: 241, Max: 2287, Offset: 240},
	{ID: 2, LeadMin: 0xf9, LeadMax: 0xf9, Width: 2, Min: 2288, Max: 67823, Offset: 2288},
	{ID: 3, LeadMin: 0xfa, LeadMax: 0xfa, Width: 3, Min: 67824, Max: 1<<24 - 1},
	{ID: 4, LeadMin: 0xfb, LeadMax: 0xfb, Width: 4, Min: 1 << 24, Max: 1<<32 - 1},
	{ID: 5, LeadMin: 0xfc, LeadMax: 0xfc, Width: 5, Min: 1 << 32, Max: 1<<40 - 1},
	{ID: 6, LeadMin: 0xfd, LeadMax: 0xfd, Width: 6, Min: 1 << 40, Max: 1<<48 - 1},
	{ID: 7, LeadMin: 0xfe, LeadMax: 0xfe, Width: 7, Min: 1 << 48, Max: 1<<56 - 1},
	{ID: 8, LeadMin: 0xff, LeadMax: 0xff, Width: 8, Min: 1 << 56, Max: math.MaxUint64},
}

// Returns a copy of the length class table ordered by ID.
func Classes() []Class {
	c := classes
	return c[:]
}

// Returns the class selected by a lead byte.
// All 256 lead bytes select a class.
func ClassOf(lead byte) Class {
	return *classOf(lead)
}

func classOf(lead byte) *Class {
	switch {
	case lead <= 0xf0:
		return &classes[0]
	case lead <= 0xf8:
		return &classes[1]
	default:
		return &classes[lead-0xf7]
	}
}

// Returns the class whose value range contains v.
func ClassFor(v uint64) Class {
	return *classFor(v)
}

func classFor(v uint64) *Class {
	switch {
	case v <= 240:
		return &classes[0]
	case v <= 2287:
		return &classes[1]
	case v <= 67823:
		return &classes[2]
	}
	// From class 3 on the payload is the plain
	// big-endian value so the class id is its byte width.
	return &classes[bint.Size(v)]
}
