package scan

import (
	"encoding/binary"
	"math"
)

// Candidate pairs a byte offset with the little-endian IEEE-754 double read
// there. Candidates from the sliding scan may overlap; only a subset
// survives association.
type Candidate struct {
	Offset int
	Value  float64

	// Anchored marks values immediately preceded by the legacy sentinel
	// pattern FF FF FF FF FF FF [11|15] 00, observed to bracket balance
	// fields in chart files. The associator prefers an anchored candidate
	// anywhere in its window over any unanchored one.
	Anchored bool
}

// Bounds constrains the magnitude of accepted values.
type Bounds struct {
	Min          float64
	Max          float64
	MinInclusive bool
}

var (
	// CoarseBounds applies to archive-wide scans where record boundaries
	// are unknown.
	CoarseBounds = Bounds{Min: 0.01, Max: 1e9}

	// TightBounds applies when scanning forward from a known header offset.
	TightBounds = Bounds{Min: 1, Max: 1e12, MinInclusive: true}

	// WideBounds is the union of the coarse and tight ranges. The candidate
	// offset index consulted before localized rescans is built with these, so
	// a value only the tight rescan would accept still has an index entry.
	WideBounds = Bounds{Min: 0.01, Max: 1e12}
)

// Contains reports whether an absolute value falls within the bounds.
func (b Bounds) Contains(abs float64) bool {
	if b.MinInclusive {
		if abs < b.Min {
			return false
		}
	} else if abs <= b.Min {
		return false
	}
	return abs < b.Max
}

// MoneyShaped reports whether v is plausibly a currency amount: finite and
// sitting on the thousandths grid within tolerance, which admits cent
// values plus the half-cent boundary (1.005 passes, 1.0051 does not).
// Random binary data reinterpreted as doubles almost never lands on this
// grid, so the predicate is the primary discriminator between balances and
// noise.
func MoneyShaped(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	mills := v * 1000
	return math.Abs(mills-math.Round(mills)) < 0.001
}

// Doubles performs the unaligned sliding-window scan: the 8 bytes at every
// offset are reinterpreted as a little-endian double and kept when finite,
// within bounds, and money-shaped. Record boundaries in the legacy format
// are unknown, so this is a byte-by-byte scan, not a fixed-stride one: O(n)
// over the buffer with one 8-byte read per offset.
func Doubles(buf []byte, b Bounds) []Candidate {
	var out []Candidate
	for i := 0; i+8 <= len(buf); i++ {
		v := math.Float64frombits(binary.LittleEndian.Uint64(buf[i : i+8]))
		if !Plausible(v, b) {
			continue
		}
		out = append(out, Candidate{Offset: i, Value: v, Anchored: anchored(buf, i)})
	}
	return out
}

// DeOverlap collapses overlapping reads in an offset-ordered candidate
// list. A window that straddles zero padding and the leading bytes of a
// real double decodes those bytes as its exponent and can land on a small
// exact value (-2.0 is common) that passes every other check. Such a
// straddle always starts before the real value and overlaps it, so within
// each run of overlapping candidates one survives: the anchored one if
// present, otherwise the last.
func DeOverlap(cands []Candidate) []Candidate {
	if len(cands) < 2 {
		return cands
	}
	var out []Candidate
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Offset < best.Offset+8 {
			if !best.Anchored || c.Anchored {
				best = c
			}
			continue
		}
		out = append(out, best)
		best = c
	}
	return append(out, best)
}

// Plausible combines the finiteness, magnitude and monetary-shape checks
// for a single value.
func Plausible(v float64, b Bounds) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if !b.Contains(math.Abs(v)) {
		return false
	}
	return MoneyShaped(v)
}

func anchored(buf []byte, i int) bool {
	if i < 8 {
		return false
	}
	p := buf[i-8 : i]
	for k := 0; k < 6; k++ {
		if p[k] != 0xFF {
			return false
		}
	}
	return (p[6] == 0x11 || p[6] == 0x15) && p[7] == 0x00
}
