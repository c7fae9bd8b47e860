package analyzer

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Gabzxcv/Syntaxy-FL/domain"
	"github.com/Gabzxcv/Syntaxy-FL/internal/parser"
)

// LineSet is a set of 1-based line numbers backed by a roaring bitmap
type LineSet struct {
	bitmap *roaring.Bitmap
}

// NewLineSet creates an empty line set
func NewLineSet() *LineSet {
	return &LineSet{bitmap: roaring.New()}
}

// AddRange adds lines [start, end]
func (s *LineSet) AddRange(r domain.LineRange) {
	if r.EndLine < r.StartLine || r.StartLine < 1 {
		return
	}
	s.bitmap.AddRange(uint64(r.StartLine), uint64(r.EndLine)+1)
}

// Add adds one line
func (s *LineSet) Add(line int) {
	if line >= 1 {
		s.bitmap.Add(uint32(line))
	}
}

// Contains reports whether line is in the set
func (s *LineSet) Contains(line int) bool {
	return line >= 1 && s.bitmap.Contains(uint32(line))
}

// Len returns the number of lines
func (s *LineSet) Len() int {
	return int(s.bitmap.GetCardinality())
}

// IntersectionLen returns |s ∩ other|
func (s *LineSet) IntersectionLen(other *LineSet) int {
	return int(s.bitmap.AndCardinality(other.bitmap))
}

// NonBlankLineSet returns the lines of a unit with visible content
func NonBlankLineSet(unit *parser.SourceUnit) *LineSet {
	set := NewLineSet()
	for _, line := range unit.NonBlankLines() {
		set.Add(line)
	}
	return set
}

// CloneLineSet returns the lines covered by any clone location
func CloneLineSet(clones []domain.CloneMatch) *LineSet {
	set := NewLineSet()
	for _, c := range clones {
		for _, loc := range c.Locations {
			set.AddRange(loc)
		}
	}
	return set
}

// ClonePercentage returns the share of non-blank lines inside any clone
// location, each line counted once, in [0, 100]
func ClonePercentage(unit *parser.SourceUnit, clones []domain.CloneMatch) float64 {
	nonBlank := NonBlankLineSet(unit)
	if nonBlank.Len() == 0 {
		return 0
	}
	covered := CloneLineSet(clones).IntersectionLen(nonBlank)
	pct := float64(covered) / float64(nonBlank.Len()) * 100
	return roundTo(math.Max(0, math.Min(100, pct)), 2)
}
