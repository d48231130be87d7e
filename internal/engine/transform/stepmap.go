package transform

import (
	"fmt"
	"strings"
)

// MapResult is the outcome of mapping a position.
type MapResult struct {
	// Pos is the mapped position.
	Pos int

	// Deleted is true when the content around the position was removed.
	Deleted bool
}

// Mappable maps positions through one or more document changes.
type Mappable interface {
	Map(pos, assoc int) int
	MapResult(pos, assoc int) MapResult
}

// StepMap describes the position changes of a single step as a list of
// (start, oldSize, newSize) triples.
type StepMap struct {
	ranges   []int
	inverted bool
}

// EmptyStepMap maps every position to itself.
var EmptyStepMap = &StepMap{}

// NewStepMap creates a step map from flat range triples.
func NewStepMap(ranges ...int) *StepMap {
	if len(ranges) == 0 {
		return EmptyStepMap
	}
	return &StepMap{ranges: ranges}
}

// Map maps pos through the step.
func (m *StepMap) Map(pos, assoc int) int {
	return m.MapResult(pos, assoc).Pos
}

// MapResult maps pos through the step and reports whether it was deleted.
func (m *StepMap) MapResult(pos, assoc int) MapResult {
	diff := 0
	oldIndex, newIndex := 1, 2
	if m.inverted {
		oldIndex, newIndex = 2, 1
	}
	for i := 0; i < len(m.ranges); i += 3 {
		start := m.ranges[i]
		if m.inverted {
			start -= diff
		}
		if start > pos {
			break
		}
		oldSize, newSize := m.ranges[i+oldIndex], m.ranges[i+newIndex]
		end := start + oldSize
		if pos <= end {
			side := assoc
			if oldSize > 0 {
				switch pos {
				case start:
					side = -1
				case end:
					side = 1
				}
			}
			result := start + diff
			if side >= 0 {
				result += newSize
			}
			return MapResult{Pos: result, Deleted: pos > start && pos < end}
		}
		diff += newSize - oldSize
	}
	return MapResult{Pos: pos + diff}
}

// Invert returns a map that undoes this one.
func (m *StepMap) Invert() *StepMap {
	if len(m.ranges) == 0 {
		return m
	}
	return &StepMap{ranges: m.ranges, inverted: !m.inverted}
}

// ForEach calls fn for every changed range.
func (m *StepMap) ForEach(fn func(oldStart, oldEnd, newStart, newEnd int)) {
	oldIndex, newIndex := 1, 2
	if m.inverted {
		oldIndex, newIndex = 2, 1
	}
	diff := 0
	for i := 0; i < len(m.ranges); i += 3 {
		start := m.ranges[i]
		oldStart := start
		if m.inverted {
			oldStart = start - diff
		}
		newStart := oldStart + diff
		oldSize, newSize := m.ranges[i+oldIndex], m.ranges[i+newIndex]
		fn(oldStart, oldStart+oldSize, newStart, newStart+newSize)
		diff += newSize - oldSize
	}
}

func (m *StepMap) String() string {
	var b strings.Builder
	if m.inverted {
		b.WriteString("-")
	}
	b.WriteString("[")
	for i := 0; i < len(m.ranges); i += 3 {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d:%d>%d", m.ranges[i], m.ranges[i+1], m.ranges[i+2])
	}
	b.WriteString("]")
	return b.String()
}

// Mapping is an ordered list of step maps. Mappings returned by Slice
// share the underlying maps and must not be appended to.
type Mapping struct {
	maps     []*StepMap
	from, to int
}

// NewMapping creates a mapping over maps.
func NewMapping(maps ...*StepMap) *Mapping {
	return &Mapping{maps: maps, to: len(maps)}
}

// Maps returns the step maps covered by the mapping.
func (m *Mapping) Maps() []*StepMap {
	return append([]*StepMap(nil), m.maps[m.from:m.to]...)
}

// Len returns the number of step maps covered by the mapping.
func (m *Mapping) Len() int { return m.to - m.from }

// AppendMap adds a step map to the end of the mapping.
func (m *Mapping) AppendMap(sm *StepMap) {
	m.maps = append(m.maps[:m.to], sm)
	m.to = len(m.maps)
}

// Slice returns a mapping covering the maps from index from to the
// current end.
func (m *Mapping) Slice(from int) *Mapping {
	return &Mapping{maps: m.maps, from: m.from + from, to: m.to}
}

// Invert returns a mapping that undoes this one.
func (m *Mapping) Invert() *Mapping {
	inv := &Mapping{}
	for i := m.to - 1; i >= m.from; i-- {
		inv.AppendMap(m.maps[i].Invert())
	}
	return inv
}

// Map maps pos through every step map in order.
func (m *Mapping) Map(pos, assoc int) int {
	for i := m.from; i < m.to; i++ {
		pos = m.maps[i].Map(pos, assoc)
	}
	return pos
}

// MapResult maps pos and reports whether any step deleted it.
func (m *Mapping) MapResult(pos, assoc int) MapResult {
	deleted := false
	for i := m.from; i < m.to; i++ {
		r := m.maps[i].MapResult(pos, assoc)
		pos = r.Pos
		deleted = deleted || r.Deleted
	}
	return MapResult{Pos: pos, Deleted: deleted}
}
