package game

import "math"

// RocketRecord is the render-facing copy of a flying rocket.
type RocketRecord struct {
	X, Y, Z float32
	Heading float32 // degrees
}

// RocketBook keeps rocket records in launch order and indexed by slot.
type RocketBook struct {
	order  []*RocketRecord
	bySlot map[int]*RocketRecord
}

// NewRocketBook returns an empty book.
func NewRocketBook() *RocketBook {
	return &RocketBook{bySlot: make(map[int]*RocketRecord)}
}

// Add registers the record of slot, replacing a stale one.
func (b *RocketBook) Add(slot int, r *RocketRecord) {
	if old, ok := b.bySlot[slot]; ok {
		b.removeRecord(old)
	}
	b.order = append(b.order, r)
	b.bySlot[slot] = r
}

// Get returns the record of slot.
func (b *RocketBook) Get(slot int) (*RocketRecord, bool) {
	r, ok := b.bySlot[slot]
	return r, ok
}

// Remove drops the record of slot from both views.
func (b *RocketBook) Remove(slot int) {
	r, ok := b.bySlot[slot]
	if !ok {
		return
	}
	delete(b.bySlot, slot)
	b.removeRecord(r)
}

func (b *RocketBook) removeRecord(r *RocketRecord) {
	for i, o := range b.order {
		if o == r {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}

// Records returns a copy of the records in launch order.
func (b *RocketBook) Records() []RocketRecord {
	out := make([]RocketRecord, len(b.order))
	for i, r := range b.order {
		out[i] = *r
	}
	return out
}

// Len returns the number of records.
func (b *RocketBook) Len() int { return len(b.order) }

// Slots returns the slots that currently have a record.
func (b *RocketBook) Slots() []int {
	out := make([]int, 0, len(b.bySlot))
	for s := range b.bySlot {
		out = append(out, s)
	}
	return out
}

// Reset drops every record.
func (b *RocketBook) Reset() {
	b.order = b.order[:0]
	b.bySlot = make(map[int]*RocketRecord)
}

// sync copies rocket positions into their records and drops records whose
// slot no longer holds a rocket, including orphans left in the ordered list.
func (b *RocketBook) sync(t *EntityTable) {
	for slot, r := range b.bySlot {
		e := t.At(slot)
		if e.Shape == ShapeRocket {
			r.X = float32(e.X)
			r.Z = float32(e.Z)
			continue
		}
		b.Remove(slot)
	}
	live := make(map[*RocketRecord]bool, len(b.bySlot))
	for _, r := range b.bySlot {
		live[r] = true
	}
	kept := b.order[:0]
	for _, r := range b.order {
		if live[r] {
			kept = append(kept, r)
		}
	}
	b.order = kept
}

// ReverseDir returns the heading from a position delta, matching atan2 by
// quadrant. Deltas within a hundredth of a tile of an axis snap to it unless
// the other component is that small too.
func ReverseDir(dx, dz float64) float64 {
	quadDelta := [4]float64{0, FullCircle / 2, FullCircle / 2, FullCircle}
	var n int
	switch {
	case dx > 0 && dz > 0:
		n = 0
	case dx > 0:
		n = 1
	case dz > 0:
		n = 3
	default:
		n = 2
	}
	const thresh = 0.01 * Factor
	if math.Abs(dx) < thresh && math.Abs(dz) < thresh {
		d := math.Atan2(dx, dz)
		if d < 0 {
			d += FullCircle
		}
		return d
	}
	if math.Abs(dx) < thresh {
		if dz > 0 {
			return 0
		}
		return FullCircle / 2
	}
	if math.Abs(dz) < thresh {
		if dx > 0 {
			return FullCircle / 4
		}
		return FullCircle * 3 / 4
	}
	d := math.Atan(dx/dz) + quadDelta[n]
	if d < 0 {
		d += FullCircle
	}
	return d
}
