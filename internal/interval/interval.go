package interval

import (
	"time"

	"github.com/alexanderramin/reflow/internal/contract"
)

// Interval is a half-open time range [Start, End) with End > Start.
// All comparisons in the scheduler use half-open semantics: [0,10) and
// [10,20) do not overlap.
type Interval struct {
	Start time.Time
	End   time.Time
}

// New constructs an interval, rejecting End <= Start.
func New(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, contract.Errorf(contract.ErrInvalidInterval,
			"interval end %s is not after start %s",
			end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339))
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether the intersection of a and b is non-empty.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports half-open membership: Start <= t < End.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Minutes returns the whole-minute length of the interval, flooring any
// sub-minute residue.
func (iv Interval) Minutes() int {
	return int(iv.End.Sub(iv.Start) / time.Minute)
}

// Subtract returns the ordered sub-intervals of base not covered by any
// block. Empty sub-intervals are discarded. Inputs are not mutated.
func Subtract(base Interval, blocks []Interval) []Interval {
	remaining := []Interval{base}
	for _, b := range blocks {
		var next []Interval
		for _, r := range remaining {
			if !r.Overlaps(b) {
				next = append(next, r)
				continue
			}
			if b.Start.After(r.Start) {
				next = append(next, Interval{Start: r.Start, End: b.Start})
			}
			if b.End.Before(r.End) {
				next = append(next, Interval{Start: b.End, End: r.End})
			}
		}
		remaining = next
	}
	return remaining
}
