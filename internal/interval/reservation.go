package interval

import (
	"sort"

	"github.com/alexanderramin/reflow/internal/domain"
)

// Reservation is an unavailable block on a work center. SourceID names the
// maintenance window's work center or the work order that produced it.
type Reservation struct {
	Interval Interval
	Kind     domain.ReservationKind
	SourceID string
}

// Sort returns a new slice of reservations ordered ascending by start.
// Ties keep insertion order. The input is not mutated.
func Sort(rs []Reservation) []Reservation {
	out := make([]Reservation, len(rs))
	copy(out, rs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Interval.Start.Before(out[j].Interval.Start)
	})
	return out
}

// Merge sorts and coalesces reservations. Touching blocks (next.Start ==
// last.End) merge with overlapping ones: adjacent unavailable time is treated
// as one contiguous run. The merged block keeps the first contributor's kind
// and source; after merging all reservations are equivalently unavailable.
func Merge(rs []Reservation) []Reservation {
	if len(rs) == 0 {
		return nil
	}
	sorted := Sort(rs)
	merged := []Reservation{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Interval.Start.After(last.Interval.End) {
			merged = append(merged, r)
			continue
		}
		if r.Interval.End.After(last.Interval.End) {
			last.Interval.End = r.Interval.End
		}
	}
	return merged
}

// FirstOverlap returns the earliest merged reservation intersecting iv.
// The scan short-circuits once a reservation starts at or after iv.End.
func FirstOverlap(merged []Reservation, iv Interval) (Reservation, bool) {
	for _, r := range merged {
		if !r.Interval.Start.Before(iv.End) {
			break
		}
		if r.Interval.Overlaps(iv) {
			return r, true
		}
	}
	return Reservation{}, false
}

// Blocks projects reservations onto their bare intervals.
func Blocks(rs []Reservation) []Interval {
	out := make([]Interval, len(rs))
	for i, r := range rs {
		out[i] = r.Interval
	}
	return out
}
