package calendar

import (
	"time"

	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/domain"
	"github.com/alexanderramin/reflow/internal/interval"
)

// Day budgets for the working-minutes clock, counted in calendar days from the
// start's UTC day. Exhausting a budget means the demand cannot fit.
const (
	clockDayBudget          = 90
	shiftOnlyClockDayBudget = 60
)

// EndAfterWorkingMinutes computes the instant at which exactly
// durationMinutes of in-shift, non-maintenance time has elapsed since the
// effective start. A non-positive duration returns start unchanged.
//
// Per-window usable time is computed by subtracting the maintenance blocks;
// each sub-interval contributes its floored whole-minute length, and the
// terminal sub-interval contributes the exact remainder.
func EndAfterWorkingMinutes(start time.Time, durationMinutes int, shifts []domain.Shift, blocks []interval.Interval) (time.Time, error) {
	return endAfter(start, durationMinutes, shifts, blocks, clockDayBudget)
}

// EndAfterShiftMinutes is the maintenance-unaware variant: identical
// semantics with an empty block list and a tighter day budget.
func EndAfterShiftMinutes(start time.Time, durationMinutes int, shifts []domain.Shift) (time.Time, error) {
	return endAfter(start, durationMinutes, shifts, nil, shiftOnlyClockDayBudget)
}

func endAfter(start time.Time, durationMinutes int, shifts []domain.Shift, blocks []interval.Interval, dayBudget int) (time.Time, error) {
	if durationMinutes <= 0 {
		return start, nil
	}

	cursor, err := SnapToShift(start, shifts)
	if err != nil {
		return time.Time{}, err
	}

	remaining := durationMinutes
	deadline := DayStart(start).AddDate(0, 0, dayBudget)
	for cursor.Before(deadline) {
		windows, err := WindowsForDay(cursor, shifts)
		if err != nil {
			return time.Time{}, err
		}
		for _, w := range windows {
			if !w.End.After(cursor) {
				continue
			}
			effective := w
			if cursor.After(w.Start) {
				effective.Start = cursor
			}
			for _, usable := range interval.Subtract(effective, blocks) {
				length := usable.Minutes()
				if remaining <= length {
					return usable.Start.Add(time.Duration(remaining) * time.Minute), nil
				}
				remaining -= length
			}
		}

		next := DayStart(cursor).AddDate(0, 0, 1)
		cursor, err = SnapToShift(next, shifts)
		if err != nil {
			return time.Time{}, err
		}
	}

	return time.Time{}, contract.Errorf(contract.ErrUnschedulable,
		"%d working minutes not completed within %d days of %s",
		durationMinutes, dayBudget, start.UTC().Format(time.RFC3339))
}
