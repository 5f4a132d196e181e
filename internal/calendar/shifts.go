package calendar

import (
	"sort"
	"time"

	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/domain"
	"github.com/alexanderramin/reflow/internal/interval"
)

// snapDayBudget bounds the forward search for an in-shift instant. Exceeding
// it means the shift set is misconfigured (e.g. empty), not that the input is
// merely busy.
const snapDayBudget = 14

// DayStart truncates t to UTC midnight of its calendar day.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// WindowsForDay returns the concrete shift windows falling on dayStart's UTC
// weekday, ascending by start. Multiple shifts per day are allowed; overnight
// shifts are rejected.
func WindowsForDay(dayStart time.Time, shifts []domain.Shift) ([]interval.Interval, error) {
	day := DayStart(dayStart)
	weekday := int(day.Weekday())

	var windows []interval.Interval
	for _, s := range shifts {
		if s.DayOfWeek != weekday {
			continue
		}
		if s.EndHour <= s.StartHour {
			return nil, contract.Errorf(contract.ErrUnsupportedShift,
				"shift on weekday %d runs %02d:00-%02d:00; overnight and zero-length shifts are not supported",
				s.DayOfWeek, s.StartHour, s.EndHour)
		}
		windows = append(windows, interval.Interval{
			Start: day.Add(time.Duration(s.StartHour) * time.Hour),
			End:   day.Add(time.Duration(s.EndHour) * time.Hour),
		})
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows, nil
}

// SnapToShift returns the smallest instant >= t inside some shift window.
// The identity on instants already in shift; fails with NO_SHIFT_FOUND when
// no window exists within snapDayBudget consecutive days.
func SnapToShift(t time.Time, shifts []domain.Shift) (time.Time, error) {
	t = t.UTC()
	day := DayStart(t)
	for i := 0; i < snapDayBudget; i++ {
		windows, err := WindowsForDay(day, shifts)
		if err != nil {
			return time.Time{}, err
		}
		for _, w := range windows {
			if t.Before(w.Start) {
				return w.Start, nil
			}
			if w.Contains(t) {
				return t, nil
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, contract.Errorf(contract.ErrNoShiftFound,
		"no shift window within %d days of %s", snapDayBudget, t.Format(time.RFC3339))
}
