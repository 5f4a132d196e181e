package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/domain"
)

// 2026-02-09 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2026, 2, 9, hour, min, 0, 0, time.UTC)
}

// weekdayShifts is Mon-Fri 08:00-17:00.
func weekdayShifts() []domain.Shift {
	var shifts []domain.Shift
	for dow := 1; dow <= 5; dow++ {
		shifts = append(shifts, domain.Shift{DayOfWeek: dow, StartHour: 8, EndHour: 17})
	}
	return shifts
}

func TestDayStart_TruncatesToUTCMidnight(t *testing.T) {
	got := DayStart(monday(15, 42))
	assert.Equal(t, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), got)
}

func TestWindowsForDay_MatchingWeekday(t *testing.T) {
	windows, err := WindowsForDay(monday(0, 0), weekdayShifts())
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, monday(8, 0), windows[0].Start)
	assert.Equal(t, monday(17, 0), windows[0].End)
}

func TestWindowsForDay_NoShiftsOnWeekend(t *testing.T) {
	saturday := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	windows, err := WindowsForDay(saturday, weekdayShifts())
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestWindowsForDay_MultipleShiftsSortedByStart(t *testing.T) {
	shifts := []domain.Shift{
		{DayOfWeek: 1, StartHour: 13, EndHour: 17},
		{DayOfWeek: 1, StartHour: 6, EndHour: 10},
	}
	windows, err := WindowsForDay(monday(0, 0), shifts)
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, monday(6, 0), windows[0].Start)
	assert.Equal(t, monday(13, 0), windows[1].Start)
}

func TestWindowsForDay_RejectsOvernightShift(t *testing.T) {
	shifts := []domain.Shift{{DayOfWeek: 1, StartHour: 22, EndHour: 6}}
	_, err := WindowsForDay(monday(0, 0), shifts)
	require.Error(t, err)
	assert.Equal(t, contract.ErrUnsupportedShift, contract.CodeOf(err))
}

func TestWindowsForDay_RejectsZeroLengthShift(t *testing.T) {
	shifts := []domain.Shift{{DayOfWeek: 1, StartHour: 8, EndHour: 8}}
	_, err := WindowsForDay(monday(0, 0), shifts)
	require.Error(t, err)
	assert.Equal(t, contract.ErrUnsupportedShift, contract.CodeOf(err))
}

func TestSnapToShift_IdentityInsideShift(t *testing.T) {
	got, err := SnapToShift(monday(10, 30), weekdayShifts())
	require.NoError(t, err)
	assert.Equal(t, monday(10, 30), got)
}

func TestSnapToShift_BeforeWindowSnapsToStart(t *testing.T) {
	got, err := SnapToShift(monday(6, 15), weekdayShifts())
	require.NoError(t, err)
	assert.Equal(t, monday(8, 0), got)
}

func TestSnapToShift_AfterLastWindowAdvancesADay(t *testing.T) {
	got, err := SnapToShift(monday(17, 0), weekdayShifts())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC), got)
}

func TestSnapToShift_SkipsWeekend(t *testing.T) {
	friday := time.Date(2026, 2, 13, 17, 30, 0, 0, time.UTC)
	got, err := SnapToShift(friday, weekdayShifts())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 16, 8, 0, 0, 0, time.UTC), got)
}

func TestSnapToShift_MonotoneNonDecreasing(t *testing.T) {
	times := []time.Time{
		monday(0, 0), monday(7, 59), monday(8, 0), monday(12, 0), monday(16, 59), monday(17, 0),
	}
	var prev time.Time
	for _, in := range times {
		got, err := SnapToShift(in, weekdayShifts())
		require.NoError(t, err)
		assert.False(t, got.Before(in), "snap never moves backwards")
		assert.False(t, got.Before(prev), "snap is monotone in its input")
		prev = got
	}
}

func TestSnapToShift_NoShiftsFails(t *testing.T) {
	_, err := SnapToShift(monday(8, 0), nil)
	require.Error(t, err)
	assert.Equal(t, contract.ErrNoShiftFound, contract.CodeOf(err))
}
