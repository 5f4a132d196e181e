package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/domain"
	"github.com/alexanderramin/reflow/internal/verify"
)

// End-to-end placement scenarios with literal expectations. Each successful
// result is additionally re-checked against the full invariant set.
func checkInvariants(t *testing.T, input contract.ReflowInput, result *contract.ReflowResult) {
	t.Helper()
	violations := verify.Check(&input, result)
	for _, v := range violations {
		t.Errorf("invariant violation: %s", v)
	}
}

func TestScenario_DelayCascade(t *testing.T) {
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-A", "WC1", utc(9, 8, 0), utc(9, 12, 0), 240),
			order("WO-B", "WC1", utc(9, 12, 0), utc(9, 14, 0), 120, "WO-A"),
			order("WO-C", "WC1", utc(9, 14, 0), utc(9, 15, 0), 60, "WO-B"),
		},
	}

	result := reflow(t, input)
	got := byID(result)

	assert.Equal(t, time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC), got["WO-A"].End)
	assert.False(t, got["WO-B"].Start.Before(got["WO-A"].End))
	assert.False(t, got["WO-C"].Start.Before(got["WO-B"].End))
	checkInvariants(t, input, result)
}

func TestScenario_ShiftBoundaryPause(t *testing.T) {
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-LONG", "WC1", utc(10, 16, 0), utc(10, 18, 0), 120),
		},
	}

	result := reflow(t, input)
	got := byID(result)

	assert.Equal(t, time.Date(2026, 2, 10, 16, 0, 0, 0, time.UTC), got["WO-LONG"].Start)
	assert.Equal(t, time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC), got["WO-LONG"].End)
	checkInvariants(t, input, result)
}

func TestScenario_MaintenanceForcesPush(t *testing.T) {
	wc := weekdayCenter("WC1")
	wc.MaintenanceWindows = []domain.MaintenanceWindow{
		{Start: utc(11, 10, 0), End: utc(11, 12, 0), Reason: "quarterly inspection"},
	}
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{wc},
		WorkOrders: []*domain.WorkOrder{
			maintenanceOrder("WO-FIXED-MAINT", "WC1", utc(11, 8, 0), utc(11, 9, 0)),
			order("WO-PROD-1", "WC1", utc(11, 9, 0), utc(11, 12, 0), 180, "WO-FIXED-MAINT"),
		},
	}

	result := reflow(t, input)
	got := byID(result)

	assert.Equal(t, utc(11, 8, 0), got["WO-FIXED-MAINT"].Start)
	assert.Equal(t, utc(11, 9, 0), got["WO-FIXED-MAINT"].End)
	assert.Equal(t, time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC), got["WO-PROD-1"].Start)
	assert.Equal(t, time.Date(2026, 2, 11, 15, 0, 0, 0, time.UTC), got["WO-PROD-1"].End)
	checkInvariants(t, input, result)
}

func TestScenario_MultiParentMerge(t *testing.T) {
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-D", "WC1", utc(9, 8, 0), utc(9, 10, 0), 120),
			order("WO-E", "WC1", utc(9, 10, 0), utc(9, 11, 0), 60, "WO-D"),
			order("WO-F", "WC1", utc(9, 11, 0), utc(9, 13, 0), 120, "WO-E"),
			order("WO-MERGE", "WC1", utc(9, 9, 0), utc(9, 10, 0), 60, "WO-D", "WO-E", "WO-F"),
		},
	}

	result := reflow(t, input)
	got := byID(result)

	latestParentEnd := got["WO-D"].End
	for _, id := range []string{"WO-E", "WO-F"} {
		if got[id].End.After(latestParentEnd) {
			latestParentEnd = got[id].End
		}
	}
	assert.False(t, got["WO-MERGE"].Start.Before(latestParentEnd),
		"merge node starts no earlier than its slowest parent")
	checkInvariants(t, input, result)
}

func TestScenario_WeekendSplitShift(t *testing.T) {
	wc := &domain.WorkCenter{ID: "WC-WKND", Name: "Weekend line", Shifts: []domain.Shift{
		{DayOfWeek: 6, StartHour: 9, EndHour: 13},
		{DayOfWeek: 0, StartHour: 10, EndHour: 14},
	}}
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{wc},
		WorkOrders: []*domain.WorkOrder{
			order("WO-WEEKEND-PREP", "WC-WKND", utc(14, 11, 0), utc(14, 14, 0), 180),
			order("WO-WEEKEND-MAIN", "WC-WKND", utc(14, 14, 0), utc(14, 16, 0), 120, "WO-WEEKEND-PREP"),
		},
	}

	result := reflow(t, input)
	got := byID(result)

	assert.Equal(t, time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC), got["WO-WEEKEND-PREP"].Start)
	assert.Equal(t, time.Date(2026, 2, 15, 11, 0, 0, 0, time.UTC), got["WO-WEEKEND-PREP"].End)
	assert.Equal(t, time.Date(2026, 2, 15, 13, 0, 0, 0, time.UTC), got["WO-WEEKEND-MAIN"].End)
	checkInvariants(t, input, result)
}

func TestScenario_CycleRejection(t *testing.T) {
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-A", "WC1", utc(9, 8, 0), utc(9, 12, 0), 240, "WO-C"),
			order("WO-B", "WC1", utc(9, 12, 0), utc(9, 14, 0), 120, "WO-A"),
			order("WO-C", "WC1", utc(9, 14, 0), utc(9, 15, 0), 60, "WO-B"),
		},
	}

	_, err := NewEngine(nil).Reflow(input)
	require.Error(t, err)
	assert.Equal(t, contract.ErrCircularDependency, contract.CodeOf(err))
	for _, id := range []string{"WO-A", "WO-B", "WO-C"} {
		assert.Contains(t, err.Error(), id)
	}
}
