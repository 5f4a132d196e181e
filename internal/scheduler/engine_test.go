package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/domain"
)

func utc(day, hour, min int) time.Time {
	return time.Date(2026, 2, day, hour, min, 0, 0, time.UTC)
}

// weekdayCenter has shifts Mon-Fri 08:00-17:00.
func weekdayCenter(id string) *domain.WorkCenter {
	wc := &domain.WorkCenter{ID: id, Name: "Center " + id}
	for dow := 1; dow <= 5; dow++ {
		wc.Shifts = append(wc.Shifts, domain.Shift{DayOfWeek: dow, StartHour: 8, EndHour: 17})
	}
	return wc
}

func order(id, wcID string, start, end time.Time, duration int, deps ...string) *domain.WorkOrder {
	return &domain.WorkOrder{
		ID:              id,
		Number:          id,
		WorkCenterID:    wcID,
		Start:           start,
		End:             end,
		DurationMinutes: duration,
		DependsOn:       deps,
	}
}

func maintenanceOrder(id, wcID string, start, end time.Time) *domain.WorkOrder {
	wo := order(id, wcID, start, end, int(end.Sub(start)/time.Minute))
	wo.IsMaintenance = true
	return wo
}

func reflow(t *testing.T, input contract.ReflowInput) *contract.ReflowResult {
	t.Helper()
	result, err := NewEngine(nil).Reflow(input)
	require.NoError(t, err)
	return result
}

func byID(result *contract.ReflowResult) map[string]*domain.WorkOrder {
	m := make(map[string]*domain.WorkOrder, len(result.UpdatedWorkOrders))
	for _, wo := range result.UpdatedWorkOrders {
		m[wo.ID] = wo
	}
	return m
}

func TestReflow_GrownDurationCascades(t *testing.T) {
	// WO-A's duration grew past its planned interval; B and C must follow.
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-A", "WC1", utc(9, 8, 0), utc(9, 12, 0), 300),
			order("WO-B", "WC1", utc(9, 12, 0), utc(9, 14, 0), 120, "WO-A"),
			order("WO-C", "WC1", utc(9, 14, 0), utc(9, 15, 0), 60, "WO-B"),
		},
	}

	result := reflow(t, input)
	got := byID(result)

	assert.Equal(t, utc(9, 13, 0), got["WO-A"].End)
	assert.Equal(t, utc(9, 13, 0), got["WO-B"].Start)
	assert.Equal(t, utc(9, 15, 0), got["WO-B"].End)
	assert.Equal(t, utc(9, 15, 0), got["WO-C"].Start)
	assert.Equal(t, utc(9, 16, 0), got["WO-C"].End)

	require.Len(t, result.Changes, 3)
	assert.Equal(t, "WO-A", result.Changes[0].WorkOrderNumber)
	assert.Equal(t, 0, result.Changes[0].StartDeltaMinutes)
	assert.Equal(t, 60, result.Changes[0].EndDeltaMinutes)

	var bChange domain.ChangeRecord
	for _, c := range result.Changes {
		if c.WorkOrderNumber == "WO-B" {
			bChange = c
		}
	}
	require.NotEmpty(t, bChange.Reasons)
	assert.Contains(t, bChange.Reasons[0], "WO-A")
}

func TestReflow_InputNotMutated(t *testing.T) {
	wo := order("WO-A", "WC1", utc(9, 8, 0), utc(9, 12, 0), 300)
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders:  []*domain.WorkOrder{wo},
	}

	result := reflow(t, input)

	assert.Equal(t, utc(9, 12, 0), wo.End, "caller's copy untouched")
	assert.Equal(t, utc(9, 13, 0), byID(result)["WO-A"].End)
}

func TestReflow_StableScheduleYieldsNoChanges(t *testing.T) {
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-A", "WC1", utc(9, 8, 0), utc(9, 12, 0), 240),
			order("WO-B", "WC1", utc(9, 12, 0), utc(9, 14, 0), 120, "WO-A"),
		},
	}

	result := reflow(t, input)

	assert.Empty(t, result.Changes)
	require.Len(t, result.Explanation, 2)
	assert.Contains(t, result.Explanation[0], "0 of 2")
}

func TestReflow_Idempotent(t *testing.T) {
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-A", "WC1", utc(9, 8, 0), utc(9, 12, 0), 300),
			order("WO-B", "WC1", utc(9, 12, 0), utc(9, 14, 0), 120, "WO-A"),
			order("WO-C", "WC1", utc(9, 14, 0), utc(9, 15, 0), 60, "WO-B"),
		},
	}

	first := reflow(t, input)
	second := reflow(t, contract.ReflowInput{
		WorkCenters: input.WorkCenters,
		WorkOrders:  first.UpdatedWorkOrders,
	})

	assert.Empty(t, second.Changes, "reapplying reflow to its own output is a no-op")
}

func TestReflow_NoWorkOrderMovesEarlier(t *testing.T) {
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			// Planned with slack: reflow must not pull WO-B forward.
			order("WO-A", "WC1", utc(9, 8, 0), utc(9, 10, 0), 120),
			order("WO-B", "WC1", utc(9, 14, 0), utc(9, 15, 0), 60, "WO-A"),
		},
	}

	result := reflow(t, input)
	got := byID(result)

	assert.Equal(t, utc(9, 14, 0), got["WO-B"].Start)
	assert.Empty(t, result.Changes)
}

func TestReflow_ImmovableMaintenanceUnchanged(t *testing.T) {
	fixed := maintenanceOrder("WO-MAINT", "WC1", utc(11, 8, 0), utc(11, 9, 0))
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			fixed,
			order("WO-PROD", "WC1", utc(11, 8, 0), utc(11, 10, 0), 120),
		},
	}

	result := reflow(t, input)
	got := byID(result)

	assert.Equal(t, utc(11, 8, 0), got["WO-MAINT"].Start)
	assert.Equal(t, utc(11, 9, 0), got["WO-MAINT"].End)
	// The movable order is pushed past the fixed block.
	assert.Equal(t, utc(11, 9, 0), got["WO-PROD"].Start)
	assert.Equal(t, utc(11, 11, 0), got["WO-PROD"].End)
}

func TestReflow_TwoOrdersContendingForOneCenter(t *testing.T) {
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-1", "WC1", utc(9, 8, 0), utc(9, 12, 0), 240),
			order("WO-2", "WC1", utc(9, 8, 0), utc(9, 12, 0), 240),
		},
	}

	result := reflow(t, input)
	got := byID(result)

	assert.Equal(t, utc(9, 8, 0), got["WO-1"].Start)
	assert.Equal(t, utc(9, 12, 0), got["WO-1"].End)
	assert.Equal(t, utc(9, 12, 0), got["WO-2"].Start)
	assert.Equal(t, utc(9, 16, 0), got["WO-2"].End)

	require.Len(t, result.Changes, 1)
	assert.Equal(t, "WO-2", result.Changes[0].WorkOrderNumber)
	require.NotEmpty(t, result.Changes[0].Reasons)
	assert.Contains(t, result.Changes[0].Reasons[0], "busy")
}

func TestReflow_MissingWorkCenterFails(t *testing.T) {
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-A", "WC-GONE", utc(9, 8, 0), utc(9, 12, 0), 240),
		},
	}

	_, err := NewEngine(nil).Reflow(input)
	require.Error(t, err)
	assert.Equal(t, contract.ErrMissingWorkCenter, contract.CodeOf(err))
	assert.Contains(t, err.Error(), "WO-A")
}

func TestReflow_UnknownDependencyFails(t *testing.T) {
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-A", "WC1", utc(9, 8, 0), utc(9, 12, 0), 240, "WO-GONE"),
		},
	}

	_, err := NewEngine(nil).Reflow(input)
	require.Error(t, err)
	assert.Equal(t, contract.ErrMissingDependency, contract.CodeOf(err))
	assert.Contains(t, err.Error(), "WO-A")
}

func TestReflow_FeasibilityGuardExceeded(t *testing.T) {
	// Every workday shift for two years is blocked by its own maintenance
	// window. The feasibility walk escapes one window per iteration, so it
	// trips the 500-iteration guard long before the calendar runs out.
	wc := weekdayCenter("WC1")
	added := 0
	for d := utc(9, 0, 0); added < 520; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		wc.MaintenanceWindows = append(wc.MaintenanceWindows, domain.MaintenanceWindow{
			Start:  d.Add(8 * time.Hour),
			End:    d.Add(17 * time.Hour),
			Reason: "line rebuild",
		})
		added++
	}

	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{wc},
		WorkOrders: []*domain.WorkOrder{
			order("WO-STARVED", "WC1", utc(9, 8, 0), utc(9, 9, 0), 60),
		},
	}

	_, err := NewEngine(nil).Reflow(input)
	require.Error(t, err)
	assert.Equal(t, contract.ErrGuardExceeded, contract.CodeOf(err))
	assert.Contains(t, err.Error(), "WO-STARVED")
	assert.Contains(t, err.Error(), "feasibility")
}

func TestReflow_ReasonsDeduplicated(t *testing.T) {
	// Two parents finishing at the same instant produce one reason each;
	// the same reason text is never repeated.
	input := contract.ReflowInput{
		WorkCenters: []*domain.WorkCenter{weekdayCenter("WC1"), weekdayCenter("WC2")},
		WorkOrders: []*domain.WorkOrder{
			order("WO-P1", "WC1", utc(9, 8, 0), utc(9, 10, 0), 120),
			order("WO-P2", "WC2", utc(9, 8, 0), utc(9, 10, 0), 120),
			order("WO-CHILD", "WC1", utc(9, 8, 0), utc(9, 9, 0), 60, "WO-P1", "WO-P2"),
		},
	}

	result := reflow(t, input)

	require.Len(t, result.Changes, 1)
	reasons := result.Changes[0].Reasons
	seen := make(map[string]bool)
	for _, r := range reasons {
		assert.False(t, seen[r], "duplicate reason %q", r)
		seen[r] = true
	}
}
