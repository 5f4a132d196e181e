package verify

import (
	"fmt"
	"time"

	"github.com/alexanderramin/reflow/internal/calendar"
	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/domain"
	"github.com/alexanderramin/reflow/internal/interval"
)

// Violation is one broken scheduling invariant found in a reflow output.
type Violation struct {
	Invariant       string
	WorkOrderNumber string
	Message         string
}

func (v Violation) String() string {
	return fmt.Sprintf("[%s] %s: %s", v.Invariant, v.WorkOrderNumber, v.Message)
}

// Check re-validates a reflow result against the universal invariants:
// dependency ordering, per-center exclusivity, start-in-shift, maintenance
// separation, immovable stability, working-minutes conservation, and the
// no-earlier-start lower bound. An empty slice means the output is sound.
func Check(input *contract.ReflowInput, result *contract.ReflowResult) []Violation {
	var violations []Violation

	wcByID := make(map[string]*domain.WorkCenter, len(input.WorkCenters))
	for _, wc := range input.WorkCenters {
		wcByID[wc.ID] = wc
	}
	originalByID := make(map[string]*domain.WorkOrder, len(input.WorkOrders))
	for _, wo := range input.WorkOrders {
		originalByID[wo.ID] = wo
	}
	updatedByID := make(map[string]*domain.WorkOrder, len(result.UpdatedWorkOrders))
	for _, wo := range result.UpdatedWorkOrders {
		updatedByID[wo.ID] = wo
	}

	for _, wo := range result.UpdatedWorkOrders {
		original := originalByID[wo.ID]
		wc := wcByID[wo.WorkCenterID]
		if original == nil || wc == nil {
			violations = append(violations, Violation{
				Invariant:       "identity",
				WorkOrderNumber: wo.Number,
				Message:         "work order or work center missing from input",
			})
			continue
		}

		// Dependency ordering.
		for _, dep := range wo.DependsOn {
			parent, ok := updatedByID[dep]
			if !ok {
				violations = append(violations, Violation{
					Invariant:       "dependency-order",
					WorkOrderNumber: wo.Number,
					Message:         fmt.Sprintf("dependency %s missing from output", dep),
				})
				continue
			}
			if parent.End.After(wo.Start) {
				violations = append(violations, Violation{
					Invariant:       "dependency-order",
					WorkOrderNumber: wo.Number,
					Message: fmt.Sprintf("starts %s before dependency %s ends %s",
						stamp(wo.Start), parent.Number, stamp(parent.End)),
				})
			}
		}

		// Start inside a shift window.
		windows, err := calendar.WindowsForDay(wo.Start, wc.Shifts)
		if err != nil {
			violations = append(violations, Violation{
				Invariant:       "start-in-shift",
				WorkOrderNumber: wo.Number,
				Message:         err.Error(),
			})
		} else {
			inShift := false
			for _, w := range windows {
				if w.Contains(wo.Start) {
					inShift = true
					break
				}
			}
			if !inShift {
				violations = append(violations, Violation{
					Invariant:       "start-in-shift",
					WorkOrderNumber: wo.Number,
					Message:         fmt.Sprintf("start %s is outside every shift window", stamp(wo.Start)),
				})
			}
		}

		iv := interval.Interval{Start: wo.Start, End: wo.End}

		// Maintenance separation.
		for _, mw := range wc.MaintenanceWindows {
			block := interval.Interval{Start: mw.Start, End: mw.End}
			if iv.Overlaps(block) {
				violations = append(violations, Violation{
					Invariant:       "maintenance-separation",
					WorkOrderNumber: wo.Number,
					Message: fmt.Sprintf("interval overlaps maintenance window %s-%s",
						stamp(mw.Start), stamp(mw.End)),
				})
			}
		}

		// Immovable stability and the no-earlier-start bound.
		if wo.IsMaintenance {
			if !wo.Start.Equal(original.Start) || !wo.End.Equal(original.End) {
				violations = append(violations, Violation{
					Invariant:       "immovable-stability",
					WorkOrderNumber: wo.Number,
					Message:         "maintenance work order interval changed",
				})
			}
		} else {
			if wo.Start.Before(original.Start) {
				violations = append(violations, Violation{
					Invariant:       "no-earlier-start",
					WorkOrderNumber: wo.Number,
					Message: fmt.Sprintf("moved earlier: %s before original %s",
						stamp(wo.Start), stamp(original.Start)),
				})
			}

			// Working-minutes conservation.
			got := workingMinutes(iv, wc)
			if got != wo.DurationMinutes {
				violations = append(violations, Violation{
					Invariant:       "minutes-conservation",
					WorkOrderNumber: wo.Number,
					Message: fmt.Sprintf("interval holds %d working minutes, want %d",
						got, wo.DurationMinutes),
				})
			}
		}
	}

	// Per-center exclusivity.
	byCenter := make(map[string][]*domain.WorkOrder)
	centerOrder := make([]string, 0, len(input.WorkCenters))
	for _, wc := range input.WorkCenters {
		centerOrder = append(centerOrder, wc.ID)
	}
	for _, wo := range result.UpdatedWorkOrders {
		byCenter[wo.WorkCenterID] = append(byCenter[wo.WorkCenterID], wo)
	}
	for _, wcID := range centerOrder {
		orders := byCenter[wcID]
		for i := 0; i < len(orders); i++ {
			for j := i + 1; j < len(orders); j++ {
				a, b := orders[i], orders[j]
				ivA := interval.Interval{Start: a.Start, End: a.End}
				ivB := interval.Interval{Start: b.Start, End: b.End}
				if ivA.Overlaps(ivB) {
					violations = append(violations, Violation{
						Invariant:       "center-exclusivity",
						WorkOrderNumber: a.Number,
						Message: fmt.Sprintf("overlaps %s on work center %s",
							b.Number, wcID),
					})
				}
			}
		}
	}

	return violations
}

// workingMinutes sums the in-shift, non-maintenance whole minutes inside iv.
func workingMinutes(iv interval.Interval, wc *domain.WorkCenter) int {
	blocks := make([]interval.Interval, 0, len(wc.MaintenanceWindows))
	for _, mw := range wc.MaintenanceWindows {
		blocks = append(blocks, interval.Interval{Start: mw.Start, End: mw.End})
	}

	total := 0
	for day := calendar.DayStart(iv.Start); day.Before(iv.End); day = day.AddDate(0, 0, 1) {
		windows, err := calendar.WindowsForDay(day, wc.Shifts)
		if err != nil {
			return -1
		}
		for _, w := range windows {
			clipped := w
			if iv.Start.After(clipped.Start) {
				clipped.Start = iv.Start
			}
			if iv.End.Before(clipped.End) {
				clipped.End = iv.End
			}
			if !clipped.End.After(clipped.Start) {
				continue
			}
			for _, usable := range interval.Subtract(clipped, blocks) {
				total += usable.Minutes()
			}
		}
	}
	return total
}

func stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
