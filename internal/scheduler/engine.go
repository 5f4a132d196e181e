package scheduler

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alexanderramin/reflow/internal/calendar"
	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/domain"
	"github.com/alexanderramin/reflow/internal/interval"
)

// placementGuard bounds the feasibility and overlap-resolution loops. Both
// make forward progress every iteration, so hitting the guard indicates
// pathological input.
const placementGuard = 500

// Engine repairs a finite-capacity schedule by pushing affected work orders
// forward to the earliest feasible time. Each call builds its own reservation
// table and schedule map over copies of the input; engines hold no mutable
// state across calls.
type Engine struct {
	log *logrus.Logger
}

// NewEngine creates an engine. A nil logger disables tracing.
func NewEngine(log *logrus.Logger) *Engine {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Engine{log: log}
}

// Reflow walks the dependency graph in topological order and places every
// movable work order at its earliest feasible start under shift calendars,
// maintenance blocks, and single-capacity work centers. Any interior failure
// aborts the whole call; no partial schedule is returned.
func (e *Engine) Reflow(input contract.ReflowInput) (*contract.ReflowResult, error) {
	// Step A: copies and lookups. The input is never mutated.
	wcByID := make(map[string]*domain.WorkCenter, len(input.WorkCenters))
	for _, wc := range input.WorkCenters {
		wcByID[wc.ID] = wc
	}

	order := make([]string, 0, len(input.WorkOrders))
	woByID := make(map[string]*domain.WorkOrder, len(input.WorkOrders))
	for _, wo := range input.WorkOrders {
		if _, ok := wcByID[wo.WorkCenterID]; !ok {
			return nil, &contract.Error{
				Code:            contract.ErrMissingWorkCenter,
				Message:         fmt.Sprintf("work center %q not found", wo.WorkCenterID),
				WorkOrderNumber: wo.Number,
			}
		}
		order = append(order, wo.ID)
		woByID[wo.ID] = wo.Clone()
	}

	var edges []Edge
	for _, wo := range input.WorkOrders {
		for _, parent := range wo.DependsOn {
			edges = append(edges, Edge{Parent: parent, Child: wo.ID})
		}
	}

	// Step B: topological order.
	topo, err := TopoSort(order, edges)
	if err != nil {
		return nil, err
	}

	// Step C: seed reservations and the schedule map with everything that
	// cannot move.
	reservations := make(map[string][]interval.Reservation, len(input.WorkCenters))
	schedule := make(map[string]interval.Interval, len(input.WorkOrders))

	for _, wc := range input.WorkCenters {
		var seed []interval.Reservation
		for _, mw := range wc.MaintenanceWindows {
			iv, err := interval.New(mw.Start, mw.End)
			if err != nil {
				return nil, err
			}
			seed = append(seed, interval.Reservation{
				Interval: iv,
				Kind:     domain.ReservationMaintenanceWindow,
				SourceID: wc.ID,
			})
		}
		reservations[wc.ID] = seed
	}
	for _, id := range order {
		wo := woByID[id]
		if !wo.Immovable() {
			continue
		}
		iv, err := interval.New(wo.Start, wo.End)
		if err != nil {
			return nil, wrapWorkOrder(err, wo.Number)
		}
		reservations[wo.WorkCenterID] = append(reservations[wo.WorkCenterID], interval.Reservation{
			Interval: iv,
			Kind:     domain.ReservationFixedMaintenance,
			SourceID: wo.ID,
		})
		schedule[wo.ID] = iv
	}
	for id, seed := range reservations {
		reservations[id] = interval.Merge(seed)
	}

	// Step D: placement loop in topological order.
	var changes []domain.ChangeRecord
	for _, id := range topo {
		wo := woByID[id]
		if wo.Immovable() {
			e.log.WithFields(logrus.Fields{"workOrder": wo.Number}).
				Debug("immovable, keeping planned interval")
			continue
		}

		change, err := e.place(wo, wcByID[wo.WorkCenterID], woByID, reservations, schedule)
		if err != nil {
			return nil, err
		}
		if change != nil {
			changes = append(changes, *change)
		}
	}

	updated := make([]*domain.WorkOrder, 0, len(order))
	for _, id := range order {
		updated = append(updated, woByID[id])
	}

	explanation := []string{
		fmt.Sprintf("Adjusted %d of %d work orders.", len(changes), len(order)),
		"Strategy: topological dependency ordering + earliest-feasible placement per work center under shift and maintenance calendars.",
	}
	e.log.WithFields(logrus.Fields{
		"workOrders": len(order),
		"changes":    len(changes),
	}).Info("reflow complete")

	return &contract.ReflowResult{
		UpdatedWorkOrders: updated,
		Changes:           changes,
		Explanation:       explanation,
	}, nil
}

// place finds the earliest feasible interval for one movable work order,
// records it as a reservation, and emits a change record if it moved.
func (e *Engine) place(
	wo *domain.WorkOrder,
	wc *domain.WorkCenter,
	woByID map[string]*domain.WorkOrder,
	reservations map[string][]interval.Reservation,
	schedule map[string]interval.Interval,
) (*domain.ChangeRecord, error) {
	original := interval.Interval{Start: wo.Start, End: wo.End}
	reasons := newReasonList()

	// Earliest candidate: the later of the planned start and every parent's
	// scheduled end. Topological order guarantees parents are scheduled
	// except on malformed input.
	earliest := original.Start
	for _, parent := range wo.DependsOn {
		parentIv, ok := schedule[parent]
		if !ok {
			return nil, &contract.Error{
				Code:            contract.ErrMissingDependency,
				Message:         fmt.Sprintf("dependency %q is not in the work-order set", parent),
				WorkOrderNumber: wo.Number,
			}
		}
		if parentIv.End.After(earliest) {
			earliest = parentIv.End
		}
		if parentIv.End.After(original.Start) {
			label := parent
			if p, ok := woByID[parent]; ok && p.Number != "" {
				label = p.Number
			}
			reasons.add(fmt.Sprintf("Dependency %s ready at %s.", label, stamp(parentIv.End)))
		}
	}

	merged := reservations[wc.ID]

	// Reachability: snap into shift, then walk out of any reservation the
	// cursor starts inside. Guarantees the start is at least reachable before
	// the more expensive duration calculation runs.
	cursor, err := calendar.SnapToShift(earliest, wc.Shifts)
	if err != nil {
		return nil, wrapWorkOrder(err, wo.Number)
	}
	for i := 0; ; i++ {
		if i >= placementGuard {
			return nil, guardExceeded(wo.Number, "feasibility")
		}
		blocking, ok := containing(merged, cursor)
		if !ok {
			break
		}
		reasons.add(blockedReason(blocking))
		cursor, err = calendar.SnapToShift(blocking.Interval.End, wc.Shifts)
		if err != nil {
			return nil, wrapWorkOrder(err, wo.Number)
		}
	}

	// Tentative end, then push until the whole interval is reservation-free.
	blocks := interval.Blocks(merged)
	end, err := calendar.EndAfterWorkingMinutes(cursor, wo.DurationMinutes, wc.Shifts, blocks)
	if err != nil {
		return nil, wrapWorkOrder(err, wo.Number)
	}
	for i := 0; ; i++ {
		if i >= placementGuard {
			return nil, guardExceeded(wo.Number, "overlap resolution")
		}
		candidate := interval.Interval{Start: cursor, End: end}
		overlapping, ok := interval.FirstOverlap(merged, candidate)
		if !ok {
			break
		}
		reasons.add(blockedReason(overlapping))
		cursor, err = calendar.SnapToShift(overlapping.Interval.End, wc.Shifts)
		if err != nil {
			return nil, wrapWorkOrder(err, wo.Number)
		}
		end, err = calendar.EndAfterWorkingMinutes(cursor, wo.DurationMinutes, wc.Shifts, blocks)
		if err != nil {
			return nil, wrapWorkOrder(err, wo.Number)
		}
	}

	placed := interval.Interval{Start: cursor, End: end}
	reservations[wc.ID] = interval.Merge(append(merged, interval.Reservation{
		Interval: placed,
		Kind:     domain.ReservationScheduledWO,
		SourceID: wo.ID,
	}))
	schedule[wo.ID] = placed
	wo.Start = placed.Start
	wo.End = placed.End

	e.log.WithFields(logrus.Fields{
		"workOrder":  wo.Number,
		"workCenter": wc.ID,
		"start":      stamp(placed.Start),
		"end":        stamp(placed.End),
	}).Debug("placed")

	if placed.Start.Equal(original.Start) && placed.End.Equal(original.End) {
		return nil, nil
	}
	return &domain.ChangeRecord{
		WorkOrderID:       wo.ID,
		WorkOrderNumber:   wo.Number,
		WorkCenterID:      wc.ID,
		OldStart:          original.Start,
		OldEnd:            original.End,
		NewStart:          placed.Start,
		NewEnd:            placed.End,
		StartDeltaMinutes: deltaMinutes(original.Start, placed.Start),
		EndDeltaMinutes:   deltaMinutes(original.End, placed.End),
		Reasons:           reasons.listOrDefault(),
	}, nil
}

// containing returns the merged reservation whose half-open interval contains
// the cursor, if any.
func containing(merged []interval.Reservation, t time.Time) (interval.Reservation, bool) {
	for _, r := range merged {
		if r.Interval.Contains(t) {
			return r, true
		}
		if r.Interval.Start.After(t) {
			break
		}
	}
	return interval.Reservation{}, false
}

func blockedReason(r interval.Reservation) string {
	switch r.Kind {
	case domain.ReservationMaintenanceWindow:
		return fmt.Sprintf("Maintenance window %s-%s blocked the slot.",
			stamp(r.Interval.Start), stamp(r.Interval.End))
	case domain.ReservationFixedMaintenance:
		return fmt.Sprintf("Fixed maintenance order %s occupies %s-%s.",
			r.SourceID, stamp(r.Interval.Start), stamp(r.Interval.End))
	default:
		return fmt.Sprintf("Work center busy until %s.", stamp(r.Interval.End))
	}
}

func guardExceeded(number, loop string) error {
	return &contract.Error{
		Code:            contract.ErrGuardExceeded,
		Message:         fmt.Sprintf("%s loop did not converge within %d iterations", loop, placementGuard),
		WorkOrderNumber: number,
	}
}

func wrapWorkOrder(err error, number string) error {
	if ce, ok := err.(*contract.Error); ok && ce.WorkOrderNumber == "" {
		return &contract.Error{Code: ce.Code, Message: ce.Message, WorkOrderNumber: number}
	}
	return err
}

func deltaMinutes(from, to time.Time) int {
	return int(to.Sub(from) / time.Minute)
}

func stamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
