package loader

import (
	"time"

	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/domain"
)

// Decode validates a payload structurally and converts it into the
// engine-facing input. Failures are INVALID_INPUT errors carrying the
// offending field path, except overnight shifts (UNSUPPORTED_SHIFT), inverted
// intervals (INVALID_INTERVAL) and reference errors, which keep their own codes.
func Decode(p *Payload) (*contract.ReflowInput, error) {
	input := &contract.ReflowInput{}
	centerIDs := make(map[string]bool, len(p.WorkCenters))

	for i, doc := range p.WorkCenters {
		if doc.DocType != string(domain.DocWorkCenter) {
			return nil, contract.Errorf(contract.ErrInvalidInput,
				"workCenters[%d].docType: unrecognized %q", i, doc.DocType)
		}
		if centerIDs[doc.DocID] {
			return nil, contract.Errorf(contract.ErrInvalidInput,
				"workCenters[%d].docId: duplicate %q", i, doc.DocID)
		}
		centerIDs[doc.DocID] = true

		wc := &domain.WorkCenter{ID: doc.DocID, Name: doc.Data.Name}
		for j, s := range doc.Data.Shifts {
			if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
				return nil, contract.Errorf(contract.ErrInvalidInput,
					"workCenters[%d].shifts[%d].dayOfWeek: %d out of range 0-6", i, j, s.DayOfWeek)
			}
			if s.StartHour < 0 || s.StartHour > 23 || s.EndHour < 0 || s.EndHour > 23 {
				return nil, contract.Errorf(contract.ErrInvalidInput,
					"workCenters[%d].shifts[%d]: hours out of range 0-23", i, j)
			}
			if s.EndHour <= s.StartHour {
				return nil, contract.Errorf(contract.ErrUnsupportedShift,
					"workCenters[%d].shifts[%d]: endHour %d not after startHour %d (overnight shifts unsupported)",
					i, j, s.EndHour, s.StartHour)
			}
			wc.Shifts = append(wc.Shifts, domain.Shift{
				DayOfWeek: s.DayOfWeek, StartHour: s.StartHour, EndHour: s.EndHour,
			})
		}
		for j, mw := range doc.Data.MaintenanceWindows {
			start, err := parseStamp(mw.StartDate)
			if err != nil {
				return nil, contract.Errorf(contract.ErrInvalidInput,
					"workCenters[%d].maintenanceWindows[%d].startDate: %v", i, j, err)
			}
			end, err := parseStamp(mw.EndDate)
			if err != nil {
				return nil, contract.Errorf(contract.ErrInvalidInput,
					"workCenters[%d].maintenanceWindows[%d].endDate: %v", i, j, err)
			}
			if !end.After(start) {
				return nil, contract.Errorf(contract.ErrInvalidInterval,
					"workCenters[%d].maintenanceWindows[%d]: endDate is not after startDate", i, j)
			}
			wc.MaintenanceWindows = append(wc.MaintenanceWindows, domain.MaintenanceWindow{
				Start: start, End: end, Reason: mw.Reason,
			})
		}
		input.WorkCenters = append(input.WorkCenters, wc)
	}

	orderIDs := make(map[string]bool, len(p.WorkOrders))
	for i, doc := range p.WorkOrders {
		if doc.DocType != string(domain.DocWorkOrder) {
			return nil, contract.Errorf(contract.ErrInvalidInput,
				"workOrders[%d].docType: unrecognized %q", i, doc.DocType)
		}
		if orderIDs[doc.DocID] {
			return nil, contract.Errorf(contract.ErrInvalidInput,
				"workOrders[%d].docId: duplicate %q", i, doc.DocID)
		}
		orderIDs[doc.DocID] = true

		if doc.Data.DurationMinutes <= 0 {
			return nil, contract.Errorf(contract.ErrInvalidInput,
				"workOrders[%d].durationMinutes: %d is not positive", i, doc.Data.DurationMinutes)
		}
		start, err := parseStamp(doc.Data.StartDate)
		if err != nil {
			return nil, contract.Errorf(contract.ErrInvalidInput,
				"workOrders[%d].startDate: %v", i, err)
		}
		end, err := parseStamp(doc.Data.EndDate)
		if err != nil {
			return nil, contract.Errorf(contract.ErrInvalidInput,
				"workOrders[%d].endDate: %v", i, err)
		}
		if !end.After(start) {
			return nil, contract.Errorf(contract.ErrInvalidInterval,
				"workOrders[%d]: endDate is not after startDate", i)
		}
		if !centerIDs[doc.Data.WorkCenterID] {
			return nil, &contract.Error{
				Code:            contract.ErrMissingWorkCenter,
				Message:         "work center " + doc.Data.WorkCenterID + " not found",
				WorkOrderNumber: doc.Data.WorkOrderNumber,
			}
		}
		input.WorkOrders = append(input.WorkOrders, &domain.WorkOrder{
			ID:                   doc.DocID,
			Number:               doc.Data.WorkOrderNumber,
			ManufacturingOrderID: doc.Data.ManufacturingOrderID,
			WorkCenterID:         doc.Data.WorkCenterID,
			Start:                start,
			End:                  end,
			DurationMinutes:      doc.Data.DurationMinutes,
			IsMaintenance:        doc.Data.IsMaintenance,
			DependsOn:            append([]string(nil), doc.Data.DependsOnWorkOrderIDs...),
		})
	}

	for _, wo := range input.WorkOrders {
		for _, dep := range wo.DependsOn {
			if !orderIDs[dep] {
				return nil, &contract.Error{
					Code:            contract.ErrMissingDependency,
					Message:         "dependency " + dep + " is not in the work-order set",
					WorkOrderNumber: wo.Number,
				}
			}
		}
	}

	return input, nil
}

// parseStamp parses a wire timestamp, normalizing to UTC.
func parseStamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
