package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alexanderramin/reflow/internal/contract"
	"github.com/alexanderramin/reflow/internal/domain"
)

// ChangeJSON is the wire form of a change record.
type ChangeJSON struct {
	WorkOrderID       string   `json:"workOrderId"`
	WorkOrderNumber   string   `json:"workOrderNumber"`
	WorkCenterID      string   `json:"workCenterId"`
	OriginalStartDate string   `json:"originalStartDate"`
	OriginalEndDate   string   `json:"originalEndDate"`
	NewStartDate      string   `json:"newStartDate"`
	NewEndDate        string   `json:"newEndDate"`
	StartDeltaMinutes int      `json:"startDeltaMinutes"`
	EndDeltaMinutes   int      `json:"endDeltaMinutes"`
	Reasons           []string `json:"reasons"`
}

// Output is the wire form of a reflow result: full work-order documents with
// rewritten dates, the change log, and the explanation. Manufacturing orders
// pass through when the input carried any.
type Output struct {
	UpdatedWorkOrders   []WorkOrderDoc    `json:"updatedWorkOrders"`
	Changes             []ChangeJSON      `json:"changes"`
	Explanation         []string          `json:"explanation"`
	ManufacturingOrders []json.RawMessage `json:"manufacturingOrders,omitempty"`
}

// BuildOutput rewrites the input envelopes with the engine's result.
func BuildOutput(p *Payload, result *contract.ReflowResult) *Output {
	byID := make(map[string]*domain.WorkOrder, len(result.UpdatedWorkOrders))
	for _, wo := range result.UpdatedWorkOrders {
		byID[wo.ID] = wo
	}

	out := &Output{
		Changes:             make([]ChangeJSON, 0, len(result.Changes)),
		Explanation:         result.Explanation,
		ManufacturingOrders: p.ManufacturingOrders,
	}
	for _, doc := range p.WorkOrders {
		if wo, ok := byID[doc.DocID]; ok {
			doc.Data.StartDate = wo.Start.UTC().Format(TimeLayout)
			doc.Data.EndDate = wo.End.UTC().Format(TimeLayout)
		}
		out.UpdatedWorkOrders = append(out.UpdatedWorkOrders, doc)
	}
	for _, c := range result.Changes {
		out.Changes = append(out.Changes, ChangeJSON{
			WorkOrderID:       c.WorkOrderID,
			WorkOrderNumber:   c.WorkOrderNumber,
			WorkCenterID:      c.WorkCenterID,
			OriginalStartDate: c.OldStart.UTC().Format(TimeLayout),
			OriginalEndDate:   c.OldEnd.UTC().Format(TimeLayout),
			NewStartDate:      c.NewStart.UTC().Format(TimeLayout),
			NewEndDate:        c.NewEnd.UTC().Format(TimeLayout),
			StartDeltaMinutes: c.StartDeltaMinutes,
			EndDeltaMinutes:   c.EndDeltaMinutes,
			Reasons:           c.Reasons,
		})
	}
	return out
}

// WriteOutput serializes an output payload as indented JSON.
func WriteOutput(w io.Writer, out *Output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// LoadOutput parses a previously written output payload, for verification.
func LoadOutput(r io.Reader) (*Output, error) {
	var out Output
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, contract.Errorf(contract.ErrInvalidInput, "parsing output payload: %v", err)
	}
	return &out, nil
}

// LoadOutputFile reads and parses an output payload from disk.
func LoadOutputFile(path string) (*Output, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening output: %w", err)
	}
	defer f.Close()
	return LoadOutput(f)
}

// OutputOrders converts updated work-order documents back into domain form.
func OutputOrders(out *Output) ([]*domain.WorkOrder, error) {
	orders := make([]*domain.WorkOrder, 0, len(out.UpdatedWorkOrders))
	for i, doc := range out.UpdatedWorkOrders {
		start, err := time.Parse(time.RFC3339, doc.Data.StartDate)
		if err != nil {
			return nil, contract.Errorf(contract.ErrInvalidInput,
				"updatedWorkOrders[%d].startDate: %v", i, err)
		}
		end, err := time.Parse(time.RFC3339, doc.Data.EndDate)
		if err != nil {
			return nil, contract.Errorf(contract.ErrInvalidInput,
				"updatedWorkOrders[%d].endDate: %v", i, err)
		}
		orders = append(orders, &domain.WorkOrder{
			ID:                   doc.DocID,
			Number:               doc.Data.WorkOrderNumber,
			ManufacturingOrderID: doc.Data.ManufacturingOrderID,
			WorkCenterID:         doc.Data.WorkCenterID,
			Start:                start.UTC(),
			End:                  end.UTC(),
			DurationMinutes:      doc.Data.DurationMinutes,
			IsMaintenance:        doc.Data.IsMaintenance,
			DependsOn:            append([]string(nil), doc.Data.DependsOnWorkOrderIDs...),
		})
	}
	return orders, nil
}
