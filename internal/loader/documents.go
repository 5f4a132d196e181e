package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/alexanderramin/reflow/internal/contract"
)

// TimeLayout is the wire format for all timestamps: ISO-8601 UTC with
// millisecond precision and a Z suffix.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// WorkOrderData is the data section of a workOrder document.
type WorkOrderData struct {
	WorkOrderNumber       string   `json:"workOrderNumber"`
	ManufacturingOrderID  string   `json:"manufacturingOrderId,omitempty"`
	WorkCenterID          string   `json:"workCenterId"`
	StartDate             string   `json:"startDate"`
	EndDate               string   `json:"endDate"`
	DurationMinutes       int      `json:"durationMinutes"`
	IsMaintenance         bool     `json:"isMaintenance"`
	DependsOnWorkOrderIDs []string `json:"dependsOnWorkOrderIds,omitempty"`
}

// ShiftData is one recurring shift window on a work center.
type ShiftData struct {
	DayOfWeek int `json:"dayOfWeek"`
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

// MaintenanceWindowData is one maintenance block on a work center.
type MaintenanceWindowData struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason,omitempty"`
}

// WorkCenterData is the data section of a workCenter document.
type WorkCenterData struct {
	Name               string                  `json:"name"`
	Shifts             []ShiftData             `json:"shifts"`
	MaintenanceWindows []MaintenanceWindowData `json:"maintenanceWindows,omitempty"`
}

// WorkOrderDoc is a workOrder document envelope.
type WorkOrderDoc struct {
	DocID   string        `json:"docId"`
	DocType string        `json:"docType"`
	Data    WorkOrderData `json:"data"`
}

// WorkCenterDoc is a workCenter document envelope.
type WorkCenterDoc struct {
	DocID   string         `json:"docId"`
	DocType string         `json:"docType"`
	Data    WorkCenterData `json:"data"`
}

// Payload is the full input document set. Manufacturing orders are carried
// through untouched; the core never consults them.
type Payload struct {
	WorkOrders          []WorkOrderDoc    `json:"workOrders"`
	WorkCenters         []WorkCenterDoc   `json:"workCenters"`
	ManufacturingOrders []json.RawMessage `json:"manufacturingOrders,omitempty"`
}

// Load parses an input payload. Documents missing a docId get a generated
// uuid so every document stays addressable downstream.
func Load(r io.Reader) (*Payload, error) {
	dec := json.NewDecoder(r)
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, contract.Errorf(contract.ErrInvalidInput, "parsing payload: %v", err)
	}
	for i := range p.WorkOrders {
		if p.WorkOrders[i].DocID == "" {
			p.WorkOrders[i].DocID = uuid.NewString()
		}
	}
	for i := range p.WorkCenters {
		if p.WorkCenters[i].DocID == "" {
			p.WorkCenters[i].DocID = uuid.NewString()
		}
	}
	return &p, nil
}

// LoadFile reads and parses a payload from disk.
func LoadFile(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()
	return Load(f)
}
