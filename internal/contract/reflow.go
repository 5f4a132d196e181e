package contract

import "github.com/alexanderramin/reflow/internal/domain"

// ReflowInput is the engine-facing view of a loaded, validated payload.
type ReflowInput struct {
	WorkOrders  []*domain.WorkOrder
	WorkCenters []*domain.WorkCenter
}

// ReflowResult is the outcome of one successful reflow call. UpdatedWorkOrders
// are copies owned by the caller; the input is never mutated.
type ReflowResult struct {
	UpdatedWorkOrders []*domain.WorkOrder
	Changes           []domain.ChangeRecord
	Explanation       []string
}
