package domain

// ReservationKind classifies the source of an unavailable block on a work
// center. After merging, kinds are informational only: placement treats every
// reservation as equally unavailable.
type ReservationKind string

const (
	ReservationMaintenanceWindow ReservationKind = "maintenance_window"
	ReservationFixedMaintenance  ReservationKind = "fixed_maintenance_wo"
	ReservationScheduledWO       ReservationKind = "scheduled_wo"
)

// DocType identifies a document envelope's payload type.
type DocType string

const (
	DocWorkOrder          DocType = "workOrder"
	DocWorkCenter         DocType = "workCenter"
	DocManufacturingOrder DocType = "manufacturingOrder"
)

// ValidDocTypes is the canonical set of accepted document type strings.
var ValidDocTypes = map[string]bool{
	"workOrder": true, "workCenter": true, "manufacturingOrder": true,
}

// LogLevel selects collaborator logging verbosity. It never affects
// scheduling results.
type LogLevel string

const (
	LogSilent LogLevel = "silent"
	LogInfo   LogLevel = "info"
	LogDebug  LogLevel = "debug"
)
