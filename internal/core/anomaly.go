package core

import "fmt"

// AnomalyKind classifies data that is accepted but needs human attention.
type AnomalyKind string

const (
	AnomalyOverpaid             AnomalyKind = "overpaid"
	AnomalyCountsExceedBookings AnomalyKind = "counts_exceed_bookings"
	AnomalyPayableMismatch      AnomalyKind = "payable_mismatch"
)

// Anomaly flags a single record. It is never an error: the record stays
// visible and is rendered with a distinct label.
type Anomaly struct {
	Kind     AnomalyKind
	RecordID string
	Detail   string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s %s: %s", a.Kind, a.RecordID, a.Detail)
}

// Label is the short text shown on a flagged row.
func (k AnomalyKind) Label() string {
	switch k {
	case AnomalyOverpaid:
		return "Overpaid"
	case AnomalyCountsExceedBookings:
		return "Counts exceed bookings"
	case AnomalyPayableMismatch:
		return "Payable corrected"
	default:
		return string(k)
	}
}
