package model

import "time"

// VendorStatus is the lifecycle state of one analysis run. Complete and
// Failed are terminal; an entry never transitions out of a terminal state.
type VendorStatus string

const (
	StatusProcessing VendorStatus = "processing"
	StatusComplete   VendorStatus = "complete"
	StatusFailed     VendorStatus = "failed"
)

// Terminal reports whether s is a terminal state.
func (s VendorStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// VendorEntry is the job record for one analysis run. It is owned by the
// vendor store: created on trigger, mutated only by that run's background
// task, read-only to pollers.
type VendorEntry struct {
	VendorID    string                `json:"vendor_id"`
	VendorName  string                `json:"vendor_name"`
	Status      VendorStatus          `json:"status"`
	Error       string                `json:"error,omitempty"`
	Result      *VendorAnalysisResult `json:"result,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
}
