package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusCanceled PaymentStatus = "CANCELED"
)

// Submission is one enrollment form entry. Payment fields are owned by the
// payment subsystem: webhook ingestion and the reconciliation sweep overwrite
// them from the latest provider record, except metadata which is shallow-merged.
type Submission struct {
	ID            string                 `json:"id"`
	TenantID      *string                `json:"tenant_id,omitempty"`
	PaymentStatus PaymentStatus          `json:"payment_status"`
	PaymentDate   *time.Time             `json:"payment_date,omitempty"`
	PaymentAmount *float64               `json:"payment_amount,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Created       time.Time              `json:"created"`
	Updated       time.Time              `json:"updated"`
}

func (s *Submission) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}
