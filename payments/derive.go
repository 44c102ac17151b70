package payments

import (
	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/models"
)

// DeriveStatus maps the latest provider payment record to the normalized
// submission status. It is the single status mapping shared by webhook
// ingestion and the reconciliation sweep; callers must pass the most recent
// record (provider id descending) or nil when none exists.
func DeriveStatus(payment *mercadopago.Payment) models.PaymentStatus {
	if payment == nil {
		return models.PaymentStatusPending
	}

	switch payment.Status {
	case "approved":
		return models.PaymentStatusPaid
	case "rejected", "cancelled":
		return models.PaymentStatusCanceled
	default:
		return models.PaymentStatusPending
	}
}
