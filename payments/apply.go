package payments

import (
	"strconv"
	"time"

	"github.com/matteusmoreira/IWE-sub001/db"
	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/models"
)

// ApplyPayment overwrites the submission's payment fields from the provider
// record: status is re-derived, payment_date is set only when the derived
// status is PAID, amount comes from the provider, and the provider identifiers
// are shallow-merged into metadata. Re-derivation is an authoritative
// overwrite, not a merge; regressions are accepted.
func ApplyPayment(storage db.SubmissionStorage, submission *models.Submission, payment *mercadopago.Payment) (models.PaymentStatus, error) {
	status := DeriveStatus(payment)

	var paymentDate *time.Time
	if status == models.PaymentStatusPaid {
		now := time.Now()
		paymentDate = &now
	}

	amount := payment.TransactionAmount

	opts := &db.UpdateSubmissionPaymentOpts{
		SubmissionID:  submission.ID,
		PaymentStatus: status,
		PaymentDate:   paymentDate,
		PaymentAmount: &amount,
		Metadata: map[string]interface{}{
			"mp_payment_id":     strconv.FormatInt(payment.ID, 10),
			"mp_status":         payment.Status,
			"mp_status_detail":  payment.StatusDetail,
			"mp_payment_method": payment.PaymentMethodID,
			"mp_payment_type":   payment.PaymentTypeID,
		},
	}

	if err := storage.UpdateSubmissionPayment(opts); err != nil {
		return status, err
	}

	return status, nil
}

// NewPaymentEventOpts shapes one append-only payment_events row from a
// provider payment snapshot.
func NewPaymentEventOpts(eventType string, payment *mercadopago.Payment) *db.InsertPaymentEventOpts {
	var orderID *string
	if payment.Order.ID != 0 {
		id := strconv.FormatInt(payment.Order.ID, 10)
		orderID = &id
	}

	return &db.InsertPaymentEventOpts{
		EventType:         eventType,
		MPPaymentID:       strconv.FormatInt(payment.ID, 10),
		MPOrderID:         orderID,
		ExternalReference: payment.ExternalReference,
		Status:            payment.Status,
		Amount:            payment.TransactionAmount,
		Currency:          payment.CurrencyID,
		PayerEmail:        payment.Payer.Email,
		Raw:               payment.Raw,
	}
}
