package payments

import (
	"testing"

	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/models"
	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, models.PaymentStatusPaid, DeriveStatus(&mercadopago.Payment{Status: "approved"}))
	assert.Equal(t, models.PaymentStatusCanceled, DeriveStatus(&mercadopago.Payment{Status: "rejected"}))
	assert.Equal(t, models.PaymentStatusCanceled, DeriveStatus(&mercadopago.Payment{Status: "cancelled"}))
}

func TestDeriveStatusTotality(t *testing.T) {
	assert.Equal(t, models.PaymentStatusPending, DeriveStatus(nil))

	for _, status := range []string{"", "pending", "in_process", "authorized", "in_mediation", "refunded", "charged_back", "garbage"} {
		assert.Equal(t, models.PaymentStatusPending, DeriveStatus(&mercadopago.Payment{Status: status}), "status %q", status)
	}
}
