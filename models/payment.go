package models

import (
	"encoding/json"
	"time"
)

// PaymentEvent is one row of the append-only provider payment log. Rows are
// written both when a webhook notification arrives and when the reconciliation
// sweep fetches a payment; they are never updated.
type PaymentEvent struct {
	ID                int             `json:"id,omitempty"`
	EventType         string          `json:"event_type"`
	MPPaymentID       string          `json:"mp_payment_id"`
	MPOrderID         *string         `json:"mp_order_id,omitempty"`
	ExternalReference string          `json:"external_reference"`
	Status            string          `json:"status"`
	Amount            float64         `json:"amount"`
	Currency          string          `json:"currency"`
	PayerEmail        string          `json:"payer_email"`
	Raw               json.RawMessage `json:"raw,omitempty"`
	Created           time.Time       `json:"created"`
}

const (
	EventTypeWebhook           = "webhook"
	EventTypeReconciliation    = "reconciliation"
	EventTypePreferenceCreated = "preference_created"
)

// Credential holds Mercado Pago access configuration. Scope is either global
// (platform singleton) or tenant.
type Credential struct {
	ID            int     `json:"id,omitempty"`
	Scope         string  `json:"scope"`
	TenantID      *string `json:"tenant_id,omitempty"`
	AccessToken   string  `json:"-"`
	PublicKey     string  `json:"public_key,omitempty"`
	WebhookSecret string  `json:"-"`
	IsProduction  bool    `json:"is_production"`
	Active        bool    `json:"active"`
}

const (
	CredentialScopeGlobal = "global"
	CredentialScopeTenant = "tenant"
)

// ReconcileOpts carries the sweep query parameters. Pointers distinguish an
// absent parameter (use the default) from an explicit out-of-range value
// (clamp it).
type ReconcileOpts struct {
	Max        *int `schema:"max"`
	AgeMinutes *int `schema:"age_minutes"`
}

const (
	ReconcileDefaultMax        = 25
	ReconcileMaxLimit          = 50
	ReconcileDefaultAgeMinutes = 10
)

// Limits applies the documented defaults and clamps: max defaults to 25
// within [1, 50], age_minutes defaults to 10 with a minimum of 1.
func (o *ReconcileOpts) Limits() (max int, ageMinutes int) {
	max = ReconcileDefaultMax
	if o.Max != nil {
		max = *o.Max
	}
	if max < 1 {
		max = 1
	}
	if max > ReconcileMaxLimit {
		max = ReconcileMaxLimit
	}

	ageMinutes = ReconcileDefaultAgeMinutes
	if o.AgeMinutes != nil {
		ageMinutes = *o.AgeMinutes
	}
	if ageMinutes < 1 {
		ageMinutes = 1
	}
	return max, ageMinutes
}

type WebhookAck struct {
	Status string `json:"status"`
}
