package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matteusmoreira/IWE-sub001/config"
	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/middlewares"
	"github.com/matteusmoreira/IWE-sub001/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func webhookContext(storage *fakeStorage, mp *fakeMP) *config.AppContext {
	ctx := &config.AppContext{
		DB:          storage,
		MercadoPago: mp,
	}
	ctx.Config.MercadoPago.Token = "env-token"
	return ctx
}

func callWebhook(ctx *config.AppContext, method string, target string, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body != "" {
		request = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		request = httptest.NewRequest(method, target, nil)
	}
	recorder := httptest.NewRecorder()
	MercadoPagoWebhook(ctx, middlewares.NewResponseWriter(recorder), request)
	return recorder
}

func TestWebhookMalformedInput(t *testing.T) {
	storage := newFakeStorage()
	mp := &fakeMP{}

	recorder := callWebhook(webhookContext(storage, mp), http.MethodPost, "/webhooks/mercadopago", `{}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Zero(t, mp.getCalls)
	assert.Empty(t, storage.events)
}

func TestWebhookIgnoresOtherTopics(t *testing.T) {
	storage := newFakeStorage()
	mp := &fakeMP{}

	recorder := callWebhook(webhookContext(storage, mp), http.MethodPost, "/webhooks/mercadopago", `{"type":"merchant_order","data":{"id":"1"}}`)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var ack models.WebhookAck
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &ack))
	assert.Equal(t, "ignored", ack.Status)

	assert.Zero(t, mp.getCalls)
	assert.Empty(t, storage.events)
}

func TestWebhookAcknowledgesProviderFailure(t *testing.T) {
	storage := newFakeStorage()
	mp := &fakeMP{getErr: errors.New("bad response 500")}

	recorder := callWebhook(webhookContext(storage, mp), http.MethodPost, "/webhooks/mercadopago", `{"type":"payment","data":{"id":"123"}}`)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var ack models.WebhookAck
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &ack))
	assert.Equal(t, "ok", ack.Status)

	assert.Equal(t, 1, mp.getCalls)
	assert.Empty(t, storage.events)
}

func TestWebhookPostRecordsEventAndUpdatesSubmission(t *testing.T) {
	storage := newFakeStorage()
	storage.submissions["sub-1"] = &models.Submission{ID: "sub-1", PaymentStatus: models.PaymentStatusPending}
	mp := &fakeMP{
		payment: &mercadopago.Payment{
			ID:                123,
			ExternalReference: "sub-1",
			Status:            "approved",
			TransactionAmount: 99.9,
			CurrencyID:        "BRL",
			Payer:             mercadopago.PaymentPayer{Email: "payer@example.com"},
			Raw:               json.RawMessage(`{"id":123}`),
		},
	}

	recorder := callWebhook(webhookContext(storage, mp), http.MethodPost, "/webhooks/mercadopago", `{"type":"payment","data":{"id":123}}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "123", mp.lastGetID)

	require.Len(t, storage.events, 1)
	assert.Equal(t, models.EventTypeWebhook, storage.events[0].EventType)
	assert.Equal(t, "123", storage.events[0].MPPaymentID)
	assert.Equal(t, "payer@example.com", storage.events[0].PayerEmail)

	submission := storage.submissions["sub-1"]
	assert.Equal(t, models.PaymentStatusPaid, submission.PaymentStatus)
	require.NotNil(t, submission.PaymentDate)
	assert.Equal(t, "123", submission.Metadata["mp_payment_id"])
	assert.Equal(t, "approved", submission.Metadata["mp_status"])
}

func TestWebhookLegacyGetQueryParams(t *testing.T) {
	storage := newFakeStorage()
	mp := &fakeMP{payment: &mercadopago.Payment{ID: 456, Status: "pending"}}

	recorder := callWebhook(webhookContext(storage, mp), http.MethodGet, "/webhooks/mercadopago?topic=payment&id=456", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "456", mp.lastGetID)
	require.Len(t, storage.events, 1)
}

func TestWebhookResourceURLFallback(t *testing.T) {
	storage := newFakeStorage()
	mp := &fakeMP{payment: &mercadopago.Payment{ID: 789, Status: "pending"}}

	recorder := callWebhook(webhookContext(storage, mp), http.MethodGet, "/webhooks/mercadopago?topic=payment&resource=https://api.mercadopago.com/v1/payments/789", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "789", mp.lastGetID)
}

func TestWebhookEventInsertFailureStillAcknowledges(t *testing.T) {
	storage := newFakeStorage()
	mp := &fakeMP{payment: &mercadopago.Payment{ID: 1, Status: "approved"}}

	// No submission matches the external reference and the event log write is
	// irrelevant to the ack: the provider still gets its 200.
	recorder := callWebhook(webhookContext(storage, mp), http.MethodPost, "/webhooks/mercadopago", `{"topic":"payment","id":"1"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var ack models.WebhookAck
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &ack))
	assert.Equal(t, "ok", ack.Status)
}
