package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matteusmoreira/IWE-sub001/config"
	"github.com/matteusmoreira/IWE-sub001/middlewares"
	"github.com/matteusmoreira/IWE-sub001/models"
	"github.com/matteusmoreira/IWE-sub001/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconcileContext(storage *fakeStorage, mp *fakeMP, secret string) *config.AppContext {
	ctx := &config.AppContext{
		DB:          storage,
		MercadoPago: mp,
	}
	ctx.Config.MercadoPago.Token = "env-token"
	ctx.Config.MercadoPago.ReconcileSecret = secret
	return ctx
}

func callReconcile(ctx *config.AppContext, target string, bearer string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	if bearer != "" {
		request.Header.Set("Authorization", "Bearer "+bearer)
	}
	recorder := httptest.NewRecorder()
	ReconcilePayments(ctx, middlewares.NewResponseWriter(recorder), request)
	return recorder
}

func TestReconcileRejectsWrongSecret(t *testing.T) {
	storage := newFakeStorage()
	ctx := reconcileContext(storage, &fakeMP{}, "topsecret")

	recorder := callReconcile(ctx, "/admin/payments/reconcile", "wrong")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = callReconcile(ctx, "/admin/payments/reconcile", "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// Data was never touched.
	assert.Zero(t, storage.staleLimit)
}

func TestReconcileOpenWhenNoSecretConfigured(t *testing.T) {
	ctx := reconcileContext(newFakeStorage(), &fakeMP{}, "")

	recorder := callReconcile(ctx, "/admin/payments/reconcile", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestReconcileClampsMax(t *testing.T) {
	storage := newFakeStorage()
	ctx := reconcileContext(storage, &fakeMP{}, "")

	recorder := callReconcile(ctx, "/admin/payments/reconcile?max=9999", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, models.ReconcileMaxLimit, storage.staleLimit)

	recorder = callReconcile(ctx, "/admin/payments/reconcile?max=0", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 1, storage.staleLimit)

	recorder = callReconcile(ctx, "/admin/payments/reconcile", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, models.ReconcileDefaultMax, storage.staleLimit)
}

func TestReconcileRejectsMalformedQuery(t *testing.T) {
	ctx := reconcileContext(newFakeStorage(), &fakeMP{}, "")

	recorder := callReconcile(ctx, "/admin/payments/reconcile?max=abc", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestReconcileReturnsSummary(t *testing.T) {
	storage := newFakeStorage()
	storage.globalCredential = &models.Credential{Scope: models.CredentialScopeGlobal, AccessToken: "token", Active: true}
	storage.submissions["sub-1"] = &models.Submission{ID: "sub-1", PaymentStatus: models.PaymentStatusPending}
	storage.stale = []models.Submission{*storage.submissions["sub-1"]}

	mp := &fakeMP{}

	recorder := callReconcile(reconcileContext(storage, mp, ""), "/admin/payments/reconcile", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var summary payments.SweepSummary
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Unchanged)
	require.Len(t, summary.Results, 1)
	assert.Equal(t, "sub-1", summary.Results[0].SubmissionID)
}
