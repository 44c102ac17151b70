package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/matteusmoreira/IWE-sub001/config"
	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/middlewares"
	"github.com/matteusmoreira/IWE-sub001/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callCheckout(ctx *config.AppContext, submissionID string, user map[string]interface{}) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/submissions/"+submissionID+"/checkout", nil)
	request = mux.SetURLVars(request, map[string]string{"submission_id": submissionID})
	if user != nil {
		request = request.WithContext(context.WithValue(request.Context(), string("user"), user))
	}
	recorder := httptest.NewRecorder()
	CreateSubmissionCheckout(ctx, middlewares.NewResponseWriter(recorder), request)
	return recorder
}

func clientUser() map[string]interface{} {
	return map[string]interface{}{"ID": 1, "IsClient": true}
}

func TestCheckoutRequiresClientRole(t *testing.T) {
	ctx := webhookContext(newFakeStorage(), &fakeMP{})

	recorder := callCheckout(ctx, "sub-1", map[string]interface{}{"ID": 1, "IsAPI": true})
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestCheckoutSubmissionNotFound(t *testing.T) {
	ctx := webhookContext(newFakeStorage(), &fakeMP{})

	recorder := callCheckout(ctx, "missing", clientUser())
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCheckoutRejectsPaidSubmission(t *testing.T) {
	storage := newFakeStorage()
	amount := 100.0
	storage.submissions["sub-1"] = &models.Submission{ID: "sub-1", PaymentStatus: models.PaymentStatusPaid, PaymentAmount: &amount}
	ctx := webhookContext(storage, &fakeMP{})

	recorder := callCheckout(ctx, "sub-1", clientUser())
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCheckoutCreatesPreference(t *testing.T) {
	storage := newFakeStorage()
	amount := 100.0
	storage.submissions["sub-1"] = &models.Submission{ID: "sub-1", PaymentStatus: models.PaymentStatusPending, PaymentAmount: &amount}
	mp := &fakeMP{preference: &mercadopago.CreatePreferenceResponse{ID: "pref-1", InitPoint: "https://mp.example/init"}}
	ctx := webhookContext(storage, mp)

	recorder := callCheckout(ctx, "sub-1", clientUser())
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "https://mp.example/init")

	require.Len(t, storage.events, 1)
	assert.Equal(t, models.EventTypePreferenceCreated, storage.events[0].EventType)
}
