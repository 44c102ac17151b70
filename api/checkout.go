package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/matteusmoreira/IWE-sub001/config"
	"github.com/matteusmoreira/IWE-sub001/db"
	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/middlewares"
	"github.com/matteusmoreira/IWE-sub001/models"
	"github.com/matteusmoreira/IWE-sub001/payments"
	"github.com/mitchellh/mapstructure"
)

// CreateSubmissionCheckout creates a Mercado Pago preference for a pending
// submission and returns the init point the frontend redirects to. The
// external reference sent to the provider is the submission id; the webhook
// and the reconciliation sweep correlate payments back through it.
func CreateSubmissionCheckout(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.GetRequestLanguage(r)

	userInfo := models.InfoUser{}
	mapstructure.Decode(r.Context().Value("user"), &userInfo)

	if !userInfo.IsClient && !userInfo.IsAdmin {
		w.Write(http.StatusForbidden, nil, nil, middlewares.Responses.InvalidRoles)
		return
	}

	vars := mux.Vars(r)
	submissionID := vars["submission_id"]

	submission, err := ctx.DB.GetSubmissionByID(submissionID)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}

	if submission == nil {
		w.Write(http.StatusNotFound, nil, nil, middlewares.Responses.SubmissionNotFound)
		return
	}

	if submission.IsPaid() {
		w.Write(http.StatusBadRequest, nil, nil, middlewares.Responses.SubmissionPaid)
		return
	}

	if submission.PaymentAmount == nil || *submission.PaymentAmount <= 0 {
		w.WriteJSON(http.StatusBadRequest, nil, nil, "submission has no payable amount")
		return
	}

	resolver := payments.NewCredentialResolver(ctx.DB, ctx.Config.MercadoPago.Token)
	token, err := resolver.Resolve(submission.TenantID)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.InternalServerError)
		return
	}
	if token == "" {
		w.Write(http.StatusServiceUnavailable, nil, nil, middlewares.Responses.MissingCredentials)
		return
	}

	request := &mercadopago.CreatePreferenceRequest{
		ExternalReference: submission.ID,
		BackUrls: mercadopago.PreferenceBackUrls{
			Success: ctx.Config.MercadoPago.SuccessURL,
			Failure: ctx.Config.MercadoPago.FailureURL,
		},
		Items: []mercadopago.PreferenceItem{
			{
				ID:          submission.ID,
				Title:       fmt.Sprintf("%s enrollment", ctx.Config.AppName),
				Description: fmt.Sprintf("Enrollment submission %s", submission.ID),
				Quantity:    1,
				UnitPrice:   *submission.PaymentAmount,
			},
		},
	}

	response, err := ctx.MercadoPago.CreatePreference(token, request)
	if err != nil {
		w.Write(http.StatusInternalServerError, nil, err, middlewares.Responses.MercadoPagoProblems)
		return
	}

	if response == nil || response.InitPoint == "" {
		w.Write(http.StatusInternalServerError, nil, nil, middlewares.Responses.MercadoPagoProblems)
		return
	}

	if _, err := ctx.DB.InsertPaymentEvent(&db.InsertPaymentEventOpts{
		EventType:         models.EventTypePreferenceCreated,
		MPPaymentID:       response.ID,
		ExternalReference: submission.ID,
		Status:            "created",
	}); err != nil {
		w.LogError(err, "checkout_event_insert")
	}

	w.WriteJSON(http.StatusOK, response, nil, "")
}
