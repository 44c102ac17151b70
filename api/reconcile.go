package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matteusmoreira/IWE-sub001/config"
	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/middlewares"
	"github.com/matteusmoreira/IWE-sub001/models"
	"github.com/matteusmoreira/IWE-sub001/payments"
)

// ReconcilePayments runs one reconciliation sweep over stale PENDING
// submissions. The caller is an external cron, authenticated by the
// RECONCILE_SECRET bearer token; when no secret is configured the endpoint is
// open, which is a documented deployment risk, not something this handler
// second-guesses. Per-item failures come back inside the 200 response body,
// never as a non-success status.
func ReconcilePayments(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	if secret := ctx.Config.MercadoPago.ReconcileSecret; secret != "" {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			w.Error(http.StatusUnauthorized, "unauthorized", middlewares.WithErrorScope("reconcile"))
			return
		}
	}

	var opts models.ReconcileOpts
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(&opts, r.URL.Query()); err != nil {
		w.WriteJSON(http.StatusBadRequest, nil, err, "failed parsing query params")
		return
	}

	max, ageMinutes := opts.Limits()

	sweeper := payments.Sweeper{
		DB:          ctx.DB,
		MP:          ctx.MercadoPago,
		Credentials: payments.NewCredentialResolver(ctx.DB, ctx.Config.MercadoPago.Token),
		OnPaid: func(submission *models.Submission, payment *mercadopago.Payment) {
			sendPaymentConfirmation(ctx, w, submission, payment)
		},
	}

	summary, err := sweeper.Run(payments.SweepOpts{Max: max, AgeMinutes: ageMinutes})
	if err != nil {
		w.WriteJSON(http.StatusInternalServerError, nil, err, "failed running reconciliation")
		return
	}

	w.WriteJSON(http.StatusOK, summary, nil, "")
}
