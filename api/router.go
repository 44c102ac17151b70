package api

import (
	"net/http"

	"github.com/matteusmoreira/IWE-sub001/config"
	"github.com/matteusmoreira/IWE-sub001/middlewares"
	"github.com/matteusmoreira/IWE-sub001/server"
)

// HealthcheckHandler indicates the service's healthy
func HealthcheckHandler(_ *config.AppContext, w *middlewares.ResponseWriter, _ *http.Request) {
	w.String(http.StatusOK, "OK")
}

// GetRoutes ...
func GetRoutes() []*server.Route {
	return []*server.Route{
		{Path: "/healthcheck", Methods: []string{"GET", "HEAD"}, Handler: HealthcheckHandler, IsProtected: false},

		// Auth
		{Path: "/auth/login", Methods: []string{"POST", "HEAD"}, Handler: Login, IsProtected: false},
		{Path: "/auth/password", Methods: []string{"PUT", "HEAD"}, Handler: UpdateUserPassword, IsProtected: false},
		{Path: "/auth/token", Methods: []string{"POST", "HEAD"}, Handler: SendRememberToken, IsProtected: false},

		// Mercado Pago notifications: legacy IPN uses GET with query params,
		// current webhooks POST a JSON body. Both land here.
		{Path: "/webhooks/mercadopago", Methods: []string{"GET", "POST", "HEAD"}, Handler: MercadoPagoWebhook, IsProtected: false},

		// Reconciliation trigger for the external cron caller, guarded by a
		// shared-secret bearer token instead of a user JWT.
		{Path: "/admin/payments/reconcile", Methods: []string{"GET", "HEAD"}, Handler: ReconcilePayments, IsProtected: false},

		// Checkout
		{Path: "/submissions/{submission_id}/checkout", Methods: []string{"POST", "HEAD"}, Handler: CreateSubmissionCheckout, IsProtected: true},
	}
}
