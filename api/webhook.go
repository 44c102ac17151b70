package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/matteusmoreira/IWE-sub001/config"
	"github.com/matteusmoreira/IWE-sub001/helpers"
	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/middlewares"
	"github.com/matteusmoreira/IWE-sub001/models"
	"github.com/matteusmoreira/IWE-sub001/payments"
)

// webhookNotification is the narrowed shape of a provider notification after
// decoding either transport (query string or JSON body).
type webhookNotification struct {
	Topic     string
	PaymentID string
}

type webhookBody struct {
	Topic    string      `json:"topic"`
	Type     string      `json:"type"`
	ID       interface{} `json:"id"`
	Resource string      `json:"resource"`
	Data     struct {
		ID interface{} `json:"id"`
	} `json:"data"`
}

func stringifyID(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}

// parseWebhookNotification merges the query-string and body variants the
// provider uses across webhook versions. Query parameters win because the
// legacy IPN callbacks carry no body at all.
func parseWebhookNotification(r *http.Request) *webhookNotification {
	query := r.URL.Query()

	notification := &webhookNotification{
		Topic:     query.Get("topic"),
		PaymentID: query.Get("id"),
	}
	if notification.Topic == "" {
		notification.Topic = query.Get("type")
	}
	if notification.PaymentID == "" {
		notification.PaymentID = query.Get("data.id")
	}
	if notification.PaymentID == "" {
		if resource := query.Get("resource"); resource != "" {
			notification.PaymentID = path.Base(strings.TrimSuffix(resource, "/"))
		}
	}

	if r.Method == http.MethodPost && r.Body != nil {
		var body webhookBody
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&body); err == nil {
			if notification.Topic == "" {
				notification.Topic = body.Topic
			}
			if notification.Topic == "" {
				notification.Topic = body.Type
			}
			if notification.PaymentID == "" {
				notification.PaymentID = stringifyID(body.Data.ID)
			}
			if notification.PaymentID == "" {
				notification.PaymentID = stringifyID(body.ID)
			}
			if notification.PaymentID == "" && body.Resource != "" {
				notification.PaymentID = path.Base(strings.TrimSuffix(body.Resource, "/"))
			}
		}
	}

	return notification
}

// MercadoPagoWebhook ingests asynchronous payment notifications. Once the
// notification is syntactically valid the endpoint always acknowledges with
// 200: the provider retries non-success deliveries, and an internal failure
// here must not trigger that retry storm. Internal failures surface through
// logs only.
func MercadoPagoWebhook(ctx *config.AppContext, w *middlewares.ResponseWriter, r *http.Request) {
	w.StartLogger("MercadoPagoWebhook")

	notification := parseWebhookNotification(r)
	if notification.Topic == "" || notification.PaymentID == "" {
		w.WriteJSON(http.StatusBadRequest, nil, nil, "missing topic or id")
		return
	}

	if notification.Topic != "payment" {
		w.LogInfo(notification, "ignored topic")
		w.WriteJSON(http.StatusOK, models.WebhookAck{Status: "ignored"}, nil, "")
		return
	}

	resolver := payments.NewCredentialResolver(ctx.DB, ctx.Config.MercadoPago.Token)
	token, err := resolver.GlobalToken()
	if err != nil {
		w.LogError(err, "webhook_credentials")
		w.WriteJSON(http.StatusOK, models.WebhookAck{Status: "ok"}, nil, "")
		return
	}
	if token == "" {
		token = ctx.Config.MercadoPago.Token
	}
	if token == "" {
		w.LogError(nil, "webhook_credentials")
		w.WriteJSON(http.StatusOK, models.WebhookAck{Status: "ok"}, nil, "")
		return
	}

	payment, err := ctx.MercadoPago.GetPayment(token, notification.PaymentID)
	if err != nil {
		w.LogError(err, "webhook_lookup")
		w.WriteJSON(http.StatusOK, models.WebhookAck{Status: "ok"}, nil, "")
		return
	}

	if _, err := ctx.DB.InsertPaymentEvent(payments.NewPaymentEventOpts(models.EventTypeWebhook, payment)); err != nil {
		// Swallowed on purpose: the provider retries failed deliveries and a
		// broken event log must not cascade into a redelivery loop.
		w.LogError(err, "webhook_event_insert")
	}

	updateSubmissionFromPayment(ctx, w, payment)

	w.LogInfo(notification, "success")
	w.WriteJSON(http.StatusOK, models.WebhookAck{Status: "ok"}, nil, "")
}

func updateSubmissionFromPayment(ctx *config.AppContext, w *middlewares.ResponseWriter, payment *mercadopago.Payment) {
	if payment.ExternalReference == "" {
		return
	}

	submission, err := ctx.DB.GetSubmissionByID(payment.ExternalReference)
	if err != nil {
		w.LogError(err, "webhook_submission_lookup")
		return
	}
	if submission == nil {
		w.LogInfo(payment.ExternalReference, "no submission for external reference")
		return
	}

	wasPaid := submission.IsPaid()

	status, err := payments.ApplyPayment(ctx.DB, submission, payment)
	if err != nil {
		w.LogError(err, "webhook_submission_update")
		return
	}

	if status == models.PaymentStatusPaid && !wasPaid {
		sendPaymentConfirmation(ctx, w, submission, payment)
	}
}

func sendPaymentConfirmation(ctx *config.AppContext, w *middlewares.ResponseWriter, submission *models.Submission, payment *mercadopago.Payment) {
	if ctx.SMTP == nil || payment.Payer.Email == "" || ctx.Config.Mail.PaymentSuccess.Template == "" {
		return
	}

	go func(ctx *config.AppContext, submission *models.Submission, payment *mercadopago.Payment) {
		ed := &helpers.EmailData{
			EmailTo:      payment.Payer.Email,
			NameTo:       payment.Payer.Email,
			EmailFrom:    ctx.Config.Mail.EmailFrom,
			NameFrom:     ctx.Config.Mail.NameFrom,
			Subject:      ctx.Config.Mail.PaymentSuccess.Subject,
			TemplatePath: fmt.Sprintf("%s%s/%s", ctx.Config.Mail.Folder, ctx.Config.Mail.Path, ctx.Config.Mail.PaymentSuccess.Template),
			SMTP:         ctx.SMTP,
		}

		err := ed.SendEmail(models.PaymentConfirmationHTML{
			SubmissionID: submission.ID,
			Amount:       payment.TransactionAmount,
			Currency:     payment.CurrencyID,
		})
		if err != nil {
			w.LogError(err, "failed sending email")
			return
		}
		w.LogInfo(nil, "success sending email")
	}(ctx, submission, payment)
}
