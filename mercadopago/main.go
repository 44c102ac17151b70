package mercadopago

import (
	"bytes"
	"encoding/json"
	"fmt"
	io "io/ioutil"
	"net/http"
	"net/url"

	shortuuid "github.com/lithammer/shortuuid/v3"
	"github.com/pkg/errors"
)

const (
	mpContentType = `application/json`
)

type MP struct {
	BaseURL         string
	PathPreferences string
	NotificationURL string
	Client          *http.Client
}

// API is the surface consumed by the webhook and reconciliation handlers.
// Every call takes the access token explicitly because tokens are resolved
// per tenant, not per process.
type API interface {
	GetPayment(token string, id string) (*Payment, error)
	SearchPaymentsByExternalReference(token string, externalReference string) ([]Payment, error)
	CreatePreference(token string, request *CreatePreferenceRequest) (*CreatePreferenceResponse, error)
}

type Payment struct {
	ID                int64           `json:"id"`
	Order             PaymentOrder    `json:"order"`
	ExternalReference string          `json:"external_reference"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	TransactionAmount float64         `json:"transaction_amount"`
	CurrencyID        string          `json:"currency_id"`
	PaymentMethodID   string          `json:"payment_method_id"`
	PaymentTypeID     string          `json:"payment_type_id"`
	Payer             PaymentPayer    `json:"payer"`
	Raw               json.RawMessage `json:"-"`
}

type PaymentOrder struct {
	ID int64 `json:"id"`
}

type PaymentPayer struct {
	Email string `json:"email"`
}

type searchPaymentsResponse struct {
	Results []json.RawMessage `json:"results"`
}

type CreatePreferenceRequest struct {
	NotificationURL   string             `json:"notification_url"`
	ExternalReference string             `json:"external_reference"`
	Items             []PreferenceItem   `json:"items"`
	BackUrls          PreferenceBackUrls `json:"back_urls"`
}

type PreferenceBackUrls struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
}

type PreferenceItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type CreatePreferenceResponse struct {
	ID                string `json:"id"`
	InitPoint         string `json:"init_point"`
	ExternalReference string `json:"external_reference"`
}

func (mp *MP) GetPayment(token string, id string) (*Payment, error) {
	responseBody, err := mp.get(fmt.Sprintf("%s/v1/payments/%s", mp.BaseURL, id), token)
	if err != nil {
		return nil, err
	}

	if responseBody == nil {
		return nil, errors.New("empty payment response from Mercado Pago")
	}

	var response Payment
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return nil, err
	}
	response.Raw = responseBody

	return &response, nil
}

// SearchPaymentsByExternalReference returns every payment attached to the
// reference, newest first (provider id descending).
func (mp *MP) SearchPaymentsByExternalReference(token string, externalReference string) ([]Payment, error) {
	query := url.Values{}
	query.Set("external_reference", externalReference)
	query.Set("sort", "id")
	query.Set("criteria", "desc")

	responseBody, err := mp.get(fmt.Sprintf("%s/v1/payments/search?%s", mp.BaseURL, query.Encode()), token)
	if err != nil {
		return nil, err
	}

	if responseBody == nil {
		return nil, errors.New("empty search response from Mercado Pago")
	}

	var response searchPaymentsResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return nil, err
	}

	results := make([]Payment, 0, len(response.Results))
	for _, entry := range response.Results {
		var payment Payment
		if err := json.Unmarshal(entry, &payment); err != nil {
			return nil, err
		}
		payment.Raw = entry
		results = append(results, payment)
	}

	return results, nil
}

func (mp *MP) CreatePreference(token string, request *CreatePreferenceRequest) (*CreatePreferenceResponse, error) {
	if request.NotificationURL == "" {
		request.NotificationURL = mp.NotificationURL
	}

	responseBody, err := mp.post(fmt.Sprintf("%s%s", mp.BaseURL, mp.PathPreferences), token, request)
	if err != nil {
		return nil, err
	}

	if responseBody == nil {
		return nil, errors.New("failed creating preference in Mercado Pago")
	}

	var response CreatePreferenceResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

func (mp *MP) httpClient() *http.Client {
	if mp.Client != nil {
		return mp.Client
	}
	return http.DefaultClient
}

func (mp *MP) post(url string, token string, body interface{}) ([]byte, error) {
	requestBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	request, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", mpContentType)
	request.Header.Set("Authorization", "Bearer "+token)
	request.Header.Set("X-Idempotency-Key", shortuuid.New())

	response, err := mp.httpClient().Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusCreated && response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("bad response %d", response.StatusCode)
	}

	return responseBody, nil
}

func (mp *MP) get(url string, token string) ([]byte, error) {
	request, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", "Bearer "+token)

	response, err := mp.httpClient().Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("bad response %d", response.StatusCode)
	}

	return responseBody, nil
}
