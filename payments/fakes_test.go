package payments

import (
	"sort"
	"time"

	"github.com/matteusmoreira/IWE-sub001/db"
	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/models"
	"github.com/pkg/errors"
)

type fakeStorage struct {
	submissions map[string]*models.Submission
	events      []db.InsertPaymentEventOpts

	globalCredential  *models.Credential
	tenantCredentials map[string]*models.Credential
	globalLookups     int

	failUpdateFor map[string]bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		submissions:       map[string]*models.Submission{},
		tenantCredentials: map[string]*models.Credential{},
		failUpdateFor:     map[string]bool{},
	}
}

func (f *fakeStorage) addSubmission(id string, tenantID *string, status models.PaymentStatus, age time.Duration) *models.Submission {
	submission := &models.Submission{
		ID:            id,
		TenantID:      tenantID,
		PaymentStatus: status,
		Metadata:      map[string]interface{}{},
		Created:       time.Now().Add(-age),
	}
	f.submissions[id] = submission
	return submission
}

func (f *fakeStorage) GetSubmissionByID(submissionID string) (*models.Submission, error) {
	return f.submissions[submissionID], nil
}

func (f *fakeStorage) GetStalePendingSubmissions(olderThan time.Time, limit int) ([]models.Submission, error) {
	var stale []models.Submission
	for _, submission := range f.submissions {
		if submission.PaymentStatus == models.PaymentStatusPending && submission.Created.Before(olderThan) {
			stale = append(stale, *submission)
		}
	}
	sort.Slice(stale, func(i, j int) bool { return stale[i].Created.Before(stale[j].Created) })
	if len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

func (f *fakeStorage) UpdateSubmissionPayment(opts *db.UpdateSubmissionPaymentOpts) error {
	if f.failUpdateFor[opts.SubmissionID] {
		return errors.New("write refused")
	}
	submission, ok := f.submissions[opts.SubmissionID]
	if !ok {
		return errors.New("submission not found")
	}
	submission.PaymentStatus = opts.PaymentStatus
	submission.PaymentDate = opts.PaymentDate
	submission.PaymentAmount = opts.PaymentAmount
	if submission.Metadata == nil {
		submission.Metadata = map[string]interface{}{}
	}
	for key, value := range opts.Metadata {
		submission.Metadata[key] = value
	}
	return nil
}

func (f *fakeStorage) InsertPaymentEvent(opts *db.InsertPaymentEventOpts) (int, error) {
	f.events = append(f.events, *opts)
	return len(f.events), nil
}

func (f *fakeStorage) GetActiveGlobalCredential() (*models.Credential, error) {
	f.globalLookups++
	return f.globalCredential, nil
}

func (f *fakeStorage) GetActiveTenantCredential(tenantID string) (*models.Credential, error) {
	return f.tenantCredentials[tenantID], nil
}

type fakeMP struct {
	paymentsByReference map[string][]mercadopago.Payment
	searchErrFor        map[string]error
	searchCalls         []string
}

func newFakeMP() *fakeMP {
	return &fakeMP{
		paymentsByReference: map[string][]mercadopago.Payment{},
		searchErrFor:        map[string]error{},
	}
}

func (f *fakeMP) GetPayment(token string, id string) (*mercadopago.Payment, error) {
	for _, list := range f.paymentsByReference {
		for i := range list {
			if list[i].Status != "" {
				return &list[i], nil
			}
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeMP) SearchPaymentsByExternalReference(token string, externalReference string) ([]mercadopago.Payment, error) {
	f.searchCalls = append(f.searchCalls, externalReference)
	if err := f.searchErrFor[externalReference]; err != nil {
		return nil, err
	}
	return f.paymentsByReference[externalReference], nil
}

func (f *fakeMP) CreatePreference(token string, request *mercadopago.CreatePreferenceRequest) (*mercadopago.CreatePreferenceResponse, error) {
	return &mercadopago.CreatePreferenceResponse{InitPoint: "https://mp.example/init"}, nil
}
