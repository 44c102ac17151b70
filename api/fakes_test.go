package api

import (
	"time"

	"github.com/matteusmoreira/IWE-sub001/db"
	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/models"
	"github.com/pkg/errors"
)

type fakeStorage struct {
	submissions map[string]*models.Submission
	events      []db.InsertPaymentEventOpts

	globalCredential *models.Credential

	stale []models.Submission

	staleLimit int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{submissions: map[string]*models.Submission{}}
}

func (f *fakeStorage) GetUserLoginByEmail(string) (*models.User, error)    { return nil, nil }
func (f *fakeStorage) GetUserByRememberToken(string) (*models.User, error) { return nil, nil }
func (f *fakeStorage) UpdateUserRememberToken(int, string) error           { return nil }
func (f *fakeStorage) UpdateUserPassword(int, string) error                { return nil }

func (f *fakeStorage) GetActiveTenantCredential(string) (*models.Credential, error) {
	return nil, nil
}

func (f *fakeStorage) GetActiveGlobalCredential() (*models.Credential, error) {
	return f.globalCredential, nil
}

func (f *fakeStorage) GetSubmissionByID(submissionID string) (*models.Submission, error) {
	return f.submissions[submissionID], nil
}

func (f *fakeStorage) GetStalePendingSubmissions(olderThan time.Time, limit int) ([]models.Submission, error) {
	f.staleLimit = limit
	if len(f.stale) > limit {
		return f.stale[:limit], nil
	}
	return f.stale, nil
}

func (f *fakeStorage) UpdateSubmissionPayment(opts *db.UpdateSubmissionPaymentOpts) error {
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

type fakeMP struct {
	payment    *mercadopago.Payment
	getErr     error
	getCalls   int
	lastGetID  string
	preference *mercadopago.CreatePreferenceResponse
	prefErr    error
}

func (f *fakeMP) GetPayment(token string, id string) (*mercadopago.Payment, error) {
	f.getCalls++
	f.lastGetID = id
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.payment, nil
}

func (f *fakeMP) SearchPaymentsByExternalReference(token string, externalReference string) ([]mercadopago.Payment, error) {
	if f.payment != nil && f.payment.ExternalReference == externalReference {
		return []mercadopago.Payment{*f.payment}, nil
	}
	return nil, nil
}

func (f *fakeMP) CreatePreference(token string, request *mercadopago.CreatePreferenceRequest) (*mercadopago.CreatePreferenceResponse, error) {
	if f.prefErr != nil {
		return nil, f.prefErr
	}
	return f.preference, nil
}
