package payments

import (
	"fmt"
	"time"

	"github.com/matteusmoreira/IWE-sub001/db"
	"github.com/matteusmoreira/IWE-sub001/mercadopago"
	"github.com/matteusmoreira/IWE-sub001/models"
	log "github.com/sirupsen/logrus"
)

const (
	OutcomeUpdated   = "updated"
	OutcomeUnchanged = "unchanged"
	OutcomeFailed    = "failed"

	ReasonCredentialsMissing = "mp_credentials_missing"
	ReasonSearchFailed       = "mp_search_failed"
	ReasonPersistenceFailed  = "persistence_failed"
)

type SweepStorage interface {
	db.SubmissionStorage
	db.PaymentEventStorage
}

type SweepOpts struct {
	Max        int
	AgeMinutes int
}

type SweepItemResult struct {
	SubmissionID  string `json:"submission_id"`
	Outcome       string `json:"outcome"`
	PaymentStatus string `json:"payment_status,omitempty"`
	Error         string `json:"error,omitempty"`
}

type SweepSummary struct {
	Processed int               `json:"processed"`
	Updated   int               `json:"updated"`
	Unchanged int               `json:"unchanged"`
	Failed    int               `json:"failed"`
	Results   []SweepItemResult `json:"results"`
}

// Sweeper is the pull-based safety net for submissions whose webhook
// notification never arrived. It processes stale PENDING submissions oldest
// first, sequentially, and isolates every per-submission failure: one bad
// item never aborts the batch.
type Sweeper struct {
	DB          SweepStorage
	MP          mercadopago.API
	Credentials *CredentialResolver

	// OnPaid runs after a submission flips to PAID. The sweep only sees
	// PENDING submissions, so every PAID outcome here is a transition.
	OnPaid func(*models.Submission, *mercadopago.Payment)
}

func (s *Sweeper) Run(opts SweepOpts) (*SweepSummary, error) {
	cutoff := time.Now().Add(-time.Duration(opts.AgeMinutes) * time.Minute)

	submissions, err := s.DB.GetStalePendingSubmissions(cutoff, opts.Max)
	if err != nil {
		return nil, err
	}

	summary := &SweepSummary{Results: []SweepItemResult{}}
	for i := range submissions {
		result := s.processSubmission(&submissions[i])

		summary.Processed++
		switch result.Outcome {
		case OutcomeUpdated:
			summary.Updated++
		case OutcomeUnchanged:
			summary.Unchanged++
		case OutcomeFailed:
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

func (s *Sweeper) processSubmission(submission *models.Submission) (result SweepItemResult) {
	result = SweepItemResult{SubmissionID: submission.ID}

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"submission_id": submission.ID,
				"panic":         r,
			}).Error("reconcile: recovered panic")
			result.Outcome = OutcomeFailed
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	token, err := s.Credentials.Resolve(submission.TenantID)
	if err != nil || token == "" {
		if err != nil {
			log.WithFields(log.Fields{
				"submission_id": submission.ID,
				"error":         err,
			}).Error("reconcile: failed resolving credentials")
		}
		result.Outcome = OutcomeFailed
		result.Error = ReasonCredentialsMissing
		return result
	}

	found, err := s.MP.SearchPaymentsByExternalReference(token, submission.ID)
	if err != nil {
		log.WithFields(log.Fields{
			"submission_id": submission.ID,
			"error":         err,
		}).Error("reconcile: failed searching payments")
		result.Outcome = OutcomeFailed
		result.Error = ReasonSearchFailed
		return result
	}

	if len(found) == 0 {
		result.Outcome = OutcomeUnchanged
		return result
	}

	latest := &found[0]

	status, err := ApplyPayment(s.DB, submission, latest)
	result.PaymentStatus = string(status)
	if err != nil {
		log.WithFields(log.Fields{
			"submission_id": submission.ID,
			"error":         err,
		}).Error("reconcile: failed updating submission")
		result.Outcome = OutcomeFailed
		result.Error = ReasonPersistenceFailed
		return result
	}

	if _, err := s.DB.InsertPaymentEvent(NewPaymentEventOpts(models.EventTypeReconciliation, latest)); err != nil {
		// The submission is already consistent; the event log is best effort.
		log.WithFields(log.Fields{
			"submission_id": submission.ID,
			"error":         err,
		}).Error("reconcile: failed inserting payment event")
	}

	if status == models.PaymentStatusPaid && s.OnPaid != nil {
		s.OnPaid(submission, latest)
	}

	result.Outcome = OutcomeUpdated
	return result
}
