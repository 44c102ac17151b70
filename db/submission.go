package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/matteusmoreira/IWE-sub001/models"
	"github.com/pkg/errors"
)

type SubmissionStorage interface {
	GetSubmissionByID(submissionID string) (*models.Submission, error)
	GetStalePendingSubmissions(olderThan time.Time, limit int) ([]models.Submission, error)
	UpdateSubmissionPayment(opts *UpdateSubmissionPaymentOpts) error
}

// UpdateSubmissionPaymentOpts overwrites the payment fields from the latest
// provider record. Metadata is the only merged field: the map here is
// concatenated over the stored jsonb, existing keys not present are kept.
type UpdateSubmissionPaymentOpts struct {
	SubmissionID  string
	PaymentStatus models.PaymentStatus
	PaymentDate   *time.Time
	PaymentAmount *float64
	Metadata      map[string]interface{}
}

const (
	getSubmissionByID = `
	SELECT
		submissions.id,
		submissions.tenant_id,
		submissions.payment_status,
		submissions.payment_date,
		submissions.payment_amount,
		COALESCE(submissions.metadata, '{}'),
		submissions.created,
		submissions.updated
	FROM
		submissions
	WHERE
		submissions.id = :submission_id
	`

	getStalePendingSubmissions = `
	SELECT
		submissions.id,
		submissions.tenant_id,
		submissions.payment_status,
		submissions.payment_date,
		submissions.payment_amount,
		COALESCE(submissions.metadata, '{}'),
		submissions.created,
		submissions.updated
	FROM
		submissions
	WHERE
		submissions.payment_status = :payment_status AND
		submissions.created < :older_than
	ORDER BY
		submissions.created ASC
	LIMIT :max
	`

	updateSubmissionPayment = `
	UPDATE
		submissions
	SET
		payment_status = :payment_status,
		payment_date = :payment_date,
		payment_amount = :payment_amount,
		metadata = COALESCE(metadata, '{}') || CAST(:metadata AS jsonb),
		updated = current_timestamp
	WHERE
		id = :submission_id
	`
)

func (db *DB) GetSubmissionByID(submissionID string) (*models.Submission, error) {
	stmt, err := db.PrepareNamed(getSubmissionByID)
	if err != nil {
		return nil, err
	}

	args := map[string]interface{}{
		"submission_id": submissionID,
	}

	row := stmt.QueryRow(args)

	submission, err := scanSubmission(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return submission, nil
}

func (db *DB) GetStalePendingSubmissions(olderThan time.Time, limit int) ([]models.Submission, error) {
	stmt, err := db.PrepareNamed(getStalePendingSubmissions)
	if err != nil {
		return nil, err
	}

	args := map[string]interface{}{
		"payment_status": string(models.PaymentStatusPending),
		"older_than":     olderThan,
		"max":            limit,
	}

	rows, err := stmt.Queryx(args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []models.Submission
	for rows.Next() {
		submission, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *submission)
	}

	return submissions, rows.Err()
}

func (db *DB) UpdateSubmissionPayment(opts *UpdateSubmissionPaymentOpts) error {
	tx, err := db.NewTx()
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}

		tx.Commit()
	}()

	err = db.updateSubmissionPaymentTx(tx, opts)
	if err != nil {
		return err
	}

	return nil
}

func (db *DB) updateSubmissionPaymentTx(tx Tx, opts *UpdateSubmissionPaymentOpts) error {
	stmt, err := tx.PrepareNamed(updateSubmissionPayment)
	if err != nil {
		return err
	}

	metadata := opts.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadataBytes, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	args := map[string]interface{}{
		"submission_id":  opts.SubmissionID,
		"payment_status": string(opts.PaymentStatus),
		"payment_date":   opts.PaymentDate,
		"payment_amount": opts.PaymentAmount,
		"metadata":       string(metadataBytes),
	}

	result, err := stmt.Exec(args)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if int(rowsAffected) != 1 {
		return errors.Errorf("expected %d and updated %d", 1, rowsAffected)
	}

	return nil
}

func scanSubmission(scan func(...interface{}) error) (*models.Submission, error) {
	var submission models.Submission
	var metadataBytes []byte

	if err := scan(
		&submission.ID,
		&submission.TenantID,
		&submission.PaymentStatus,
		&submission.PaymentDate,
		&submission.PaymentAmount,
		&metadataBytes,
		&submission.Created,
		&submission.Updated,
	); err != nil {
		return nil, err
	}

	if len(metadataBytes) > 0 {
		if err := json.Unmarshal(metadataBytes, &submission.Metadata); err != nil {
			return nil, err
		}
	}

	return &submission, nil
}
