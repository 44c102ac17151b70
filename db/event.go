package db

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type PaymentEventStorage interface {
	InsertPaymentEvent(opts *InsertPaymentEventOpts) (int, error)
}

type InsertPaymentEventOpts struct {
	EventType         string
	MPPaymentID       string
	MPOrderID         *string
	ExternalReference string
	Status            string
	Amount            float64
	Currency          string
	PayerEmail        string
	Raw               json.RawMessage
}

const (
	insertPaymentEvent = `
	INSERT INTO payment_events (
		event_type,
		mp_payment_id,
		mp_order_id,
		external_reference,
		status,
		amount,
		currency,
		payer_email,
		raw
	) VALUES (
		:event_type,
		:mp_payment_id,
		:mp_order_id,
		:external_reference,
		:status,
		:amount,
		:currency,
		:payer_email,
		CAST(:raw AS jsonb)
	)
	RETURNING id
	`
)

// InsertPaymentEvent appends one provider payment snapshot. The table is an
// append-only log: no update or delete path exists.
func (db *DB) InsertPaymentEvent(opts *InsertPaymentEventOpts) (int, error) {
	tx, err := db.NewTx()
	if err != nil {
		return 0, errors.Wrap(err, "failed to start transaction")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}

		tx.Commit()
	}()

	id, newErr := db.insertPaymentEventTx(tx, opts)
	if newErr != nil {
		err = newErr
		return 0, err
	}

	return id, nil
}

func (db *DB) insertPaymentEventTx(tx Tx, opts *InsertPaymentEventOpts) (int, error) {
	stmt, err := tx.PrepareNamed(insertPaymentEvent)
	if err != nil {
		return 0, err
	}

	raw := opts.Raw
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}

	args := map[string]interface{}{
		"event_type":         opts.EventType,
		"mp_payment_id":      opts.MPPaymentID,
		"mp_order_id":        opts.MPOrderID,
		"external_reference": opts.ExternalReference,
		"status":             opts.Status,
		"amount":             opts.Amount,
		"currency":           opts.Currency,
		"payer_email":        opts.PayerEmail,
		"raw":                string(raw),
	}

	var id int
	row := stmt.QueryRow(args)
	if err := row.Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}
