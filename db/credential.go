package db

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/matteusmoreira/IWE-sub001/models"
)

type CredentialStorage interface {
	GetActiveGlobalCredential() (*models.Credential, error)
	GetActiveTenantCredential(tenantID string) (*models.Credential, error)
}

const (
	getActiveGlobalCredential = `
	SELECT
		mp_credentials.id,
		mp_credentials.scope,
		mp_credentials.tenant_id,
		mp_credentials.access_token,
		mp_credentials.public_key,
		COALESCE(mp_credentials.webhook_secret, ''),
		mp_credentials.is_production,
		mp_credentials.active
	FROM
		mp_credentials
	WHERE
		mp_credentials.scope = 'global' AND
		mp_credentials.active = true
	ORDER BY
		mp_credentials.id DESC
	LIMIT 1
	`

	getActiveTenantCredential = `
	SELECT
		mp_credentials.id,
		mp_credentials.scope,
		mp_credentials.tenant_id,
		mp_credentials.access_token,
		mp_credentials.public_key,
		COALESCE(mp_credentials.webhook_secret, ''),
		mp_credentials.is_production,
		mp_credentials.active
	FROM
		mp_credentials
	WHERE
		mp_credentials.scope = 'tenant' AND
		mp_credentials.tenant_id = :tenant_id AND
		mp_credentials.active = true
	ORDER BY
		mp_credentials.id DESC
	LIMIT 1
	`
)

func (db *DB) GetActiveGlobalCredential() (*models.Credential, error) {
	stmt, err := db.PrepareNamed(getActiveGlobalCredential)
	if err != nil {
		return nil, err
	}

	return scanCredential(stmt.QueryRow(map[string]interface{}{}))
}

func (db *DB) GetActiveTenantCredential(tenantID string) (*models.Credential, error) {
	stmt, err := db.PrepareNamed(getActiveTenantCredential)
	if err != nil {
		return nil, err
	}

	args := map[string]interface{}{
		"tenant_id": tenantID,
	}

	return scanCredential(stmt.QueryRow(args))
}

func scanCredential(row *sqlx.Row) (*models.Credential, error) {
	var credential models.Credential

	if err := row.Scan(
		&credential.ID,
		&credential.Scope,
		&credential.TenantID,
		&credential.AccessToken,
		&credential.PublicKey,
		&credential.WebhookSecret,
		&credential.IsProduction,
		&credential.Active,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &credential, nil
}
