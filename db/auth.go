package db

import (
	"database/sql"
	"encoding/json"

	"github.com/matteusmoreira/IWE-sub001/models"
)

type AuthStorage interface {
	GetUserLoginByEmail(string) (*models.User, error)
	GetUserByRememberToken(string) (*models.User, error)
	UpdateUserRememberToken(userID int, token string) error
	UpdateUserPassword(userID int, password string) error
}

const (
	getUserLoginByEmail = `
	SELECT
		users.id,
		users.firstname,
		users.lastname,
		users.email,
		users.password,
		users.tenant_id,
		users.created,
		users.updated,
		users.active,
		COALESCE(
			json_agg(json_build_object('id', roles.id, 'name', roles.name))
			FILTER (WHERE roles.id IS NOT NULL),
			'[]'
		)
	FROM users
	LEFT JOIN user_roles ON (user_roles.user_id = users.id)
	LEFT JOIN roles ON (roles.id = user_roles.role_id AND roles.active = true)
	WHERE users.email = :email
	AND users.active = true
	GROUP BY users.id
	`

	getUserByRememberToken = `
	SELECT
		users.id,
		users.email
	FROM users
	WHERE users.active = true
	AND users.remember_token = :remember_token
	`

	updateUserRememberToken = `
	UPDATE
		users
	SET
		remember_token = :token
	WHERE
		id = :user_id
	`

	updateUserPassword = `
	UPDATE
		users
	SET
		password = :password,
		remember_token = NULL,
		updated = current_timestamp
	WHERE
		id = :user_id
	`
)

func (db *DB) GetUserLoginByEmail(email string) (*models.User, error) {
	stmt, err := db.PrepareNamed(getUserLoginByEmail)
	if err != nil {
		return nil, err
	}

	args := map[string]interface{}{
		"email": email,
	}

	row := stmt.QueryRow(args)

	var user models.User
	var rolesBytes []byte

	if err := row.Scan(
		&user.ID,
		&user.Firstname,
		&user.Lastname,
		&user.Email,
		&user.Password,
		&user.TenantID,
		&user.Created,
		&user.Updated,
		&user.Active,
		&rolesBytes,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if err := json.Unmarshal(rolesBytes, &user.Roles); err != nil {
		return nil, err
	}

	return &user, nil
}

func (db *DB) GetUserByRememberToken(token string) (*models.User, error) {
	stmt, err := db.PrepareNamed(getUserByRememberToken)
	if err != nil {
		return nil, err
	}

	args := map[string]interface{}{
		"remember_token": token,
	}

	var user models.User
	row := stmt.QueryRow(args)
	if err := row.Scan(&user.ID, &user.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &user, nil
}

func (db *DB) UpdateUserRememberToken(userID int, token string) error {
	args := map[string]interface{}{
		"user_id": userID,
		"token":   token,
	}

	_, err := db.NamedExec(updateUserRememberToken, args)
	return err
}

func (db *DB) UpdateUserPassword(userID int, password string) error {
	args := map[string]interface{}{
		"user_id":  userID,
		"password": password,
	}

	_, err := db.NamedExec(updateUserPassword, args)
	return err
}
