package db

import (
	"context"
	"time"

	"github.com/fittrack/backend/internal/model"
)

const userColumns = `id, username, email, password_hash, active, last_login_at, created_at, updated_at`

func (db *Postgres) scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Active,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *Postgres) CreateUser(ctx context.Context, username, email, passwordHash string) (*model.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + userColumns
	return db.scanUser(db.Pool.QueryRow(ctx, query, username, email, passwordHash))
}

// GetUserByLogin resolves a user by username or email. Deactivated
// accounts are invisible here: login and token refresh both go through
// this lookup.
func (db *Postgres) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE (username = $1 OR email = LOWER($1)) AND active
	`
	return db.scanUser(db.Pool.QueryRow(ctx, query, login))
}

func (db *Postgres) GetUserByID(ctx context.Context, userID int64) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1 AND active
	`
	return db.scanUser(db.Pool.QueryRow(ctx, query, userID))
}

func (db *Postgres) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (db *Postgres) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (db *Postgres) UpdateUserProfile(ctx context.Context, userID int64, username, email string) (*model.User, error) {
	query := `
		UPDATE users
		SET username = $1, email = $2, updated_at = NOW()
		WHERE id = $3 AND active
		RETURNING ` + userColumns
	return db.scanUser(db.Pool.QueryRow(ctx, query, username, email, userID))
}

func (db *Postgres) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := db.Pool.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, userID)
	return err
}

// DeactivateUser flips the active flag. Rows are never physically
// deleted by this layer.
func (db *Postgres) DeactivateUser(ctx context.Context, userID int64) error {
	_, err := db.Pool.Exec(ctx, `UPDATE users SET active = FALSE, updated_at = NOW() WHERE id = $1`, userID)
	return err
}
