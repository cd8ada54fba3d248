package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"registra/internal/auth/models"
	dErrors "registra/pkg/domain-errors"
	"registra/pkg/platform/sentinel"
)

// PostgresAccountStore persists accounts in PostgreSQL.
type PostgresAccountStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

// EnsureSchema creates the accounts table if it does not exist yet.
func (s *PostgresAccountStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			id            UUID PRIMARY KEY,
			username      TEXT NOT NULL,
			email         TEXT NOT NULL,
			password_hash BYTEA NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			CONSTRAINT accounts_username_key UNIQUE (username),
			CONSTRAINT accounts_email_key UNIQUE (email)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure accounts schema: %w", err)
	}
	return nil
}

func (s *PostgresAccountStore) CreateAccount(ctx context.Context, account *models.Account, password string) error {
	if err := checkPasswordPolicy(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, account.ID, normalizeKey(account.Username), normalizeKey(account.Email), hash, account.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "email") {
				return dErrors.NewField(dErrors.CodeConflict, "email", "email is already registered")
			}
			return dErrors.NewField(dErrors.CodeConflict, "username", "username is already taken")
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresAccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.findOne(ctx, `SELECT id, username, email, password_hash, created_at FROM accounts WHERE email = $1`, normalizeKey(email))
}

func (s *PostgresAccountStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.findOne(ctx, `SELECT id, username, email, password_hash, created_at FROM accounts WHERE id = $1`, id)
}

func (s *PostgresAccountStore) findOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	var account models.Account
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID, &account.Username, &account.Email, &account.PasswordHash, &account.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	return &account, nil
}

func (s *PostgresAccountStore) VerifyPassword(ctx context.Context, account *models.Account, password string) bool {
	return verifyPassword(account.PasswordHash, password)
}
