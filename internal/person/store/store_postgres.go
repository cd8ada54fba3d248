package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"registra/internal/person/models"
	"registra/pkg/platform/sentinel"
)

// uniqueViolation is the class 23 SQLSTATE Postgres reports when a unique
// index rejects a write.
const uniqueViolation = "23505"

// PostgresStore persists people in PostgreSQL. The unique index on cpf is the
// authoritative uniqueness guard; service-level pre-checks are advisory only.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the people table when it does not exist yet. Kept here
// so deployments without a migration runner still come up consistent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS people (
			id           UUID PRIMARY KEY,
			name         TEXT NOT NULL,
			gender       TEXT NOT NULL DEFAULT '',
			email        TEXT,
			birth_date   DATE NOT NULL,
			birth_place  TEXT,
			nationality  TEXT,
			cpf          CHAR(11) NOT NULL UNIQUE,
			address      TEXT,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure people schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, p *models.Person) error {
	query := `
		INSERT INTO people (id, name, gender, email, birth_date, birth_place, nationality, cpf, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID(),
		p.Name(),
		string(p.Gender()),
		nullable(p.Email()),
		p.BirthDate(),
		nullable(p.BirthPlace()),
		nullable(p.Nationality()),
		p.CPF(),
		nullable(p.Address()),
		p.CreatedAt(),
		p.UpdatedAt(),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("add person: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	return s.findOne(ctx, `WHERE id = $1`, id)
}

func (s *PostgresStore) FindByCPF(ctx context.Context, cpfDigits string) (*models.Person, error) {
	return s.findOne(ctx, `WHERE cpf = $1`, cpfDigits)
}

const selectColumns = `
	SELECT id, name, gender, email, birth_date, birth_place, nationality, cpf, address, created_at, updated_at
	FROM people
`

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*models.Person, error) {
	p, err := scanPerson(s.db.QueryRowContext(ctx, selectColumns+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find person: %w", err)
	}
	return p, nil
}

// ListAll returns every person ordered by creation time, most recent first,
// with id as tie-break so pagination stays stable.
func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Person, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+`ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var out []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("list people: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, p *models.Person) error {
	query := `
		UPDATE people
		SET name = $2, gender = $3, birth_date = $4, birth_place = $5, nationality = $6, address = $7, updated_at = $8
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		p.ID(),
		p.Name(),
		string(p.Gender()),
		p.BirthDate(),
		nullable(p.BirthPlace()),
		nullable(p.Nationality()),
		nullable(p.Address()),
		p.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("remove person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove person: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	var (
		id                              uuid.UUID
		name, gender, cpfDigits         string
		email, birthPlace               sql.NullString
		nationality, address            sql.NullString
		birthDate, createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &gender, &email, &birthDate, &birthPlace, &nationality, &cpfDigits, &address, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return models.Rehydrate(
		id,
		name,
		models.Gender(gender),
		email.String,
		birthDate,
		birthPlace.String,
		nationality.String,
		cpfDigits,
		address.String,
		createdAt,
		updatedAt,
	), nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
