// Package seed loads a fixed set of demo people and accounts for development
// runs. Seeding is skipped when the registry already holds records.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"registra/internal/auth/models"
	personservice "registra/internal/person/service"
	dErrors "registra/pkg/domain-errors"
)

// PersonSource is the slice of the person service seeding uses.
type PersonSource interface {
	Create(ctx context.Context, in personservice.Input) (*personservice.View, error)
	CreateWithAddress(ctx context.Context, in personservice.Input) (*personservice.View, error)
	List(ctx context.Context, pageNumber, pageSize int) (*personservice.Page, error)
}

// AccountSink receives the matching login accounts.
type AccountSink interface {
	CreateAccount(ctx context.Context, account *models.Account, password string) error
}

type sample struct {
	username  string
	email     string
	password  string
	name      string
	birthDate time.Time
	cpf       string
	address   string
}

var samples = []sample{
	{"alice", "alice@example.com", "Alice123", "Alice Silva", date(1985, 3, 10), "52998224725", "Rua A, 100"},
	{"bruno", "bruno@example.com", "Bruno123", "Bruno Souza", date(1990, 7, 22), "11144477735", ""},
	{"carla", "carla@example.com", "Carla123", "Carla Pereira", date(1978, 11, 5), "12345678909", "Travessa C, 300"},
	{"daniel", "daniel@example.com", "Daniel123", "Daniel Costa", date(1995, 1, 30), "71199004472", ""},
	{"elena", "elena@example.com", "Elena123", "Elena Ramos", date(1982, 6, 18), "73176135505", "Alameda E, 500"},
	{"felipe", "felipe@example.com", "Felipe123", "Felipe Oliveira", date(1975, 12, 2), "80916880834", ""},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Run loads the sample data. Individual conflicts are logged and skipped so a
// partially seeded registry converges instead of failing startup.
func Run(ctx context.Context, people PersonSource, accounts AccountSink, logger *slog.Logger) error {
	page, err := people.List(ctx, 1, 1)
	if err != nil {
		return fmt.Errorf("seed precheck: %w", err)
	}
	if page.TotalRecords > 0 {
		return nil
	}

	for _, s := range samples {
		in := personservice.Input{
			Name:      s.name,
			Email:     s.email,
			BirthDate: s.birthDate,
			CPF:       s.cpf,
			Address:   s.address,
		}

		var view *personservice.View
		if s.address != "" {
			view, err = people.CreateWithAddress(ctx, in)
		} else {
			view, err = people.Create(ctx, in)
		}
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeConflict) {
				continue
			}
			logger.WarnContext(ctx, "seed person failed", "username", s.username, "error", err)
			continue
		}

		account := &models.Account{
			ID:        view.ID,
			Username:  s.username,
			Email:     s.email,
			CreatedAt: view.CreatedAt,
		}
		if err := accounts.CreateAccount(ctx, account, s.password); err != nil {
			logger.WarnContext(ctx, "seed account failed", "username", s.username, "error", err)
		}
	}

	logger.InfoContext(ctx, "demo data seeded", "people", len(samples))
	return nil
}
