//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"registra/internal/auth/models"
	"registra/internal/auth/store"
	dErrors "registra/pkg/domain-errors"
	"registra/pkg/platform/sentinel"
	"registra/pkg/testutil/containers"
)

type PostgresAccountStoreSuite struct {
	suite.Suite

	postgres *containers.PostgresContainer
	store    *store.PostgresAccountStore
}

func TestPostgresAccountStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresAccountStoreSuite))
}

func (s *PostgresAccountStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresAccountStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "accounts"))
}

func (s *PostgresAccountStoreSuite) account(username, email string) *models.Account {
	return &models.Account{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresAccountStoreSuite) TestCreateAndVerify() {
	ctx := context.Background()

	account := s.account("alice", "alice@example.com")
	s.Require().NoError(s.store.CreateAccount(ctx, account, "Alice123"))

	found, err := s.store.FindByEmail(ctx, "Alice@Example.com")
	s.Require().NoError(err)
	s.Equal(account.ID, found.ID)
	s.Equal("alice", found.Username)

	s.True(s.store.VerifyPassword(ctx, found, "Alice123"))
	s.False(s.store.VerifyPassword(ctx, found, "Wrong123"))
}

func (s *PostgresAccountStoreSuite) TestNotFound() {
	_, err := s.store.FindByEmail(context.Background(), "missing@example.com")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresAccountStoreSuite) TestUniqueConstraints() {
	ctx := context.Background()
	s.Require().NoError(s.store.CreateAccount(ctx, s.account("alice", "alice@example.com"), "Alice123"))

	s.Run("duplicate username", func() {
		err := s.store.CreateAccount(ctx, s.account("alice", "other@example.com"), "Other123")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("username", dErrors.FieldOf(err))
	})

	s.Run("duplicate email", func() {
		err := s.store.CreateAccount(ctx, s.account("carla", "alice@example.com"), "Carla123")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("email", dErrors.FieldOf(err))
	})
}
