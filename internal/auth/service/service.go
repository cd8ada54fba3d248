// Package service implements credential issuance: registration, login, and
// logout. Registration creates a person record and an account that share one
// identifier; login trades a password for a signed access token.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"registra/internal/audit"
	authmetrics "registra/internal/auth/metrics"
	"registra/internal/auth/models"
	"registra/internal/jwttoken"
	personservice "registra/internal/person/service"
	dErrors "registra/pkg/domain-errors"
	"registra/pkg/platform/sentinel"
	"registra/pkg/requestcontext"
)

// AccountStore is the credential-store collaborator. It owns password hashing
// and verification.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *models.Account, password string) error
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	VerifyPassword(ctx context.Context, account *models.Account, password string) bool
}

// PersonRegistry is the slice of the person service registration needs.
// Delete backs out the person record when account creation fails.
type PersonRegistry interface {
	Create(ctx context.Context, in personservice.Input) (*personservice.View, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	GenerateAccessToken(accountID uuid.UUID, username string, now time.Time, expiresIn time.Duration) (*jwttoken.IssuedToken, error)
}

// RevocationList records token JTIs invalidated before their natural expiry.
type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
}

// RegisterInput is the registration request after transport binding.
type RegisterInput struct {
	Name      string
	Username  string
	Email     string
	BirthDate time.Time
	CPF       string
	Password  string
}

// LoginInput carries login credentials. Lookup is by email.
type LoginInput struct {
	Email    string
	Password string
}

// TokenResult is a signed token and its expiry instant.
type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AccountView is the account payload exposed to authenticated callers. It
// never carries credential material.
type AccountView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Service orchestrates the credential flows.
type Service struct {
	accounts    AccountStore
	people      PersonRegistry
	tokens      TokenIssuer
	revocations RevocationList
	tokenTTL    time.Duration
	metrics     *authmetrics.Metrics
	auditor     *audit.Publisher
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics attaches prometheus metrics to the service.
func WithMetrics(m *authmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAudit attaches an audit publisher for credential events.
func WithAudit(a *audit.Publisher) Option {
	return func(s *Service) { s.auditor = a }
}

// WithRevocations enables logout by wiring a token revocation list.
func WithRevocations(r RevocationList) Option {
	return func(s *Service) { s.revocations = r }
}

func New(
	accounts AccountStore,
	people PersonRegistry,
	tokens TokenIssuer,
	tokenTTL time.Duration,
	opts ...Option,
) *Service {
	s := &Service{
		accounts: accounts,
		people:   people,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a person record and its login account in one step. The
// account reuses the person's identifier. Field-level failures from the
// account store propagate unchanged.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return dErrors.NewField(dErrors.CodeValidation, "username", "username is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return dErrors.NewField(dErrors.CodeValidation, "email", "email is required")
	}

	view, err := s.people.Create(ctx, personservice.Input{
		Name:      in.Name,
		Email:     in.Email,
		BirthDate: in.BirthDate,
		CPF:       in.CPF,
	})
	if err != nil {
		return err
	}

	account := &models.Account{
		ID:        view.ID,
		Username:  in.Username,
		Email:     in.Email,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.accounts.CreateAccount(ctx, account, in.Password); err != nil {
		// Back out the person record so a failed registration leaves no
		// half-created identity behind.
		_ = s.people.Delete(ctx, view.ID)
		return err
	}

	s.metrics.IncrementRegistrations()
	s.emit(ctx, audit.ActionAccountRegistered, account.ID.String())
	return nil
}

// Login exchanges credentials for a signed token. A missing account and a
// wrong password produce the same failure so callers cannot probe for
// registered emails.
func (s *Service) Login(ctx context.Context, in LoginInput) (*TokenResult, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "email", "email is required")
	}
	if strings.TrimSpace(in.Password) == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "password", "password is required")
	}

	account, err := s.accounts.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementLoginFailure()
			return nil, errInvalidCredentials()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "account lookup failed")
	}

	if !s.accounts.VerifyPassword(ctx, account, in.Password) {
		s.metrics.IncrementLoginFailure()
		return nil, errInvalidCredentials()
	}

	issued, err := s.tokens.GenerateAccessToken(account.ID, account.Username, requestcontext.Now(ctx), s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "token issuance failed")
	}

	s.metrics.IncrementLoginSuccess()
	s.emit(ctx, audit.ActionLoginSucceeded, account.ID.String())
	return &TokenResult{Token: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

// Logout revokes the caller's current token. The JTI comes from the request
// context populated by the auth middleware.
func (s *Service) Logout(ctx context.Context) error {
	if s.revocations == nil {
		return dErrors.New(dErrors.CodeBadRequest, "logout is not enabled")
	}
	jti := requestcontext.TokenID(ctx)
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no token to revoke")
	}
	// The revocation entry only needs to outlive the token itself.
	if err := s.revocations.RevokeToken(ctx, jti, s.tokenTTL); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "token revocation failed")
	}
	s.metrics.IncrementTokensRevoked()
	s.emit(ctx, audit.ActionTokenRevoked, requestcontext.AccountID(ctx))
	return nil
}

// Profile returns the authenticated caller's account.
func (s *Service) Profile(ctx context.Context) (*AccountView, error) {
	id, err := uuid.Parse(requestcontext.AccountID(ctx))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not authenticated")
	}

	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "account lookup failed")
	}

	return &AccountView{
		ID:        account.ID.String(),
		Username:  account.Username,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
	}, nil
}

func errInvalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

func (s *Service) emit(ctx context.Context, action, subject string) {
	_ = s.auditor.Emit(ctx, audit.Event{
		Action:    action,
		SubjectID: subject,
		ActorID:   requestcontext.AccountID(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
}
