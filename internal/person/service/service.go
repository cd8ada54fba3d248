// Package service orchestrates person registry operations over the Person
// aggregate and its store. Handlers bind transport input to Input values;
// the service returns Views and typed domain errors, never raw aggregates.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"registra/internal/audit"
	personmetrics "registra/internal/person/metrics"
	"registra/internal/person/models"
	"registra/pkg/cpf"
	dErrors "registra/pkg/domain-errors"
	"registra/pkg/platform/sentinel"
	"registra/pkg/requestcontext"
)

// Store is the persistence contract the registry depends on. Implementations
// live in internal/person/store.
type Store interface {
	Add(ctx context.Context, p *models.Person) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Person, error)
	FindByCPF(ctx context.Context, cpfDigits string) (*models.Person, error)
	ListAll(ctx context.Context) ([]*models.Person, error)
	Update(ctx context.Context, p *models.Person) error
	Remove(ctx context.Context, id uuid.UUID) error
}

// Input carries the fields a caller may supply when creating or updating a
// person. CPF and email are only honored on create; updates never touch them.
type Input struct {
	Name        string
	Gender      models.Gender
	Email       string
	BirthDate   time.Time
	BirthPlace  string
	Nationality string
	CPF         string
	Address     string
}

// View is the external mapping representation of a person record.
type View struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Gender      models.Gender `json:"gender,omitempty"`
	Email       string        `json:"email,omitempty"`
	BirthDate   time.Time     `json:"birth_date"`
	BirthPlace  string        `json:"birth_place,omitempty"`
	Nationality string        `json:"nationality,omitempty"`
	CPF         string        `json:"cpf"`
	Address     string        `json:"address,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Page bundles one list slice with its pagination metadata.
type Page struct {
	Items        []View `json:"items"`
	PageNumber   int    `json:"page_number"`
	PageSize     int    `json:"page_size"`
	TotalPages   int    `json:"total_pages"`
	TotalRecords int    `json:"total_records"`
}

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
)

// Service is the person registry. All operations are stateless; durable state
// lives in the store.
type Service struct {
	store   Store
	metrics *personmetrics.Metrics
	auditor *audit.Publisher
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics attaches prometheus metrics to the service.
func WithMetrics(m *personmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAudit attaches an audit publisher for lifecycle events.
func WithAudit(a *audit.Publisher) Option {
	return func(s *Service) { s.auditor = a }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new person. The CPF pre-check is advisory; the store's
// own uniqueness guard is authoritative and its rejection maps to the same
// conflict outcome.
func (s *Service) Create(ctx context.Context, in Input) (*View, error) {
	return s.create(ctx, in, false)
}

// CreateWithAddress behaves like Create but additionally requires a non-blank
// address. This is the only difference between the two contract versions.
func (s *Service) CreateWithAddress(ctx context.Context, in Input) (*View, error) {
	return s.create(ctx, in, true)
}

func (s *Service) create(ctx context.Context, in Input, requireAddress bool) (*View, error) {
	if err := validateRequired(in, requireAddress); err != nil {
		return nil, err
	}

	digits, ok := cpf.Normalize(in.CPF)
	if !ok {
		return nil, dErrors.NewField(dErrors.CodeValidation, "cpf", "cpf is not a valid identifier")
	}

	if _, err := s.store.FindByCPF(ctx, digits); err == nil {
		s.metrics.IncrementCreateConflict()
		return nil, dErrors.New(dErrors.CodeConflict, "cpf already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check cpf uniqueness")
	}

	now := requestcontext.Now(ctx)
	p, err := models.New(in.Name, in.Email, in.BirthDate, digits, now)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateProfile(in.Name, in.Gender, in.BirthDate, in.BirthPlace, in.Nationality, in.Address, now); err != nil {
		return nil, err
	}

	if err := s.store.Add(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Lost the race to a concurrent create; same outcome as the
			// pre-check.
			s.metrics.IncrementCreateConflict()
			return nil, dErrors.New(dErrors.CodeConflict, "cpf already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist person")
	}

	s.metrics.IncrementPeopleCreated()
	s.emit(ctx, audit.ActionPersonCreated, p.ID())
	view := toView(p)
	return &view, nil
}

// Update applies the profile mutation to an existing person. The address, CPF,
// and email in the input are ignored; the v1 contract has no address field.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*View, error) {
	in.Address = ""
	return s.update(ctx, id, in, false)
}

// UpdateWithAddress applies the profile mutation with a mandatory non-blank
// address.
func (s *Service) UpdateWithAddress(ctx context.Context, id uuid.UUID, in Input) (*View, error) {
	return s.update(ctx, id, in, true)
}

func (s *Service) update(ctx context.Context, id uuid.UUID, in Input, requireAddress bool) (*View, error) {
	if err := validateRequired(in, requireAddress); err != nil {
		return nil, err
	}

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	now := requestcontext.Now(ctx)
	if err := p.UpdateProfile(in.Name, in.Gender, in.BirthDate, in.BirthPlace, in.Nationality, in.Address, now); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, wrapStoreErr(err)
	}

	s.emit(ctx, audit.ActionPersonUpdated, p.ID())
	view := toView(p)
	return &view, nil
}

// Delete removes a person unconditionally. There is no soft delete.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.FindByID(ctx, id); err != nil {
		return wrapStoreErr(err)
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return wrapStoreErr(err)
	}
	s.metrics.IncrementPeopleDeleted()
	s.emit(ctx, audit.ActionPersonDeleted, id)
	return nil
}

// GetByID fetches one person.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*View, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	view := toView(p)
	return &view, nil
}

// List returns one page of people ordered by creation time descending.
// Non-positive page numbers and sizes fall back to the defaults.
func (s *Service) List(ctx context.Context, pageNumber, pageSize int) (*Page, error) {
	start := time.Now()
	defer s.metrics.ObserveList(start)

	if pageNumber <= 0 {
		pageNumber = defaultPageNumber
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	all, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list people")
	}

	total := len(all)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	page := &Page{
		Items:        []View{},
		PageNumber:   pageNumber,
		PageSize:     pageSize,
		TotalPages:   totalPages,
		TotalRecords: total,
	}

	// Pages past the end are empty. Returning before the offset arithmetic
	// also keeps lo/hi inside int range for arbitrary query values.
	if pageNumber > totalPages {
		return page, nil
	}

	lo := (pageNumber - 1) * pageSize
	hi := lo + pageSize
	if hi < lo || hi > total {
		hi = total
	}

	items := make([]View, 0, hi-lo)
	for _, p := range all[lo:hi] {
		items = append(items, toView(p))
	}
	page.Items = items

	return page, nil
}

func validateRequired(in Input, requireAddress bool) error {
	if strings.TrimSpace(in.Name) == "" {
		return dErrors.NewField(dErrors.CodeValidation, "name", "name is required")
	}
	if in.BirthDate.IsZero() {
		return dErrors.NewField(dErrors.CodeValidation, "birth_date", "birth date is required")
	}
	if strings.TrimSpace(in.CPF) == "" {
		return dErrors.NewField(dErrors.CodeValidation, "cpf", "cpf is required")
	}
	if requireAddress && strings.TrimSpace(in.Address) == "" {
		return dErrors.NewField(dErrors.CodeValidation, "address", "address is required")
	}
	return nil
}

func wrapStoreErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "person not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "cpf already registered")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "person store failure")
	}
}

func (s *Service) emit(ctx context.Context, action string, subject uuid.UUID) {
	_ = s.auditor.Emit(ctx, audit.Event{
		Action:    action,
		SubjectID: subject.String(),
		ActorID:   requestcontext.AccountID(ctx),
		RequestID: requestcontext.RequestID(ctx),
	})
}

func toView(p *models.Person) View {
	return View{
		ID:          p.ID(),
		Name:        p.Name(),
		Gender:      p.Gender(),
		Email:       p.Email(),
		BirthDate:   p.BirthDate(),
		BirthPlace:  p.BirthPlace(),
		Nationality: p.Nationality(),
		CPF:         p.CPF(),
		Address:     p.Address(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
