package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"registra/internal/audit"
	"registra/internal/person/models"
	"registra/internal/person/service/mocks"
	dErrors "registra/pkg/domain-errors"
	"registra/pkg/platform/sentinel"
	"registra/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite

	ctrl  *gomock.Controller
	store *mocks.MockStore
	svc   *Service
	ctx   context.Context
	now   time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.svc = New(s.store)
	s.now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *ServiceSuite) validInput() Input {
	return Input{
		Name:        "Alice Souza",
		Gender:      models.GenderFemale,
		Email:       "alice@example.com",
		BirthDate:   time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		BirthPlace:  "Sao Paulo",
		Nationality: "Brazilian",
		CPF:         "529.982.247-25",
	}
}

func (s *ServiceSuite) TestCreate() {
	s.Run("stores a new person and returns the view", func() {
		s.store.EXPECT().FindByCPF(gomock.Any(), "52998224725").Return(nil, sentinel.ErrNotFound)
		s.store.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil)

		view, err := s.svc.Create(s.ctx, s.validInput())
		s.Require().NoError(err)
		s.Equal("Alice Souza", view.Name)
		s.Equal("52998224725", view.CPF)
		s.Equal(models.GenderFemale, view.Gender)
		s.Equal(s.now, view.CreatedAt)
		s.NotEqual(uuid.Nil, view.ID)
		s.Empty(view.Address)
	})

	s.Run("rejects a cpf that is already registered", func() {
		existing, err := models.New("Bruno Lima", "", time.Date(1985, 1, 1, 0, 0, 0, 0, time.UTC), "52998224725", s.now)
		s.Require().NoError(err)
		s.store.EXPECT().FindByCPF(gomock.Any(), "52998224725").Return(existing, nil)

		_, err = s.svc.Create(s.ctx, s.validInput())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("maps a store conflict from a concurrent create", func() {
		s.store.EXPECT().FindByCPF(gomock.Any(), "52998224725").Return(nil, sentinel.ErrNotFound)
		s.store.EXPECT().Add(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.svc.Create(s.ctx, s.validInput())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("rejects missing required fields before touching the store", func() {
		cases := []struct {
			field  string
			mutate func(*Input)
		}{
			{"name", func(in *Input) { in.Name = "   " }},
			{"birth_date", func(in *Input) { in.BirthDate = time.Time{} }},
			{"cpf", func(in *Input) { in.CPF = "" }},
		}
		for _, tc := range cases {
			in := s.validInput()
			tc.mutate(&in)
			_, err := s.svc.Create(s.ctx, in)
			s.Require().Error(err, tc.field)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
			s.Equal(tc.field, dErrors.FieldOf(err))
		}
	})

	s.Run("rejects an invalid cpf", func() {
		in := s.validInput()
		in.CPF = "52998224724"
		_, err := s.svc.Create(s.ctx, in)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("cpf", dErrors.FieldOf(err))
	})

	s.Run("wraps unexpected lookup failures as internal", func() {
		s.store.EXPECT().FindByCPF(gomock.Any(), "52998224725").Return(nil, errors.New("connection reset"))
		_, err := s.svc.Create(s.ctx, s.validInput())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestCreateWithAddress() {
	s.Run("requires a non-blank address", func() {
		in := s.validInput()
		in.Address = "  "
		_, err := s.svc.CreateWithAddress(s.ctx, in)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("address", dErrors.FieldOf(err))
	})

	s.Run("stores the address", func() {
		s.store.EXPECT().FindByCPF(gomock.Any(), "52998224725").Return(nil, sentinel.ErrNotFound)
		s.store.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil)

		in := s.validInput()
		in.Address = "Rua A, 100"
		view, err := s.svc.CreateWithAddress(s.ctx, in)
		s.Require().NoError(err)
		s.Equal("Rua A, 100", view.Address)
	})
}

func (s *ServiceSuite) TestUpdate() {
	existingID := uuid.New()

	existing := func() *models.Person {
		return models.Rehydrate(
			existingID, "Alice Souza", models.GenderFemale, "alice@example.com",
			time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
			"Sao Paulo", "Brazilian", "52998224725", "Rua A, 100",
			s.now.Add(-time.Hour), s.now.Add(-time.Hour),
		)
	}

	s.Run("applies profile fields and preserves the address", func() {
		s.store.EXPECT().FindByID(gomock.Any(), existingID).Return(existing(), nil)
		s.store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		in := s.validInput()
		in.Name = "Alice S. Souza"
		in.Address = "Rua B, 200" // present in input but outside the v1 contract

		view, err := s.svc.Update(s.ctx, existingID, in)
		s.Require().NoError(err)
		s.Equal("Alice S. Souza", view.Name)
		s.Equal("Rua A, 100", view.Address)
		s.Equal("52998224725", view.CPF)
		s.Equal(s.now, view.UpdatedAt)
	})

	s.Run("never changes cpf or email", func() {
		s.store.EXPECT().FindByID(gomock.Any(), existingID).Return(existing(), nil)
		s.store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		in := s.validInput()
		in.CPF = "111.444.777-35"
		in.Email = "other@example.com"

		view, err := s.svc.Update(s.ctx, existingID, in)
		s.Require().NoError(err)
		s.Equal("52998224725", view.CPF)
		s.Equal("alice@example.com", view.Email)
	})

	s.Run("returns not found for an unknown id", func() {
		s.store.EXPECT().FindByID(gomock.Any(), existingID).Return(nil, sentinel.ErrNotFound)
		_, err := s.svc.Update(s.ctx, existingID, s.validInput())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("with address requires one and replaces the stored value", func() {
		in := s.validInput()
		in.Address = ""
		_, err := s.svc.UpdateWithAddress(s.ctx, existingID, in)
		s.Require().Error(err)
		s.Equal("address", dErrors.FieldOf(err))

		s.store.EXPECT().FindByID(gomock.Any(), existingID).Return(existing(), nil)
		s.store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		in.Address = "Rua B, 200"
		view, err := s.svc.UpdateWithAddress(s.ctx, existingID, in)
		s.Require().NoError(err)
		s.Equal("Rua B, 200", view.Address)
	})
}

func (s *ServiceSuite) TestDelete() {
	id := uuid.New()
	person, err := models.New("Carla Dias", "", time.Date(1970, 2, 2, 0, 0, 0, 0, time.UTC), "12345678909", s.now)
	s.Require().NoError(err)

	s.Run("removes an existing person", func() {
		s.store.EXPECT().FindByID(gomock.Any(), id).Return(person, nil)
		s.store.EXPECT().Remove(gomock.Any(), id).Return(nil)
		s.NoError(s.svc.Delete(s.ctx, id))
	})

	s.Run("returns not found for an unknown id", func() {
		s.store.EXPECT().FindByID(gomock.Any(), id).Return(nil, sentinel.ErrNotFound)
		err := s.svc.Delete(s.ctx, id)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestGetByID() {
	id := uuid.New()

	s.Run("returns the view", func() {
		p := models.Rehydrate(
			id, "Daniel Rocha", models.GenderMale, "",
			time.Date(1995, 8, 8, 0, 0, 0, 0, time.UTC),
			"", "", "71199004472", "",
			s.now, s.now,
		)
		s.store.EXPECT().FindByID(gomock.Any(), id).Return(p, nil)

		view, err := s.svc.GetByID(s.ctx, id)
		s.Require().NoError(err)
		s.Equal(id, view.ID)
		s.Equal("71199004472", view.CPF)
	})

	s.Run("returns not found for an unknown id", func() {
		s.store.EXPECT().FindByID(gomock.Any(), id).Return(nil, sentinel.ErrNotFound)
		_, err := s.svc.GetByID(s.ctx, id)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestList() {
	people := make([]*models.Person, 0, 25)
	for i := 0; i < 25; i++ {
		people = append(people, models.Rehydrate(
			uuid.New(), fmt.Sprintf("Person %02d", i), models.GenderUnspecified, "",
			time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			"", "", fmt.Sprintf("%011d", i), "",
			s.now.Add(-time.Duration(i)*time.Minute), s.now,
		))
	}

	s.Run("returns one page with metadata", func() {
		s.store.EXPECT().ListAll(gomock.Any()).Return(people, nil)

		page, err := s.svc.List(s.ctx, 2, 10)
		s.Require().NoError(err)
		s.Equal(2, page.PageNumber)
		s.Equal(10, page.PageSize)
		s.Equal(3, page.TotalPages)
		s.Equal(25, page.TotalRecords)
		s.Len(page.Items, 10)
		s.Equal("Person 10", page.Items[0].Name)
	})

	s.Run("defaults non-positive paging parameters", func() {
		s.store.EXPECT().ListAll(gomock.Any()).Return(people, nil)

		page, err := s.svc.List(s.ctx, 0, -3)
		s.Require().NoError(err)
		s.Equal(1, page.PageNumber)
		s.Equal(10, page.PageSize)
		s.Len(page.Items, 10)
		s.Equal("Person 00", page.Items[0].Name)
	})

	s.Run("returns an empty slice past the last page", func() {
		s.store.EXPECT().ListAll(gomock.Any()).Return(people, nil)

		page, err := s.svc.List(s.ctx, 9, 10)
		s.Require().NoError(err)
		s.Empty(page.Items)
		s.Equal(3, page.TotalPages)
	})

	s.Run("handles an empty registry", func() {
		s.store.EXPECT().ListAll(gomock.Any()).Return(nil, nil)

		page, err := s.svc.List(s.ctx, 1, 10)
		s.Require().NoError(err)
		s.Empty(page.Items)
		s.Zero(page.TotalPages)
		s.Zero(page.TotalRecords)
	})

	s.Run("survives extreme paging parameters", func() {
		s.store.EXPECT().ListAll(gomock.Any()).Return(people, nil).Times(2)

		page, err := s.svc.List(s.ctx, math.MaxInt, 10)
		s.Require().NoError(err)
		s.Empty(page.Items)
		s.Equal(3, page.TotalPages)
		s.Equal(25, page.TotalRecords)

		page, err = s.svc.List(s.ctx, 1, math.MaxInt)
		s.Require().NoError(err)
		s.Len(page.Items, 25)
		s.Equal(1, page.TotalPages)
	})
}

func (s *ServiceSuite) TestAuditEmission() {
	store := audit.NewInMemoryStore()
	svc := New(s.store, WithAudit(audit.NewPublisher(store)))

	s.store.EXPECT().FindByCPF(gomock.Any(), "52998224725").Return(nil, sentinel.ErrNotFound)
	s.store.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil)

	ctx := requestcontext.WithAccountID(s.ctx, "acct-1")
	view, err := svc.Create(ctx, s.validInput())
	s.Require().NoError(err)

	events, err := store.ListBySubject(ctx, view.ID.String())
	require.NoError(s.T(), err)
	s.Require().Len(events, 1)
	s.Equal(audit.ActionPersonCreated, events[0].Action)
	s.Equal("acct-1", events[0].ActorID)
}
