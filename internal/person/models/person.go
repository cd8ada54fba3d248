// Package models defines the Person aggregate for the people registry.
//
// Person protects the invariants around identity data: a validated name and
// birth date, a checksum-verified CPF that never changes after construction,
// and an address that can be set or replaced but never cleared. All field
// writes are funneled through the constructor and the two mutators so the
// invariants cannot be bypassed; stores rehydrate persisted rows through
// Rehydrate without re-running time-dependent validation.
package models

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"registra/pkg/cpf"
	dErrors "registra/pkg/domain-errors"
)

const (
	maxNameLen    = 200
	maxAddressLen = 300
)

// Person is the aggregate root for one registered individual.
//
// Invariants:
//   - name is non-empty and at most 200 characters after trimming
//   - birthDate is strictly in the past at every write
//   - cpf is 11 checksum-valid digits, immutable after construction
//   - address, once set, is never cleared; a blank address on update is a no-op
//   - updatedAt never precedes createdAt
type Person struct {
	id          uuid.UUID
	name        string
	gender      Gender
	email       string
	birthDate   time.Time
	birthPlace  string
	nationality string
	cpf         string
	address     string
	createdAt   time.Time
	updatedAt   time.Time
}

// New constructs a valid Person. This is the only way to create one outside
// of store rehydration.
func New(name, email string, birthDate time.Time, rawCPF string, now time.Time) (*Person, error) {
	p := &Person{
		id:        uuid.New(),
		createdAt: now,
		updatedAt: now,
	}
	if err := p.setName(name); err != nil {
		return nil, err
	}
	if err := p.setEmail(email); err != nil {
		return nil, err
	}
	if err := p.setBirthDate(birthDate, now); err != nil {
		return nil, err
	}
	if err := p.setCPF(rawCPF); err != nil {
		return nil, err
	}
	return p, nil
}

// Rehydrate reconstructs a persisted Person without validation. Stores own the
// persisted representation; everything else must go through New.
func Rehydrate(
	id uuid.UUID,
	name string,
	gender Gender,
	email string,
	birthDate time.Time,
	birthPlace, nationality, cpfDigits, address string,
	createdAt, updatedAt time.Time,
) *Person {
	return &Person{
		id:          id,
		name:        name,
		gender:      gender,
		email:       email,
		birthDate:   birthDate,
		birthPlace:  birthPlace,
		nationality: nationality,
		cpf:         cpfDigits,
		address:     address,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// UpdateProfile re-validates name and birth date, replaces gender, birth
// place, and nationality unconditionally, and replaces the address only when
// the supplied one is non-blank. CPF, email, id, and createdAt are never
// touched by updates.
func (p *Person) UpdateProfile(name string, gender Gender, birthDate time.Time, birthPlace, nationality, address string, now time.Time) error {
	if err := p.setName(name); err != nil {
		return err
	}
	if err := p.setBirthDate(birthDate, now); err != nil {
		return err
	}
	if !gender.IsValid() {
		return dErrors.NewField(dErrors.CodeValidation, "gender", "gender must be one of male, female, other")
	}
	p.gender = gender
	p.birthPlace = strings.TrimSpace(birthPlace)
	p.nationality = strings.TrimSpace(nationality)
	if strings.TrimSpace(address) != "" {
		if err := p.SetAddress(address, now); err != nil {
			return err
		}
	}
	p.touch(now)
	return nil
}

// SetAddress validates, trims, and replaces the address. Blank input is
// rejected here; callers that want "ignore blank" semantics go through
// UpdateProfile.
func (p *Person) SetAddress(address string, now time.Time) error {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" || len(trimmed) > maxAddressLen {
		return dErrors.NewField(dErrors.CodeValidation, "address",
			"address must be non-empty and at most 300 characters")
	}
	p.address = trimmed
	p.touch(now)
	return nil
}

func (p *Person) setName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > maxNameLen {
		return dErrors.NewField(dErrors.CodeValidation, "name",
			"name must be non-empty and at most 200 characters")
	}
	p.name = trimmed
	return nil
}

func (p *Person) setEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		p.email = ""
		return nil
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return dErrors.NewField(dErrors.CodeValidation, "email", "email is not a valid address")
	}
	p.email = addr.Address
	return nil
}

func (p *Person) setBirthDate(date time.Time, now time.Time) error {
	if !date.Before(now) {
		return dErrors.NewField(dErrors.CodeValidation, "birth_date", "birth date must be in the past")
	}
	y, m, d := date.UTC().Date()
	p.birthDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return nil
}

func (p *Person) setCPF(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return dErrors.NewField(dErrors.CodeValidation, "cpf", "cpf is required")
	}
	digits, ok := cpf.Normalize(raw)
	if !ok {
		return dErrors.NewField(dErrors.CodeValidation, "cpf", "cpf is not a valid identifier")
	}
	p.cpf = digits
	return nil
}

func (p *Person) touch(now time.Time) {
	if now.After(p.updatedAt) {
		p.updatedAt = now
	}
}

func (p *Person) ID() uuid.UUID        { return p.id }
func (p *Person) Name() string         { return p.name }
func (p *Person) Gender() Gender       { return p.gender }
func (p *Person) Email() string        { return p.email }
func (p *Person) BirthDate() time.Time { return p.birthDate }
func (p *Person) BirthPlace() string   { return p.birthPlace }
func (p *Person) Nationality() string  { return p.nationality }
func (p *Person) CPF() string          { return p.cpf }
func (p *Person) Address() string      { return p.address }
func (p *Person) CreatedAt() time.Time { return p.createdAt }
func (p *Person) UpdatedAt() time.Time { return p.updatedAt }
