package handler

import (
	"strings"
	"time"

	"registra/internal/person/models"
	"registra/internal/person/service"
)

// PersonRequest is the JSON body for create and update. The same shape serves
// both contract versions; v2 endpoints additionally require the address.
type PersonRequest struct {
	Name        string    `json:"name"`
	Gender      string    `json:"gender"`
	Email       string    `json:"email"`
	BirthDate   time.Time `json:"birth_date"`
	BirthPlace  string    `json:"birth_place"`
	Nationality string    `json:"nationality"`
	CPF         string    `json:"cpf"`
	Address     string    `json:"address"`

	gender models.Gender
}

// Validate normalizes the request after decoding. Field-level rules beyond
// gender parsing belong to the service and the aggregate; duplicating them
// here would let the two drift.
func (req *PersonRequest) Validate() error {
	g, err := models.ParseGender(req.Gender)
	if err != nil {
		return err
	}
	req.gender = g
	req.Name = strings.TrimSpace(req.Name)
	return nil
}

func (req *PersonRequest) toInput() service.Input {
	return service.Input{
		Name:        req.Name,
		Gender:      req.gender,
		Email:       req.Email,
		BirthDate:   req.BirthDate,
		BirthPlace:  req.BirthPlace,
		Nationality: req.Nationality,
		CPF:         req.CPF,
		Address:     req.Address,
	}
}
