package handler

import (
	"strings"
	"time"

	"registra/internal/auth/service"
	dErrors "registra/pkg/domain-errors"
)

// RegisterRequest is the JSON body for account registration.
type RegisterRequest struct {
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	BirthDate time.Time `json:"birth_date"`
	CPF       string    `json:"cpf"`
	Password  string    `json:"password"`
}

func (req *RegisterRequest) Validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Password == "" {
		return dErrors.NewField(dErrors.CodeValidation, "password", "password is required")
	}
	return nil
}

func (req *RegisterRequest) toInput() service.RegisterInput {
	return service.RegisterInput{
		Name:      req.Name,
		Username:  req.Username,
		Email:     req.Email,
		BirthDate: req.BirthDate,
		CPF:       req.CPF,
		Password:  req.Password,
	}
}

// LoginRequest is the JSON body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	req.Email = strings.TrimSpace(req.Email)
	return nil
}

func (req *LoginRequest) toInput() service.LoginInput {
	return service.LoginInput{Email: req.Email, Password: req.Password}
}

// Envelope is the uniform success body for credential endpoints.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}
