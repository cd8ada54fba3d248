// Package handler exposes the credential endpoints. Register and login are
// anonymous; logout and the profile lookup require a valid bearer token.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"registra/internal/auth/service"
	dErrors "registra/pkg/domain-errors"
	"registra/pkg/platform/httputil"
	"registra/pkg/requestcontext"
)

// Service defines the credential operations the handler depends on.
type Service interface {
	Register(ctx context.Context, in service.RegisterInput) error
	Login(ctx context.Context, in service.LoginInput) (*service.TokenResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*service.AccountView, error)
}

// Handler handles credential endpoints.
type Handler struct {
	logger *slog.Logger
	auth   Service
	authn  func(http.Handler) http.Handler
}

// New creates a credential Handler. authn guards only the logout route.
func New(auth Service, logger *slog.Logger, authn func(http.Handler) http.Handler) *Handler {
	return &Handler{
		logger: logger,
		auth:   auth,
		authn:  authn,
	}
}

// Register mounts the credential routes.
func (h *Handler) Register(r chi.Router) {
	sub := chi.NewRouter()
	sub.Post("/register", h.handleRegister)
	sub.Post("/login", h.handleLogin)
	if h.authn != nil {
		sub.With(h.authn).Post("/logout", h.handleLogout)
		sub.With(h.authn).Get("/me", h.handleProfile)
	} else {
		sub.Post("/logout", h.handleLogout)
		sub.Get("/me", h.handleProfile)
	}

	r.Mount("/api/auth", sub)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, proceed := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !proceed {
		return
	}

	if err := h.auth.Register(ctx, req.toInput()); err != nil {
		h.writeError(ctx, w, requestID, "registration failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, Envelope{Success: true, Message: "account registered"})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, proceed := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !proceed {
		return
	}

	token, err := h.auth.Login(ctx, req.toInput())
	if err != nil {
		h.writeError(ctx, w, requestID, "login failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: "login succeeded", Data: token})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.auth.Logout(ctx); err != nil {
		h.writeError(ctx, w, requestcontext.RequestID(ctx), "logout failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: "token revoked"})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	account, err := h.auth.Profile(ctx)
	if err != nil {
		h.writeError(ctx, w, requestcontext.RequestID(ctx), "profile lookup failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: account})
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, requestID, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"request_id", requestID,
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
