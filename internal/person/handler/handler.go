// Package handler exposes the person registry over HTTP. Two contract
// versions share the same handlers; the only divergence is whether the
// address field is mandatory.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"registra/internal/person/service"
	dErrors "registra/pkg/domain-errors"
	"registra/pkg/platform/httputil"
	"registra/pkg/requestcontext"
)

// Service defines the person operations the handler depends on.
type Service interface {
	Create(ctx context.Context, in service.Input) (*service.View, error)
	CreateWithAddress(ctx context.Context, in service.Input) (*service.View, error)
	Update(ctx context.Context, id uuid.UUID, in service.Input) (*service.View, error)
	UpdateWithAddress(ctx context.Context, id uuid.UUID, in service.Input) (*service.View, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*service.View, error)
	List(ctx context.Context, pageNumber, pageSize int) (*service.Page, error)
}

// Handler handles person registry endpoints.
type Handler struct {
	logger *slog.Logger
	people Service
	authn  func(http.Handler) http.Handler
}

// New creates a person Handler. The authn middleware guards every route; pass
// nil only in tests that exercise handlers directly.
func New(people Service, logger *slog.Logger, authn func(http.Handler) http.Handler) *Handler {
	return &Handler{
		logger: logger,
		people: people,
		authn:  authn,
	}
}

// Register mounts both contract versions on the router.
func (h *Handler) Register(r chi.Router) {
	routes := func(requireAddress bool) chi.Router {
		sub := chi.NewRouter()
		if h.authn != nil {
			sub.Use(h.authn)
		}
		sub.Get("/", h.handleList)
		sub.Post("/", h.handleCreate(requireAddress))
		sub.Get("/{id}", h.handleGetByID)
		sub.Put("/{id}", h.handleUpdate(requireAddress))
		sub.Delete("/{id}", h.handleDelete)
		return sub
	}

	r.Mount("/api/v1/people", routes(false))
	r.Mount("/api/v2/people", routes(true))
}

func (h *Handler) handleCreate(requireAddress bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)

		req, proceed := httputil.DecodeAndPrepare[PersonRequest](w, r, h.logger, ctx, requestID)
		if !proceed {
			return
		}

		create := h.people.Create
		if requireAddress {
			create = h.people.CreateWithAddress
		}
		view, err := create(ctx, req.toInput())
		if err != nil {
			h.writeError(ctx, w, requestID, "create person failed", err)
			return
		}

		w.Header().Set("Location", fmt.Sprintf("%s/%s", r.URL.Path, view.ID))
		httputil.WriteJSON(w, http.StatusCreated, ok(view, "person created"))
	}
}

func (h *Handler) handleUpdate(requireAddress bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)

		id, err := parseID(r)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		req, proceed := httputil.DecodeAndPrepare[PersonRequest](w, r, h.logger, ctx, requestID)
		if !proceed {
			return
		}

		update := h.people.Update
		if requireAddress {
			update = h.people.UpdateWithAddress
		}
		view, err := update(ctx, id, req.toInput())
		if err != nil {
			h.writeError(ctx, w, requestID, "update person failed", err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, ok(view, "person updated"))
	}
}

func (h *Handler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	view, err := h.people.GetByID(ctx, id)
	if err != nil {
		h.writeError(ctx, w, requestcontext.RequestID(ctx), "get person failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ok(view, ""))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.people.Delete(ctx, id); err != nil {
		h.writeError(ctx, w, requestcontext.RequestID(ctx), "delete person failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ok(nil, "person deleted"))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pageNumber := queryInt(r, "pageNumber", 1)
	pageSize := queryInt(r, "pageSize", 10)

	page, err := h.people.List(ctx, pageNumber, pageSize)
	if err != nil {
		h.writeError(ctx, w, requestcontext.RequestID(ctx), "list people failed", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, paged(page))
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

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.NewField(dErrors.CodeBadRequest, "id", "id must be a valid uuid")
	}
	return id, nil
}

// queryInt reads an integer query parameter, falling back to def when absent
// or malformed. Non-positive values pass through; the service clamps them.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
