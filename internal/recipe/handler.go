package recipe

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipe-api/recipe-api/internal/platform/httpx"
	"github.com/recipe-api/recipe-api/internal/shared"
)

// Handler exposes list and create for a single Kind. Mount one per resource.
type Handler struct {
	logger  *slog.Logger
	service *Service
	kind    Kind
}

// NewHandler builds a Handler bound to kind.
func NewHandler(logger *slog.Logger, service *Service, kind Kind) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, kind: kind}
}

// MountRoutes registers the collection routes. Callers must install token
// authentication on r beforehand.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
}

type createRequest struct {
	Name string `json:"name"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	attrs, err := h.service.List(r.Context(), h.kind, ownerID)
	if err != nil {
		h.logger.Error("list failed", slog.String("kind", h.kind.Name), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, attrs)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), h.kind, ownerID, req.Name)
	if err != nil {
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("create failed", slog.String("kind", h.kind.Name), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	h.logger.Info("created", slog.String("kind", h.kind.Name), slog.Int64("id", created.ID), slog.Int64("user_id", ownerID))
	httpx.JSON(w, http.StatusCreated, created)
}
