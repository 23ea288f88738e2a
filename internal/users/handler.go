package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/recipe-api/recipe-api/internal/platform/httpx"
	"github.com/recipe-api/recipe-api/internal/shared"
)

// Handler serves registration and "my profile" endpoints.
type Handler struct {
	logger       *slog.Logger
	service      *Service
	requireToken func(http.Handler) http.Handler
	validator    *validator.Validate
}

// NewHandler builds Handler instance. requireToken guards the profile routes.
func NewHandler(logger *slog.Logger, service *Service, requireToken func(http.Handler) http.Handler) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:       logger,
		service:      service,
		requireToken: requireToken,
		validator:    httpx.NewValidator(),
	}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/create", h.create)
	r.Group(func(r chi.Router) {
		r.Use(h.requireToken)
		r.Get("/me", h.retrieveMe)
		r.Patch("/me", h.partialUpdateMe)
		r.Put("/me", h.updateMe)
	})
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Name     string `json:"name" validate:"required,max=255"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type profileResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type profileRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.ValidateStruct(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), RegisterInput(req))
	if err != nil {
		h.logError("register user", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email, Name: user.Name})
}

func (h *Handler) retrieveMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.logError("retrieve profile", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{Email: user.Email, Name: user.Name})
}

func (h *Handler) partialUpdateMe(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, partial bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	var req profileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validateProfile(req, partial); err != nil {
		httpx.RespondError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, UpdateInput(req))
	if err != nil {
		h.logError("update profile", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{Email: user.Email, Name: user.Name})
}

func (h *Handler) validateProfile(req profileRequest, partial bool) error {
	fields := shared.FieldErrors{}
	check := func(field string, value *string, tag string) {
		if value == nil {
			if !partial {
				fields.Add(field, "this field is required")
			}
			return
		}
		var fe shared.FieldErrors
		if err := httpx.ValidateVar(h.validator, field, *value, tag); errors.As(err, &fe) {
			for k, v := range fe {
				fields.Add(k, v)
			}
		}
	}
	check("email", req.Email, "required,email,max=255")
	check("password", req.Password, "required,min=6,max=128")
	check("name", req.Name, "required,max=255")
	return fields.Err()
}

func (h *Handler) logError(msg string, err error) {
	if errors.Is(err, shared.ErrValidation) || errors.Is(err, shared.ErrDuplicate) || errors.Is(err, shared.ErrNotFound) {
		h.logger.Debug(msg, slog.Any("error", err))
		return
	}
	h.logger.Error(msg, slog.Any("error", err))
}
