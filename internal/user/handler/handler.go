package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"roster/internal/user/models"
	id "roster/pkg/domain"
	dErrors "roster/pkg/domain-errors"
	"roster/pkg/platform/httputil"
	"roster/pkg/requestcontext"
)

// Service defines the interface for user lifecycle operations.
type Service interface {
	Create(ctx context.Context, candidate models.User) (models.User, error)
	FindByID(ctx context.Context, userID id.UserID) (models.User, error)
	Update(ctx context.Context, userID id.UserID, candidate models.User) (models.User, error)
	Patch(ctx context.Context, userID id.UserID, patch models.PatchRequest) (models.User, error)
	Delete(ctx context.Context, userID id.UserID) error
	FindAll(ctx context.Context) ([]models.User, error)
	FindByBirthDateRange(ctx context.Context, from, to models.Date) ([]models.User, error)
}

// Handler wires user endpoints to the user service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a user handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts user endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{userID}", h.HandleGet)
		r.Put("/{userID}", h.HandleUpdate)
		r.Patch("/{userID}", h.HandlePatch)
		r.Delete("/{userID}", h.HandleDelete)
	})
}

// HandleCreate handles POST /users.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[UserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.Create(ctx, req.ToModel())
	if err != nil {
		h.logError(ctx, "user creation failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromUser(user))
}

// HandleGet handles GET /users/{userID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	user, err := h.service.FindByID(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromUser(user))
}

// HandleUpdate handles PUT /users/{userID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.service.Update(ctx, userID, req.ToModel())
	if err != nil {
		h.logError(ctx, "user update failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromUser(user))
}

// HandlePatch handles PATCH /users/{userID}. The body is a sparse
// field-name-to-string-value object.
func (h *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	var patch models.PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logError(ctx, "patch decode failed", requestID, err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest,
			"patch body must be a JSON object of string values"))
		return
	}

	user, err := h.service.Patch(ctx, userID, patch)
	if err != nil {
		h.logError(ctx, "user patch failed", requestID, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromUser(user))
}

// HandleDelete handles DELETE /users/{userID}. Idempotent: deleting an
// absent ID still returns 204.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := h.pathUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, userID); err != nil {
		h.logError(ctx, "user delete failed", requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleList handles GET /users. With fromDate and toDate query parameters
// it serves the birth-date range query; with neither it lists everything.
// Supplying only one bound is a bad request.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fromRaw := r.URL.Query().Get("fromDate")
	toRaw := r.URL.Query().Get("toDate")

	var (
		users []models.User
		err   error
	)
	switch {
	case fromRaw == "" && toRaw == "":
		users, err = h.service.FindAll(ctx)
	case fromRaw != "" && toRaw != "":
		var from, to models.Date
		if from, err = models.ParseDate(fromRaw); err != nil {
			httputil.WriteError(w, err)
			return
		}
		if to, err = models.ParseDate(toRaw); err != nil {
			httputil.WriteError(w, err)
			return
		}
		users, err = h.service.FindByBirthDateRange(ctx, from, to)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidRange,
			"fromDate and toDate must be supplied together"))
		return
	}
	if err != nil {
		h.logError(ctx, "user list failed", requestcontext.RequestID(ctx), err)
		httputil.WriteError(w, err)
		return
	}

	if len(users) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromUsers(users))
}

// pathUserID parses the {userID} path value, writing a 400 on failure.
func (h *Handler) pathUserID(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, false
	}
	return userID, true
}

func (h *Handler) logError(ctx context.Context, msg, requestID string, err error) {
	if h.logger == nil {
		return
	}
	// Client faults are expected traffic; only real failures are errors.
	if dErrors.CodeOf(err) == dErrors.CodeInternal || dErrors.CodeOf(err) == dErrors.CodeUnavailable {
		h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
		return
	}
	h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
}
