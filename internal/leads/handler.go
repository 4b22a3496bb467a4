package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gruzpro/site-platform/pkg/logging"
)

// Handler handles HTTP requests for applications
type Handler struct {
	service *Service
	repo    Repository
	logger  *logging.Logger
}

// NewHandler creates a new applications handler
func NewHandler(service *Service, repo Repository, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		repo:    repo,
		logger:  logger,
	}
}

// Create handles POST /api/applications requests from the contact form.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode application request", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	app, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		var fieldErrs FieldErrors
		switch {
		case errors.As(err, &fieldErrs):
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": fieldErrs})
		case errors.Is(err, ErrSubmitInFlight):
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, ErrStoreNotConfigured):
			h.logger.Error("application rejected: store not configured")
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "submissions are temporarily unavailable, please call us instead",
			})
		default:
			h.logger.Error("application submit failed", "error", err)
			writeJSON(w, http.StatusBadGateway, map[string]string{
				"error": "could not save your application, please try again",
			})
		}
		return
	}

	writeJSON(w, http.StatusCreated, app)
}

// ListResponse is the response for listing applications
type ListResponse struct {
	Applications []*Application `json:"applications"`
	Count        int            `json:"count"`
	Offset       int            `json:"offset"`
	Limit        int            `json:"limit"`
}

// List handles GET /admin/applications requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeStoreUnavailable(w)
		return
	}

	filter := ListFilter{Limit: 50}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	if status := Status(r.URL.Query().Get("status")); status != "" {
		if !ValidStatus(status) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidStatus.Error()})
			return
		}
		filter.Status = status
	}

	apps, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list applications", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list applications"})
		return
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Applications: apps,
		Count:        len(apps),
		Offset:       filter.Offset,
		Limit:        filter.Limit,
	})
}

type updateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateStatus handles PATCH /admin/applications/{id}/status requests
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		writeStoreUnavailable(w)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing application id"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !ValidStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ErrInvalidStatus.Error()})
		return
	}

	app, err := h.repo.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("failed to update application status", "error", err, "id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update status"})
		return
	}

	h.logger.Info("application status updated", "id", id, "status", req.Status)
	writeJSON(w, http.StatusOK, app)
}

// writeStoreUnavailable answers admin requests when the process runs without
// a database, the same degraded state Submit reports as ErrStoreNotConfigured.
func writeStoreUnavailable(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"error": ErrStoreNotConfigured.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
