package news

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gruzpro/site-platform/pkg/logging"
)

// Handler handles HTTP requests for news articles
type Handler struct {
	repo     Repository
	snapshot *SnapshotCache
	cache    *RedisCache
	logger   *logging.Logger
}

// NewHandler creates a news handler. snapshot and cache may be nil.
func NewHandler(repo Repository, snapshot *SnapshotCache, cache *RedisCache, logger *logging.Logger) *Handler {
	return &Handler{
		repo:     repo,
		snapshot: snapshot,
		cache:    cache,
		logger:   logger,
	}
}

// ListPublished handles GET /api/news requests.
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	if articles, ok := h.cache.GetList(r.Context()); ok {
		writeJSON(w, http.StatusOK, articles)
		return
	}

	var articles []*Article
	var err error
	if h.snapshot != nil {
		articles, err = h.snapshot.Load(r.Context())
	} else {
		articles, err = h.repo.ListPublished(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list news", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list news"})
		return
	}

	h.cache.SetList(r.Context(), articles)
	writeJSON(w, http.StatusOK, articles)
}

// GetBySlug handles GET /api/news/{slug} requests.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing slug"})
		return
	}

	article, err := h.repo.GetPublishedBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrArticleNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("failed to get article", "error", err, "slug", slug)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get article"})
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// AdminList handles GET /admin/news requests (drafts included).
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	articles, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list news", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list news"})
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

// AdminCreate handles POST /admin/news requests.
func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var in ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	article, err := h.repo.Create(r.Context(), &in)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	h.invalidate(r)
	h.logger.Info("article created", "id", article.ID, "slug", article.Slug)
	writeJSON(w, http.StatusCreated, article)
}

// AdminUpdate handles PATCH /admin/news/{id} requests.
func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	article, err := h.repo.Update(r.Context(), id, &in)
	if err != nil {
		h.writeMutationError(w, err)
		return
	}

	h.invalidate(r)
	h.logger.Info("article updated", "id", article.ID, "slug", article.Slug)
	writeJSON(w, http.StatusOK, article)
}

// AdminDelete handles DELETE /admin/news/{id} requests.
func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeMutationError(w, err)
		return
	}

	h.invalidate(r)
	h.logger.Info("article deleted", "id", id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) invalidate(r *http.Request) {
	if h.snapshot != nil {
		h.snapshot.Invalidate()
	}
	h.cache.InvalidateList(r.Context())
}

func (h *Handler) writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrArticleNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrSlugTaken):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrMissingTitle), errors.Is(err, ErrInvalidSlug), errors.Is(err, ErrMissingContent):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		h.logger.Error("news mutation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "operation failed"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
