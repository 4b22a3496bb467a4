package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gruzpro/site-platform/internal/leads"
	"github.com/gruzpro/site-platform/internal/news"
	"github.com/gruzpro/site-platform/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.Default()

	leadRepo := leads.NewInMemoryRepository()
	leadService := leads.NewService(leads.ServiceConfig{
		Repo:     leadRepo,
		Writable: true,
		Logger:   logger,
	})
	leadsHandler := leads.NewHandler(leadService, leadRepo, logger)

	newsRepo := news.NewInMemoryRepository()
	if _, err := newsRepo.Create(t.Context(), &news.ArticleInput{
		Title: "Winter tariffs", Slug: "winter-tariffs", Content: "body", Published: true,
	}); err != nil {
		t.Fatalf("seed article: %v", err)
	}
	newsHandler := news.NewHandler(newsRepo, news.NewSnapshotCache(newsRepo, logger), nil, logger)

	cfg := &Config{
		Logger:          logger,
		LeadsHandler:    leadsHandler,
		NewsHandler:     newsHandler,
		AdminAuthSecret: "test-secret",
	}

	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterSubmitApplication(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(map[string]string{
		"name":    "Ivan Petrov",
		"phone":   "+7 912 345 67 89",
		"message": "Need a truck from Moscow to Kazan",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}
}

func TestRouterPublicNewsList(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/news", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var articles []map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&articles); err != nil {
		t.Fatalf("failed to decode news list: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
}

func TestRouterNewsBySlug(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/news/winter-tariffs", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterAdminRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/applications", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestRouterAdminWithToken(t *testing.T) {
	router := newTestRouter(t)

	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/applications", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}
}

func TestRouterIntakeRateLimit(t *testing.T) {
	logger := logging.Default()
	leadRepo := leads.NewInMemoryRepository()
	leadService := leads.NewService(leads.ServiceConfig{Repo: leadRepo, Writable: true, Logger: logger})
	newsRepo := news.NewInMemoryRepository()

	router := New(&Config{
		Logger:       logger,
		LeadsHandler: leads.NewHandler(leadService, leadRepo, logger),
		NewsHandler:  news.NewHandler(newsRepo, news.NewSnapshotCache(newsRepo, logger), nil, logger),
		IntakeRate:   0.01,
		IntakeBurst:  1,
	})

	body, _ := json.Marshal(map[string]string{
		"name":    "Ivan Petrov",
		"phone":   "89123456789",
		"message": "Need a truck from Moscow to Kazan",
	})

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/applications", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.9:1234"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send(); code != http.StatusCreated {
		t.Fatalf("first request should pass, got %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", code)
	}
}
