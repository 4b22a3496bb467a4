package sitegen

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gruzpro/site-platform/internal/news"
)

var (
	// ErrStoreNotConfigured means no store credentials were supplied.
	ErrStoreNotConfigured = errors.New("sitegen: store is not configured")

	// ErrFetchFailed means the store query failed. There is no fallback to
	// a previous snapshot: staleness is worse than a failed build.
	ErrFetchFailed = errors.New("sitegen: fetching published news failed")

	// ErrWriteFailed means an artifact could not be written.
	ErrWriteFailed = errors.New("sitegen: writing artifacts failed")
)

// Process exit codes for the sitegen CLI. Code 5 is reserved for treating
// an empty snapshot as fatal; today an empty store is a successful empty
// build, so it is never emitted.
const (
	ExitOK     = 0
	ExitConfig = 2
	ExitFetch  = 3
	ExitWrite  = 4

	exitEmptyReserved = 5
)

// ExitCode maps a pipeline error to its process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrStoreNotConfigured):
		return ExitConfig
	case errors.Is(err, ErrFetchFailed):
		return ExitFetch
	default:
		return ExitWrite
	}
}

// PublicArticle is the article shape shipped to the client bundle and the
// sitemap. Optional fields default to empty values, never null.
type PublicArticle struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Content        string   `json:"content"`
	PreviewText    string   `json:"preview_text"`
	PreviewImage   string   `json:"preview_image"`
	Tags           []string `json:"tags"`
	Published      bool     `json:"published"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
	SEOImage       string   `json:"seo_image"`
	NoIndex        bool     `json:"no_index"`
}

// Snapshot is the frozen set of published articles materialized at one
// build run.
type Snapshot struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Articles    []PublicArticle `json:"articles"`
}

// mapArticle converts a store row to the public shape.
func mapArticle(a *news.Article) PublicArticle {
	tags := a.Tags
	if tags == nil {
		tags = []string{}
	}
	return PublicArticle{
		ID:             a.ID,
		Title:          a.Title,
		Slug:           a.Slug,
		Content:        a.Content,
		PreviewText:    a.PreviewText,
		PreviewImage:   a.PreviewImage,
		Tags:           tags,
		Published:      a.Published,
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.UTC().Format(time.RFC3339),
		SEOTitle:       a.SEO.Title,
		SEODescription: a.SEO.Description,
		SEOImage:       a.SEO.Image,
		NoIndex:        a.SEO.NoIndex,
	}
}

// ReadSnapshot loads a snapshot written by a previous export run.
// os.IsNotExist on the returned error distinguishes "never exported".
func ReadSnapshot(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("sitegen: snapshot %s is corrupt: %w", path, err)
	}
	return &snap, nil
}
