package sitegen

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruzpro/site-platform/internal/news"
	"github.com/gruzpro/site-platform/pkg/logging"
)

type failingNewsRepo struct {
	news.Repository
}

func (failingNewsRepo) ListPublished(ctx context.Context) ([]*news.Article, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func seedRepo(t *testing.T, published ...string) *news.InMemoryRepository {
	t.Helper()
	repo := news.NewInMemoryRepository()
	for _, slug := range published {
		_, err := repo.Create(t.Context(), &news.ArticleInput{
			Title:     "Title " + slug,
			Slug:      slug,
			Content:   "Content for " + slug,
			Tags:      []string{"logistics"},
			Published: true,
		})
		require.NoError(t, err)
	}
	return repo
}

func TestExportEmptyStoreIsSuccess(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(news.NewInMemoryRepository(), logging.NewText("info"))

	snap, err := e.Run(t.Context(), dir)
	require.NoError(t, err, "an empty store is a valid empty build, never a fetch failure")
	assert.Equal(t, ExitOK, ExitCode(err))
	require.NotNil(t, snap)
	assert.Empty(t, snap.Articles)

	raw, err := os.ReadFile(filepath.Join(dir, DataFileName))
	require.NoError(t, err)
	var parsed Snapshot
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Empty(t, parsed.Articles, "data file must parse to an empty sequence")

	module, err := os.ReadFile(filepath.Join(dir, ModuleFileName))
	require.NoError(t, err)
	assert.Contains(t, string(module), "var Articles = []Article{\n}")
	assert.Contains(t, string(module), "Generated at ")
}

func TestExportFetchFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(failingNewsRepo{}, logging.NewText("info"))

	_, err := e.Run(t.Context(), dir)
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, ExitFetch, ExitCode(err))

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "a failed fetch must leave no partial artifacts")
}

func TestExportUnconfiguredStore(t *testing.T) {
	e := NewExporter(nil, logging.NewText("info"))
	_, err := e.Export(t.Context())
	require.ErrorIs(t, err, ErrStoreNotConfigured)
	assert.Equal(t, ExitConfig, ExitCode(err))
}

func TestExportArtifactPairRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo := seedRepo(t, "winter-tariffs", "new-fleet")
	e := NewExporter(repo, logging.NewText("info"))

	snap, err := e.Run(t.Context(), dir)
	require.NoError(t, err)
	require.Len(t, snap.Articles, 2)

	raw, err := os.ReadFile(filepath.Join(dir, DataFileName))
	require.NoError(t, err)
	var parsed Snapshot
	require.NoError(t, json.Unmarshal(raw, &parsed))
	require.Len(t, parsed.Articles, 2)

	module, err := os.ReadFile(filepath.Join(dir, ModuleFileName))
	require.NoError(t, err)
	text := string(module)

	// Every field in the data file must appear verbatim in the typed module.
	for _, a := range parsed.Articles {
		assert.Contains(t, text, `"`+a.ID+`"`)
		assert.Contains(t, text, `"`+a.Title+`"`)
		assert.Contains(t, text, `"`+a.Slug+`"`)
		assert.Contains(t, text, `"`+a.Content+`"`)
		assert.Contains(t, text, `"`+a.CreatedAt+`"`)
		assert.Contains(t, text, `"`+a.UpdatedAt+`"`)
		for _, tag := range a.Tags {
			assert.Contains(t, text, `"`+tag+`"`)
		}
	}
}

func TestExportMapsOptionalsToEmpty(t *testing.T) {
	repo := news.NewInMemoryRepository()
	_, err := repo.Create(t.Context(), &news.ArticleInput{
		Title: "Bare", Slug: "bare", Content: "body", Published: true,
	})
	require.NoError(t, err)

	e := NewExporter(repo, logging.NewText("info"))
	snap, err := e.Export(t.Context())
	require.NoError(t, err)
	require.Len(t, snap.Articles, 1)

	a := snap.Articles[0]
	assert.Equal(t, "", a.PreviewText)
	assert.NotNil(t, a.Tags)
	assert.Equal(t, "", a.SEOImage)

	// Serialized form carries empty values, never null.
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")
}

func TestExportOrderingNewestFirst(t *testing.T) {
	repo := news.NewInMemoryRepository()
	older, err := repo.Create(t.Context(), &news.ArticleInput{Title: "Old", Slug: "old", Content: "body", Published: true})
	require.NoError(t, err)
	_ = older
	time.Sleep(5 * time.Millisecond)
	_, err = repo.Create(t.Context(), &news.ArticleInput{Title: "New", Slug: "new", Content: "body", Published: true})
	require.NoError(t, err)

	e := NewExporter(repo, logging.NewText("info"))
	snap, err := e.Export(t.Context())
	require.NoError(t, err)
	require.Len(t, snap.Articles, 2)
	assert.Equal(t, "new", snap.Articles[0].Slug)
	assert.Equal(t, "old", snap.Articles[1].Slug)
}

func TestWriteArtifactsOverwritesInFull(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(seedRepo(t, "a", "b"), logging.NewText("info"))
	_, err := e.Run(t.Context(), dir)
	require.NoError(t, err)

	// Second run with fewer articles fully replaces the snapshot.
	e2 := NewExporter(seedRepo(t, "only"), logging.NewText("info"))
	_, err = e2.Run(t.Context(), dir)
	require.NoError(t, err)

	snap, err := ReadSnapshot(filepath.Join(dir, DataFileName))
	require.NoError(t, err)
	require.Len(t, snap.Articles, 1)
	assert.Equal(t, "only", snap.Articles[0].Slug)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, ent := range entries {
		assert.False(t, strings.Contains(ent.Name(), ".tmp-"), "no temp files may survive a run")
	}
}
