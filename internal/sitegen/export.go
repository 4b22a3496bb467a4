package sitegen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/gruzpro/site-platform/internal/news"
	"github.com/gruzpro/site-platform/pkg/logging"
)

// Artifact file names inside the artifacts directory.
const (
	DataFileName   = "news.json"
	ModuleFileName = "news_gen.go"
)

// Exporter materializes the published-news snapshot into the artifact pair.
type Exporter struct {
	repo   news.Repository
	logger *logging.Logger
	now    func() time.Time
}

// NewExporter creates an exporter over repo. repo may be nil when the store
// is unconfigured; Export then fails with ErrStoreNotConfigured.
func NewExporter(repo news.Repository, logger *logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Exporter{repo: repo, logger: logger, now: time.Now}
}

// Export queries published articles (newest first, the shared ordering
// contract) and maps them to the public shape. Zero rows is a valid,
// explicit "no articles" state, not a failure: only a query error is.
func (e *Exporter) Export(ctx context.Context) (*Snapshot, error) {
	ctx, span := otel.Tracer("gruzpro/sitegen").Start(ctx, "sitegen.Export")
	defer span.End()

	if e.repo == nil {
		return nil, ErrStoreNotConfigured
	}

	articles, err := e.repo.ListPublished(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	snap := &Snapshot{
		GeneratedAt: e.now().UTC().Truncate(time.Second),
		Articles:    make([]PublicArticle, 0, len(articles)),
	}
	for _, a := range articles {
		if !a.Published {
			continue
		}
		snap.Articles = append(snap.Articles, mapArticle(a))
	}
	span.SetAttributes(attribute.Int("sitegen.articles", len(snap.Articles)))

	if len(snap.Articles) == 0 {
		e.logger.Warn("no published news; exporting an empty snapshot")
	} else {
		e.logger.Info("news snapshot built", "articles", len(snap.Articles))
	}
	return snap, nil
}

// WriteArtifacts writes the data file and the typed module from the same
// snapshot instance, so the pair can never diverge within one run. Each
// file is written to a temp path and renamed, never left half-written.
func (e *Exporter) WriteArtifacts(snap *Snapshot, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	data = append(data, '\n')
	if err := writeFileAtomic(filepath.Join(dir, DataFileName), data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	module := renderModule(snap)
	if err := writeFileAtomic(filepath.Join(dir, ModuleFileName), []byte(module)); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	e.logger.Info("artifacts written", "dir", dir,
		"data_file", DataFileName, "module_file", ModuleFileName)
	return nil
}

// Run is the whole export pipeline: fetch, map, write.
func (e *Exporter) Run(ctx context.Context, dir string) (*Snapshot, error) {
	snap, err := e.Export(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.WriteArtifacts(snap, dir); err != nil {
		return nil, err
	}
	return snap, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// renderModule emits the typed Go source artifact consumed by the client
// bundle's build.
func renderModule(snap *Snapshot) string {
	var b strings.Builder
	b.WriteString("// Code generated by sitegen; DO NOT EDIT.\n")
	fmt.Fprintf(&b, "// Generated at %s\n", snap.GeneratedAt.Format(time.RFC3339))
	b.WriteString("package newsdata\n\n")
	b.WriteString(`// Article mirrors the public article shape of news.json.
type Article struct {
	ID             string
	Title          string
	Slug           string
	Content        string
	PreviewText    string
	PreviewImage   string
	Tags           []string
	Published      bool
	CreatedAt      string
	UpdatedAt      string
	SEOTitle       string
	SEODescription string
	SEOImage       string
	NoIndex        bool
}

`)
	b.WriteString("// Articles holds the published snapshot, newest first.\n")
	b.WriteString("var Articles = []Article{\n")
	for _, a := range snap.Articles {
		b.WriteString("\t{\n")
		fmt.Fprintf(&b, "\t\tID:             %s,\n", strconv.Quote(a.ID))
		fmt.Fprintf(&b, "\t\tTitle:          %s,\n", strconv.Quote(a.Title))
		fmt.Fprintf(&b, "\t\tSlug:           %s,\n", strconv.Quote(a.Slug))
		fmt.Fprintf(&b, "\t\tContent:        %s,\n", strconv.Quote(a.Content))
		fmt.Fprintf(&b, "\t\tPreviewText:    %s,\n", strconv.Quote(a.PreviewText))
		fmt.Fprintf(&b, "\t\tPreviewImage:   %s,\n", strconv.Quote(a.PreviewImage))
		fmt.Fprintf(&b, "\t\tTags:           %s,\n", renderStringSlice(a.Tags))
		fmt.Fprintf(&b, "\t\tPublished:      %t,\n", a.Published)
		fmt.Fprintf(&b, "\t\tCreatedAt:      %s,\n", strconv.Quote(a.CreatedAt))
		fmt.Fprintf(&b, "\t\tUpdatedAt:      %s,\n", strconv.Quote(a.UpdatedAt))
		fmt.Fprintf(&b, "\t\tSEOTitle:       %s,\n", strconv.Quote(a.SEOTitle))
		fmt.Fprintf(&b, "\t\tSEODescription: %s,\n", strconv.Quote(a.SEODescription))
		fmt.Fprintf(&b, "\t\tSEOImage:       %s,\n", strconv.Quote(a.SEOImage))
		fmt.Fprintf(&b, "\t\tNoIndex:        %t,\n", a.NoIndex)
		b.WriteString("\t},\n")
	}
	b.WriteString("}\n")
	return b.String()
}

func renderStringSlice(ss []string) string {
	if len(ss) == 0 {
		return "[]string{}"
	}
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = strconv.Quote(s)
	}
	return "[]string{" + strings.Join(parts, ", ") + "}"
}
