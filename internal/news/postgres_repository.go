package news

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores articles in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("news: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

const articleColumns = `id, title, slug, content, preview_text, preview_image, tags, published,
		created_at, updated_at, seo_title, seo_description, seo_image, no_index`

// ListPublished returns published articles newest first.
func (r *PostgresRepository) ListPublished(ctx context.Context) ([]*Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news
		WHERE published = true
		ORDER BY created_at DESC
	`
	return r.queryArticles(ctx, query)
}

// List returns every article, drafts included, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news
		ORDER BY created_at DESC
	`
	return r.queryArticles(ctx, query)
}

func (r *PostgresRepository) queryArticles(ctx context.Context, query string, args ...any) ([]*Article, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("news: query failed: %w", err)
	}
	defer rows.Close()

	articles := []*Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("news: scan failed: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("news: query failed: %w", err)
	}
	return articles, nil
}

// GetPublishedBySlug returns one published article.
func (r *PostgresRepository) GetPublishedBySlug(ctx context.Context, slug string) (*Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM news
		WHERE slug = $1 AND published = true
	`
	a, err := scanArticle(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("news: select failed: %w", err)
	}
	return a, nil
}

// Create inserts a new article.
func (r *PostgresRepository) Create(ctx context.Context, in *ArticleInput) (*Article, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO news (id, title, slug, content, preview_text, preview_image, tags, published,
			seo_title, seo_description, seo_image, no_index)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	err := r.db.QueryRow(ctx, query,
		id, in.Title, in.Slug, in.Content, in.PreviewText, in.PreviewImage,
		in.Tags, in.Published, in.SEO.Title, in.SEO.Description, in.SEO.Image, in.SEO.NoIndex,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("news: insert failed: %w", err)
	}

	return &Article{
		ID:           id.String(),
		Title:        in.Title,
		Slug:         in.Slug,
		Content:      in.Content,
		PreviewText:  in.PreviewText,
		PreviewImage: in.PreviewImage,
		Tags:         append([]string{}, in.Tags...),
		Published:    in.Published,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		SEO:          in.SEO,
	}, nil
}

// Update rewrites an article and bumps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, id string, in *ArticleInput) (*Article, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE news
		SET title = $2, slug = $3, content = $4, preview_text = $5, preview_image = $6,
			tags = $7, published = $8, seo_title = $9, seo_description = $10,
			seo_image = $11, no_index = $12, updated_at = now()
		WHERE id = $1
		RETURNING ` + articleColumns + `
	`
	a, err := scanArticle(r.db.QueryRow(ctx, query,
		id, in.Title, in.Slug, in.Content, in.PreviewText, in.PreviewImage,
		in.Tags, in.Published, in.SEO.Title, in.SEO.Description, in.SEO.Image, in.SEO.NoIndex,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("news: update failed: %w", err)
	}
	return a, nil
}

// Delete removes an article.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("news: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrArticleNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*Article, error) {
	var a Article
	var previewText, previewImage, seoTitle, seoDescription, seoImage *string
	if err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Slug,
		&a.Content,
		&previewText,
		&previewImage,
		&a.Tags,
		&a.Published,
		&a.CreatedAt,
		&a.UpdatedAt,
		&seoTitle,
		&seoDescription,
		&seoImage,
		&a.SEO.NoIndex,
	); err != nil {
		return nil, err
	}
	a.PreviewText = deref(previewText)
	a.PreviewImage = deref(previewImage)
	a.SEO.Title = deref(seoTitle)
	a.SEO.Description = deref(seoDescription)
	a.SEO.Image = deref(seoImage)
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return &a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
