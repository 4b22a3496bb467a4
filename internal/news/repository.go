package news

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for article storage
type Repository interface {
	// ListPublished returns published articles newest first. The ordering
	// is a contract shared by the export pipeline and the sitemap.
	ListPublished(ctx context.Context) ([]*Article, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*Article, error)

	List(ctx context.Context) ([]*Article, error)
	Create(ctx context.Context, in *ArticleInput) (*Article, error)
	Update(ctx context.Context, id string, in *ArticleInput) (*Article, error)
	Delete(ctx context.Context, id string) error
}

// InMemoryRepository is an in-memory Repository used by tests and local dev.
type InMemoryRepository struct {
	mu       sync.RWMutex
	articles map[string]*Article
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{articles: make(map[string]*Article)}
}

func (r *InMemoryRepository) snapshot(publishedOnly bool) []*Article {
	r.mu.RLock()
	out := make([]*Article, 0, len(r.articles))
	for _, a := range r.articles {
		if publishedOnly && !a.Published {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ListPublished returns published articles newest first.
func (r *InMemoryRepository) ListPublished(ctx context.Context) ([]*Article, error) {
	return r.snapshot(true), nil
}

// GetPublishedBySlug returns one published article.
func (r *InMemoryRepository) GetPublishedBySlug(ctx context.Context, slug string) (*Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.articles {
		if a.Slug == slug && a.Published {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrArticleNotFound
}

// List returns every article, drafts included.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Article, error) {
	return r.snapshot(false), nil
}

// Create stores a new article.
func (r *InMemoryRepository) Create(ctx context.Context, in *ArticleInput) (*Article, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.articles {
		if a.Slug == in.Slug {
			return nil, ErrSlugTaken
		}
	}

	now := time.Now().UTC()
	article := &Article{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Slug:         in.Slug,
		Content:      in.Content,
		PreviewText:  in.PreviewText,
		PreviewImage: in.PreviewImage,
		Tags:         append([]string{}, in.Tags...),
		Published:    in.Published,
		CreatedAt:    now,
		UpdatedAt:    now,
		SEO:          in.SEO,
	}
	r.articles[article.ID] = article

	copied := *article
	return &copied, nil
}

// Update rewrites an article in place.
func (r *InMemoryRepository) Update(ctx context.Context, id string, in *ArticleInput) (*Article, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	article, ok := r.articles[id]
	if !ok {
		return nil, ErrArticleNotFound
	}
	for _, a := range r.articles {
		if a.ID != id && a.Slug == in.Slug {
			return nil, ErrSlugTaken
		}
	}

	article.Title = in.Title
	article.Slug = in.Slug
	article.Content = in.Content
	article.PreviewText = in.PreviewText
	article.PreviewImage = in.PreviewImage
	article.Tags = append([]string{}, in.Tags...)
	article.Published = in.Published
	article.SEO = in.SEO
	article.UpdatedAt = time.Now().UTC()

	copied := *article
	return &copied, nil
}

// Delete removes an article.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return ErrArticleNotFound
	}
	delete(r.articles, id)
	return nil
}
