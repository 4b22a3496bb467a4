package news

import (
	"regexp"
	"strings"
	"time"
)

// SEOOverrides carries optional per-article metadata overrides.
type SEOOverrides struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	NoIndex     bool   `json:"no_index,omitempty"`
}

// Article is a news entry authored in the admin panel. Only published
// articles are visible on the site and in generated artifacts.
type Article struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	Content      string       `json:"content"`
	PreviewText  string       `json:"preview_text,omitempty"`
	PreviewImage string       `json:"preview_image,omitempty"`
	Tags         []string     `json:"tags"`
	Published    bool         `json:"published"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	SEO          SEOOverrides `json:"seo,omitempty"`
}

// ArticleInput is the admin create/update payload.
type ArticleInput struct {
	Title        string       `json:"title"`
	Slug         string       `json:"slug"`
	Content      string       `json:"content"`
	PreviewText  string       `json:"preview_text"`
	PreviewImage string       `json:"preview_image"`
	Tags         []string     `json:"tags"`
	Published    bool         `json:"published"`
	SEO          SEOOverrides `json:"seo"`
}

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validate checks an admin payload.
func (in *ArticleInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrMissingTitle
	}
	if !slugRe.MatchString(in.Slug) {
		return ErrInvalidSlug
	}
	if strings.TrimSpace(in.Content) == "" {
		return ErrMissingContent
	}
	return nil
}
