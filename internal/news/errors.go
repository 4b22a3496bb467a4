package news

import "errors"

var (
	// ErrMissingTitle is returned when the title is empty
	ErrMissingTitle = errors.New("title is required")

	// ErrInvalidSlug is returned when the slug is empty or not URL-safe
	ErrInvalidSlug = errors.New("slug must be lowercase letters, digits and hyphens")

	// ErrMissingContent is returned when the content is empty
	ErrMissingContent = errors.New("content is required")

	// ErrSlugTaken is returned when another article already uses the slug
	ErrSlugTaken = errors.New("slug is already in use")

	// ErrArticleNotFound is returned when an article is not found
	ErrArticleNotFound = errors.New("article not found")
)
