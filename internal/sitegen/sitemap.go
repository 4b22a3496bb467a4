package sitegen

import (
	"encoding/xml"
	"fmt"
	"time"
)

// StaticRoute is a hand-maintained site page included in every sitemap.
type StaticRoute struct {
	Path       string
	Priority   string
	ChangeFreq string
}

// DefaultStaticRoutes lists the site's fixed pages in the order they appear
// in the sitemap. Static pages always precede articles.
var DefaultStaticRoutes = []StaticRoute{
	{Path: "/", Priority: "1.0", ChangeFreq: "weekly"},
	{Path: "/services", Priority: "0.9", ChangeFreq: "monthly"},
	{Path: "/services/ftl", Priority: "0.8", ChangeFreq: "monthly"},
	{Path: "/services/ltl", Priority: "0.8", ChangeFreq: "monthly"},
	{Path: "/fleet", Priority: "0.7", ChangeFreq: "monthly"},
	{Path: "/about", Priority: "0.6", ChangeFreq: "yearly"},
	{Path: "/news", Priority: "0.8", ChangeFreq: "daily"},
	{Path: "/contacts", Priority: "0.7", ChangeFreq: "yearly"},
}

type urlEntry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// SitemapBuilder derives the sitemap from the static routes and a snapshot.
type SitemapBuilder struct {
	baseURL string
	routes  []StaticRoute
}

// NewSitemapBuilder creates a builder for baseURL (no trailing slash).
func NewSitemapBuilder(baseURL string, routes []StaticRoute) *SitemapBuilder {
	if routes == nil {
		routes = DefaultStaticRoutes
	}
	return &SitemapBuilder{baseURL: baseURL, routes: routes}
}

// Build renders the sitemap XML. The snapshot is treated as untrusted:
// unpublished and no-index articles are filtered here even though the
// export already did. A nil snapshot yields the static pages only.
func (b *SitemapBuilder) Build(snap *Snapshot) ([]byte, error) {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}

	for _, r := range b.routes {
		set.URLs = append(set.URLs, urlEntry{
			Loc:        b.baseURL + r.Path,
			ChangeFreq: r.ChangeFreq,
			Priority:   r.Priority,
		})
	}

	if snap != nil {
		for _, a := range snap.Articles {
			if !a.Published || a.NoIndex {
				continue
			}
			set.URLs = append(set.URLs, urlEntry{
				Loc:        fmt.Sprintf("%s/news/%s", b.baseURL, a.Slug),
				LastMod:    lastMod(a),
				ChangeFreq: "monthly",
				Priority:   "0.6",
			})
		}
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}

// lastMod formats the article's modification date as YYYY-MM-DD, preferring
// updated time and falling back to created time.
func lastMod(a PublicArticle) string {
	for _, raw := range []string{a.UpdatedAt, a.CreatedAt} {
		if raw == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
