package render

import (
	"fmt"
	"strings"
	"time"

	"brucesays-backend/internal/domain"
)

// Sitemap renders the XML urlset: the root URL, the SEO page, and one entry
// per quote pointing at its static page. lastmod for a quote is the date part
// of its creation timestamp.
func Sitemap(quotes []domain.Quote, siteDomain string, now time.Time) string {
	today := now.Format("2006-01-02")

	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
    <url>
        <loc>https://%s/</loc>
        <lastmod>%s</lastmod>
        <changefreq>daily</changefreq>
        <priority>1.0</priority>
    </url>
    <url>
        <loc>https://%s/seo.html</loc>
        <lastmod>%s</lastmod>
        <changefreq>daily</changefreq>
        <priority>0.8</priority>
    </url>`, siteDomain, today, siteDomain, today)

	for _, q := range quotes {
		lastmod := q.CreatedAt
		if len(lastmod) > 10 {
			lastmod = lastmod[:10]
		}
		fmt.Fprintf(&b, `
    <url>
        <loc>https://%s/quote/%s.html</loc>
        <lastmod>%s</lastmod>
        <changefreq>monthly</changefreq>
        <priority>0.7</priority>
    </url>`, siteDomain, q.SK, lastmod)
	}

	b.WriteString("\n</urlset>\n")
	return b.String()
}
