package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"brucesays-backend/internal/domain"
)

// Site identity baked into every artifact.
const (
	siteName = "Shit Bruce Says"
	tagline  = "A collection of memorable quotes and sayings from Bruce"
	author   = "Bruce"
)

const siteDescription = "Discover hilarious and memorable quotes from Bruce. New quotes added regularly by the community."

// htmlEscaper escapes the five characters that matter for attribute and text
// interpolation. Stored quote text must never reach the page as live markup.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

// formatDate renders an ISO-8601 timestamp as a human-readable date. An
// unparsable value falls back to the raw string.
func formatDate(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("January 02, 2006 at 15:04:05")
}

// metaDescription truncates quote text to 150 characters for meta tags,
// counted in runes.
func metaDescription(text string) string {
	runes := []rune(text)
	if len(runes) <= 150 {
		return text
	}
	return string(runes[:147]) + "..."
}

// QuotePage renders the complete single-quote document: social metadata, a
// redirect script that spares crawlers, and a visible fallback link.
func QuotePage(q domain.Quote, siteDomain string) string {
	escaped := escapeHTML(q.Text)
	meta := escapeHTML(metaDescription(q.Text))
	date := formatDate(q.CreatedAt)

	var b strings.Builder
	fmt.Fprintf(&b, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>&quot;%s&quot; — %s | %s</title>
    <meta name="description" content="&quot;%s&quot; — %s, said on %s">

    <!-- Open Graph / Social Media -->
    <meta property="og:type" content="article">
    <meta property="og:url" content="https://%s/quote/%s.html">
    <meta property="og:title" content="&quot;%s&quot; — %s">
    <meta property="og:description" content="Said on %s | %s">
    <meta property="og:site_name" content="%s">
    <meta property="og:image" content="https://%s/favicon.svg">
    <meta property="og:image:width" content="100">
    <meta property="og:image:height" content="100">
    <meta property="og:image:type" content="image/svg+xml">
    <meta property="og:article:published_time" content="%s">
    <meta property="og:article:author" content="%s">

    <!-- Twitter Card -->
    <meta property="twitter:card" content="summary">
    <meta property="twitter:url" content="https://%s/quote/%s.html">
    <meta property="twitter:title" content="&quot;%s&quot; — %s">
    <meta property="twitter:description" content="Said on %s | %s">
    <meta property="twitter:image" content="https://%s/favicon.svg">

    <link rel="canonical" href="https://%s/#%s">

    <link rel="icon" type="image/svg+xml" href="/favicon.svg">
    <link rel="stylesheet" href="../styles.css">
`,
		escaped, author, siteName,
		meta, author, date,
		siteDomain, q.SK,
		escaped, author,
		date, siteName,
		siteName,
		siteDomain,
		q.CreatedAt,
		author,
		siteDomain, q.SK,
		escaped, author,
		date, siteName,
		siteDomain,
		siteDomain, q.SK,
	)

	// Human visitors are bounced to the interactive app after a short delay;
	// crawlers and social preview fetchers stay on the static page.
	fmt.Fprintf(&b, `
    <script>
        if (!navigator.userAgent.includes('bot') &&
            !navigator.userAgent.includes('crawler') &&
            !navigator.userAgent.includes('facebookexternalhit') &&
            !navigator.userAgent.includes('LinkedInBot') &&
            !navigator.userAgent.includes('Twitterbot')) {
            setTimeout(() => {
                window.location.href = '/#%s';
            }, 1000);
        }
    </script>
</head>
<body>
    <div id="wrapper">
        <header>
            <h1>%s</h1>
            <p class="tagline">%s</p>
        </header>

        <main>
%s
            <p style="margin-top: 2rem; text-align: center;">
                <a href="/" style="background: #007acc; color: white; padding: 0.5rem 1rem; text-decoration: none; border-radius: 4px;">
                    View All Quotes &amp; Add New Ones
                </a>
            </p>
        </main>
    </div>
</body>
</html>`,
		q.SK,
		siteName,
		tagline,
		quoteArticle(q),
	)

	return b.String()
}

// quoteArticle renders one quote as a blockquote article, shared by the
// single-quote page and the aggregate SEO page.
func quoteArticle(q domain.Quote) string {
	return fmt.Sprintf(`            <article class="quote" id="%s">
                <blockquote cite="#%s">
                    <p>&quot;%s&quot;</p>
                    <footer>
                        <cite>— %s</cite>
                    </footer>
                </blockquote>
                <time class="timestamp" datetime="%s">
                    <a href="/#%s" aria-label="Link to this quote">%s</a>
                </time>
            </article>
`, q.SK, q.SK, escapeHTML(q.Text), author, q.CreatedAt, q.SK, formatDate(q.CreatedAt))
}

// JSON-LD structured data types (schema.org WebSite/ItemList).

type ldPerson struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type ldQuotation struct {
	Type        string   `json:"@type"`
	Text        string   `json:"text"`
	Author      ldPerson `json:"author"`
	DateCreated string   `json:"dateCreated"`
	URL         string   `json:"url"`
}

type ldListItem struct {
	Type     string      `json:"@type"`
	Position int         `json:"position"`
	Item     ldQuotation `json:"item"`
}

type ldItemList struct {
	Type            string       `json:"@type"`
	NumberOfItems   int          `json:"numberOfItems"`
	ItemListElement []ldListItem `json:"itemListElement"`
}

type ldWebSite struct {
	Context     string     `json:"@context"`
	Type        string     `json:"@type"`
	Name        string     `json:"name"`
	URL         string     `json:"url"`
	Description string     `json:"description"`
	MainEntity  ldItemList `json:"mainEntity"`
}

// structuredDataLimit caps the JSON-LD item list at the most recent quotes.
const structuredDataLimit = 50

func structuredData(quotes []domain.Quote, siteDomain string) ([]byte, error) {
	data := ldWebSite{
		Context:     "https://schema.org",
		Type:        "WebSite",
		Name:        siteName,
		URL:         fmt.Sprintf("https://%s/", siteDomain),
		Description: tagline,
		MainEntity: ldItemList{
			Type:            "ItemList",
			NumberOfItems:   len(quotes),
			ItemListElement: []ldListItem{},
		},
	}

	for i, q := range quotes {
		if i >= structuredDataLimit {
			break
		}
		data.MainEntity.ItemListElement = append(data.MainEntity.ItemListElement, ldListItem{
			Type:     "ListItem",
			Position: i + 1,
			Item: ldQuotation{
				Type:        "Quotation",
				Text:        q.Text,
				Author:      ldPerson{Type: "Person", Name: author},
				DateCreated: q.CreatedAt,
				URL:         fmt.Sprintf("https://%s/#%s", siteDomain, q.SK),
			},
		})
	}

	return json.MarshalIndent(data, "", "  ")
}

// SEOPage renders the aggregate crawler page: every quote as a blockquote,
// structured data, and social metadata featuring the newest quote. quotes
// must be ordered newest-first and non-empty.
func SEOPage(quotes []domain.Quote, siteDomain string) (string, error) {
	ld, err := structuredData(quotes, siteDomain)
	if err != nil {
		return "", err
	}

	featured := fmt.Sprintf("&quot;%s&quot; and many more memorable quotes from %s.", escapeHTML(quotes[0].Text), author)

	var articles strings.Builder
	for _, q := range quotes {
		articles.WriteString(quoteArticle(q))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - Memorable Quotes and Sayings</title>
    <meta name="description" content="%s">

    <!-- Open Graph / Social Media -->
    <meta property="og:type" content="website">
    <meta property="og:url" content="https://%s/">
    <meta property="og:title" content="%s">
    <meta property="og:description" content="%s">
    <meta property="og:site_name" content="%s">
    <meta property="og:image" content="https://%s/favicon.svg">
    <meta property="og:image:width" content="100">
    <meta property="og:image:height" content="100">
    <meta property="og:image:type" content="image/svg+xml">
    <meta property="og:locale" content="en_US">

    <!-- Twitter Card -->
    <meta property="twitter:card" content="summary">
    <meta property="twitter:url" content="https://%s/">
    <meta property="twitter:title" content="%s">
    <meta property="twitter:description" content="%s">
    <meta property="twitter:image" content="https://%s/favicon.svg">

    <!-- Canonical URL -->
    <link rel="canonical" href="https://%s/">

    <!-- Structured Data -->
    <script type="application/ld+json">
%s
    </script>

    <link rel="icon" type="image/svg+xml" href="/favicon.svg">
    <link rel="stylesheet" href="styles.css">

    <!-- Redirect to main app after 2 seconds -->
    <script>
        setTimeout(() => {
            window.location.href = '/';
        }, 2000);
    </script>
</head>
<body>
    <div id="wrapper">
        <header>
            <h1>%s</h1>
            <p class="tagline">%s</p>
        </header>

        <main>
            <p style="text-align: center; margin-bottom: 2rem;">
                <strong>Loading the interactive app...</strong>
            </p>

%s        </main>
    </div>
</body>
</html>`,
		siteName,
		featured,
		siteDomain,
		siteName,
		siteDescription,
		siteName,
		siteDomain,
		siteDomain,
		siteName,
		featured,
		siteDomain,
		siteDomain,
		string(ld),
		siteName,
		tagline,
		articles.String(),
	)

	return b.String(), nil
}
