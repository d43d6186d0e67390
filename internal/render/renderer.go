// Package render is the change-feed renderer: it consumes DynamoDB stream
// records for quote writes and produces static artifacts (single-quote page,
// aggregate SEO page, sitemap) in an object-storage sink. Rendering is
// idempotent, so at-least-once delivery needs no deduplication.
package render

import (
	"context"
	"strconv"
	"time"

	"brucesays-backend/internal/domain"
	"brucesays-backend/internal/repository"
	appErrors "brucesays-backend/pkg/errors"
	"brucesays-backend/pkg/observability"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Sink is the object-storage destination for rendered artifacts.
type Sink interface {
	Upload(ctx context.Context, key, contentType, cacheControl string, body []byte) error
}

// artifactCacheControl lets edges cache the static pages for a day; a
// re-render overwrites the object anyway.
const artifactCacheControl = "public, max-age=86400"

// Renderer turns change-feed records into uploaded artifacts.
type Renderer struct {
	repo    repository.QuoteRepository
	sink    Sink
	domain  string
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// NewRenderer creates a renderer publishing under the given public domain.
// metrics may be nil.
func NewRenderer(repo repository.QuoteRepository, sink Sink, siteDomain string, logger *zap.Logger, metrics *observability.Metrics) *Renderer {
	return &Renderer{
		repo:    repo,
		sink:    sink,
		domain:  siteDomain,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// HandleStream is the Lambda handler for the quote table's stream. Any
// failure fails the whole batch so the platform redrives it; rendering the
// same record again is harmless.
func (r *Renderer) HandleStream(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if record.EventName != "INSERT" && record.EventName != "MODIFY" {
			continue
		}

		quote, ok := quoteFromImage(record.Change.NewImage)
		if !ok {
			continue
		}

		r.logger.Info("rendering quote",
			zap.String("event", record.EventName),
			zap.String("sk", quote.SK),
		)
		if err := r.RenderQuotePage(ctx, quote); err != nil {
			return err
		}
		if err := r.RenderCollection(ctx); err != nil {
			return err
		}
	}
	return nil
}

// decodeImage flattens the stream record's tagged attribute values into plain
// Go values. Only the tags the table actually uses are decoded.
func decodeImage(image map[string]events.DynamoDBAttributeValue) map[string]interface{} {
	values := make(map[string]interface{}, len(image))
	for key, attr := range image {
		switch attr.DataType() {
		case events.DataTypeString:
			values[key] = attr.String()
		case events.DataTypeNumber:
			if f, err := strconv.ParseFloat(attr.Number(), 64); err == nil {
				values[key] = f
			}
		case events.DataTypeBinary:
			values[key] = attr.Binary()
		}
	}
	return values
}

// quoteFromImage decodes a new image into a quote, reporting false for
// records outside the quotes partition or missing required fields.
func quoteFromImage(image map[string]events.DynamoDBAttributeValue) (domain.Quote, bool) {
	if len(image) == 0 {
		return domain.Quote{}, false
	}
	values := decodeImage(image)

	pk, _ := values["PK"].(string)
	if pk != domain.Partition {
		return domain.Quote{}, false
	}
	sk, _ := values["SK"].(string)
	text, _ := values["quote"].(string)
	createdAt, _ := values["createdAt"].(string)
	if sk == "" || text == "" {
		return domain.Quote{}, false
	}

	return domain.Quote{PK: pk, SK: sk, Text: text, CreatedAt: createdAt}, true
}

// RenderQuotePage renders and uploads the static page for a single quote.
func (r *Renderer) RenderQuotePage(ctx context.Context, quote domain.Quote) error {
	page := QuotePage(quote, r.domain)
	key := "quote/" + quote.SK + ".html"
	if err := r.sink.Upload(ctx, key, "text/html; charset=utf-8", artifactCacheControl, []byte(page)); err != nil {
		return appErrors.Wrap(err, "failed to upload quote page")
	}
	r.metrics.RecordPageRendered("quote")
	r.logger.Info("generated quote page", zap.String("key", key))
	return nil
}

// RenderCollection re-fetches every stored quote and uploads the aggregate
// SEO page and the sitemap. With no quotes stored there is nothing to
// publish.
func (r *Renderer) RenderCollection(ctx context.Context) error {
	quotes, err := r.fetchAll(ctx)
	if err != nil {
		return err
	}
	if len(quotes) == 0 {
		r.logger.Info("no quotes found for SEO page")
		return nil
	}

	seo, err := SEOPage(quotes, r.domain)
	if err != nil {
		return appErrors.NewRender("failed to render SEO page", err)
	}
	if err := r.sink.Upload(ctx, "seo.html", "text/html; charset=utf-8", artifactCacheControl, []byte(seo)); err != nil {
		return appErrors.Wrap(err, "failed to upload SEO page")
	}
	r.metrics.RecordPageRendered("seo")

	sitemap := Sitemap(quotes, r.domain, r.now().UTC())
	if err := r.sink.Upload(ctx, "sitemap.xml", "application/xml", artifactCacheControl, []byte(sitemap)); err != nil {
		return appErrors.Wrap(err, "failed to upload sitemap")
	}
	r.metrics.RecordPageRendered("sitemap")

	r.logger.Info("generated SEO page and sitemap", zap.Int("quotes", len(quotes)))
	return nil
}

// fetchAll pages through the entire collection newest-first.
func (r *Renderer) fetchAll(ctx context.Context) ([]domain.Quote, error) {
	var quotes []domain.Quote
	var cursor *repository.Cursor
	for {
		items, next, err := r.repo.Query(ctx, repository.MaxLimit, cursor)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, items...)
		if next == nil {
			return quotes, nil
		}
		cursor = next
	}
}
