package render

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"brucesays-backend/internal/domain"
	"brucesays-backend/internal/repository/memory"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSink records uploads keyed by object key.
type fakeSink struct {
	uploads map[string][]byte
	types   map[string]string
	err     error
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		uploads: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeSink) Upload(_ context.Context, key, contentType, _ string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.uploads[key] = body
	f.types[key] = contentType
	return nil
}

func newTestRenderer(t *testing.T) (*Renderer, *memory.Store, *fakeSink) {
	t.Helper()
	store := memory.NewStore()
	sink := newFakeSink()
	r := NewRenderer(store, sink, "bruce.example.com", zap.NewNop(), nil)
	r.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	return r, store, sink
}

func quoteImage(sk, text, createdAt string) map[string]events.DynamoDBAttributeValue {
	return map[string]events.DynamoDBAttributeValue{
		"PK":        events.NewStringAttribute(domain.Partition),
		"SK":        events.NewStringAttribute(sk),
		"quote":     events.NewStringAttribute(text),
		"createdAt": events.NewStringAttribute(createdAt),
	}
}

func insertRecord(image map[string]events.DynamoDBAttributeValue) events.DynamoDBEventRecord {
	return events.DynamoDBEventRecord{
		EventName: "INSERT",
		Change:    events.DynamoDBStreamRecord{NewImage: image},
	}
}

func TestHandleStream_RendersAllArtifacts(t *testing.T) {
	r, store, sink := newTestRenderer(t)
	quote := domain.NewQuote("01AAA", "A memorable saying", "2025-02-01T10:30:00Z")
	require.NoError(t, store.Put(context.Background(), quote))

	event := events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		insertRecord(quoteImage(quote.SK, quote.Text, quote.CreatedAt)),
	}}
	require.NoError(t, r.HandleStream(context.Background(), event))

	require.Contains(t, sink.uploads, "quote/01AAA.html")
	require.Contains(t, sink.uploads, "seo.html")
	require.Contains(t, sink.uploads, "sitemap.xml")
	assert.Equal(t, "text/html; charset=utf-8", sink.types["quote/01AAA.html"])
	assert.Equal(t, "text/html; charset=utf-8", sink.types["seo.html"])
	assert.Equal(t, "application/xml", sink.types["sitemap.xml"])

	page := string(sink.uploads["quote/01AAA.html"])
	assert.Contains(t, page, "A memorable saying")
	assert.Contains(t, page, "February 01, 2025 at 10:30:00")
	assert.Contains(t, page, "https://bruce.example.com/quote/01AAA.html")
	assert.Contains(t, page, "window.location.href = '/#01AAA';")

	seo := string(sink.uploads["seo.html"])
	assert.Contains(t, seo, `<blockquote cite="#01AAA">`)
	assert.Contains(t, seo, `"@type": "WebSite"`)
	assert.Contains(t, seo, `"numberOfItems": 1`)

	sitemap := string(sink.uploads["sitemap.xml"])
	assert.Contains(t, sitemap, "<loc>https://bruce.example.com/</loc>")
	assert.Contains(t, sitemap, "<loc>https://bruce.example.com/seo.html</loc>")
	assert.Contains(t, sitemap, "<loc>https://bruce.example.com/quote/01AAA.html</loc>")
	assert.Contains(t, sitemap, "<lastmod>2025-02-01</lastmod>")
}

func TestHandleStream_SkipsOtherRecords(t *testing.T) {
	r, _, sink := newTestRenderer(t)

	otherPartition := quoteImage("01BBB", "not a quote item", "2025-02-01T00:00:00Z")
	otherPartition["PK"] = events.NewStringAttribute("CONNECTION")

	event := events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		{EventName: "REMOVE", Change: events.DynamoDBStreamRecord{}},
		insertRecord(otherPartition),
		{EventName: "INSERT", Change: events.DynamoDBStreamRecord{}},
	}}
	require.NoError(t, r.HandleStream(context.Background(), event))
	assert.Empty(t, sink.uploads)
}

func TestHandleStream_ModifyIsRendered(t *testing.T) {
	r, store, sink := newTestRenderer(t)
	quote := domain.NewQuote("01CCC", "An updated saying here", "2025-02-02T08:00:00Z")
	require.NoError(t, store.Put(context.Background(), quote))

	record := insertRecord(quoteImage(quote.SK, quote.Text, quote.CreatedAt))
	record.EventName = "MODIFY"
	event := events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{record}}

	require.NoError(t, r.HandleStream(context.Background(), event))
	assert.Contains(t, sink.uploads, "quote/01CCC.html")
}

func TestHandleStream_IdempotentRendering(t *testing.T) {
	r, store, sink := newTestRenderer(t)
	quote := domain.NewQuote("01DDD", "Render me twice please", "2025-02-03T09:00:00Z")
	require.NoError(t, store.Put(context.Background(), quote))

	event := events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		insertRecord(quoteImage(quote.SK, quote.Text, quote.CreatedAt)),
	}}

	require.NoError(t, r.HandleStream(context.Background(), event))
	first := make(map[string][]byte, len(sink.uploads))
	for k, v := range sink.uploads {
		first[k] = append([]byte(nil), v...)
	}

	require.NoError(t, r.HandleStream(context.Background(), event))
	for key, body := range sink.uploads {
		assert.Equal(t, string(first[key]), string(body), "artifact %s must be byte-identical", key)
	}
}

func TestHandleStream_UploadFailureFailsBatch(t *testing.T) {
	r, store, sink := newTestRenderer(t)
	quote := domain.NewQuote("01EEE", "This upload will fail", "2025-02-04T09:00:00Z")
	require.NoError(t, store.Put(context.Background(), quote))
	sink.err = fmt.Errorf("bucket unreachable")

	event := events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{
		insertRecord(quoteImage(quote.SK, quote.Text, quote.CreatedAt)),
	}}
	assert.Error(t, r.HandleStream(context.Background(), event))
}

func TestQuotePage_EscapesMarkup(t *testing.T) {
	quote := domain.NewQuote("01FFF", `<script>alert("xss")</script>`, "2025-02-05T09:00:00Z")
	page := QuotePage(quote, "bruce.example.com")

	assert.NotContains(t, page, `<script>alert`)
	assert.Contains(t, page, "&lt;script&gt;alert(&quot;xss&quot;)&lt;/script&gt;")
}

func TestSEOPage_EscapesMarkup(t *testing.T) {
	quotes := []domain.Quote{
		domain.NewQuote("01GGG", `<img src=x onerror="alert(1)">`, "2025-02-06T09:00:00Z"),
	}
	page, err := SEOPage(quotes, "bruce.example.com")
	require.NoError(t, err)

	assert.NotContains(t, page, `<img src=x`)
	assert.Contains(t, page, "&lt;img src=x onerror=&quot;alert(1)&quot;&gt;")
}

func TestSEOPage_StructuredDataCap(t *testing.T) {
	quotes := make([]domain.Quote, 60)
	for i := range quotes {
		quotes[i] = domain.NewQuote(
			fmt.Sprintf("01H%03d", 60-i),
			fmt.Sprintf("numbered quote %d", i),
			"2025-02-07T09:00:00Z",
		)
	}
	page, err := SEOPage(quotes, "bruce.example.com")
	require.NoError(t, err)

	// All 60 quotes appear as articles, but structured data stops at 50.
	assert.Equal(t, 60, strings.Count(page, "<blockquote"))
	assert.Contains(t, page, `"numberOfItems": 60`)
	assert.Equal(t, 50, strings.Count(page, `"@type": "Quotation"`))
}

func TestMetaDescription_Truncation(t *testing.T) {
	short := strings.Repeat("a", 150)
	assert.Equal(t, short, metaDescription(short))

	long := strings.Repeat("b", 200)
	got := metaDescription(long)
	assert.Equal(t, 150, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "February 01, 2025 at 10:30:00", formatDate("2025-02-01T10:30:00Z"))
	// Unparsable input falls through untouched.
	assert.Equal(t, "not a date", formatDate("not a date"))
}
