package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"brucesays-backend/internal/domain"
	"brucesays-backend/internal/repository"
	appErrors "brucesays-backend/pkg/errors"
	"brucesays-backend/pkg/observability"
)

// CreateQuoteRequest is the expected body for a POST /quotes request.
type CreateQuoteRequest struct {
	Quote string `json:"quote"`
}

// CreateQuoteResponse is the body of a successful POST /quotes.
type CreateQuoteResponse struct {
	CreatedAt string `json:"createdAt"`
}

// WriteHandler validates and stores new quotes.
type WriteHandler struct {
	repo    repository.QuoteRepository
	ids     domain.IDGenerator
	now     func() time.Time
	metrics *observability.Metrics
}

// NewWriteHandler creates a write handler. now is injectable so tests can pin
// the stored timestamp; metrics may be nil.
func NewWriteHandler(repo repository.QuoteRepository, ids domain.IDGenerator, now func() time.Time, metrics *observability.Metrics) *WriteHandler {
	if now == nil {
		now = time.Now
	}
	return &WriteHandler{
		repo:    repo,
		ids:     ids,
		now:     now,
		metrics: metrics,
	}
}

// Handle parses the body, runs the validation pipeline, and persists the
// quote. Validation and parse failures are the caller's fault and answer 400;
// a storage failure propagates unhandled because a blind retry here would
// mint a new sort key and duplicate the quote.
func (h *WriteHandler) Handle(ctx context.Context, event Event) (Response, error) {
	body := event.Body
	if body == "" {
		body = "{}"
	}

	var req CreateQuoteRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid JSON"), nil
	}

	text, err := domain.ValidateQuote(strings.TrimSpace(req.Quote))
	if err != nil {
		return errorResponse(http.StatusBadRequest, appErrors.Message(err)), nil
	}

	createdAt := h.now().UTC().Format(time.RFC3339)
	quote := domain.NewQuote(h.ids.NewID(), text, createdAt)

	if err := h.repo.Put(ctx, quote); err != nil {
		return Response{}, err
	}

	h.metrics.RecordQuoteCreated()
	return jsonResponse(http.StatusCreated, CreateQuoteResponse{CreatedAt: createdAt}), nil
}
