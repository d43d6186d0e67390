package api

import (
	"context"
	"net/http"
	"strconv"

	"brucesays-backend/internal/domain"
	"brucesays-backend/internal/repository"
)

// QuoteItem is the API representation of a stored quote.
type QuoteItem struct {
	Quote     string `json:"quote"`
	CreatedAt string `json:"createdAt"`
	SK        string `json:"SK"`
}

// PageResponse is the body of a successful GET /quotes.
type PageResponse struct {
	Items  []QuoteItem        `json:"items"`
	Cursor *repository.Cursor `json:"cursor"`
}

// ReadHandler serves paginated quotes newest-first.
type ReadHandler struct {
	repo         repository.QuoteRepository
	defaultLimit int
}

// NewReadHandler creates a read handler with the configured default page size.
func NewReadHandler(repo repository.QuoteRepository, defaultLimit int) *ReadHandler {
	return &ReadHandler{
		repo:         repo,
		defaultLimit: defaultLimit,
	}
}

// Handle reads limit and cursor from the query string, clamps them, and
// queries the repository. Non-numeric limits fall back to the default and
// unparsable cursors degrade to the first page; neither is an error.
func (h *ReadHandler) Handle(ctx context.Context, event Event) (Response, error) {
	qs := event.QueryStringParameters

	limit := h.defaultLimit
	if raw, ok := qs["limit"]; ok {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	limit = repository.ClampLimit(limit)

	cursor := repository.DecodeCursor(qs["cursor"])

	items, next, err := h.repo.Query(ctx, limit, cursor)
	if err != nil {
		return Response{}, err
	}

	return jsonResponse(http.StatusOK, PageResponse{
		Items:  toItems(items),
		Cursor: next,
	}), nil
}

func toItems(quotes []domain.Quote) []QuoteItem {
	items := make([]QuoteItem, len(quotes))
	for i, q := range quotes {
		items[i] = QuoteItem{
			Quote:     q.Text,
			CreatedAt: q.CreatedAt,
			SK:        q.SK,
		}
	}
	return items
}
