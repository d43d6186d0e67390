// Package memory provides an in-memory QuoteRepository used by unit tests and
// the local dev server. It mirrors the DynamoDB gateway's pagination
// semantics: descending sort-key order, exclusive resume after a cursor, and
// a next cursor only while more items remain.
package memory

import (
	"context"
	"sort"
	"sync"

	"brucesays-backend/internal/domain"
	"brucesays-backend/internal/repository"
)

// Store is a thread-safe in-memory quote store.
type Store struct {
	mu     sync.RWMutex
	quotes []domain.Quote // kept sorted by SK ascending
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Put inserts a quote, keeping the collection sorted by sort key.
func (s *Store) Put(_ context.Context, quote domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.quotes), func(i int) bool {
		return s.quotes[i].SK >= quote.SK
	})
	s.quotes = append(s.quotes, domain.Quote{})
	copy(s.quotes[i+1:], s.quotes[i:])
	s.quotes[i] = quote
	return nil
}

// Query returns up to limit quotes newest-first, resuming strictly after
// startAfter when given.
func (s *Store) Query(_ context.Context, limit int, startAfter *repository.Cursor) ([]domain.Quote, *repository.Cursor, error) {
	limit = repository.ClampLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Walk from the newest entry downward.
	start := len(s.quotes) - 1
	if startAfter != nil {
		// Resume below the cursor's sort key.
		start = sort.Search(len(s.quotes), func(i int) bool {
			return s.quotes[i].SK >= startAfter.SK
		}) - 1
	}

	items := make([]domain.Quote, 0, limit)
	i := start
	for ; i >= 0 && len(items) < limit; i-- {
		items = append(items, s.quotes[i])
	}

	if i < 0 || len(items) == 0 {
		return items, nil, nil
	}
	last := items[len(items)-1]
	return items, &repository.Cursor{PK: last.PK, SK: last.SK}, nil
}

// Len reports the number of stored quotes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes)
}

var _ repository.QuoteRepository = (*Store)(nil)
