// Package repository defines the storage gateway contract for quotes. The
// concrete DynamoDB implementation lives in infrastructure/dynamodb; an
// in-memory implementation backs tests and local development.
package repository

import (
	"context"
	"encoding/json"

	"brucesays-backend/internal/domain"
)

const (
	// DefaultLimit is used when the caller supplies no page size or an
	// unparsable one.
	DefaultLimit = 10
	// MinLimit and MaxLimit clamp requested page sizes.
	MinLimit = 1
	MaxLimit = 200
)

// Cursor is the opaque continuation token for a paginated scan: the last key
// pair returned by a query. It must be passed back unmodified to resume.
type Cursor struct {
	PK string `json:"PK"`
	SK string `json:"SK"`
}

// DecodeCursor parses a JSON-encoded cursor from a query parameter. Malformed
// or empty input degrades to nil (first page), never an error; pagination
// should degrade gracefully rather than break a read.
func DecodeCursor(raw string) *Cursor {
	if raw == "" {
		return nil
	}
	var c Cursor
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil
	}
	if c.PK == "" || c.SK == "" {
		return nil
	}
	return &c
}

// ClampLimit forces a requested page size into [MinLimit, MaxLimit].
func ClampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// QuoteRepository is the storage gateway. Query returns up to limit quotes
// ordered by sort key descending (newest first), resuming after startAfter
// when given, plus a cursor for the next page or nil when the scan is
// exhausted. Put is an unconditional single-item insert; the sort key is
// generator-unique so no overwrite protection is needed.
type QuoteRepository interface {
	Query(ctx context.Context, limit int, startAfter *Cursor) ([]domain.Quote, *Cursor, error)
	Put(ctx context.Context, quote domain.Quote) error
}
