// Package domain contains the core types and rules for stored quotes.
package domain

// Partition is the fixed partition key shared by every quote. All quotes live
// in a single logical collection so one ordered range query can page through
// them newest-first.
const Partition = "QUOTE"

// Quote is the sole persisted entity. SK is a ULID, so lexicographic order on
// it follows wall-clock creation order.
type Quote struct {
	PK        string `json:"PK" dynamodbav:"PK"`
	SK        string `json:"SK" dynamodbav:"SK"`
	Text      string `json:"quote" dynamodbav:"quote"`
	CreatedAt string `json:"createdAt" dynamodbav:"createdAt"`
}

// NewQuote builds a quote for the shared partition. Text must already be
// validated and normalized.
func NewQuote(sk, text, createdAt string) Quote {
	return Quote{
		PK:        Partition,
		SK:        sk,
		Text:      text,
		CreatedAt: createdAt,
	}
}
