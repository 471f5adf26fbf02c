package events

import "time"

// Type identifies a marketplace event kind.
type Type string

const (
	TypeProjectCreated   Type = "project_created"
	TypeCreditsBought    Type = "credits_bought"
	TypeCreditsListed    Type = "credits_listed"
	TypeListingSold      Type = "listing_sold"
	TypeListingCancelled Type = "listing_cancelled"
	TypeTokenAdded       Type = "token_added"
)

// Event is one notification emitted after a successful mutation.
// Events are best-effort observability for off-chain indexers; the
// marketplace state is authoritative.
type Event struct {
	ID        int64     `json:"id"`
	Type      Type      `json:"type"`
	ProjectID int64     `json:"project_id,omitempty"`
	ListingID int64     `json:"listing_id,omitempty"`
	Account   string    `json:"account,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Price     int64     `json:"price,omitempty"`
	TokenID   string    `json:"token_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ListOptions provides filtering options for listing events.
type ListOptions struct {
	Type      *Type
	ProjectID *int64
	ListingID *int64
	Account   string
	Limit     int
	Offset    int
}
