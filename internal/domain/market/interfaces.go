package market

import "context"

// ListingRepository provides persistence for listings and the compound
// mutations that move escrowed credits. CreateEscrow, Settle and Cancel
// are each atomic: the listing row and the affected holding change
// together or not at all.
type ListingRepository interface {
	// CreateEscrow debits amount from the seller's holding and inserts the
	// listing in one transaction, setting l.ID on success.
	CreateEscrow(ctx context.Context, l *Listing) error
	Get(ctx context.Context, id int64) (*Listing, error)
	// List returns listings, optionally filtered to one project and to
	// active listings only.
	List(ctx context.Context, opts ListOptions) ([]Listing, error)
	// Settle deactivates an active listing and credits its amount to the
	// buyer's holding in one transaction.
	Settle(ctx context.Context, id int64, buyer string) error
	// Cancel deactivates an active listing and returns its amount to the
	// seller's holding in one transaction.
	Cancel(ctx context.Context, id int64) error
}

// ListOptions provides filtering options for listing queries.
type ListOptions struct {
	ProjectID  *int64
	ActiveOnly bool
	Limit      int
	Offset     int
}

// PaymentGateway pulls payment from a buyer's external token balance.
// The pull is all-or-nothing and is sequenced strictly before any local
// state mutation.
type PaymentGateway interface {
	Pull(ctx context.Context, tokenID, from, to string, amount int64) error
}
