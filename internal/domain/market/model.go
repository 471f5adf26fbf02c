package market

import "time"

// Listing is a standing secondary-market offer. The listed amount is
// escrowed out of the seller's holding for the listing's whole lifetime
// and a listing fills only at its full amount.
type Listing struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Seller    string    `json:"seller"`
	Amount    int64     `json:"amount"`
	Price     int64     `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
