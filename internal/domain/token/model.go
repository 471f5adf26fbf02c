package token

import "time"

// SupportedToken is a payment asset accepted for credit purchases.
type SupportedToken struct {
	TokenID string    `json:"token_id"`
	AddedAt time.Time `json:"added_at"`
}
