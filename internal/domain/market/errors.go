package market

import "errors"

var (
	// ErrListingNotFound indicates the listing doesn't exist.
	ErrListingNotFound = errors.New("listing not found")
	// ErrListingInactive indicates the listing was already settled or cancelled.
	ErrListingInactive = errors.New("listing is not active")
	// ErrInvalidAmount indicates a zero amount, an amount exceeding the
	// project's available credits, or a fill not matching the listed amount.
	ErrInvalidAmount = errors.New("invalid credit amount")
	// ErrNotSeller indicates a cancel attempt by someone other than the seller.
	ErrNotSeller = errors.New("only the seller can cancel the listing")
	// ErrPaymentFailed indicates the external payment pull did not complete.
	ErrPaymentFailed = errors.New("payment failed")
)
