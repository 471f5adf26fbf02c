package ledger

import "errors"

// ErrInsufficientBalance indicates a debit larger than the holding.
var ErrInsufficientBalance = errors.New("not enough credits")
