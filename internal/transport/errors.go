package transport

import (
	"errors"

	"github.com/verdano/creditmarket/internal/domain/ledger"
	"github.com/verdano/creditmarket/internal/domain/market"
	"github.com/verdano/creditmarket/internal/domain/project"
	"github.com/verdano/creditmarket/internal/domain/token"
	"github.com/verdano/creditmarket/internal/payment"
)

// ClassifyError maps a domain error to a JSON-RPC error code and a stable
// kind string carried in the error's data field, so clients can branch on
// the failure without parsing messages.
func ClassifyError(err error) (int, string) {
	switch {
	case errors.Is(err, project.ErrNotFound), errors.Is(err, market.ErrListingNotFound):
		return ErrCodeNotFound, "NotFound"
	case errors.Is(err, project.ErrInvalidAmount), errors.Is(err, market.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidAmount):
		return ErrCodeInvalidAmount, "InvalidAmount"
	case errors.Is(err, project.ErrInvalidPrice):
		return ErrCodeInvalidAmount, "InvalidPrice"
	case errors.Is(err, token.ErrUnauthorized), errors.Is(err, market.ErrNotSeller),
		errors.Is(err, payment.ErrUnauthorized), errors.Is(err, ErrUnauthorized):
		return ErrCodeUnauthorized, "Unauthorized"
	case errors.Is(err, token.ErrNotSupported), errors.Is(err, token.ErrInvalidToken):
		return ErrCodeUnsupported, "Unsupported"
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return ErrCodeInsufficient, "InsufficientBalance"
	case errors.Is(err, market.ErrListingInactive):
		return ErrCodeInactive, "Inactive"
	case errors.Is(err, market.ErrPaymentFailed):
		return ErrCodePayment, "PaymentFailed"
	case errors.Is(err, ErrUnknownMethod):
		return ErrMethodNotFound, "MethodNotFound"
	case errors.Is(err, ErrBadParams):
		return ErrInvalidParams, "InvalidParams"
	default:
		return ErrInternal, "Internal"
	}
}

// Dispatch sentinels used by the RPC handler.
var (
	ErrUnknownMethod = errors.New("method not found")
	ErrBadParams     = errors.New("invalid params")
)
