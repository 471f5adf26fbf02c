// Package rpc maps JSON-RPC method names onto the marketplace services.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/verdano/creditmarket/internal/domain/events"
	"github.com/verdano/creditmarket/internal/domain/ledger"
	"github.com/verdano/creditmarket/internal/domain/market"
	"github.com/verdano/creditmarket/internal/domain/project"
	"github.com/verdano/creditmarket/internal/domain/token"
	"github.com/verdano/creditmarket/internal/payment"
	"github.com/verdano/creditmarket/internal/transport"
)

// Services bundles the domain services the handler dispatches to.
type Services struct {
	Projects *project.Service
	Ledger   *ledger.Service
	Market   *market.Service
	Tokens   *token.Service
	Wallet   *payment.Service
	Events   *events.Service
}

// Handler dispatches JSON-RPC methods to domain services.
type Handler struct {
	services Services
	logger   *slog.Logger
}

// NewHandler creates a new RPC handler.
func NewHandler(services Services, logger *slog.Logger) *Handler {
	return &Handler{services: services, logger: logger}
}

// Handle dispatches one method call on behalf of the resolved caller.
func (h *Handler) Handle(ctx context.Context, caller, method string, params json.RawMessage) (any, error) {
	switch method {
	case "createProject":
		return h.createProject(ctx, caller, params)
	case "getProject":
		return h.getProject(ctx, params)
	case "listProjects":
		return h.services.Projects.List(ctx)
	case "buyCredits":
		return h.buyCredits(ctx, caller, params)
	case "listCreditsForSale":
		return h.listCreditsForSale(ctx, caller, params)
	case "buyCreditsFromListing":
		return h.buyCreditsFromListing(ctx, caller, params)
	case "cancelListing":
		return h.cancelListing(ctx, caller, params)
	case "getListing":
		return h.getListing(ctx, params)
	case "listListings":
		return h.listListings(ctx, params)
	case "balanceOf":
		return h.balanceOf(ctx, params)
	case "addSupportedToken":
		return h.addSupportedToken(ctx, caller, params)
	case "isTokenSupported":
		return h.isTokenSupported(ctx, params)
	case "listSupportedTokens":
		return h.services.Tokens.List(ctx)
	case "deposit":
		return h.deposit(ctx, caller, params)
	case "walletBalance":
		return h.walletBalance(ctx, params)
	case "listEvents":
		return h.listEvents(ctx, params)
	default:
		return nil, fmt.Errorf("%w: %s", transport.ErrUnknownMethod, method)
	}
}

func decode[T any](params json.RawMessage) (T, error) {
	var req T
	if len(params) == 0 {
		return req, transport.ErrBadParams
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return req, fmt.Errorf("%w: %v", transport.ErrBadParams, err)
	}
	return req, nil
}

type createProjectParams struct {
	Name         string `json:"name"`
	TotalCredits int64  `json:"totalCredits"`
	CreditPrice  int64  `json:"creditPrice"`
}

func (h *Handler) createProject(ctx context.Context, caller string, params json.RawMessage) (any, error) {
	req, err := decode[createProjectParams](params)
	if err != nil {
		return nil, err
	}
	return h.services.Projects.Create(ctx, caller, project.CreateRequest{
		Name:         req.Name,
		TotalCredits: req.TotalCredits,
		CreditPrice:  req.CreditPrice,
	})
}

type projectIDParams struct {
	ProjectID int64 `json:"projectId"`
}

func (h *Handler) getProject(ctx context.Context, params json.RawMessage) (any, error) {
	req, err := decode[projectIDParams](params)
	if err != nil {
		return nil, err
	}
	return h.services.Projects.Get(ctx, req.ProjectID)
}

type buyCreditsParams struct {
	ProjectID int64  `json:"projectId"`
	Amount    int64  `json:"amount"`
	TokenID   string `json:"tokenId"`
}

type statusResult struct {
	Status string `json:"status"`
}

func (h *Handler) buyCredits(ctx context.Context, caller string, params json.RawMessage) (any, error) {
	req, err := decode[buyCreditsParams](params)
	if err != nil {
		return nil, err
	}
	if err := h.services.Market.BuyCredits(ctx, caller, req.ProjectID, req.Amount, req.TokenID); err != nil {
		return nil, err
	}
	return statusResult{Status: "ok"}, nil
}

type listCreditsParams struct {
	ProjectID int64 `json:"projectId"`
	Amount    int64 `json:"amount"`
	Price     int64 `json:"price"`
}

func (h *Handler) listCreditsForSale(ctx context.Context, caller string, params json.RawMessage) (any, error) {
	req, err := decode[listCreditsParams](params)
	if err != nil {
		return nil, err
	}
	return h.services.Market.ListCreditsForSale(ctx, caller, req.ProjectID, req.Amount, req.Price)
}

type buyFromListingParams struct {
	ListingID int64  `json:"listingId"`
	Amount    int64  `json:"amount"`
	TokenID   string `json:"tokenId"`
}

func (h *Handler) buyCreditsFromListing(ctx context.Context, caller string, params json.RawMessage) (any, error) {
	req, err := decode[buyFromListingParams](params)
	if err != nil {
		return nil, err
	}
	if err := h.services.Market.BuyFromListing(ctx, caller, req.ListingID, req.Amount, req.TokenID); err != nil {
		return nil, err
	}
	return statusResult{Status: "ok"}, nil
}

type listingIDParams struct {
	ListingID int64 `json:"listingId"`
}

func (h *Handler) cancelListing(ctx context.Context, caller string, params json.RawMessage) (any, error) {
	req, err := decode[listingIDParams](params)
	if err != nil {
		return nil, err
	}
	if err := h.services.Market.CancelListing(ctx, caller, req.ListingID); err != nil {
		return nil, err
	}
	return statusResult{Status: "ok"}, nil
}

func (h *Handler) getListing(ctx context.Context, params json.RawMessage) (any, error) {
	req, err := decode[listingIDParams](params)
	if err != nil {
		return nil, err
	}
	return h.services.Market.GetListing(ctx, req.ListingID)
}

type listListingsParams struct {
	ProjectID  *int64 `json:"projectId,omitempty"`
	ActiveOnly bool   `json:"activeOnly,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

func (h *Handler) listListings(ctx context.Context, params json.RawMessage) (any, error) {
	opts := market.ListOptions{}
	if len(params) > 0 {
		req, err := decode[listListingsParams](params)
		if err != nil {
			return nil, err
		}
		opts = market.ListOptions{
			ProjectID:  req.ProjectID,
			ActiveOnly: req.ActiveOnly,
			Limit:      req.Limit,
			Offset:     req.Offset,
		}
	}
	return h.services.Market.ListListings(ctx, opts)
}

type balanceOfParams struct {
	ProjectID int64  `json:"projectId"`
	Holder    string `json:"holder"`
}

type balanceResult struct {
	Balance int64 `json:"balance"`
}

func (h *Handler) balanceOf(ctx context.Context, params json.RawMessage) (any, error) {
	req, err := decode[balanceOfParams](params)
	if err != nil {
		return nil, err
	}
	balance, err := h.services.Ledger.BalanceOf(ctx, req.ProjectID, req.Holder)
	if err != nil {
		return nil, err
	}
	return balanceResult{Balance: balance}, nil
}

type tokenIDParams struct {
	TokenID string `json:"tokenId"`
}

func (h *Handler) addSupportedToken(ctx context.Context, caller string, params json.RawMessage) (any, error) {
	req, err := decode[tokenIDParams](params)
	if err != nil {
		return nil, err
	}
	if err := h.services.Tokens.Add(ctx, caller, req.TokenID); err != nil {
		return nil, err
	}
	return statusResult{Status: "ok"}, nil
}

type supportedResult struct {
	Supported bool `json:"supported"`
}

func (h *Handler) isTokenSupported(ctx context.Context, params json.RawMessage) (any, error) {
	req, err := decode[tokenIDParams](params)
	if err != nil {
		return nil, err
	}
	ok, err := h.services.Tokens.IsSupported(ctx, req.TokenID)
	if err != nil {
		return nil, err
	}
	return supportedResult{Supported: ok}, nil
}

type depositParams struct {
	TokenID string `json:"tokenId"`
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

func (h *Handler) deposit(ctx context.Context, caller string, params json.RawMessage) (any, error) {
	req, err := decode[depositParams](params)
	if err != nil {
		return nil, err
	}
	if err := h.services.Wallet.Deposit(ctx, caller, req.TokenID, req.Account, req.Amount); err != nil {
		return nil, err
	}
	return statusResult{Status: "ok"}, nil
}

type walletBalanceParams struct {
	TokenID string `json:"tokenId"`
	Account string `json:"account"`
}

func (h *Handler) walletBalance(ctx context.Context, params json.RawMessage) (any, error) {
	req, err := decode[walletBalanceParams](params)
	if err != nil {
		return nil, err
	}
	balance, err := h.services.Wallet.Balance(ctx, req.TokenID, req.Account)
	if err != nil {
		return nil, err
	}
	return balanceResult{Balance: balance}, nil
}

type listEventsParams struct {
	Type      *events.Type `json:"type,omitempty"`
	ProjectID *int64       `json:"projectId,omitempty"`
	ListingID *int64       `json:"listingId,omitempty"`
	Account   string       `json:"account,omitempty"`
	Limit     int          `json:"limit,omitempty"`
	Offset    int          `json:"offset,omitempty"`
}

func (h *Handler) listEvents(ctx context.Context, params json.RawMessage) (any, error) {
	opts := events.ListOptions{}
	if len(params) > 0 {
		req, err := decode[listEventsParams](params)
		if err != nil {
			return nil, err
		}
		opts = events.ListOptions{
			Type:      req.Type,
			ProjectID: req.ProjectID,
			ListingID: req.ListingID,
			Account:   req.Account,
			Limit:     req.Limit,
			Offset:    req.Offset,
		}
	}
	return h.services.Events.List(ctx, opts)
}
