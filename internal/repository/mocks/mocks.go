package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/verdano/creditmarket/internal/domain/events"
	"github.com/verdano/creditmarket/internal/domain/market"
	"github.com/verdano/creditmarket/internal/domain/project"
	"github.com/verdano/creditmarket/internal/domain/token"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) (int64, error) {
	args := m.Called(ctx, proj)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProjectRepository) Get(ctx context.Context, id int64) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Summary, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ApplySale(ctx context.Context, projectID int64, buyer string, amount int64) error {
	args := m.Called(ctx, projectID, buyer, amount)
	return args.Error(0)
}

// LedgerRepository is a mock for ledger.Repository.
type LedgerRepository struct {
	mock.Mock
}

func (m *LedgerRepository) BalanceOf(ctx context.Context, projectID int64, holder string) (int64, error) {
	args := m.Called(ctx, projectID, holder)
	return args.Get(0).(int64), args.Error(1)
}

func (m *LedgerRepository) Credit(ctx context.Context, projectID int64, holder string, amount int64) error {
	args := m.Called(ctx, projectID, holder, amount)
	return args.Error(0)
}

func (m *LedgerRepository) Debit(ctx context.Context, projectID int64, holder string, amount int64) error {
	args := m.Called(ctx, projectID, holder, amount)
	return args.Error(0)
}

// ListingRepository is a mock for market.ListingRepository.
type ListingRepository struct {
	mock.Mock
}

func (m *ListingRepository) CreateEscrow(ctx context.Context, l *market.Listing) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *ListingRepository) Get(ctx context.Context, id int64) (*market.Listing, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*market.Listing); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListingRepository) List(ctx context.Context, opts market.ListOptions) ([]market.Listing, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]market.Listing); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListingRepository) Settle(ctx context.Context, id int64, buyer string) error {
	args := m.Called(ctx, id, buyer)
	return args.Error(0)
}

func (m *ListingRepository) Cancel(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TokenRepository is a mock for token.Repository.
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) Add(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *TokenRepository) IsSupported(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *TokenRepository) List(ctx context.Context) ([]token.SupportedToken, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]token.SupportedToken); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// WalletRepository is a mock for payment.WalletRepository.
type WalletRepository struct {
	mock.Mock
}

func (m *WalletRepository) BalanceOf(ctx context.Context, tokenID, account string) (int64, error) {
	args := m.Called(ctx, tokenID, account)
	return args.Get(0).(int64), args.Error(1)
}

func (m *WalletRepository) Deposit(ctx context.Context, tokenID, account string, amount int64) error {
	args := m.Called(ctx, tokenID, account, amount)
	return args.Error(0)
}

func (m *WalletRepository) Transfer(ctx context.Context, tokenID, from, to string, amount int64) error {
	args := m.Called(ctx, tokenID, from, to, amount)
	return args.Error(0)
}

// EventRepository is a mock for events.Repository.
type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) Append(ctx context.Context, ev *events.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *EventRepository) List(ctx context.Context, opts events.ListOptions) ([]events.Event, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]events.Event); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// PaymentGateway is a mock for market.PaymentGateway.
type PaymentGateway struct {
	mock.Mock
}

func (m *PaymentGateway) Pull(ctx context.Context, tokenID, from, to string, amount int64) error {
	args := m.Called(ctx, tokenID, from, to, amount)
	return args.Error(0)
}

// EventRecorder is a mock for events.Recorder.
type EventRecorder struct {
	mock.Mock
}

func (m *EventRecorder) Record(ctx context.Context, ev events.Event) {
	m.Called(ctx, ev)
}
