package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/account"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/ledger"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/listing"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/profile"
	"github.com/starmarket-sakvta/starmarket.api/internal/inventory"
	"github.com/starmarket-sakvta/starmarket.api/internal/market_api/service"
	settlement "github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
	"github.com/starmarket-sakvta/starmarket.api/internal/tradeoffer"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// perform sends body (nil for none) as JSON and returns the recorder
func perform(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	return performWithHeader(r, method, path, body, "", "")
}

func performWithHeader(r http.Handler, method, path string, body interface{}, header, value string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewBuffer(payload)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set(header, value)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals the envelope and, when out is not nil, its data field into out
func decode(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) Response {
	t.Helper()
	var envelope struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Response
}

type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, req *settlement.BuyRequest) (*settlement.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Result), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBalance(ctx context.Context, steamID string) (*account.Statement, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Statement), args.Error(1)
}

func (m *MockLedgerService) Deposit(ctx context.Context, req *settlement.FundsRequest) (*settlement.FundsResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.FundsResult), args.Error(1)
}

func (m *MockLedgerService) RequestWithdrawal(ctx context.Context, req *settlement.FundsRequest) (*settlement.FundsResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.FundsResult), args.Error(1)
}

func (m *MockLedgerService) AuditTrail(ctx context.Context, steamID string, page, perPage int) ([]*ledger.Entry, int64, error) {
	args := m.Called(ctx, steamID, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ledger.Entry), args.Get(1).(int64), args.Error(2)
}

type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) Confirm(ctx context.Context, req *settlement.TransitionRequest) (*settlement.ConfirmResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.ConfirmResult), args.Error(1)
}

func (m *MockLifecycleService) Complete(ctx context.Context, req *settlement.TransitionRequest) (*order.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockLifecycleService) Cancel(ctx context.Context, req *settlement.TransitionRequest) (*order.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockLifecycleService) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockLifecycleService) ListByParticipant(ctx context.Context, steamID string) ([]*order.Order, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Publish(ctx context.Context, req *service.PublishRequest) (*listing.Listing, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingService) ChangePrice(ctx context.Context, assetID string, price int64) (*listing.Listing, error) {
	args := m.Called(ctx, assetID, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*listing.Listing), args.Error(1)
}

func (m *MockListingService) Remove(ctx context.Context, assetID string) error {
	args := m.Called(ctx, assetID)
	return args.Error(0)
}

func (m *MockListingService) ListMarket(ctx context.Context) ([]*listing.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

func (m *MockListingService) ListSelling(ctx context.Context, ownerID string) ([]*listing.Listing, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*listing.Listing), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Get(ctx context.Context, steamID string) (*profile.Profile, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, u profile.Update) (*profile.Profile, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profile.Profile), args.Error(1)
}

func (m *MockProfileService) SaveSession(ctx context.Context, s *profile.SteamSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type MockTradeService struct {
	mock.Mock
}

func (m *MockTradeService) CreateTrade(ctx context.Context, req *tradeoffer.TradeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockTradeService) CreateOffer(ctx context.Context, req handoff.Request, correlationID string) (*handoff.Result, error) {
	args := m.Called(ctx, req, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*handoff.Result), args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) Get(ctx context.Context, steamID string) (json.RawMessage, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockInventoryService) Invalidate(steamID string) bool {
	args := m.Called(steamID)
	return args.Bool(0)
}

func (m *MockInventoryService) ScanTradeBans(ctx context.Context, steamID string) (*inventory.Snapshot, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Snapshot), args.Error(1)
}
