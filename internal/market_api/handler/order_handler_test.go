package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/handoff"
	"github.com/starmarket-sakvta/starmarket.api/internal/domain/order"
	settlement "github.com/starmarket-sakvta/starmarket.api/internal/settlement/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderRouter(svc *MockLifecycleService) http.Handler {
	h := NewOrderHandler(newTestLogger(), svc)
	router := setupTestRouter()
	router.GET("/orders/:id", h.ListByParticipant)
	router.GET("/order/:id", h.GetByID)
	router.PUT("/order/confirm/:id", h.Confirm)
	router.PUT("/order/complete/:id", h.Complete)
	router.PUT("/order/cancel/:id", h.Cancel)
	return router
}

func orderIn(status order.Status) *order.Order {
	o := order.NewOrder(uuid.New(), "31337", "buyer", "seller", 40)
	o.Status = status
	return o
}

func TestOrderHandler_ListByParticipant(t *testing.T) {
	mockService := new(MockLifecycleService)
	orders := []*order.Order{orderIn(order.StatusPending), orderIn(order.StatusCompleted)}
	mockService.On("ListByParticipant", mock.Anything, "buyer").Return(orders, nil)

	rr := perform(newOrderRouter(mockService), http.MethodGet, "/orders/buyer", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got []*order.Order
	decode(t, rr, &got)
	assert.Len(t, got, 2)
}

func TestOrderHandler_GetByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockLifecycleService)
		o := orderIn(order.StatusPending)
		mockService.On("Get", mock.Anything, o.ID).Return(o, nil)

		rr := perform(newOrderRouter(mockService), http.MethodGet, "/order/"+o.ID.String(), nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got order.Order
		decode(t, rr, &got)
		assert.Equal(t, o.ID, got.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockLifecycleService)
		id := uuid.New()
		mockService.On("Get", mock.Anything, id).Return(nil, order.ErrOrderNotFound{OrderID: id})

		rr := perform(newOrderRouter(mockService), http.MethodGet, "/order/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, codeNotFound, decode(t, rr, nil).Error.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockLifecycleService)

		rr := perform(newOrderRouter(mockService), http.MethodGet, "/order/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_Confirm(t *testing.T) {
	t.Run("HandoffRequested", func(t *testing.T) {
		mockService := new(MockLifecycleService)
		o := orderIn(order.StatusWaitingConfirmation)
		mockService.On("Confirm", mock.Anything, mock.MatchedBy(func(req *settlement.TransitionRequest) bool {
			return req.OrderID == o.ID
		})).Return(&settlement.ConfirmResult{
			Order:   o,
			Handoff: handoff.Outcome{Requested: true, TradeOfferID: "5551234"},
		}, nil)

		rr := perform(newOrderRouter(mockService), http.MethodPut, "/order/confirm/"+o.ID.String(), nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got ConfirmResponse
		decode(t, rr, &got)
		assert.Equal(t, "Order confirmed", got.Message)
		require.NotNil(t, got.Order)
		assert.Equal(t, order.StatusWaitingConfirmation, got.Order.Status)
		assert.True(t, got.Handoff.Requested)
		assert.Equal(t, "5551234", got.Handoff.TradeOfferID)
	})

	t.Run("GatewayFailureStillConfirms", func(t *testing.T) {
		mockService := new(MockLifecycleService)
		o := orderIn(order.StatusWaitingConfirmation)
		mockService.On("Confirm", mock.Anything, mock.Anything).Return(&settlement.ConfirmResult{
			Order:   o,
			Handoff: handoff.Outcome{Requested: true, Error: "create offer failed: status 502"},
		}, nil)

		rr := perform(newOrderRouter(mockService), http.MethodPut, "/order/confirm/"+o.ID.String(), nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got ConfirmResponse
		decode(t, rr, &got)
		assert.Equal(t, "create offer failed: status 502", got.Handoff.Error)
	})

	t.Run("CanceledOrder", func(t *testing.T) {
		mockService := new(MockLifecycleService)
		id := uuid.New()
		mockService.On("Confirm", mock.Anything, mock.Anything).Return(nil, order.ErrInvalidTransition{
			OrderID: id, From: order.StatusCanceled, To: order.StatusWaitingConfirmation,
		})

		rr := perform(newOrderRouter(mockService), http.MethodPut, "/order/confirm/"+id.String(), nil)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, codeConflict, decode(t, rr, nil).Error.Code)
	})
}

func TestOrderHandler_CompleteAndCancel(t *testing.T) {
	t.Run("Complete", func(t *testing.T) {
		mockService := new(MockLifecycleService)
		o := orderIn(order.StatusCompleted)
		mockService.On("Complete", mock.Anything, mock.Anything).Return(o, nil)

		rr := perform(newOrderRouter(mockService), http.MethodPut, "/order/complete/"+o.ID.String(), nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got order.Order
		decode(t, rr, &got)
		assert.Equal(t, order.StatusCompleted, got.Status)
	})

	t.Run("CancelAfterConfirm", func(t *testing.T) {
		mockService := new(MockLifecycleService)
		id := uuid.New()
		mockService.On("Cancel", mock.Anything, mock.Anything).Return(nil, order.ErrInvalidTransition{
			OrderID: id, From: order.StatusWaitingConfirmation, To: order.StatusCanceled,
		})

		rr := perform(newOrderRouter(mockService), http.MethodPut, "/order/cancel/"+id.String(), nil)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}
