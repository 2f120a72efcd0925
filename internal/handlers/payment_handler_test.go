package handlers

import (
	"encoding/json"
	"testing"

	"github.com/nimasrn/chit-ledger/internal/model"
	"github.com/nimasrn/chit-ledger/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPaymentHandler_RecordPayment(t *testing.T) {
	t.Run("partial payment", func(t *testing.T) {
		svc := new(MockPaymentService)
		handler := NewPaymentHandler(svc)
		svc.On("RecordPayment", mock.Anything, mock.MatchedBy(func(p model.PaymentRequest) bool {
			return p.DueID == "d1" && p.Amount == 1000 && p.Channel == "upi"
		})).Return(&model.Due{ID: "d1", AmountDue: 2400, AmountPaid: 1000, Status: model.DueStatusPartial}, nil)

		ctx := setupTestContext("POST", "/api/v1/payments", []byte(`{"due_id":"d1","amount":1000,"channel":"upi"}`))
		handler.RecordPayment(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())
		var due model.Due
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &due))
		assert.Equal(t, model.DueStatusPartial, due.Status)
		svc.AssertExpectations(t)
	})

	t.Run("overpayment", func(t *testing.T) {
		svc := new(MockPaymentService)
		handler := NewPaymentHandler(svc)
		svc.On("RecordPayment", mock.Anything, mock.Anything).Return(nil, services.ErrOverpayment)

		ctx := setupTestContext("POST", "/api/v1/payments", []byte(`{"due_id":"d1","amount":99999}`))
		handler.RecordPayment(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("unknown due", func(t *testing.T) {
		svc := new(MockPaymentService)
		handler := NewPaymentHandler(svc)
		svc.On("RecordPayment", mock.Anything, mock.Anything).Return(nil, services.ErrDueNotFound)

		ctx := setupTestContext("POST", "/api/v1/payments", []byte(`{"due_id":"nope","amount":1}`))
		handler.RecordPayment(ctx)

		assert.Equal(t, 404, ctx.Response.StatusCode())
	})
}

func TestPaymentHandler_MarkReceiptSent(t *testing.T) {
	svc := new(MockPaymentService)
	handler := NewPaymentHandler(svc)
	svc.On("MarkReceiptSent", mock.Anything, "d1").Return(nil)

	ctx := setupTestContext("POST", "/api/v1/dues/d1/receipt", nil, "id", "d1")
	handler.MarkReceiptSent(ctx)

	assert.Equal(t, 204, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}

func TestPaymentHandler_RecordOperationalCost(t *testing.T) {
	svc := new(MockPaymentService)
	handler := NewPaymentHandler(svc)
	svc.On("RecordOperationalCost", mock.Anything, "g1", int64(500), "stationery").
		Return(&model.LedgerEntry{ID: "l1", Kind: model.LedgerKindOperationalCost, Amount: 500}, nil)

	ctx := setupTestContext("POST", "/api/v1/groups/g1/costs", []byte(`{"amount":500,"note":"stationery"}`), "id", "g1")
	handler.RecordOperationalCost(ctx)

	assert.Equal(t, 201, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}
