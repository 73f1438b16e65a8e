package model_test

import (
	"testing"

	"marketplace/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

// 購入者遷移の全組み合わせ。表にない組は全部false。
func TestCanCustomerTransition_Matrix(t *testing.T) {
	all := []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusPaid,
		model.OrderStatusProcessing,
		model.OrderStatusShipped,
		model.OrderStatusCompleted,
		model.OrderStatusCancelled,
	}

	allowed := map[model.OrderStatus]map[model.OrderStatus]bool{
		model.OrderStatusPending:    {model.OrderStatusPaid: true, model.OrderStatusCancelled: true},
		model.OrderStatusPaid:       {model.OrderStatusCancelled: true},
		model.OrderStatusProcessing: {model.OrderStatusCompleted: true},
		model.OrderStatusShipped:    {model.OrderStatusCompleted: true},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			got := model.CanCustomerTransition(from, to)
			assert.Equalf(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestCanCustomerTransition_TerminalStates(t *testing.T) {
	//completed / cancelled からはどこへも動かせない
	for _, from := range []model.OrderStatus{model.OrderStatusCompleted, model.OrderStatusCancelled} {
		for _, to := range []model.OrderStatus{
			model.OrderStatusPending,
			model.OrderStatusPaid,
			model.OrderStatusProcessing,
			model.OrderStatusShipped,
			model.OrderStatusCompleted,
			model.OrderStatusCancelled,
		} {
			assert.Falsef(t, model.CanCustomerTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanVendorSet(t *testing.T) {
	assert.True(t, model.CanVendorSet(model.OrderStatusProcessing))
	assert.True(t, model.CanVendorSet(model.OrderStatusShipped))
	assert.True(t, model.CanVendorSet(model.OrderStatusCompleted))
	assert.True(t, model.CanVendorSet(model.OrderStatusCancelled))

	//支払い系はストア側から設定できない
	assert.False(t, model.CanVendorSet(model.OrderStatusPending))
	assert.False(t, model.CanVendorSet(model.OrderStatusPaid))
}
