package model_test

import (
	"testing"

	"marketplace/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestDerivedPublishStatus(t *testing.T) {
	assert.Equal(t, model.PublishStatusActive, model.ApprovalStatusApproved.DerivedPublishStatus())
	assert.Equal(t, model.PublishStatusInactive, model.ApprovalStatusRejected.DerivedPublishStatus())
	assert.Equal(t, model.PublishStatusPending, model.ApprovalStatusPending.DerivedPublishStatus())
}

func TestProduct_Purchasable(t *testing.T) {
	p := model.Product{
		PublishStatus:  model.PublishStatusActive,
		ApprovalStatus: model.ApprovalStatusApproved,
	}

	assert.True(t, p.Purchasable(model.VendorStatusActive))

	//ストアがACTIVEでなければ承認済み商品でも買えない
	assert.False(t, p.Purchasable(model.VendorStatusPending))
	assert.False(t, p.Purchasable(model.VendorStatusRejected))

	notApproved := p
	notApproved.ApprovalStatus = model.ApprovalStatusPending
	assert.False(t, notApproved.Purchasable(model.VendorStatusActive))

	notPublic := p
	notPublic.PublishStatus = model.PublishStatusInactive
	assert.False(t, notPublic.Purchasable(model.VendorStatusActive))
}

func TestProduct_HasStock(t *testing.T) {
	stock := int64(3)
	p := model.Product{Stock: &stock}

	assert.True(t, p.HasStock(3))
	assert.False(t, p.HasStock(4))

	//nilは在庫管理なし＝常にOK
	unlimited := model.Product{Stock: nil}
	assert.True(t, unlimited.HasStock(1_000_000))
}

func TestProduct_CanResubmit(t *testing.T) {
	rejected := model.Product{
		ApprovalStatus: model.ApprovalStatusRejected,
		PublishStatus:  model.PublishStatusInactive,
	}
	assert.True(t, rejected.CanResubmit())

	hidden := model.Product{
		ApprovalStatus: model.ApprovalStatusApproved,
		PublishStatus:  model.PublishStatusInactive,
	}
	assert.True(t, hidden.CanResubmit())

	live := model.Product{
		ApprovalStatus: model.ApprovalStatusApproved,
		PublishStatus:  model.PublishStatusActive,
	}
	assert.False(t, live.CanResubmit())

	pending := model.Product{
		ApprovalStatus: model.ApprovalStatusPending,
		PublishStatus:  model.PublishStatusPending,
	}
	assert.False(t, pending.CanResubmit())
}
