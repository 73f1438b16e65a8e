package model_test

import (
	"testing"

	"marketplace/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

func TestVendorStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, model.VendorStatusPending.CanTransitionTo(model.VendorStatusActive))
	assert.True(t, model.VendorStatusPending.CanTransitionTo(model.VendorStatusRejected))
	assert.True(t, model.VendorStatusActive.CanTransitionTo(model.VendorStatusRejected))
	//再申請
	assert.True(t, model.VendorStatusRejected.CanTransitionTo(model.VendorStatusPending))

	//承認の取り下げや即時再承認はできない
	assert.False(t, model.VendorStatusActive.CanTransitionTo(model.VendorStatusPending))
	assert.False(t, model.VendorStatusRejected.CanTransitionTo(model.VendorStatusActive))
	assert.False(t, model.VendorStatusPending.CanTransitionTo(model.VendorStatusPending))
}

func TestRegistrationStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, model.RegistrationStatusPending.CanTransitionTo(model.RegistrationStatusApproved))
	assert.True(t, model.RegistrationStatusPending.CanTransitionTo(model.RegistrationStatusRejected))

	//確定後は動かせない
	assert.False(t, model.RegistrationStatusApproved.CanTransitionTo(model.RegistrationStatusRejected))
	assert.False(t, model.RegistrationStatusRejected.CanTransitionTo(model.RegistrationStatusApproved))
	assert.False(t, model.RegistrationStatusRejected.CanTransitionTo(model.RegistrationStatusPending))
}
