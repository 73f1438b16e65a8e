package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// ストア側からの注文操作。
type VendorOrderUsecase struct {
	tx         repo.TransactionManager
	vendorRepo repo.VendorRepository
}

func NewVendorOrderUsecase(tx repo.TransactionManager, vendorRepo repo.VendorRepository) *VendorOrderUsecase {
	return &VendorOrderUsecase{tx: tx, vendorRepo: vendorRepo}
}

type VendorUpdateOrderStatusInput struct {
	Status string
	//PROCESSINGのときだけ意味を持つ受け取り場所メモ
	PickupNote string
}

func (u *VendorOrderUsecase) List(ctx context.Context, actorUserID int64, page int, limit int) ([]OrderOutput, error) {
	if actorUserID <= 0 {
		return []OrderOutput{}, errUnauthorized()
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	vendor, err := u.actingVendor(ctx, actorUserID)
	if err != nil {
		return []OrderOutput{}, err
	}

	var outs []OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByVendorID(ctx, vendor.ID, page, limit)
		if err != nil {
			return errInternal()
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return errInternal()
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// ストアによるステータス設定。
// 設定できる値は遷移表（CanVendorSet）で決まり、自ストアの注文以外はForbidden。
func (u *VendorOrderUsecase) UpdateStatus(ctx context.Context, actorUserID int64, orderID int64, in VendorUpdateOrderStatusInput) (OrderOutput, error) {
	if actorUserID <= 0 {
		return OrderOutput{}, errUnauthorized()
	}
	if orderID <= 0 {
		return OrderOutput{}, errValidation("invalid order id")
	}

	newStatus, ok := parseOrderStatus(in.Status)
	if !ok {
		return OrderOutput{}, errValidation("invalid status")
	}

	vendor, err := u.actingVendor(ctx, actorUserID)
	if err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("order not found")
		}
		if err != nil {
			return errInternal()
		}

		//所有チェック：他ストアの注文は操作不可
		if o.VendorID != vendor.ID {
			return errForbidden(fmt.Sprintf("order %d belongs to another vendor", orderID))
		}

		if !model.CanVendorSet(newStatus) {
			return errInvalidTransition(string(o.Status), string(newStatus))
		}

		now := time.Now()
		var stamps repo.StatusStamps
		switch newStatus {
		case model.OrderStatusProcessing:
			if note := strings.TrimSpace(in.PickupNote); note != "" {
				stamps.PickupNote = &note
				o.PickupNote = note
			}
		case model.OrderStatusCompleted:
			stamps.CompletedAt = &now
			o.CompletedAt = &now
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus, stamps); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("order not found")
			}
			return errInternal()
		}

		//購入者への通知
		_ = r.Notifications().Create(ctx, model.Notification{
			UserID: o.UserID,
			Title:  "注文ステータス変更",
			Body:   fmt.Sprintf("注文 %s が %s になりました", o.Reference, newStatus),
		})

		o.Status = newStatus
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return errInternal()
		}
		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// actorUserIDから自ストアを引く。ストアを持たないユーザーはForbidden。
func (u *VendorOrderUsecase) actingVendor(ctx context.Context, actorUserID int64) (model.Vendor, error) {
	v, err := u.vendorRepo.FindByUserID(ctx, actorUserID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Vendor{}, errForbidden("no vendor for this user")
	}
	if err != nil {
		return model.Vendor{}, errInternal()
	}
	return v, nil
}
