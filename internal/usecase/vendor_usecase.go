package usecase

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

type VendorUsecase struct {
	tx         repo.TransactionManager
	vendorRepo repo.VendorRepository
}

func NewVendorUsecase(tx repo.TransactionManager, vendorRepo repo.VendorRepository) *VendorUsecase {
	return &VendorUsecase{tx: tx, vendorRepo: vendorRepo}
}

type VendorApplyInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type VendorOutput struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

// ストア出店申請。1ユーザー1ストア。作成直後はPENDINGで審査待ち。
func (u *VendorUsecase) Apply(ctx context.Context, userID int64, in VendorApplyInput) (*VendorOutput, error) {
	if userID <= 0 {
		return nil, errUnauthorized()
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, errValidation("name is required")
	}

	_, err := u.vendorRepo.FindByUserID(ctx, userID)
	if err == nil {
		return nil, errConflict("vendor already exists")
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, errInternal()
	}

	v, err := u.vendorRepo.Create(ctx, model.Vendor{
		UserID:      userID,
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Status:      model.VendorStatusPending,
	})
	if err != nil {
		return nil, errInternal()
	}
	return toVendorOutput(v), nil
}

func (u *VendorUsecase) GetMyVendor(ctx context.Context, userID int64) (*VendorOutput, error) {
	if userID <= 0 {
		return nil, errUnauthorized()
	}
	v, err := u.vendorRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, errNotFound("vendor not found")
	}
	if err != nil {
		return nil, errInternal()
	}
	return toVendorOutput(v), nil
}

type VendorResubmitInput struct {
	Name        string `json:"name" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

// 却下されたストアの再申請。REJECTED→PENDINGに戻し、配下の商品も
// 審査待ちに戻す（却下理由は消す）。
func (u *VendorUsecase) Resubmit(ctx context.Context, userID int64, in VendorResubmitInput) (*VendorOutput, error) {
	if userID <= 0 {
		return nil, errUnauthorized()
	}

	var out *VendorOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		v, err := r.Vendors().FindByUserID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("vendor not found")
		}
		if err != nil {
			return errInternal()
		}

		if !v.Status.CanTransitionTo(model.VendorStatusPending) {
			return errInvalidTransition(string(v.Status), string(model.VendorStatusPending))
		}

		if name := strings.TrimSpace(in.Name); name != "" {
			v.Name = name
		}
		if desc := strings.TrimSpace(in.Description); desc != "" {
			v.Description = desc
		}
		v.Status = model.VendorStatusPending
		v.RejectionReason = ""
		if err := r.Vendors().Update(ctx, v); err != nil {
			return errInternal()
		}

		//商品もまとめて審査待ちへ戻す
		if err := r.Products().SetModerationByVendorID(ctx, v.ID,
			model.ApprovalStatusPending, model.PublishStatusActive, ""); err != nil {
			return errInternal()
		}

		out = toVendorOutput(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toVendorOutput(v model.Vendor) *VendorOutput {
	return &VendorOutput{
		ID:              v.ID,
		Name:            v.Name,
		Description:     v.Description,
		Status:          string(v.Status),
		RejectionReason: v.RejectionReason,
	}
}
