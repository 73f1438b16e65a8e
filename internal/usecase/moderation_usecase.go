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

// 管理者によるストア・商品の審査。
// カスケードを含む書き込みはすべて1トランザクションで行う。
type ModerationUsecase struct {
	tx repo.TransactionManager
}

func NewModerationUsecase(tx repo.TransactionManager) *ModerationUsecase {
	return &ModerationUsecase{tx: tx}
}

// 商品の承認。publish は approvalから導出（approved→ACTIVE）。
func (u *ModerationUsecase) ApproveProduct(ctx context.Context, adminUserID int64, productID int64) error {
	return u.moderateProduct(ctx, adminUserID, productID, model.ApprovalStatusApproved, "")
}

// 商品の却下。理由必須、publish はINACTIVEへ。
func (u *ModerationUsecase) RejectProduct(ctx context.Context, adminUserID int64, productID int64, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errValidation("reason is required")
	}
	return u.moderateProduct(ctx, adminUserID, productID, model.ApprovalStatusRejected, strings.TrimSpace(reason))
}

func (u *ModerationUsecase) moderateProduct(ctx context.Context, adminUserID int64, productID int64, approval model.ApprovalStatus, reason string) error {
	if adminUserID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return errValidation("invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product not found")
		}
		if err != nil {
			return errInternal()
		}

		publish := approval.DerivedPublishStatus()
		if err := r.Products().SetModeration(ctx, productID, approval, publish, reason); err != nil {
			return errInternal()
		}

		action := model.AuditActionApproveProduct
		if approval == model.ApprovalStatusRejected {
			action = model.AuditActionRejectProduct
		}
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       action,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   moderationJSON(p.ApprovalStatus, p.PublishStatus),
			AfterJSON:    moderationJSON(approval, publish),
			CreatedAt:    time.Now(),
		}); err != nil {
			return errInternal()
		}

		u.notifyVendorOwner(ctx, r, p.VendorID, "商品審査の結果",
			fmt.Sprintf("商品「%s」が %s になりました", p.Name, approval))
		return nil
	})
}

// ストアの承認。商品の審査状態には触れない（商品は個別審査のまま）。
func (u *ModerationUsecase) ApproveVendor(ctx context.Context, adminUserID int64, vendorID int64) error {
	if adminUserID <= 0 {
		return errUnauthorized()
	}
	if vendorID <= 0 {
		return errValidation("invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		v, err := r.Vendors().FindByID(ctx, vendorID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("vendor not found")
		}
		if err != nil {
			return errInternal()
		}

		if !v.Status.CanTransitionTo(model.VendorStatusActive) {
			return errInvalidTransition(string(v.Status), string(model.VendorStatusActive))
		}

		if err := r.Vendors().UpdateStatus(ctx, vendorID, model.VendorStatusActive, ""); err != nil {
			return errInternal()
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionApproveVendor,
			ResourceType: model.AuditResourceVendor,
			ResourceID:   vendorID,
			BeforeJSON:   statusJSON(string(v.Status)),
			AfterJSON:    statusJSON(string(model.VendorStatusActive)),
			CreatedAt:    time.Now(),
		}); err != nil {
			return errInternal()
		}

		u.notifyUser(ctx, r, v.UserID, "ストア審査の結果", fmt.Sprintf("ストア「%s」が承認されました", v.Name))
		return nil
	})
}

// ストアの却下。配下の全商品を INACTIVE/REJECTED に同じ理由でカスケードする。
// 承認されていないストアに外から見える商品は存在できない、という不変条件のため。
func (u *ModerationUsecase) RejectVendor(ctx context.Context, adminUserID int64, vendorID int64, reason string) error {
	if adminUserID <= 0 {
		return errUnauthorized()
	}
	if vendorID <= 0 {
		return errValidation("invalid id")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errValidation("reason is required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		v, err := r.Vendors().FindByID(ctx, vendorID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("vendor not found")
		}
		if err != nil {
			return errInternal()
		}

		if !v.Status.CanTransitionTo(model.VendorStatusRejected) {
			return errInvalidTransition(string(v.Status), string(model.VendorStatusRejected))
		}

		if err := r.Vendors().UpdateStatus(ctx, vendorID, model.VendorStatusRejected, reason); err != nil {
			return errInternal()
		}

		//カスケード：全商品を同じ理由で落とす
		if err := r.Products().SetModerationByVendorID(ctx, vendorID,
			model.ApprovalStatusRejected, model.PublishStatusInactive, reason); err != nil {
			return errInternal()
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionRejectVendor,
			ResourceType: model.AuditResourceVendor,
			ResourceID:   vendorID,
			BeforeJSON:   statusJSON(string(v.Status)),
			AfterJSON:    statusJSON(string(model.VendorStatusRejected)),
			CreatedAt:    time.Now(),
		}); err != nil {
			return errInternal()
		}

		u.notifyUser(ctx, r, v.UserID, "ストア審査の結果",
			fmt.Sprintf("ストア「%s」は却下されました：%s", v.Name, reason))
		return nil
	})
}

type ProductDecision struct {
	ProductID int64
	//"approve" か "reject"
	Action string
	Reason string
}

type DecideWithProductsInput struct {
	//"approve" か "reject"
	VendorAction string
	VendorReason string
	Products     []ProductDecision
}

// 初回申請のまとめ審査：ストアの判定と商品ごとの判定を一度に下す。
//
// タイブレーク：vendorAction=reject、または商品判定が全部rejectなら
// ストアはrejected。それ以外（承認が1つ以上ありvendorAction=approve）でactive。
// 商品判定はストアの最終結果に関係なくそのまま記録される。rejectedなストアの
// approved商品は「承認済みだが外からは見えない」状態になる（公開の門番はvendor.status）。
func (u *ModerationUsecase) DecideWithProducts(ctx context.Context, adminUserID int64, vendorID int64, in DecideWithProductsInput) error {
	if adminUserID <= 0 {
		return errUnauthorized()
	}
	if vendorID <= 0 {
		return errValidation("invalid id")
	}
	if in.VendorAction != "approve" && in.VendorAction != "reject" {
		return errValidation("invalid vendor action")
	}
	for _, d := range in.Products {
		if d.Action != "approve" && d.Action != "reject" {
			return errValidation(fmt.Sprintf("invalid action for product %d", d.ProductID))
		}
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		v, err := r.Vendors().FindByID(ctx, vendorID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("vendor not found")
		}
		if err != nil {
			return errInternal()
		}
		if v.Status != model.VendorStatusPending {
			return errInvalidTransition(string(v.Status), string(model.VendorStatusActive))
		}

		//商品ごとの判定を先に記録する
		allRejected := len(in.Products) > 0
		for _, d := range in.Products {
			p, err := r.Products().FindByID(ctx, d.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound(fmt.Sprintf("product %d not found", d.ProductID))
			}
			if err != nil {
				return errInternal()
			}
			if p.VendorID != vendorID {
				return errValidation(fmt.Sprintf("product %d does not belong to vendor %d", d.ProductID, vendorID))
			}

			approval := model.ApprovalStatusApproved
			if d.Action == "reject" {
				approval = model.ApprovalStatusRejected
			} else {
				allRejected = false
			}
			if err := r.Products().SetModeration(ctx, d.ProductID, approval,
				approval.DerivedPublishStatus(), strings.TrimSpace(d.Reason)); err != nil {
				return errInternal()
			}
		}

		finalStatus := model.VendorStatusActive
		reason := ""
		if in.VendorAction == "reject" || allRejected {
			finalStatus = model.VendorStatusRejected
			reason = strings.TrimSpace(in.VendorReason)
			if reason == "" {
				reason = "すべての商品が却下されました"
			}
		}

		if err := r.Vendors().UpdateStatus(ctx, vendorID, finalStatus, reason); err != nil {
			return errInternal()
		}

		action := model.AuditActionApproveVendor
		if finalStatus == model.VendorStatusRejected {
			action = model.AuditActionRejectVendor
		}
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       action,
			ResourceType: model.AuditResourceVendor,
			ResourceID:   vendorID,
			BeforeJSON:   statusJSON(string(v.Status)),
			AfterJSON:    statusJSON(string(finalStatus)),
			CreatedAt:    time.Now(),
		}); err != nil {
			return errInternal()
		}

		u.notifyUser(ctx, r, v.UserID, "ストア審査の結果",
			fmt.Sprintf("ストア「%s」の審査結果：%s", v.Name, finalStatus))
		return nil
	})
}

func (u *ModerationUsecase) ListVendors(ctx context.Context, f repo.VendorListFilter) ([]model.Vendor, int64, error) {
	var (
		items []model.Vendor
		total int64
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		items, total, err = r.Vendors().ListAdmin(ctx, f)
		if err != nil {
			return errInternal()
		}
		return nil
	})
	if err != nil {
		return []model.Vendor{}, 0, err
	}
	return items, total, nil
}

// 通知の失敗で審査自体を失敗させない
func (u *ModerationUsecase) notifyVendorOwner(ctx context.Context, r repo.TxRepos, vendorID int64, title string, body string) {
	v, err := r.Vendors().FindByID(ctx, vendorID)
	if err != nil {
		return
	}
	u.notifyUser(ctx, r, v.UserID, title, body)
}

func (u *ModerationUsecase) notifyUser(ctx context.Context, r repo.TxRepos, userID int64, title string, body string) {
	_ = r.Notifications().Create(ctx, model.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
	})
}

func moderationJSON(approval model.ApprovalStatus, publish model.PublishStatus) string {
	return fmt.Sprintf(`{"approval_status":"%s","publish_status":"%s"}`, approval, publish)
}

func statusJSON(status string) string {
	return fmt.Sprintf(`{"status":"%s"}`, status)
}
