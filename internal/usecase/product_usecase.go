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

type ProductUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
	vendorRepo  repo.VendorRepository
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	vendorRepo repo.VendorRepository,
) *ProductUsecase {
	return &ProductUsecase{
		tx:          tx,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	VendorID *int64
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) ListPublicProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, errValidation("invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, errValidation("invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, errValidation("query too long")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        in.Q,
		VendorID: in.VendorID,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, errInternal()
	}

	return ProductListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// 公開詳細。購入可能条件（publish/approval/vendor）を満たさない商品は存在しない扱い。
func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, errValidation("invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, errNotFound("product not found")
	}
	if err != nil {
		return model.Product{}, errInternal()
	}

	v, err := u.vendorRepo.FindByID(ctx, p.VendorID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, errNotFound("product not found")
	}
	if err != nil {
		return model.Product{}, errInternal()
	}

	if !p.Purchasable(v.Status) {
		return model.Product{}, errNotFound("product not found")
	}
	return p, nil
}

type VendorProductInput struct {
	Name        string
	Description string
	Price       int64
	//nilは在庫管理なし
	Stock *int64
}

// ストアによる商品登録。必ず pending/pending で始まる（審査待ち）。
func (u *ProductUsecase) CreateProduct(ctx context.Context, actorUserID int64, in VendorProductInput) (model.Product, error) {
	if actorUserID <= 0 {
		return model.Product{}, errUnauthorized()
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	vendor, err := u.actingVendor(ctx, actorUserID)
	if err != nil {
		return model.Product{}, err
	}

	p := model.Product{
		VendorID:       vendor.ID,
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Price:          in.Price,
		Stock:          in.Stock,
		PublishStatus:  model.PublishStatusPending,
		ApprovalStatus: model.ApprovalStatusPending,
	}

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return model.Product{}, errInternal()
	}
	return created, nil
}

func (u *ProductUsecase) ListMyProducts(ctx context.Context, actorUserID int64) ([]model.Product, error) {
	if actorUserID <= 0 {
		return []model.Product{}, errUnauthorized()
	}

	vendor, err := u.actingVendor(ctx, actorUserID)
	if err != nil {
		return []model.Product{}, err
	}

	items, err := u.productRepo.ListByVendorID(ctx, vendor.ID)
	if err != nil {
		return []model.Product{}, errInternal()
	}
	return items, nil
}

// 自ストアの商品のみ更新できる。ステータスはここでは触らない。
func (u *ProductUsecase) UpdateProduct(ctx context.Context, actorUserID int64, productID int64, in VendorProductInput) error {
	if actorUserID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return errValidation("invalid id")
	}
	if err := validateProductInput(in); err != nil {
		return err
	}

	p, err := u.ownedProduct(ctx, actorUserID, productID)
	if err != nil {
		return err
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock

	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product not found")
		}
		return errInternal()
	}
	return nil
}

func (u *ProductUsecase) DeleteProduct(ctx context.Context, actorUserID int64, productID int64) error {
	if actorUserID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return errValidation("invalid id")
	}

	p, err := u.ownedProduct(ctx, actorUserID, productID)
	if err != nil {
		return err
	}

	if err := u.productRepo.SoftDelete(ctx, p.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product not found")
		}
		return errInternal()
	}
	return nil
}

type ResubmitProductInput struct {
	//nilなら商品フィールドは触らず、審査状態だけリセットする
	Fields *VendorProductInput
}

// 却下・非公開の商品を審査に出し直す。
// 却下コメントは消え、任意でフィールド更新も同一トランザクションで行う。
func (u *ProductUsecase) ResubmitProduct(ctx context.Context, actorUserID int64, productID int64, in ResubmitProductInput) error {
	if actorUserID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return errValidation("invalid id")
	}
	if in.Fields != nil {
		if err := validateProductInput(*in.Fields); err != nil {
			return err
		}
	}

	p, err := u.ownedProduct(ctx, actorUserID, productID)
	if err != nil {
		return err
	}

	if !p.CanResubmit() {
		return errInvalidTransition(string(p.ApprovalStatus), string(model.ApprovalStatusPending))
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if in.Fields != nil {
			p.Name = strings.TrimSpace(in.Fields.Name)
			p.Description = in.Fields.Description
			p.Price = in.Fields.Price
			p.Stock = in.Fields.Stock
			if err := r.Products().Update(ctx, p); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return errNotFound("product not found")
				}
				return errInternal()
			}
		}

		//再申請は pending/ACTIVE に戻してコメントを消す
		if err := r.Products().SetModeration(ctx, p.ID, model.ApprovalStatusPending, model.PublishStatusActive, ""); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("product not found")
			}
			return errInternal()
		}
		return nil
	})
}

type AdminProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 管理者向け一覧。審査待ちの確認に使うため、公開状態に関係なく全商品が対象。
func (u *ProductUsecase) AdminListProducts(ctx context.Context, f repo.ProductAdminFilter) (AdminProductListOutput, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.ApprovalStatus != "" {
		switch f.ApprovalStatus {
		case model.ApprovalStatusPending, model.ApprovalStatusApproved, model.ApprovalStatusRejected:
		default:
			return AdminProductListOutput{}, errValidation("invalid approval_status")
		}
	}
	if f.PublishStatus != "" {
		switch f.PublishStatus {
		case model.PublishStatusPending, model.PublishStatusActive, model.PublishStatusInactive:
		default:
			return AdminProductListOutput{}, errValidation("invalid publish_status")
		}
	}

	items, total, err := u.productRepo.ListAdmin(ctx, f)
	if err != nil {
		return AdminProductListOutput{}, errInternal()
	}
	return AdminProductListOutput{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

type AdminSetStockInput struct {
	//nilは在庫管理なしへの切り替え
	Stock  *int64
	Reason string
}

// 管理者の在庫直接設定。調整履歴と監査ログを同一トランザクションで残す。
func (u *ProductUsecase) AdminSetStock(ctx context.Context, adminUserID int64, productID int64, in AdminSetStockInput) error {
	if adminUserID <= 0 {
		return errUnauthorized()
	}
	if productID <= 0 {
		return errValidation("invalid id")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return errValidation("stock must not be negative")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return errValidation("reason is required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("product not found")
		}
		if err != nil {
			return errInternal()
		}

		if err := r.Inventory().SetStock(ctx, productID, in.Stock); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errNotFound("product not found")
			}
			return errInternal()
		}

		var before, after int64
		if p.Stock != nil {
			before = *p.Stock
		}
		if in.Stock != nil {
			after = *in.Stock
		}
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   productID,
			AdminUserID: adminUserID,
			Delta:       after - before,
			Reason:      strings.TrimSpace(in.Reason),
		}); err != nil {
			return errInternal()
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   fmt.Sprintf(`{"stock":%s}`, stockJSON(p.Stock)),
			AfterJSON:    fmt.Sprintf(`{"stock":%s}`, stockJSON(in.Stock)),
			CreatedAt:    time.Now(),
		}); err != nil {
			return errInternal()
		}
		return nil
	})
}

func stockJSON(stock *int64) string {
	if stock == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *stock)
}

func validateProductInput(in VendorProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return errValidation("invalid name")
	}
	if in.Price < 0 {
		return errValidation("price must not be negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return errValidation("stock must not be negative")
	}
	return nil
}

func (u *ProductUsecase) actingVendor(ctx context.Context, actorUserID int64) (model.Vendor, error) {
	v, err := u.vendorRepo.FindByUserID(ctx, actorUserID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Vendor{}, errForbidden("no vendor for this user")
	}
	if err != nil {
		return model.Vendor{}, errInternal()
	}
	return v, nil
}

// 商品を引いて所有チェックまで行う。
func (u *ProductUsecase) ownedProduct(ctx context.Context, actorUserID int64, productID int64) (model.Product, error) {
	vendor, err := u.actingVendor(ctx, actorUserID)
	if err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, errNotFound("product not found")
	}
	if err != nil {
		return model.Product{}, errInternal()
	}
	if p.VendorID != vendor.ID {
		return model.Product{}, errForbidden(fmt.Sprintf("product %d belongs to another vendor", productID))
	}
	return p, nil
}
