package usecase

import (
	"context"
	"errors"
	"sort"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// 明細は (user, product) で持ち、チェックアウトがストア単位なので
// 取得時はストアごとにまとめて返します。
type CartUsecase struct {
	cartRepo    repo.CartLineRepository
	productRepo repo.ProductRepository
	vendorRepo  repo.VendorRepository
}

func NewCartUsecase(
	cartRepo repo.CartLineRepository,
	productRepo repo.ProductRepository,
	vendorRepo repo.VendorRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
	}
}

type CartLineResponse struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Subtotal  int64  `json:"subtotal"`
}

// ストアごとの明細グループ。チェックアウトの単位。
type CartVendorGroup struct {
	VendorID   int64              `json:"vendor_id"`
	VendorName string             `json:"vendor_name"`
	Items      []CartLineResponse `json:"items"`
	Subtotal   int64              `json:"subtotal"`
}

type CartResponse struct {
	Groups []CartVendorGroup `json:"groups"`
	Total  int64             `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

type UpdateCartLineInput struct {
	Quantity int64
}

// GetCart はカート取得（ストア別グループ、空なら空配列）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnauthorized()
	}
	return u.buildCartResponse(ctx, userID)
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 加算後の数量が在庫を超えるなら明細は変更しない。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnauthorized()
	}
	if in.ProductID <= 0 {
		return CartResponse{}, errValidation("invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, errValidation("invalid quantity")
	}

	p, err := u.purchasableProduct(ctx, in.ProductID)
	if err != nil {
		return CartResponse{}, err
	}

	var existingQty int64 = 0
	line, err := u.cartRepo.FindByUserAndProduct(ctx, userID, in.ProductID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, errInternal()
	}
	if err == nil {
		existingQty = line.Quantity
	}

	newQty := existingQty + in.Quantity
	if !p.HasStock(newQty) {
		return CartResponse{}, errOutOfStock(in.ProductID)
	}

	if err := u.cartRepo.Upsert(ctx, userID, in.ProductID, newQty); err != nil {
		return CartResponse{}, errInternal()
	}

	return u.buildCartResponse(ctx, userID)
}

// 数量変更（加算ではなく上書き）。
func (u *CartUsecase) UpdateLine(ctx context.Context, userID int64, productID int64, in UpdateCartLineInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnauthorized()
	}
	if productID <= 0 {
		return CartResponse{}, errValidation("invalid product_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, errValidation("invalid quantity")
	}

	if _, err := u.cartRepo.FindByUserAndProduct(ctx, userID, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, errNotFound("cart line not found")
		}
		return CartResponse{}, errInternal()
	}

	p, err := u.purchasableProduct(ctx, productID)
	if err != nil {
		return CartResponse{}, err
	}
	if !p.HasStock(in.Quantity) {
		return CartResponse{}, errOutOfStock(productID)
	}

	if err := u.cartRepo.Upsert(ctx, userID, productID, in.Quantity); err != nil {
		return CartResponse{}, errInternal()
	}

	return u.buildCartResponse(ctx, userID)
}

// 明細削除。無い明細を消しても成功（冪等）。
func (u *CartUsecase) RemoveLine(ctx context.Context, userID int64, productID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, errUnauthorized()
	}
	if productID <= 0 {
		return CartResponse{}, errValidation("invalid product_id")
	}

	if err := u.cartRepo.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
		return CartResponse{}, errInternal()
	}

	return u.buildCartResponse(ctx, userID)
}

func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return errUnauthorized()
	}
	if err := u.cartRepo.Clear(ctx, userID); err != nil {
		return errInternal()
	}
	return nil
}

// 購入可能な商品だけカート操作を許す（ストアのACTIVE込み）。
func (u *CartUsecase) purchasableProduct(ctx context.Context, productID int64) (model.Product, error) {
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

// 明細をストアごとにまとめてCartResponseを作る。
// グループはvendor_id昇順・明細はid昇順で、何度取得しても同じ並びになる。
func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64) (CartResponse, error) {
	lines, err := u.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, errInternal()
	}

	groups := map[int64]*CartVendorGroup{}
	var total int64 = 0

	for _, line := range lines {
		p, err := u.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			continue
		}

		v, err := u.vendorRepo.FindByID(ctx, p.VendorID)
		if err != nil {
			continue
		}
		if !p.Purchasable(v.Status) {
			continue
		}

		g, ok := groups[p.VendorID]
		if !ok {
			g = &CartVendorGroup{VendorID: v.ID, VendorName: v.Name}
			groups[p.VendorID] = g
		}

		subtotal := p.Price * line.Quantity
		g.Items = append(g.Items, CartLineResponse{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
		})
		g.Subtotal += subtotal
		total += subtotal
	}

	out := CartResponse{Groups: make([]CartVendorGroup, 0, len(groups)), Total: total}
	for _, g := range groups {
		out.Groups = append(out.Groups, *g)
	}
	sort.Slice(out.Groups, func(i, j int) bool {
		return out.Groups[i].VendorID < out.Groups[j].VendorID
	})

	return out, nil
}
