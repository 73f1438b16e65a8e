package usecase

import (
	"context"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// 管理画面の読み取り系（注文横断一覧・監査ログ）。
type AdminUsecase struct {
	orderRepo repo.OrderRepository
	itemRepo  repo.OrderItemRepository
	auditRepo repo.AuditLogRepository
}

func NewAdminUsecase(orderRepo repo.OrderRepository, itemRepo repo.OrderItemRepository, auditRepo repo.AuditLogRepository) *AdminUsecase {
	return &AdminUsecase{orderRepo: orderRepo, itemRepo: itemRepo, auditRepo: auditRepo}
}

type AdminOrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *AdminUsecase) ListOrders(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Status != "" {
		if _, ok := parseOrderStatus(f.Status); !ok {
			return AdminOrderListOutput{}, errValidation("invalid status")
		}
	}

	orders, total, err := u.orderRepo.ListAdmin(ctx, f)
	if err != nil {
		return AdminOrderListOutput{}, errInternal()
	}

	out := AdminOrderListOutput{
		Items: make([]OrderOutput, 0, len(orders)),
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
	}
	for _, o := range orders {
		items, err := u.itemRepo.ListByOrderID(ctx, o.ID)
		if err != nil {
			return AdminOrderListOutput{}, errInternal()
		}
		out.Items = append(out.Items, toOrderOutput(o, items))
	}
	return out, nil
}

func (u *AdminUsecase) ListAuditLogs(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, errInternal()
	}
	return logs, nil
}
