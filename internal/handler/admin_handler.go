package handler

import (
	"net/http"
	"strconv"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理者API。/admin配下はADMINロールのみ。
type AdminHandler struct {
	moderationUC *usecase.ModerationUsecase
	productUC    *usecase.ProductUsecase
	adminUC      *usecase.AdminUsecase
	authUC       *usecase.AuthUsecase
}

func NewAdminHandler(moderationUC *usecase.ModerationUsecase, productUC *usecase.ProductUsecase, adminUC *usecase.AdminUsecase, authUC *usecase.AuthUsecase) *AdminHandler {
	return &AdminHandler{
		moderationUC: moderationUC,
		productUC:    productUC,
		adminUC:      adminUC,
		authUC:       authUC,
	}
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

type ProductDecisionRequest struct {
	ProductID int64  `json:"product_id" validate:"required,gt=0"`
	Action    string `json:"action" validate:"required,oneof=approve reject"`
	Reason    string `json:"reason" validate:"max=2000"`
}

type DecideVendorRequest struct {
	VendorAction string                   `json:"vendor_action" validate:"required,oneof=approve reject"`
	VendorReason string                   `json:"vendor_reason" validate:"max=2000"`
	Products     []ProductDecisionRequest `json:"products" validate:"dive"`
}

type SetStockRequest struct {
	//nullは在庫管理なしへの切り替え
	Stock  *int64 `json:"stock" validate:"omitempty,gte=0"`
	Reason string `json:"reason" validate:"required,max=2000"`
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.TokenVersionGuard(userRepo))
	g.Use(middleware.AdminRoleGuard())

	g.GET("/vendors", h.listVendors)
	g.POST("/vendors/:id/approve", h.approveVendor)
	g.POST("/vendors/:id/reject", h.rejectVendor)
	g.POST("/vendors/:id/decide", h.decideVendor)

	g.GET("/products", h.listProducts)
	g.POST("/products/:id/approve", h.approveProduct)
	g.POST("/products/:id/reject", h.rejectProduct)
	g.PUT("/products/:id/stock", h.setStock)

	g.GET("/orders", h.listOrders)
	g.GET("/audit-logs", h.listAuditLogs)

	g.POST("/users/:id/force-logout", h.forceLogout)
}

func (h *AdminHandler) listVendors(c echo.Context) error {
	page, limit, err := pagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	items, total, err := h.moderationUC.ListVendors(c.Request().Context(), repository.VendorListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *AdminHandler) approveVendor(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	vendorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.moderationUC.ApproveVendor(c.Request().Context(), adminID, vendorID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) rejectVendor(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	vendorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Kind: usecase.KindValidationFailed})
	}

	if err := h.moderationUC.RejectVendor(c.Request().Context(), adminID, vendorID, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) decideVendor(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	vendorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req DecideVendorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Kind: usecase.KindValidationFailed})
	}

	in := usecase.DecideWithProductsInput{
		VendorAction: req.VendorAction,
		VendorReason: req.VendorReason,
	}
	for _, p := range req.Products {
		in.Products = append(in.Products, usecase.ProductDecision{
			ProductID: p.ProductID,
			Action:    p.Action,
			Reason:    p.Reason,
		})
	}

	if err := h.moderationUC.DecideWithProducts(c.Request().Context(), adminID, vendorID, in); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) listProducts(c echo.Context) error {
	page, limit, err := pagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	f := repository.ProductAdminFilter{
		Page:           page,
		Limit:          limit,
		ApprovalStatus: model.ApprovalStatus(c.QueryParam("approval_status")),
		PublishStatus:  model.PublishStatus(c.QueryParam("publish_status")),
	}
	if v := c.QueryParam("vendor_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid vendor_id"})
		}
		f.VendorID = &x
	}

	out, err := h.productUC.AdminListProducts(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) approveProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.moderationUC.ApproveProduct(c.Request().Context(), adminID, productID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) rejectProduct(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Kind: usecase.KindValidationFailed})
	}

	if err := h.moderationUC.RejectProduct(c.Request().Context(), adminID, productID, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) setStock(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req SetStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body", Kind: usecase.KindValidationFailed})
	}

	if err := h.productUC.AdminSetStock(c.Request().Context(), adminID, productID, usecase.AdminSetStockInput{
		Stock:  req.Stock,
		Reason: req.Reason,
	}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) listOrders(c echo.Context) error {
	page, limit, err := pagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	f := repository.AdminOrderListFilter{
		Page:   page,
		Limit:  limit,
		Status: c.QueryParam("status"),
	}
	if v := c.QueryParam("user_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		f.UserID = &x
	}
	if v := c.QueryParam("vendor_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid vendor_id"})
		}
		f.VendorID = &x
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		f.From = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		f.To = &t
	}

	out, err := h.adminUC.ListOrders(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listAuditLogs(c echo.Context) error {
	page, limit, err := pagination(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	f := repository.AuditLogFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if v := c.QueryParam("actor_user_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor_user_id"})
		}
		f.ActorUserID = &x
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}
	if v := c.QueryParam("resource_id"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
		}
		f.ResourceID = &x
	}

	logs, err := h.adminUC.ListAuditLogs(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

func (h *AdminHandler) forceLogout(c echo.Context) error {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	newTV, err := h.authUC.ForceLogout(c.Request().Context(), targetID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id":           targetID,
		"new_token_version": newTV,
	})
}
