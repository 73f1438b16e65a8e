package server

import (
	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/repository"

	"github.com/labstack/echo/v4"
)

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Vendor       *handler.VendorHandler
	Admin        *handler.AdminHandler
	Event        *handler.EventHandler
	Notification *handler.NotificationHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg, userRepo)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)
	h.Vendor.RegisterRoutes(e, cfg, userRepo)
	h.Admin.RegisterRoutes(e, cfg, userRepo)
	h.Event.RegisterRoutes(e, cfg, userRepo)
	h.Notification.RegisterRoutes(e, cfg, userRepo)
}
