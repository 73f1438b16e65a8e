package main

import (
	"log/slog"
	"os"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/handler"
	"marketplace/internal/infra/db"
	infraRepo "marketplace/internal/infra/repository"
	"marketplace/internal/logkey"
	"marketplace/internal/server"
	"marketplace/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envはあれば読む（本番は環境変数だけで動く）
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Error("db connect failed", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Vendor{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
		&model.AuditLog{},
		&model.Notification{},
		&model.Event{},
		&model.EventRegistration{},
	); err != nil {
		logger.Error("migrate failed", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	vendorRepo := infraRepo.NewVendorGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartLineGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	notifRepo := infraRepo.NewNotificationGormRepository(gormDB)
	eventRepo := infraRepo.NewEventGormRepository(gormDB)
	regRepo := infraRepo.NewEventRegistrationGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo)
	productUC := usecase.NewProductUsecase(txManager, productRepo, vendorRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo, vendorRepo)
	orderUC := usecase.NewOrderUsecase(txManager)
	vendorOrderUC := usecase.NewVendorOrderUsecase(txManager, vendorRepo)
	vendorUC := usecase.NewVendorUsecase(txManager, vendorRepo)
	moderationUC := usecase.NewModerationUsecase(txManager)
	eventUC := usecase.NewEventUsecase(txManager, eventRepo, regRepo, vendorRepo)
	notifUC := usecase.NewNotificationUsecase(notifRepo)
	adminUC := usecase.NewAdminUsecase(orderRepo, orderItemRepo, auditRepo)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC, cfg),
		Product:      handler.NewProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
		Vendor:       handler.NewVendorHandler(vendorUC, productUC, vendorOrderUC),
		Admin:        handler.NewAdminHandler(moderationUC, productUC, adminUC, authUC),
		Event:        handler.NewEventHandler(eventUC),
		Notification: handler.NewNotificationHandler(notifUC),
	}

	e := server.New(cfg, logger)
	server.RegisterRoutes(e, cfg, userRepo, handlers)

	logger.Info("server starting", slog.String("port", cfg.Port))
	if err := server.Start(e, cfg); err != nil {
		logger.Error("server stopped", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}
