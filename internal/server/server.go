package server

import (
	"log/slog"
	"net/http"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/logkey"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// echoのValidatorとしてvalidator/v10を挟む。
type requestValidator struct {
	v *validator.Validate
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}

// New はミドルウェア設定済みのechoエンジンを返す。
func New(cfg config.Config, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = &requestValidator{v: validator.New()}

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(requestLogger(logger))

	return e
}

// 1リクエスト1行の構造化ログ。
func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("request",
				slog.String(logkey.Method, c.Request().Method),
				slog.String(logkey.Path, c.Request().URL.Path),
				slog.Int(logkey.Status, c.Response().Status),
				slog.Int64(logkey.Took, time.Since(start).Milliseconds()),
			)
			return err
		}
	}
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, cfg config.Config) error {
	addr := cfg.Port
	if addr == "" {
		addr = "8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}
