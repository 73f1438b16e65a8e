package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// 機械可読なエラー種別。レスポンスの kind にそのまま出す。
const (
	KindNotFound          = "NOT_FOUND"
	KindForbidden         = "FORBIDDEN"
	KindOutOfStock        = "OUT_OF_STOCK"
	KindInsufficientStock = "INSUFFICIENT_STOCK"
	KindInvalidTransition = "INVALID_TRANSITION"
	KindEmptySelection    = "EMPTY_SELECTION"
	KindValidationFailed  = "VALIDATION_FAILED"
	KindUnauthorized      = "UNAUTHORIZED"
	KindConflict          = "CONFLICT"
	//業務ルール違反ではなくインフラ障害。呼び出し側が区別できるように分ける。
	KindInternal = "INTERNAL"
)

type AppError struct {
	Status  int
	Kind    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Kind, e.Message)
}

func NewAppError(status int, kind string, message string) error {
	return &AppError{
		Status:  status,
		Kind:    kind,
		Message: message,
	}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// よく使う形のショートハンド。メッセージには対象エンティティを必ず入れる。
func errNotFound(message string) error {
	return NewAppError(http.StatusNotFound, KindNotFound, message)
}

func errForbidden(message string) error {
	return NewAppError(http.StatusForbidden, KindForbidden, message)
}

func errValidation(message string) error {
	return NewAppError(http.StatusBadRequest, KindValidationFailed, message)
}

func errUnauthorized() error {
	return NewAppError(http.StatusUnauthorized, KindUnauthorized, "unauthorized")
}

func errConflict(message string) error {
	return NewAppError(http.StatusConflict, KindConflict, message)
}

func errInternal() error {
	return NewAppError(http.StatusInternalServerError, KindInternal, "internal error")
}

func errOutOfStock(productID int64) error {
	return NewAppError(http.StatusBadRequest, KindOutOfStock,
		fmt.Sprintf("requested quantity exceeds stock for product %d", productID))
}

func errInsufficientStock(productID int64) error {
	return NewAppError(http.StatusBadRequest, KindInsufficientStock,
		fmt.Sprintf("insufficient stock for product %d", productID))
}

func errInvalidTransition(from, to string) error {
	return NewAppError(http.StatusBadRequest, KindInvalidTransition,
		fmt.Sprintf("cannot transition from %s to %s", from, to))
}

func errEmptySelection() error {
	return NewAppError(http.StatusBadRequest, KindEmptySelection, "no lines selected")
}
