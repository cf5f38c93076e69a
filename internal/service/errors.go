package service

import (
	"errors"
	"fmt"
	"strings"
)

// 通用错误
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrInternal   = errors.New("internal error")
)

// 用户与认证
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrEmailExists        = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidEmail       = fmt.Errorf("%w: invalid email", ErrValidation)
	ErrWeakPassword       = fmt.Errorf("%w: weak password", ErrValidation)
	ErrTokenInvalid       = errors.New("token invalid")
	ErrCannotModifySelf   = fmt.Errorf("%w: cannot modify own admin account", ErrValidation)
)

// 商品与分类
var (
	ErrProductNotFound   = fmt.Errorf("%w: product", ErrNotFound)
	ErrProductInvalid    = fmt.Errorf("%w: product", ErrValidation)
	ErrPromoPriceInvalid = fmt.Errorf("%w: promotional price must be positive", ErrValidation)
	ErrCategoryNotFound  = fmt.Errorf("%w: category", ErrNotFound)
	ErrCategoryInvalid   = fmt.Errorf("%w: category", ErrValidation)
	ErrSlugExists        = fmt.Errorf("%w: slug exists", ErrConflict)
)

// 库存
var (
	ErrStockQuantityInvalid = fmt.Errorf("%w: stock quantity must be >= 0", ErrValidation)
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrStockChanged         = errors.New("stock changed")
)

// 购物车
var (
	ErrCartItemNotFound    = fmt.Errorf("%w: cart item", ErrNotFound)
	ErrCartQuantityInvalid = fmt.Errorf("%w: cart quantity", ErrValidation)
	ErrCartInvalid         = errors.New("cart invalid")
)

// 订单
var (
	ErrOrderNotFound          = fmt.Errorf("%w: order", ErrNotFound)
	ErrInvalidStatus          = fmt.Errorf("%w: invalid order status", ErrValidation)
	ErrOrderStatusTerminal    = errors.New("order status is terminal")
	ErrOrderCancelNotAllowed  = errors.New("order cancel not allowed")
	ErrShippingAddressMissing = fmt.Errorf("%w: shipping address required", ErrValidation)
)

// InsufficientStockError 扣减库存失败时的明细
type InsufficientStockError struct {
	ProductID uint
	Size      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d size %q: available %d, requested %d",
		e.ProductID, e.Size, e.Available, e.Requested)
}

// Is 匹配 ErrInsufficientStock
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// CartInvalidError 下单前购物车校验失败，Errors 为逐项说明
type CartInvalidError struct {
	Errors []string
}

func (e *CartInvalidError) Error() string {
	return "cart invalid: " + strings.Join(e.Errors, "; ")
}

// Is 匹配 ErrCartInvalid
func (e *CartInvalidError) Is(target error) bool {
	return target == ErrCartInvalid
}

// StockChangedError 事务内复核库存失败
type StockChangedError struct {
	Details []string
	Err     error
}

func (e *StockChangedError) Error() string {
	if len(e.Details) == 0 {
		return "stock changed"
	}
	return "stock changed: " + strings.Join(e.Details, "; ")
}

// Is 匹配 ErrStockChanged
func (e *StockChangedError) Is(target error) bool {
	return target == ErrStockChanged
}

func (e *StockChangedError) Unwrap() error {
	return e.Err
}

// internalError 基础设施失败统一包装为可重试的 ErrInternal
func internalError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
