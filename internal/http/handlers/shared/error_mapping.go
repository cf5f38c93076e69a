package shared

import (
	"errors"

	"github.com/calzado-next/internal/http/response"
	"github.com/calzado-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// 具体错误在前，错误族兜底在后
var serviceErrorRules = []MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrTokenInvalid, Code: response.CodeUnauthorized, Key: "error.token_invalid"},
	{Target: service.ErrUserDisabled, Code: response.CodeForbidden, Key: "error.user_disabled"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.password_weak"},
	{Target: service.ErrCannotModifySelf, Code: response.CodeBadRequest, Key: "error.cannot_modify_self"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrPromoPriceInvalid, Code: response.CodeBadRequest, Key: "error.promo_price_invalid"},
	{Target: service.ErrProductInvalid, Code: response.CodeBadRequest, Key: "error.product_invalid"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Key: "error.category_not_found"},
	{Target: service.ErrCategoryInvalid, Code: response.CodeBadRequest, Key: "error.category_invalid"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
	{Target: service.ErrStockQuantityInvalid, Code: response.CodeBadRequest, Key: "error.stock_quantity_invalid"},
	{Target: service.ErrStockChanged, Code: response.CodeConflict, Key: "error.stock_changed"},
	{Target: service.ErrInsufficientStock, Code: response.CodeConflict, Key: "error.stock_insufficient"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrCartQuantityInvalid, Code: response.CodeBadRequest, Key: "error.cart_quantity_invalid"},
	{Target: service.ErrCartInvalid, Code: response.CodeConflict, Key: "error.cart_invalid"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrInvalidStatus, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderStatusTerminal, Code: response.CodeConflict, Key: "error.order_status_terminal"},
	{Target: service.ErrOrderCancelNotAllowed, Code: response.CodeConflict, Key: "error.order_cancel_not_allowed"},
	{Target: service.ErrShippingAddressMissing, Code: response.CodeBadRequest, Key: "error.shipping_address_required"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrConflict, Code: response.CodeConflict, Key: "error.conflict"},
	{Target: service.ErrValidation, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// RespondServiceError 按映射表输出业务错误；extra 规则优先匹配，未命中视为内部错误。
func RespondServiceError(c *gin.Context, err error, extra ...MappedError) {
	var policyErr service.PasswordPolicyError
	if errors.As(err, &policyErr) {
		RespondErrorf(c, response.CodeBadRequest, policyErr.Key(), policyErr.Args()...)
		return
	}
	for _, rule := range extra {
		if errors.Is(err, rule.Target) {
			RespondErrorWithDetails(c, rule.Code, rule.Key, errorDetails(err), err)
			return
		}
	}
	for _, rule := range serviceErrorRules {
		if errors.Is(err, rule.Target) {
			RespondErrorWithDetails(c, rule.Code, rule.Key, errorDetails(err), err)
			return
		}
	}
	RespondError(c, response.CodeInternal, "error.internal", err)
}

// errorDetails 提取结构化错误的逐项说明
func errorDetails(err error) []string {
	var cartErr *service.CartInvalidError
	if errors.As(err, &cartErr) {
		return cartErr.Errors
	}
	var changedErr *service.StockChangedError
	if errors.As(err, &changedErr) {
		return changedErr.Details
	}
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		return []string{stockErr.Error()}
	}
	return nil
}
