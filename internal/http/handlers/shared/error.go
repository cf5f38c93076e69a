package shared

import (
	"strings"

	"github.com/calzado-next/internal/http/response"
	"github.com/calzado-next/internal/i18n"
	"github.com/calzado-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应；5xx 且有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithDetails(c, code, key, nil, err)
}

// RespondErrorWithDetails 返回带逐项说明的国际化错误响应。
func RespondErrorWithDetails(c *gin.Context, code int, key string, details []string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	respond(c, response.WrapError(code, errorCode(key), msg, err).WithDetails(details))
}

// RespondErrorf 返回带格式化参数的国际化错误响应。
func RespondErrorf(c *gin.Context, code int, key string, args ...interface{}) {
	msg := i18n.Sprintf(i18n.ResolveLocale(c), key, args...)
	respond(c, response.WrapError(code, errorCode(key), msg, nil))
}

func respond(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		log := RequestLog(c)
		if appErr.Code >= response.CodeInternal {
			log.Errorw("handler_error",
				"code", appErr.Code,
				"error_key", appErr.Key,
				"error", appErr.Err,
			)
		} else {
			log.Debugw("handler_rejected",
				"code", appErr.Code,
				"error_key", appErr.Key,
				"error", appErr.Err,
			)
		}
	}
	response.Error(c, appErr)
}

// errorCode 由消息键得到机器可读错误标识：error.stock_changed -> stock_changed
func errorCode(key string) string {
	return strings.TrimPrefix(key, "error.")
}
