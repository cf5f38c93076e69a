package admin

import (
	"strings"
	"time"

	handlershared "github.com/calzado-next/internal/http/handlers/shared"
	"github.com/calzado-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 后台接口处理器入口
// 说明：该处理器仅用于 /admin 路由，RBAC 中间件保证只有管理员可达。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getOperatorID(c *gin.Context) (uint, bool) {
	return handlershared.GetUserID(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}

// parseQueryTime 支持 RFC3339 与 yyyy-mm-dd；endOfDay 用于截止日期
func parseQueryTime(c *gin.Context, name string, endOfDay bool) *time.Time {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t
}
