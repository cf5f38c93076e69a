package public

import (
	handlershared "github.com/calzado-next/internal/http/handlers/shared"
	"github.com/calzado-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 顾客侧接口：目录浏览、注册登录、购物车与订单
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetUserID(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondServiceError(c *gin.Context, err error) {
	handlershared.RespondServiceError(c, err)
}
