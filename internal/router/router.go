package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/calzado-next/internal/authz"
	adminhandlers "github.com/calzado-next/internal/http/handlers/admin"
	publichandlers "github.com/calzado-next/internal/http/handlers/public"
	"github.com/calzado-next/internal/http/response"
	"github.com/calzado-next/internal/logger"
	"github.com/calzado-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(c *provider.Container) *gin.Engine {
	cfg := c.Config
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "calzado"
	}
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.rate_limited",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(logger.Z()))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		apiV1.GET("/products", publicHandler.ListProducts)
		apiV1.GET("/products/:id", publicHandler.GetProduct)
		apiV1.GET("/categories", publicHandler.ListCategories)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", RateLimitMiddleware(c.Cache.Client(), loginRule, KeyByIP), publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(c.Cache.Client(), loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// 登录用户接口（JWT + RBAC）
		authorized := apiV1.Group("")
		authorized.Use(UserJWTAuthMiddleware(c.UserAuthService), RBACMiddleware(c.AuthzService))
		{
			authorized.GET("/me", publicHandler.Me)

			authorized.GET("/cart", publicHandler.GetCart)
			authorized.POST("/cart", publicHandler.AddCartItem)
			authorized.DELETE("/cart", publicHandler.ClearCart)
			authorized.PUT("/cart/:item_id", publicHandler.UpdateCartItem)
			authorized.DELETE("/cart/:item_id", publicHandler.RemoveCartItem)

			authorized.GET("/orders", publicHandler.ListOrders)
			authorized.POST("/orders", publicHandler.CreateOrder)
			authorized.GET("/orders/:id", publicHandler.GetOrder)
			authorized.POST("/orders/:id/cancel", publicHandler.CancelOrder)
			authorized.PUT("/orders/:id/estado", publicHandler.UpdateOrderStatus)

			admin := authorized.Group("/admin")
			{
				// 商品与库存
				admin.GET("/products", adminHandler.ListProducts)
				admin.POST("/products", adminHandler.CreateProduct)
				admin.GET("/products/:id", adminHandler.GetProduct)
				admin.PUT("/products/:id", adminHandler.UpdateProduct)
				admin.DELETE("/products/:id", adminHandler.PurgeProduct)
				admin.POST("/products/:id/deactivate", adminHandler.DeactivateProduct)
				admin.GET("/products/:id/stock", adminHandler.ListProductStock)
				admin.PUT("/products/:id/stock", adminHandler.SetProductStock)
				admin.GET("/stock/low", adminHandler.ListLowStock)

				// 分类
				admin.GET("/categories", adminHandler.ListCategories)
				admin.POST("/categories", adminHandler.CreateCategory)
				admin.GET("/categories/:id", adminHandler.GetCategory)
				admin.PUT("/categories/:id", adminHandler.UpdateCategory)
				admin.POST("/categories/:id/deactivate", adminHandler.DeactivateCategory)

				// 订单
				admin.GET("/orders", adminHandler.ListOrders)
				admin.GET("/orders/:id", adminHandler.GetOrder)
				admin.PUT("/orders/:id/estado", adminHandler.UpdateOrderStatus)

				// 用户
				admin.GET("/users", adminHandler.ListUsers)
				admin.GET("/users/:id", adminHandler.GetUser)
				admin.PUT("/users/:id", adminHandler.UpdateUser)
				admin.DELETE("/users/:id", adminHandler.DeleteUser)

				// 权限
				admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
				admin.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				admin.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				admin.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				admin.GET("/authz/permissions/catalog", func(ctx *gin.Context) {
					response.Success(ctx, buildAdminPermissionCatalog(r))
				})
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	if segments[1] == "authz" {
		return "authz"
	}
	return segments[1]
}
