package router

import (
	"sort"
	"strings"
	"time"

	"github.com/bookcart/internal/authz"
	"github.com/bookcart/internal/cache"
	"github.com/bookcart/internal/config"
	adminhandlers "github.com/bookcart/internal/http/handlers/admin"
	publichandlers "github.com/bookcart/internal/http/handlers/public"
	"github.com/bookcart/internal/logger"
	"github.com/bookcart/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/目录管理分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	loginThrottle := NewLoginThrottle(cfg.Redis.Prefix, cfg.Security.LoginRateLimit)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(RequestTimeoutMiddleware(time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second))
	r.Use(SessionAuthMiddleware(c.UserAuthService, cfg.Session.CookieName))

	// 首页与账号
	r.GET("/", publicHandler.Landing)
	r.GET("/captcha/image", publicHandler.GetImageCaptcha)
	r.POST("/guest/session", publicHandler.StartGuestSession)
	r.GET("/register", publicHandler.RegisterForm)
	r.POST("/register", publicHandler.Register)
	r.GET("/login", publicHandler.LoginForm)
	r.POST("/login", loginThrottle.Middleware(cache.Client()), publicHandler.Login)
	r.GET("/logout", publicHandler.Logout)
	r.POST("/logout", publicHandler.Logout)

	// 目录浏览
	r.GET("/dashboard", publicHandler.Dashboard)
	r.GET("/search", publicHandler.Search)
	r.GET("/analysis", publicHandler.Analysis)

	// 购物车（访客与注册用户）
	r.GET("/cart", publicHandler.GetCart)
	r.POST("/cart", publicHandler.AddToCartByForm)
	r.POST("/add-to-cart/:id", publicHandler.AddToCart)
	r.POST("/update-cart/:id", publicHandler.UpdateCart)
	r.GET("/remove_item/:id", publicHandler.RemoveItem)

	// 结算
	r.GET("/checkout", publicHandler.CheckoutSummary)
	r.POST("/checkout", publicHandler.Checkout)
	member := r.Group("", RequireMemberMiddleware())
	{
		member.GET("/success", publicHandler.Success)
		member.GET("/orders", publicHandler.ListOrders)
	}

	// 目录管理（需 catalog_admin 角色）
	catalogAdmin := r.Group("", CatalogRBACMiddleware(c.AuthzService))
	{
		catalogAdmin.GET("/add-book", adminHandler.ListBooks)
		catalogAdmin.POST("/add-book", adminHandler.CreateBook)
		catalogAdmin.GET("/edit-book/:id", adminHandler.GetBook)
		catalogAdmin.POST("/edit-book/:id", adminHandler.UpdateBook)
		catalogAdmin.POST("/delete-book/:id", adminHandler.DeleteBook)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

// catalogAdminObjects 需要目录管理权限的路由
var catalogAdminObjects = map[string]struct{}{
	"/add-book":        {},
	"/edit-book/:id":   {},
	"/delete-book/:id": {},
}

type catalogPermissionItem struct {
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildCatalogPermissionCatalog 汇总已注册的目录管理路由权限
func buildCatalogPermissionCatalog(engine *gin.Engine) []catalogPermissionItem {
	if engine == nil {
		return []catalogPermissionItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]catalogPermissionItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		if _, ok := catalogAdminObjects[object]; !ok {
			continue
		}
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, catalogPermissionItem{
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Object == items[j].Object {
			return items[i].Method < items[j].Method
		}
		return items[i].Object < items[j].Object
	})

	return items
}

// LogCatalogPermissions 输出未被预置角色覆盖的目录管理路由
func LogCatalogPermissions(engine *gin.Engine) {
	granted := make(map[string]struct{})
	for _, seed := range authz.BuiltinRoleSeeds() {
		for _, policy := range seed.Policies {
			granted[authz.NormalizeAction(policy.Action)+":"+authz.NormalizeObject(policy.Object)] = struct{}{}
		}
	}
	for _, item := range buildCatalogPermissionCatalog(engine) {
		if _, ok := granted[item.Permission]; !ok {
			logger.Warnw("router_catalog_permission_unseeded", "permission", item.Permission)
		}
	}
}
