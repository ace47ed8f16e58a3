// Package api is the storefront's HTTP surface: routing, request binding and
// response shaping over the service layer.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"luxegear-backend/internal/api/dto"
	"luxegear-backend/internal/api/middleware"
	"luxegear-backend/internal/auth"
	"luxegear-backend/internal/config"
	"luxegear-backend/internal/logger"
	"luxegear-backend/internal/service"
)

// Deps is everything the router needs from main.
type Deps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Resolver *auth.Resolver
	Catalog  *service.CatalogService
	Orders   *service.OrderService
	Accounts *service.AccountService
	Admin    *service.AdminService
	Registry *prometheus.Registry
}

func NewRouter(d Deps) *gin.Engine {
	middleware.SetupValidator()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		logger.Recovery(d.Logger),
		middleware.CORS(d.Config.HTTP.CORSAllowOrigins),
	)
	if d.Config.Telemetry.Enabled {
		r.Use(middleware.Tracing(d.Config.Telemetry.ServiceName)...)
	}
	r.Use(
		logger.GinMiddleware(d.Logger),
		middleware.NewHTTPMetrics(d.Registry).Handler(),
		middleware.Timeout(d.Config.HTTP.RequestTimeout),
	)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "LuxeGear API is running")
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	protect := middleware.Protect(d.Resolver)
	adminOnly := middleware.AdminOnly()

	api := r.Group("/api")
	api.GET("/health", health)

	ah := &AuthHandler{accounts: d.Accounts}
	authGroup := api.Group("/auth")
	if d.Config.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(d.Config.HTTP.AuthRateLimitRequests, d.Config.HTTP.AuthRateLimitWindow)
		authGroup.Use(middleware.RateLimit(limiter))
	}
	{
		authGroup.POST("/register", ah.Register)
		authGroup.POST("/login", ah.Login)
		authGroup.GET("/me", protect, ah.Me)
		authGroup.PUT("/me", protect, ah.UpdateMe)
	}

	ph := &ProductHandler{catalog: d.Catalog, maxUploadBytes: d.Config.HTTP.MaxUploadBytes}
	products := api.Group("/products")
	{
		products.GET("", ph.List)
		products.GET("/featured", ph.Featured)
		products.GET("/:id", ph.Get)
		products.POST("", protect, adminOnly, ph.Create)
		products.POST("/images", protect, adminOnly, ph.UploadImage)
		products.PUT("/:id", protect, adminOnly, ph.Update)
		products.DELETE("/:id", protect, adminOnly, ph.Delete)
	}

	oh := &OrderHandler{orders: d.Orders}
	orders := api.Group("/orders")
	{
		orders.POST("", middleware.OptionalIdentity(d.Resolver), oh.Place)
		orders.GET("/my", protect, oh.Mine)
		orders.GET("/:id", protect, oh.Get)
	}

	adh := &AdminHandler{admin: d.Admin, orders: d.Orders}
	admin := api.Group("/admin", protect, adminOnly)
	{
		admin.GET("/dashboard", adh.Dashboard)
		admin.GET("/orders", adh.Orders)
		admin.PUT("/orders/:id/status", adh.UpdateOrderStatus)
		admin.GET("/users", adh.Users)
		admin.PUT("/users/:id/role", adh.SetRole)
		admin.DELETE("/users/:id", adh.DeleteUser)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.MessageResponse{Success: false, Message: "Route not found"})
	})
	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"service":   "LuxeGear API",
	})
}
