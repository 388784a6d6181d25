package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/zulfalsa/danusan-x/internal/adapter/blob"
	"github.com/zulfalsa/danusan-x/internal/config"
	"github.com/zulfalsa/danusan-x/internal/domain/model"
	"github.com/zulfalsa/danusan-x/internal/metrics"
	"github.com/zulfalsa/danusan-x/internal/server/http/handlers"
	"github.com/zulfalsa/danusan-x/internal/server/http/middleware"
)

// multipartOverhead is the room left for form fields around an upload.
const multipartOverhead = 1 << 20

// Params lists the dependencies of the HTTP router.
type Params struct {
	fx.In

	Facade  handlers.StorefrontFacade
	Logger  *slog.Logger
	Config  *config.Config
	Metrics *metrics.Recorder
	Blobs   *blob.Local
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.MaxMultipartMemory = p.Config.MaxUploadBytes + multipartOverhead

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(p.Metrics.Middleware())
	engine.Use(middleware.DecompressRequest(p.Config.MaxUploadBytes + multipartOverhead))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(p.Facade)
	gateHandler := handlers.NewGateHandler(p.Facade)
	catalogHandler := handlers.NewCatalogHandler(p.Facade)
	orderHandler := handlers.NewOrderHandler(p.Facade, p.Config.MaxUploadBytes)
	productHandler := handlers.NewProductHandler(p.Facade, p.Config.MaxUploadBytes)
	sellerHandler := handlers.NewSellerHandler(p.Facade)
	adminHandler := handlers.NewAdminHandler(p.Facade)
	healthHandler := handlers.NewHealthHandler(p.Facade)

	engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))
	engine.Static(p.Blobs.PublicPath(), p.Blobs.Dir())

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)
	api.POST("/gate/unlock", gateHandler.Unlock)

	user := api.Group("/user")
	user.Use(middleware.GateRequired(p.Facade))
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	api.GET("/products", catalogHandler.List)
	api.GET("/products/:id", catalogHandler.Show)

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Checkout)
	orders.GET("/track", orderHandler.Track)
	orders.GET("/:code", orderHandler.Show)
	orders.POST("/:code/payment", orderHandler.UploadProof)

	seller := api.Group("/seller")
	seller.Use(middleware.AuthRequired(p.Facade), middleware.RequireRole(model.RoleSeller))
	seller.GET("/products", productHandler.List)
	seller.POST("/products", productHandler.Create)
	seller.PUT("/products/:id", productHandler.Update)
	seller.DELETE("/products/:id", productHandler.Delete)
	seller.GET("/orders", sellerHandler.Orders)
	seller.POST("/orders/:id/complete", sellerHandler.Complete)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(p.Facade), middleware.RequireRole(model.RoleAdmin))
	admin.GET("/payments", adminHandler.Pending)
	admin.POST("/payments/:id/verify", adminHandler.Verify)

	return engine
}
