package routes

import (
	"os"

	"diancan_back_end/internal/handlers"
	"diancan_back_end/internal/middleware"
	"diancan_back_end/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Menu    *handlers.MenuHandler
	Orders  *handlers.OrderHandler
	Health  *handlers.HealthHandler
	Uploads *handlers.UploadsHandler

	Merchants repository.MerchantRepository
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:3001"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontend},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	authRequired := middleware.AuthRequired(h.Merchants)

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), h.Auth.Register)
		auth.POST("/login", middleware.LoginRateLimit(), h.Auth.Login)
		auth.GET("/me", authRequired, h.Auth.Me)
	}

	menu := api.Group("/menu")
	{
		menu.GET("", h.Menu.List)
		menu.GET("/by-ids", h.Menu.ByIDs)
		menu.GET("/merchant/my-items", authRequired, h.Menu.MyItems)
		menu.GET("/merchant/qrcode", authRequired, h.Menu.StorefrontQRCode)
		menu.GET("/:id", h.Menu.GetByID)
		menu.POST("", authRequired, h.Menu.Create)
		menu.PUT("/:id", authRequired, h.Menu.Update)
		menu.DELETE("/:id", authRequired, h.Menu.Delete)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", h.Orders.Create)
		orders.GET("/merchant/my-orders", authRequired, h.Orders.MyOrders)
		orders.GET("/merchant/stream", authRequired, h.Orders.Stream)
		orders.GET("/:id", authRequired, h.Orders.GetByID)
		orders.PATCH("/:id/status", authRequired, h.Orders.UpdateStatus)
	}

	api.GET("/health", h.Health.Check)

	// Images uploadées, même préfixe public que l'ancien back
	r.GET("/uploads/:filename", h.Uploads.Serve)
}
