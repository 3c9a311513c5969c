package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "github.com/prometheus/client_golang/prometheus/promhttp"

  "github.com/serviceconnect/serviceconnect-backend/internal/handlers"
  "github.com/serviceconnect/serviceconnect-backend/internal/middleware"
)

type RouterConfig struct {
  AllowedOrigins          []string
  HealthHandler           gin.HandlerFunc
  AuthHandler             *handlers.AuthHandler
  AuthMiddleware          *middleware.AuthMiddleware
  ProfileHandler          *handlers.ProfileHandler
  CatalogHandler          *handlers.CatalogHandler
  RegistryHandler         *handlers.RegistryHandler
  ServiceRequestHandler   *handlers.ServiceRequestHandler
  BookingHandler          *handlers.BookingHandler
  ReviewHandler           *handlers.ReviewHandler
  PaymentHandler          *handlers.PaymentHandler
  WsHandler               gin.HandlerFunc
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.New()
  router.Use(gin.Logger(), gin.Recovery(), middleware.RequestMetrics())

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  corsConfig := cors.Config{
    AllowOrigins:     cfg.AllowedOrigins,
    AllowMethods:     []string{"GET","POST","PUT","DELETE","PATCH","OPTIONS"},
    AllowHeaders:     []string{"Authorization","Content-Type","X-Requested-With"},
    ExposeHeaders:    []string{"X-Cache"},
    AllowCredentials: true,
  }
  if len(cfg.AllowedOrigins) == 0 {
    corsConfig.AllowOrigins = nil
    corsConfig.AllowAllOrigins = true
    corsConfig.AllowCredentials = false
  }
  router.Use(cors.New(corsConfig))

  //-----------------------------------------
  // Health / Metrics Routes
  //-----------------------------------------
  if cfg.HealthHandler != nil {
    router.GET("/healthz", cfg.HealthHandler)
  }
  router.GET("/metrics", gin.WrapH(promhttp.Handler()))

  //-----------------------------------------
  // Public Routes
  //-----------------------------------------
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)
    api.POST("/otp/verify", cfg.AuthHandler.VerifyOTP)
    api.POST("/token/refresh", cfg.AuthHandler.Refresh)

    api.GET("/services", cfg.CatalogHandler.List)
    api.GET("/service-registry", cfg.RegistryHandler.List)
    api.GET("/bookings", cfg.BookingHandler.List)
    api.GET("/reviews", cfg.ReviewHandler.List)
    api.POST("/payments/verify", cfg.PaymentHandler.Verify)
  }

  //------------------------------------------
  // Protected Routes
  //------------------------------------------
  protected := api.Group("")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  protected.POST("/logout", cfg.AuthHandler.Logout)
  protected.GET("/ws", cfg.WsHandler)

  //Profile
  protected.GET("/profile", cfg.ProfileHandler.Get)
  protected.POST("/profile", cfg.ProfileHandler.Create)
  protected.PUT("/profile", cfg.ProfileHandler.Replace)
  protected.PATCH("/profile", cfg.ProfileHandler.Patch)
  protected.DELETE("/profile", cfg.ProfileHandler.Delete)

  //Service Requests
  protected.GET("/service-requests", cfg.ServiceRequestHandler.List)
  protected.POST("/service-requests", cfg.ServiceRequestHandler.Create)
  protected.GET("/service-requests/:id", cfg.ServiceRequestHandler.Get)
  protected.PUT("/service-requests/:id", cfg.ServiceRequestHandler.Replace)
  protected.PATCH("/service-requests/:id", cfg.ServiceRequestHandler.Patch)
  protected.DELETE("/service-requests/:id", cfg.ServiceRequestHandler.Delete)

  //Reviews
  protected.POST("/reviews", cfg.ReviewHandler.Create)

  //Payments
  protected.POST("/payments/order", cfg.PaymentHandler.CreateOrder)

  return router
}
