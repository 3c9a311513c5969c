package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/joho/godotenv"

  "github.com/serviceconnect/serviceconnect-backend/internal/cache"
  "github.com/serviceconnect/serviceconnect-backend/internal/db"
  "github.com/serviceconnect/serviceconnect-backend/internal/gateway"
  "github.com/serviceconnect/serviceconnect-backend/internal/handlers"
  "github.com/serviceconnect/serviceconnect-backend/internal/logger"
  "github.com/serviceconnect/serviceconnect-backend/internal/metrics"
  "github.com/serviceconnect/serviceconnect-backend/internal/middleware"
  "github.com/serviceconnect/serviceconnect-backend/internal/repos"
  "github.com/serviceconnect/serviceconnect-backend/internal/seed"
  "github.com/serviceconnect/serviceconnect-backend/internal/server"
  "github.com/serviceconnect/serviceconnect-backend/internal/services"
  "github.com/serviceconnect/serviceconnect-backend/internal/socket"
  "github.com/serviceconnect/serviceconnect-backend/internal/utils"
)

func main() {
  // .env is optional; real environment variables win.
  _ = godotenv.Load()

  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Environment Variables
  log.Info("Attempting to load environment variables for Main now...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  redisAddress := utils.GetEnv("REDIS_ADDRESS", "localhost:6379", log)
  redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)
  razorpayKeyID := utils.GetEnv("RAZORPAY_KEY_ID", "", log)
  razorpayKeySecret := utils.GetEnv("RAZORPAY_KEY_SECRET", "", log)
  paymentCurrency := utils.GetEnv("PAYMENT_CURRENCY", services.DefaultCurrency, log)
  missingRecordPolicy := utils.GetEnv("PAYMENT_MISSING_RECORD_POLICY", string(services.MissingRecordAccept), log)
  catalogSeedPath := utils.GetEnv("SEED_CATALOG_JSON_PATH", "data/catalog.json", log)
  allowedOrigins := utils.GetEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}, log)
  log.Debug("Environment variables loaded for Main :)",
    "accessTokenTTL", accessTokenTTL,
    "refreshTokenTTL", refreshTokenTTL,
    "redisAddress", redisAddress,
    "paymentCurrency", paymentCurrency,
    "missingRecordPolicy", missingRecordPolicy,
    "catalogSeedPath", catalogSeedPath,
    "allowedOrigins", allowedOrigins,
  )
  policy, err := services.ParseMissingRecordPolicy(missingRecordPolicy)
  if err != nil {
    log.Error("Fatal error: invalid PAYMENT_MISSING_RECORD_POLICY", "error", err)
    os.Exit(1)
  }

  // Metrics Setup
  metrics.MustRegister("serviceconnect-backend")

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Fatal error: DB init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  accountRepo := repos.NewAccountRepo(thePG, log)
  oneTimeCodeRepo := repos.NewOneTimeCodeRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  profileRepo := repos.NewProfileRepo(thePG, log)
  providerRepo := repos.NewProviderRepo(thePG, log)
  serviceRepo := repos.NewServiceRepo(thePG, log)
  serviceRegistryRepo := repos.NewServiceRegistryRepo(thePG, log)
  serviceRequestRepo := repos.NewServiceRequestRepo(thePG, log)
  bookingRepo := repos.NewBookingRepo(thePG, log)
  reviewRepo := repos.NewReviewRepo(thePG, log)
  paymentRepo := repos.NewPaymentRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Seed Setup
  log.Info("Attempting to Seed The Postgres From Main now...")
  seedCtx, cancelSeed := context.WithTimeout(context.Background(), time.Minute)
  if err := seed.SeedAll(seedCtx, thePG, log, serviceRepo, providerRepo, serviceRegistryRepo, catalogSeedPath); err != nil {
    log.Warn("Failed to seed data :(", "error", err)
  }
  cancelSeed()
  log.Info("Seeding of Postgres From Main Done :)")

  // Redis Setup
  log.Info("Setting Up Redis From Main Now...")
  redisClient, err := cache.Dial(redisAddress, redisPassword)
  if err != nil {
    log.Warn("Redis unavailable, using in-process cache and local websocket delivery", "error", err)
  }
  log.Info("Redis Setup From Main Done :)")

  // Cache Setup
  log.Info("Setting Up Catalog Cache From Main Now...")
  var catalogCache cache.Cache
  if redisClient != nil {
    catalogCache = cache.NewRedisCacheFromClient(log, redisClient)
  } else {
    catalogCache = cache.NewMemoryCache()
  }
  log.Info("Catalog Cache Set Up From Main Successful :)")

  // Websocket Setup
  log.Info("Setting Up Websocket Hub From Main Now :)")
  wsHub := socket.NewHub(log)
  log.Info("Websocket Hub Set Up From Main Successful :)")

  // Redis PubSub
  var redisPubSub *socket.RedisPubSub
  if redisClient != nil {
    log.Info("Setting Up Redis PubSub From Main Now :)")
    redisPubSub = socket.NewRedisPubSub(log, redisClient, socket.DefaultBroadcastChannel)
    if err := redisPubSub.StartSubscriber(wsHub); err != nil {
      log.Warn("Failed to subscribe to Redis pub/sub", "error", err)
      redisPubSub = nil
    } else {
      wsHub.SetRedisPubSub(redisPubSub)
      log.Info("Redis pubsub is active!")
    }
  }

  // Payment Gateway Setup
  log.Info("Setting Up Payment Gateway From Main Now...")
  paymentGateway, err := gateway.NewRazorpayGateway(log, razorpayKeyID, razorpayKeySecret)
  if err != nil {
    log.Error("Fatal error: Cannot init payment gateway", "error", err)
    os.Exit(1)
  }
  log.Info("Payment Gateway Set Up From Main Successful :)")

  // Services Setup
  log.Info("Setting up Services from Main now...")
  emailService, err := services.NewEmailService(log)
  if err != nil {
    log.Warn("Could not init EmailService", "error", err)
  }
  textService, err := services.NewTextService(log)
  if err != nil {
    log.Warn("Could not init TextService", "error", err)
  }
  notifier := services.NewNotifier(log, emailService, textService)
  otpService := services.NewOTPService(thePG, log, accountRepo, oneTimeCodeRepo)
  authService := services.NewAuthService(thePG, log, accountRepo, userTokenRepo, otpService, notifier, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  profileService := services.NewProfileService(thePG, log, profileRepo)
  catalogService := services.NewCatalogService(thePG, log, serviceRepo)
  registryService := services.NewRegistryService(thePG, log, serviceRegistryRepo)
  serviceRequestService := services.NewServiceRequestService(thePG, log, serviceRequestRepo, serviceRepo)
  bookingService := services.NewBookingService(thePG, log, bookingRepo)
  reviewService := services.NewReviewService(thePG, log, reviewRepo, serviceRegistryRepo, accountRepo)
  paymentService := services.NewPaymentService(thePG, log, paymentRepo, providerRepo, paymentGateway, wsHub, services.PaymentConfig{
    Currency:             paymentCurrency,
    MissingRecordPolicy:  policy,
  })
  log.Info("Services Set Up From Main Successful :)")

  //  Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  authHandler := handlers.NewAuthHandler(log, authService)
  profileHandler := handlers.NewProfileHandler(log, profileService)
  catalogHandler := handlers.NewCatalogHandler(log, catalogService, catalogCache)
  registryHandler := handlers.NewRegistryHandler(log, registryService)
  serviceRequestHandler := handlers.NewServiceRequestHandler(log, serviceRequestService)
  bookingHandler := handlers.NewBookingHandler(log, bookingService)
  reviewHandler := handlers.NewReviewHandler(log, reviewService)
  paymentHandler := handlers.NewPaymentHandler(log, paymentService)
  wsHandler := handlers.WsHandler(wsHub, log)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    AllowedOrigins:         allowedOrigins,
    HealthHandler:          handlers.Health(thePG),
    AuthHandler:            authHandler,
    AuthMiddleware:         authMiddleware,
    ProfileHandler:         profileHandler,
    CatalogHandler:         catalogHandler,
    RegistryHandler:        registryHandler,
    ServiceRequestHandler:  serviceRequestHandler,
    BookingHandler:         bookingHandler,
    ReviewHandler:          reviewHandler,
    PaymentHandler:         paymentHandler,
    WsHandler:              wsHandler,
  })
  log.Info("Router Set Up From Main Successful :)")

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Server listening", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }

  // On Shutdown
  if redisPubSub != nil {
    redisPubSub.Stop()
  }
  if redisClient != nil {
    _ = redisClient.Close()
  }
}
