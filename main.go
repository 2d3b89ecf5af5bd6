package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"event-marketplace-server/config"
	"event-marketplace-server/database"
	"event-marketplace-server/jobs"
	"event-marketplace-server/middleware"
	"event-marketplace-server/routes"
	"event-marketplace-server/services"
	ws "event-marketplace-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	config.Load()

	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Realtime notification hub
	hub := ws.NewHub()
	go hub.Run()

	// Optional Redis-backed advisory locks for booking/bid collision domains
	var locker services.SlotLocker = services.NoopLocker{}
	if url := config.AppConfig.Redis.URL; url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			log.Fatal("Invalid REDIS_URL:", err)
		}
		locker = services.NewRedisLocker(redis.NewClient(opts))
		log.Println("✅ Redis slot locking enabled")
	} else {
		log.Println("⚠️ REDIS_URL not set, running without slot locks")
	}

	notifier := services.NewNotifier(database.DB, hub)
	bookingService := services.NewBookingService(database.DB, notifier, locker, config.AppConfig.Policy.OnLookupFailure)
	bidRequestService := services.NewBidRequestService(database.DB, notifier, locker)
	staffJobService := services.NewStaffJobService(database.DB, notifier)

	reconciliation := jobs.NewReconciliationJob(database.DB, bidRequestService)
	reconciliation.Start()
	defer reconciliation.Stop()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Event Marketplace Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Realtime notification socket (token via query parameter)
	notificationSocket := ws.NewNotificationHandler(hub)
	router.GET("/api/v1/ws/notifications", middleware.WebSocketAuthMiddleware(), notificationSocket.Handle)

	api := router.Group("/api/v1")
	{
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes, database.DB, middleware.AuthMiddleware())

		// Public service catalog; publishing goes through the protected group
		publicServices := api.Group("/services")
		protectedServices := api.Group("/services")
		protectedServices.Use(middleware.AuthMiddleware())
		routes.RegisterServiceRoutes(publicServices, protectedServices, database.DB)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			routes.RegisterBookingRoutes(protected.Group("/bookings"), bookingService)
			routes.RegisterBidRequestRoutes(protected.Group("/bid-request"), bidRequestService)
			routes.RegisterJobPostingRoutes(protected.Group("/jobs"), bidRequestService)
			routes.RegisterStaffJobRoutes(protected.Group("/staff-jobs"), staffJobService)
			routes.RegisterNotificationRoutes(protected.Group("/notifications"), notifier)
		}
	}

	port := config.AppConfig.Server.Port
	log.Printf("🚀 Event Marketplace Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
