package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/taxdesk/backend/database"
	"github.com/taxdesk/backend/handlers"
	"github.com/taxdesk/backend/models"
	"github.com/taxdesk/backend/natsserver"
	"github.com/taxdesk/backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
	defer database.Close()

	// Start embedded NATS server for the invoice event stream
	natsPort := 4222
	if raw := os.Getenv("EVENTS_NATS_PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			natsPort = p
		} else {
			log.Printf("⚠️ Invalid EVENTS_NATS_PORT %q, using %d", raw, natsPort)
		}
	}
	natsServer, err := natsserver.New(natsserver.Config{Port: natsPort})
	if err != nil {
		log.Fatalf("❌ Failed to start NATS server: %v", err)
	}
	defer natsServer.Shutdown()
	log.Printf("📡 Embedded NATS server started at %s", natsServer.ClientURL())

	// Initialize event hub for WebSocket streaming to admin dashboards
	eventHub := services.NewEventHub(natsServer.Conn())
	go eventHub.Run()
	handlers.SetEventHub(eventHub)
	log.Println("📺 Invoice event hub initialized")

	// Setup Gin router
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(config))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// WebSocket route for invoice events (outside /api group)
	router.GET("/ws/events", handlers.HandleEventsWebSocket)

	// API Routes
	api := router.Group("/api")
	{
		// Client auth + client-scoped downloads
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/login", handlers.LoginUser)

			authed := auth.Group("", handlers.AuthMiddleware(), handlers.RequireRole(models.RoleUser))
			{
				authed.GET("/invoices/:id/download", handlers.DownloadOwnInvoice)
			}
		}

		// Client invoice routes
		invoices := api.Group("/invoices", handlers.AuthMiddleware(), handlers.RequireRole(models.RoleUser))
		{
			invoices.POST("/create", handlers.CreateInvoice)
			invoices.GET("/my-invoices", handlers.MyInvoices)
		}

		// Admin routes
		admin := api.Group("/admin")
		{
			admin.POST("/register", handlers.RegisterAdmin)
			admin.POST("/login", handlers.LoginAdmin)

			guarded := admin.Group("", handlers.AuthMiddleware(), handlers.RequireRole(models.RoleAdmin))
			{
				guarded.GET("/invoices", handlers.AdminListInvoices)
				guarded.GET("/invoices/:id/download", handlers.DownloadInvoice)
				guarded.GET("/users", handlers.AdminListUsers)
				guarded.PATCH("/:invoiceId", handlers.UpdateInvoiceStatus)
			}
		}

		// Event hub stats
		api.GET("/events/stats", handlers.AuthMiddleware(), handlers.RequireRole(models.RoleAdmin), handlers.GetEventHubStats)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	log.Printf("🚀 Server running on http://localhost:%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}
}
