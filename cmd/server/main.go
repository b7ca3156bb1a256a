package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"

	"github.com/linkedbus/bus-ticketing-backend/internal/config"
	"github.com/linkedbus/bus-ticketing-backend/internal/database"
	"github.com/linkedbus/bus-ticketing-backend/internal/handlers"
	"github.com/linkedbus/bus-ticketing-backend/internal/middleware"
	"github.com/linkedbus/bus-ticketing-backend/internal/models"
	"github.com/linkedbus/bus-ticketing-backend/internal/services"
	"github.com/linkedbus/bus-ticketing-backend/internal/utils"
	"github.com/linkedbus/bus-ticketing-backend/pkg/jwt"
	"github.com/linkedbus/bus-ticketing-backend/pkg/mailer"
	"github.com/linkedbus/bus-ticketing-backend/pkg/razorpay"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting LinkedBus Ticketing Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	busRepository := database.NewBusRepository(db)
	seatRepository := database.NewSeatRepository(db)
	paymentRepository := database.NewPaymentRepository(db)
	bookingRepository := database.NewBookingRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	gatewayClient := razorpay.NewClient(razorpay.Config{
		BaseURL:   cfg.Razorpay.BaseURL,
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
	})

	var mailSender mailer.Sender
	if cfg.SMTP.Enabled {
		mailSender = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		logger.Warn("SMTP disabled, booking emails will not be sent")
		mailSender = mailer.NoopSender{}
	}

	authService := services.NewAuthService(userRepository, jwtService, logger)
	paymentService := services.NewPaymentService(paymentRepository, gatewayClient, logger)
	fareValidator := services.NewFareValidator()
	bookingService := services.NewBookingService(
		db,
		seatRepository,
		bookingRepository,
		userRepository,
		busRepository,
		paymentService,
		fareValidator,
		mailSender,
		logger,
	)
	dashboardService := services.NewDashboardService(userRepository, busRepository, bookingRepository)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	busHandler := handlers.NewBusHandler(busRepository, seatRepository, logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	invoiceHandler := handlers.NewInvoiceHandler(bookingService, logger)
	adminHandler := handlers.NewAdminHandler(dashboardService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Bus search routes (public)
		buses := v1.Group("/buses")
		{
			buses.GET("/search", busHandler.Search)
			buses.GET("/:id", busHandler.Get)
			buses.GET("/:id/seats", busHandler.Seats)
		}

		// Authenticated routes
		authenticated := v1.Group("")
		authenticated.Use(middleware.AuthMiddleware(jwtService))
		{
			authenticated.GET("/users/profile", authHandler.Profile)

			payments := authenticated.Group("/payments")
			{
				payments.POST("/create-order", paymentHandler.CreateOrder)
				payments.POST("/verify", paymentHandler.Verify)
			}

			bookings := authenticated.Group("/bookings")
			{
				bookings.POST("", bookingHandler.Book)
				bookings.GET("/:id", bookingHandler.Get)
				bookings.GET("/user/:user_id", bookingHandler.ByUser)
				bookings.GET("/:id/invoice", invoiceHandler.Download)
				bookings.POST("/:id/cancel", bookingHandler.Cancel)
			}

			// Admin routes
			admin := authenticated.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/dashboard", adminHandler.Dashboard)
				admin.GET("/buses", busHandler.List)
				admin.POST("/buses", busHandler.Create)
				admin.PUT("/buses/:id", busHandler.Update)
				admin.GET("/payments", paymentHandler.List)
			}

			// Refunds are admin-only
			authenticated.POST("/bookings/:id/refund",
				middleware.RequireRole(models.RoleAdmin), bookingHandler.Refund)
		}
	}

	// Configure HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)

		ua := user_agent.New(c.Request.UserAgent())
		browser, browserVersion := ua.Browser()

		fields := logrus.Fields{
			"request_id": requestID,
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         utils.GetRealIP(c),
			"latency_ms": latency.Milliseconds(),
			"browser":    browser + " " + browserVersion,
			"os":         ua.OS(),
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "healthy"
		statusCode := http.StatusOK
		if err := db.Ping(); err != nil {
			dbStatus = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":    dbStatus,
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
