package api

import (
	"fmt"
	"net/http"

	"ovation/internal/cache"
	"ovation/internal/config"
	"ovation/internal/database"
	"ovation/internal/handlers"
	"ovation/internal/logger"
	"ovation/internal/messaging"
	"ovation/internal/middleware"
	"ovation/internal/repository"
	"ovation/internal/search"
	"ovation/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API server
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	cache    *cache.Client
	search   *search.Client
	services *service.Services
	repos    *repository.Repositories
}

// NewServer wires the server and all its backing clients
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", "error", err)
	}

	// Cache and search degrade gracefully: the API keeps serving from the
	// database when either is down.
	cacheClient, err := cache.NewClient(cfg.Cache)
	if err != nil {
		logger.Get().Warn("Cache unavailable, continuing without it", "error", err)
		cacheClient = nil
	}

	searchClient, err := search.NewClient(cfg.Search)
	if err != nil {
		logger.Get().Warn("Search unavailable, continuing without it", "error", err)
		searchClient = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, natsClient, searchClient, cacheClient, service.Config{
		HoldTTL: cfg.HoldTTL,
	})

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		cache:    cacheClient,
		search:   searchClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	api.Use(middleware.Identity())
	{
		events := api.Group("/events")
		{
			events.POST("", h.CreateEvent)
			events.GET("", h.ListEvents)
			events.GET("/search", h.SearchEvents)
			events.GET("/:id", h.GetEvent)
			events.GET("/:id/stats", h.GetEventStats)
			events.GET("/:id/seats", h.ListSeats)
			events.POST("/:id/seats", h.GenerateSeats)
			events.GET("/:id/seatmap", h.GetSeatMap)
			events.GET("/:id/tiers", h.GetTiers)
			events.PUT("/:id/tiers", h.ApplyTiers)
		}

		seats := api.Group("/seats")
		{
			seats.POST("/hold", h.HoldSeats)
			seats.PATCH("/release", h.ReleaseSeats)
		}

		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.ReserveTickets)
			bookings.POST("/confirm", h.ConfirmSeats)
			bookings.GET("", h.ListBookings)
			bookings.GET("/:id", h.GetBooking)
			bookings.PATCH("/cancel", h.CancelBooking)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	check := s.db.HealthCheck(c.Request.Context())
	status := http.StatusOK
	if check.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   check.Status,
		"service":  "ovation-api",
		"database": check,
	})
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes all backing connections
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			logger.Get().Error("Error closing cache connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
