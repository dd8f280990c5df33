package api

import (
	"fmt"
	"log"
	"strings"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/ethanbaker/refbot/pkg/stats"
	"github.com/ethanbaker/refbot/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	health_module "github.com/ethanbaker/refbot/internal/api/modules/health"
	stats_module "github.com/ethanbaker/refbot/internal/api/modules/stats"
)

// DefaultPort is used when API_PORT is not set
const DefaultPort = 8081

// NewEngine builds the gin engine serving the read-only stats API
func NewEngine(cfg *utils.Config, store stats.StoreInterface, destinations *destination.Destinations) *gin.Engine {
	// Add app level settings/routes
	engine := gin.Default()
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	// Adding custom modules
	health_module.RegisterRoutes(baseGroup, destinations)
	stats_module.RegisterRoutes(baseGroup, stats_module.NewService(store, destinations, cfg.GetLocation("TZ_LOCATION")))

	return engine
}

// Start serves the stats API on API_PORT. It blocks until the server stops
func Start(cfg *utils.Config, store stats.StoreInterface, destinations *destination.Destinations) error {
	port, err := Port(cfg)
	if err != nil {
		return err
	}
	engine := NewEngine(cfg, store, destinations)

	log.Printf("[API-MAIN]: Starting stats API on port %d", port)
	if err := engine.Run(fmt.Sprintf(":%d", port)); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Port reads API_PORT. A value that is not a number falls back to DefaultPort
func Port(cfg *utils.Config) (int, error) {
	port := cfg.GetIntWithDefault("API_PORT", DefaultPort)
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("API_PORT must be between 1 and 65535, got %d", port)
	}
	return port, nil
}
