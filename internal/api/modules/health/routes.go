package health

import (
	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the routes for the health module
func RegisterRoutes(g *gin.RouterGroup, destinations *destination.Destinations) {
	g.GET("/health", getStatus(destinations))
}
