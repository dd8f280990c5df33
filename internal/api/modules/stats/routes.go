package stats

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the routes for the stats module
func RegisterRoutes(g *gin.RouterGroup, svc *Service) {
	group := g.Group("/stats")

	group.GET("", getStats(svc)) // Counts per destination for ?date= (default today)
}
