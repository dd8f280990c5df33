package health

import (
	"github.com/ethanbaker/refbot/pkg/destination"
	"github.com/ethanbaker/refbot/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// Return status of the API along with how many destinations the bot serves
func getStatus(destinations *destination.Destinations) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(sdk.NewSuccessResponse("OK", sdk.HealthResponse{Destinations: destinations.Len()}).AsGinResponse())
	}
}
