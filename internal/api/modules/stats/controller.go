package stats

import (
	"net/http"

	"github.com/ethanbaker/refbot/pkg/sdk"
	"github.com/gin-gonic/gin"
)

// getStats handles GET requests for the counts of one day
func getStats(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, err := svc.ParseDate(c.Query("date"))
		if err != nil {
			c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "date must be formatted as YYYY-MM-DD", err.Error()).AsGinResponse())
			return
		}

		c.JSON(sdk.NewSuccessResponse("Stats retrieved successfully", svc.Snapshot(c.Request.Context(), date)).AsGinResponse())
	}
}
