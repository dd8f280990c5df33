package sdk

import (
	"github.com/ethanbaker/api/pkg/api_types"
	"github.com/ethanbaker/refbot/pkg/stats"
)

// ApiResponse represents a standard API response structure
type ApiResponse[T any] struct {
	Status  api_types.StatusType `json:"status"`          // Status message
	Code    int                  `json:"code"`            // Status code
	Message string               `json:"message"`         // Human-readable message
	Data    T                    `json:"data,omitempty"`  // Optional data field for successful responses
	Error   any                  `json:"error,omitempty"` // Optional errors field for error responses
}

// AsGinResponse converts the ApiResponse to a format suitable for Gin framework
func (r ApiResponse[T]) AsGinResponse() (int, any) {
	return r.Code, r
}

func NewSuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Status:  api_types.StatusSuccess,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(code int, message string, err any) ApiResponse[any] {
	return ApiResponse[any]{
		Status:  api_types.StatusError,
		Code:    code,
		Message: message,
		Error:   err,
	}
}

/** Stats DTOs */

// StatsResponse is the body of GET /api/stats
type StatsResponse struct {
	Date         string       `json:"date"`         // Day the "today" counts refer to (YYYY-MM-DD)
	Destinations []stats.Line `json:"destinations"` // One line per configured destination
}

/** Health DTOs */

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Destinations int `json:"destinations"` // Number of configured destinations
}
