package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// QueryInt64 extracts an int64 from query parameters with default value.
// Used for message id cursors (since_id).
func QueryInt64(c *gin.Context, key string, defaultValue int64) int64 {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// ParamInt64 extracts an int64 from path parameters
// Returns the parsed int64 and error if parsing fails
func ParamInt64(c *gin.Context, key string) (int64, error) {
	valueStr := c.Param(key)
	return strconv.ParseInt(valueStr, 10, 64)
}
