package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kinderhub/kinderhub/internal/shared/errors"
)

// bindJSON decodes the request body. Shape rules are checked by the request
// DTOs themselves so the stable reason codes survive.
func bindJSON(c *gin.Context, target any) error {
	if err := c.ShouldBindJSON(target); err != nil {
		return errors.NewValidationError("invalid request body", err.Error())
	}
	return nil
}

// queryUint returns nil when key is absent or not a positive integer.
func queryUint(c *gin.Context, key string) *uint {
	n, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	v := uint(n)
	return &v
}
