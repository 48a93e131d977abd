package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "pomflow/internal/errors"
	"pomflow/internal/syncapi"
)

// writeError renders apiErr as the JSON error envelope the sync client
// decodes. A nil error is reported as an internal error.
func writeError(c *gin.Context, apiErr *apperrors.APIError) {
	if apiErr == nil {
		apiErr = apperrors.Internal("")
	}
	c.JSON(apiErr.Status, syncapi.ErrorEnvelope{
		Error: syncapi.ErrorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}

// bindJSON decodes the body into dst and writes the invalid_json error when
// that fails.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, apperrors.BadRequest("invalid_json", "invalid request body"))
		return false
	}
	return true
}
