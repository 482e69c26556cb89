package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/puckline/matchup/models"
)

// asMatchupError unwraps err to a MatchupError, wrapping unknown errors as
// INTERNAL_ERROR.
func asMatchupError(err error) *models.MatchupError {
	var me *models.MatchupError
	if errors.As(err, &me) {
		return me
	}
	return models.NewMatchupError(models.ErrCodeInternal, err.Error(), err)
}

// statusFor translates error codes to HTTP status codes.
func statusFor(code string) int {
	switch code {
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeNavigation, models.ErrCodeExportFailed:
		return http.StatusBadGateway // 502
	case models.ErrCodeBrowserCrash, models.ErrCodeUnavailable:
		return http.StatusServiceUnavailable // 503
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	default:
		return http.StatusInternalServerError // 500
	}
}

// badRequest rejects a request whose body failed to bind or validate.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: &models.ErrorDetail{Code: models.ErrCodeInvalidInput, Message: msg},
	})
}
