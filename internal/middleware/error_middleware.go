package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// HandleAPIError writes the error response matching the kind of err
func HandleAPIError(c *gin.Context, err error) {
	status, code := classify(err)
	message := apperrors.Message(err)

	detail := dto.NewErrorDetail(code, message)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Msg("Request failed")
		if errors.Is(err, apperrors.ErrStorage) || !isKnown(err) {
			// storage and unexpected failures never leak their cause
			detail.Message = "Internal server error"
		}
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, dto.ErrorCode) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.ErrorCodeConflict
	case errors.Is(err, apperrors.ErrNoActiveSession):
		return http.StatusUnauthorized, dto.ErrorCodeSessionEnded
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusForbidden, dto.ErrorCodeForbidden
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway, dto.ErrorCodeExternalServiceError
	case errors.Is(err, apperrors.ErrStorage):
		return http.StatusInternalServerError, dto.ErrorCodeStorageError
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer
	}
}

func isKnown(err error) bool {
	return apperrors.Is(err, apperrors.ErrUpstream, apperrors.ErrValidation, apperrors.ErrNotFound,
		apperrors.ErrConflict, apperrors.ErrUnauthorized)
}

// AbortWithError writes code and message and stops the handler chain
func AbortWithError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
