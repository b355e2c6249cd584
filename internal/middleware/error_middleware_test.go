package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(err error) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/fail", func(c *gin.Context) { HandleAPIError(c, err) })
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	return rec
}

func TestHandleAPIError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"validation", apperrors.NewValidationError("Title is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Title is required"},
		{"not found", apperrors.NewNotFoundError("Topic not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Topic not found"},
		{"conflict", apperrors.NewConflictError("Already friends"), http.StatusConflict, dto.ErrorCodeConflict, "Already friends"},
		{"no session", apperrors.ErrNoActiveSession, http.StatusUnauthorized, dto.ErrorCodeSessionEnded, "no active session"},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "token expired"},
		{"forbidden", apperrors.NewUnauthorizedError("Admins only"), http.StatusForbidden, dto.ErrorCodeForbidden, "Admins only"},
		{
			"upstream keeps status message",
			apperrors.NewUpstreamError("image", errors.New("boom")).(*apperrors.CustomError).WithStatusMsg("Image service unavailable"),
			http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Image service unavailable",
		},
		{"storage is masked", apperrors.NewStorageError("users", errors.New("disk full")), http.StatusInternalServerError, dto.ErrorCodeStorageError, "Internal server error"},
		{"unknown is masked", errors.New("nil pointer"), http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveError(tt.err)
			assert.Equal(t, tt.status, rec.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
		})
	}
}

type fixedSession struct {
	user models.User
	ok   bool
}

func (s fixedSession) Current() (models.User, bool) { return s.user, s.ok }

func TestAuthMiddleware(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "middleware-secret",
		SessionTokenExp: time.Hour,
		ResetTokenExp:   time.Minute,
		TokenIssuer:     "collegeportal.test",
	})
	member := models.User{ID: "u1", Username: "asha"}
	admin := models.User{ID: "u2", Username: "devendar", IsAdmin: true}

	memberToken, _, err := jwtService.GenerateSessionToken(member.ID, member.Username)
	require.NoError(t, err)
	adminToken, _, err := jwtService.GenerateSessionToken(admin.ID, admin.Username)
	require.NoError(t, err)
	resetToken, err := jwtService.GenerateResetToken(member.ID)
	require.NoError(t, err)

	serve := func(session SessionSource, path, header string) *httptest.ResponseRecorder {
		m := NewAuthMiddleware(jwtService, session)
		router := gin.New()
		router.GET("/me", m.JWTAuth(), func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(ContextUserID))
		})
		router.GET("/admin", m.JWTAuth(), m.AdminRequired(), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("bearer token of the active user", func(t *testing.T) {
		rec := serve(fixedSession{member, true}, "/me", "Bearer "+memberToken)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, member.ID, rec.Body.String())
	})

	t.Run("quoted raw token", func(t *testing.T) {
		rec := serve(fixedSession{member, true}, "/me", `"`+memberToken+`"`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("query token", func(t *testing.T) {
		rec := serve(fixedSession{member, true}, "/me?token="+memberToken, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := serve(fixedSession{member, true}, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("reset token is not a session token", func(t *testing.T) {
		rec := serve(fixedSession{member, true}, "/me", "Bearer "+resetToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token of a user who is not logged in", func(t *testing.T) {
		rec := serve(fixedSession{admin, true}, "/me", "Bearer "+memberToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = serve(fixedSession{}, "/me", "Bearer "+memberToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin route", func(t *testing.T) {
		rec := serve(fixedSession{member, true}, "/admin", "Bearer "+memberToken)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = serve(fixedSession{admin, true}, "/admin", "Bearer "+adminToken)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
