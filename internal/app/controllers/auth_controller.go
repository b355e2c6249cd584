// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/app/models/dto"
	"github.com/yigit/collegeportal/internal/app/services"
	"github.com/yigit/collegeportal/internal/middleware"
	"github.com/yigit/collegeportal/internal/pkg/auth"
)

// AuthController handles the portal session
type AuthController struct {
	session    *services.SessionService
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(session *services.SessionService, jwtService *auth.JWTService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		session:    session,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Signup handles account creation
// @Summary Create an account
// @Description Creates a user and logs it in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account information"
// @Success 201 {object} dto.StructuredResponse{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 409 {object} dto.ErrorResponse "Username or email taken"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !middleware.BindJSON(ctx, &req) {
		c.logger.Warn().Msg("Invalid signup request payload")
		return
	}

	user, err := c.session.Signup(ctx.Request.Context(), req.ToSignupData())
	if err != nil {
		c.logger.Warn().Err(err).Str("username", req.Username).Msg("Signup failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondWithToken(ctx, http.StatusCreated, user, "Account created")
}

// Login handles user login
// @Summary User login
// @Description Logs in by username and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.StructuredResponse{data=dto.AuthResponse}
// @Failure 403 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.session.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.respondWithToken(ctx, http.StatusOK, user, "Login successful")
}

func (c *AuthController) respondWithToken(ctx *gin.Context, status int, user models.User, message string) {
	token, expiresIn, err := c.jwtService.GenerateSessionToken(user.ID, user.Username)
	if err != nil {
		c.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to sign session token")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(status, dto.NewStructuredResponse(dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(expiresIn),
		},
		User: user,
	}, message))
}

// Logout ends the session
// @Summary Log out
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.session.Logout(ctx.Request.Context())
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Logged out"))
}

// Me returns the logged in user
func (c *AuthController) Me(ctx *gin.Context) {
	user, ok := c.session.Current()
	if !ok {
		middleware.AbortWithError(ctx, http.StatusUnauthorized, dto.ErrorCodeSessionEnded, "No user is logged in.")
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(user, "Current user"))
}

// UpdateProfile edits the logged in user's profile
// @Summary Update profile
// @Tags auth
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.StructuredResponse{data=models.User}
// @Router /auth/me [patch]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.session.UpdateProfile(ctx.Request.Context(), req.ToProfileUpdate())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(user, "Profile updated"))
}

// ForgotPassword sends a reset link. The response does not reveal whether the address exists.
// @Summary Request a password reset
// @Tags auth
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.StructuredResponse
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.session.RequestPasswordReset(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "If an account exists for this email, a reset link has been sent."))
}

// ResetPassword stores a new password for the holder of a reset token
// @Summary Reset password
// @Tags auth
// @Param request body dto.ResetPasswordRequest true "Token and new password"
// @Success 200 {object} dto.StructuredResponse
// @Failure 404 {object} dto.ErrorResponse "Invalid or expired token"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.session.ResetPassword(ctx.Request.Context(), req.Token, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Password has been reset"))
}

// GetTheme returns the stored theme
func (c *AuthController) GetTheme(ctx *gin.Context) {
	theme := c.session.Theme(ctx.Request.Context())
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.ThemeResponse{Theme: theme}, "Theme"))
}

// SetTheme stores the theme
func (c *AuthController) SetTheme(ctx *gin.Context) {
	var req dto.ThemeRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := c.session.SetTheme(ctx.Request.Context(), req.Theme); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.ThemeResponse{Theme: req.Theme}, "Theme updated"))
}
