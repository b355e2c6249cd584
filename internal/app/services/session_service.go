package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/app/models"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
	"github.com/yigit/collegeportal/internal/pkg/auth"
	"github.com/yigit/collegeportal/internal/pkg/email"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
	"github.com/yigit/collegeportal/internal/pkg/validation"
)

// Themes accepted by SetTheme
const (
	ThemeDefaultBlue = "default-blue"
	ThemeForestGreen = "forest-green"
	ThemeDeepPurple  = "deep-purple"
)

var errMissingSigner = errors.New("reset tokens are not configured")

// SessionService handles login state of the portal
type SessionService struct {
	st              *portalState
	jwt             *auth.JWTService
	mailer          email.EmailService
	baseURL         string
	verifyPasswords bool
	logger          zerolog.Logger
}

// Current returns the logged in user
func (s *SessionService) Current() (models.User, bool) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	u, err := s.st.requireActive()
	return u, err == nil
}

// Restore resolves the persisted session against the current users collection
func (s *SessionService) Restore(ctx context.Context) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	session := kvstore.Load(ctx, s.st.store, kvstore.KeySession, models.Session{})
	if session.UserID == "" {
		// older records only carry the embedded user
		session.UserID = session.User.ID
	}
	if session.UserID == "" {
		return
	}

	fresh, ok := s.st.repos.Users.GetByID(session.UserID)
	if !ok {
		s.logger.Info().Str("userID", session.UserID).Msg("Persisted session user no longer exists")
		s.st.clearActive(ctx)
		return
	}
	s.st.setActive(ctx, fresh)
	s.logger.Debug().Str("userID", fresh.ID).Msg("Session restored")
}

// Login starts a session for username, ignoring case
func (s *SessionService) Login(ctx context.Context, username, password string) (models.User, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	user, ok := s.st.repos.Users.GetByUsername(strings.TrimSpace(username))
	if !ok {
		return models.User{}, apperrors.NewNotFoundError("User not found")
	}

	if s.verifyPasswords {
		// accounts without a stored credential, like the seeded admin, log in freely until a password is set
		if hash, ok := s.st.repos.Credentials.GetHash(user.ID); ok && !auth.CheckPassword(hash, password) {
			s.logger.Warn().Str("userID", user.ID).Msg("Login with wrong password")
			return models.User{}, apperrors.NewUnauthorizedError("Invalid credentials")
		}
	}

	s.st.setActive(ctx, user)
	s.logger.Info().Str("userID", user.ID).Msg("User logged in")
	return user, nil
}

// Signup creates an account and logs it in
func (s *SessionService) Signup(ctx context.Context, data models.SignupData) (models.User, error) {
	data.Name = validation.SanitizeText(data.Name)
	data.Username = strings.TrimSpace(data.Username)
	data.Email = strings.TrimSpace(data.Email)
	data.Branch = validation.SanitizeText(data.Branch)
	if err := validateSignup(data); err != nil {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(data.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return models.User{}, err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, taken := s.st.repos.Users.GetByUsername(data.Username); taken {
		return models.User{}, apperrors.NewConflictError("Username is already taken.")
	}
	if _, taken := s.st.repos.Users.GetByEmail(data.Email); taken {
		return models.User{}, apperrors.NewConflictError("User with this email already exists.")
	}

	avatar := strings.TrimSpace(data.AvatarURL)
	if avatar == "" {
		avatar = "https://i.pravatar.cc/150?u=" + data.Email
	}

	user := s.st.repos.Users.Create(ctx, models.User{
		Name:      data.Name,
		Username:  data.Username,
		Email:     data.Email,
		Branch:    data.Branch,
		Year:      data.Year,
		AvatarURL: avatar,
		IsAdmin:   false,
	})
	s.st.repos.Credentials.SetHash(ctx, user.ID, hash)
	s.st.setActive(ctx, user)

	s.logger.Info().Str("userID", user.ID).Str("username", user.Username).Msg("User signed up")
	return user, nil
}

func validateSignup(data models.SignupData) error {
	switch {
	case !validation.ValidName(data.Name):
		return apperrors.NewValidationError("Name must be between 2 and 100 characters.")
	case !validation.ValidUsername(data.Username):
		return apperrors.NewValidationError("Username must be 3-30 letters, digits, dots or underscores.")
	case !validation.ValidEmail(data.Email):
		return apperrors.NewValidationError("Email address is invalid.")
	case !validation.ValidYear(data.Year):
		return apperrors.NewValidationError("Year must be between 1 and 6.")
	case len(data.Password) < validation.PasswordMinLength:
		return apperrors.NewValidationError("Password must be at least 6 characters.")
	}
	return nil
}

// Logout ends the session. It always succeeds.
func (s *SessionService) Logout(ctx context.Context) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if s.st.active != nil {
		s.logger.Info().Str("userID", s.st.active.ID).Msg("User logged out")
	}
	s.st.clearActive(ctx)
}

// RefreshUser re-reads the session user from the users collection
func (s *SessionService) RefreshUser(ctx context.Context) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.refreshActive(ctx)
}

// UpdateProfile merges update into the session user
func (s *SessionService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (models.User, error) {
	if update.Name != nil {
		name := validation.SanitizeText(*update.Name)
		if !validation.ValidName(name) {
			return models.User{}, apperrors.NewValidationError("Name must be between 2 and 100 characters.")
		}
		update.Name = &name
	}
	if update.Branch != nil {
		branch := validation.SanitizeText(*update.Branch)
		update.Branch = &branch
	}
	if update.Year != nil && !validation.ValidYear(*update.Year) {
		return models.User{}, apperrors.NewValidationError("Year must be between 1 and 6.")
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	current, err := s.st.requireActive()
	if err != nil {
		return models.User{}, apperrors.NewUnauthorizedError("No user is logged in.")
	}
	updated, ok := s.st.repos.Users.Update(ctx, current.ID, update.Apply)
	if !ok {
		s.st.clearActive(ctx)
		return models.User{}, apperrors.NewNotFoundError("User not found")
	}
	s.st.setActive(ctx, updated)
	return updated, nil
}

// RequestPasswordReset sends a reset link to email. Unknown addresses are logged and ignored.
func (s *SessionService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	s.st.mu.Lock()
	user, ok := s.st.repos.Users.GetByEmail(strings.TrimSpace(emailAddr))
	s.st.mu.Unlock()

	if !ok {
		s.logger.Info().Str("email", emailAddr).Msg("Password reset requested for non-existent user")
		return nil
	}
	if s.jwt == nil {
		return apperrors.NewUpstreamError("token signer", errMissingSigner)
	}

	token, err := s.jwt.GenerateResetToken(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to sign reset token")
		return err
	}
	resetURL := strings.TrimRight(s.baseURL, "/") + "/#/reset-password/" + token

	if err := s.mailer.SendPasswordResetEmail(user.Email, user.Name, resetURL); err != nil {
		s.logger.Error().Err(err).Str("userID", user.ID).Msg("Failed to send password reset email")
		return apperrors.NewUpstreamError("smtp", err)
	}
	s.logger.Info().Str("userID", user.ID).Msg("Password reset link issued")
	return nil
}

// ResetPassword stores newPassword for the user named by a reset token
func (s *SessionService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < validation.PasswordMinLength {
		return apperrors.NewValidationError("Password must be at least 6 characters.")
	}
	if s.jwt == nil {
		return apperrors.NewNotFoundError("Invalid or expired reset token.")
	}

	claims, err := s.jwt.ValidateToken(token, auth.PurposePasswordReset)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Rejected reset token")
		return apperrors.NewNotFoundError("Invalid or expired reset token.")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	if _, ok := s.st.repos.Users.GetByID(claims.UserID); !ok {
		return apperrors.NewNotFoundError("Invalid or expired reset token.")
	}
	s.st.repos.Credentials.SetHash(ctx, claims.UserID, hash)
	s.logger.Info().Str("userID", claims.UserID).Msg("Password reset")
	return nil
}

// Theme returns the stored theme preference
func (s *SessionService) Theme(ctx context.Context) string {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return kvstore.Load(ctx, s.st.store, kvstore.KeyTheme, ThemeDefaultBlue)
}

// SetTheme stores the theme preference
func (s *SessionService) SetTheme(ctx context.Context, theme string) error {
	switch theme {
	case ThemeDefaultBlue, ThemeForestGreen, ThemeDeepPurple:
	default:
		return apperrors.NewValidationError("Unknown theme.")
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.store.Save(ctx, kvstore.KeyTheme, theme)
	return nil
}
