package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

// Token purposes
const (
	PurposeSession       = "session"
	PurposePasswordReset = "password_reset"
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey       string
	SessionTokenExp time.Duration
	ResetTokenExp   time.Duration
	TokenIssuer     string
	// Now defaults to time.Now
	Now func() time.Time
}

// JWTService signs and validates session and password reset tokens
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &JWTService{config: config}
}

// Claims defines JWT token content
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Purpose  string `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateSessionToken creates a token bound to the logged-in user
func (s *JWTService) GenerateSessionToken(userID, username string) (token string, expiresIn int, err error) {
	token, err = s.sign(userID, username, PurposeSession, s.config.SessionTokenExp)
	if err != nil {
		return "", 0, err
	}
	return token, int(s.config.SessionTokenExp.Seconds()), nil
}

// GenerateResetToken creates a short lived password reset token
func (s *JWTService) GenerateResetToken(userID string) (string, error) {
	return s.sign(userID, "", PurposePasswordReset, s.config.ResetTokenExp)
}

func (s *JWTService) sign(userID, username, purpose string, ttl time.Duration) (string, error) {
	now := s.config.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Purpose:  purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   userID,
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", purpose, err)
	}
	return signed, nil
}

// ValidateToken parses tokenString and checks it was issued for purpose
func (s *JWTService) ValidateToken(tokenString, purpose string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.config.Now), jwt.WithIssuer(s.config.TokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" || claims.Purpose != purpose {
		return nil, apperrors.ErrTokenInvalid
	}
	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", apperrors.ErrTokenInvalid
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}
	// Raw token
	return authHeader, nil
}
