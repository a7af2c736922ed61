package service

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront-cms-backend/internal/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrInvalidToken       = errors.New("token is invalid or expired")
	ErrAuthNotConfigured  = errors.New("token issuance is not configured")
)

// TokenClaims are carried by both access and refresh tokens.
type TokenClaims struct {
	TokenType string `json:"token_type"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService issues token pairs for the configured admin account.
type AuthService struct {
	username     string
	passwordHash string
	jwtSecret    string
	accessTTL    time.Duration
	refreshTTL   time.Duration
}

func NewAuthService(username, passwordHash, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		jwtSecret:    jwtSecret,
		accessTTL:    accessTTL,
		refreshTTL:   refreshTTL,
	}
}

func (s *AuthService) configured() bool {
	return s.username != "" && s.passwordHash != "" && s.jwtSecret != ""
}

func (s *AuthService) Obtain(req models.TokenRequest) (*models.TokenPairResponse, error) {
	if !s.configured() {
		return nil, ErrAuthNotConfigured
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(req.Username)), []byte(s.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password))
	if !usernameMatch || passwordErr != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.generateToken(TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &models.TokenPairResponse{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) Refresh(req models.RefreshRequest) (*models.AccessTokenResponse, error) {
	if !s.configured() {
		return nil, ErrAuthNotConfigured
	}

	if _, err := s.ValidateToken(req.Refresh, TokenTypeRefresh); err != nil {
		return nil, err
	}

	access, err := s.generateToken(TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &models.AccessTokenResponse{Access: access}, nil
}

// ValidateToken parses tokenString and checks it is an unexpired token of
// the wanted type.
func (s *AuthService) ValidateToken(tokenString, tokenType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid || claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) generateToken(tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		TokenType: tokenType,
		Username:  s.username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   s.username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
