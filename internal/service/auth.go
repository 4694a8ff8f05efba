// Package service implements the agreement assistant: serializing agreements,
// assembling prompts, calling the model and issuing access tokens.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Roles carried in access tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const tokenIssuer = "agreement-assistant"

// ErrBadCredentials is returned by Authenticate when no password hash matches.
var ErrBadCredentials = errors.New("invalid credentials")

// AuthClaims are the JWT claims for an access token. Subject is the display
// name given at login.
type AuthClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// AuthService handles JWT signing/verification and password checking.
type AuthService struct {
	jwtSecret  []byte
	jwtExpiryH int
	bcryptCost int

	userHash  string
	adminHash string
}

// NewAuthService creates a new AuthService.
// jwtSecret is the HMAC-SHA256 signing key.
// expiryHours is the JWT token lifetime in hours.
func NewAuthService(jwtSecret string, expiryHours int) *AuthService {
	if expiryHours <= 0 {
		expiryHours = 24
	}
	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		jwtExpiryH: expiryHours,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithPasswords sets the bcrypt hashes of the shared access password and the
// optional admin password.
func (s *AuthService) WithPasswords(userHash, adminHash string) *AuthService {
	s.userHash = userHash
	s.adminHash = adminHash
	return s
}

// CheckPassword verifies a plaintext password against a bcrypt hash.
// Returns nil if the password matches, an error otherwise.
func (s *AuthService) CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// HashPassword generates a bcrypt hash for the given password.
func (s *AuthService) HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Authenticate returns the role granted by password. The admin password is
// checked first.
func (s *AuthService) Authenticate(password string) (string, error) {
	if s.adminHash != "" && s.CheckPassword(s.adminHash, password) == nil {
		return RoleAdmin, nil
	}
	if s.userHash != "" && s.CheckPassword(s.userHash, password) == nil {
		return RoleUser, nil
	}
	return "", ErrBadCredentials
}

// SignToken creates a signed JWT for the given subject.
func (s *AuthService) SignToken(subject, role string) (string, error) {
	now := time.Now().UTC()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.jwtExpiryH) * time.Hour)),
			Issuer:    tokenIssuer,
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign JWT: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a JWT string, returning the claims.
func (s *AuthService) VerifyToken(tokenStr string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing sub")
	}
	if claims.Role != RoleUser && claims.Role != RoleAdmin {
		return nil, fmt.Errorf("token has unknown role %q", claims.Role)
	}

	return claims, nil
}
