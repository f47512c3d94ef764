package services

import (
	"errors"
	"fmt"
	"time"

	"flagship/internal/models"
	"flagship/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles business logic for user accounts and bearer tokens.
//
// The signing secret lives for the lifetime of the process and is never
// persisted: restarting the process invalidates all outstanding tokens.
// There is no revocation list.
type AuthService struct {
	userRepo      repositories.UserRepository
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new AuthService signing tokens with the given
// secret. Tokens are valid for one hour.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret []byte) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		tokenDuration: time.Hour,
	}
}

// CreateUser registers a new user, hashing the raw password before storage.
// The raw password is never persisted or logged. Returns
// ErrDuplicateUsername if the username is already taken, surfaced by the
// store's unique constraint.
func (s *AuthService) CreateUser(username, rawPassword string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login authenticates a user by username and password. Both an unknown
// username and a wrong password yield ErrInvalidCredentials.
func (s *AuthService) Login(username, rawPassword string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(rawPassword)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GenerateToken issues a signed JWT for a user. The username is embedded as
// the subject; the token expires one hour after issuance.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   user.Username,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenDuration).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ExtractUsername parses a JWT, verifies its signature and returns the
// subject username. Malformed, forged and expired tokens all fail.
func (s *AuthService) ExtractUsername(tokenString string) (string, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ValidateTokenForUser reports whether a token is valid for the given user:
// the signature must verify, the subject must equal the user's username and
// the token must not be expired. No grace period.
func (s *AuthService) ValidateTokenForUser(tokenString string, user *models.User) bool {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return false
	}
	return claims.Subject == user.Username && time.Now().Unix() < claims.ExpiresAt
}

// parseToken parses and verifies a JWT, returning the decoded claims.
func (s *AuthService) parseToken(tokenString string) (*jwt.StandardClaims, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
