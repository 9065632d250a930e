package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/suar-net/usage-pricing-be/internal/config"
	"github.com/suar-net/usage-pricing-be/internal/model"
	"github.com/suar-net/usage-pricing-be/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo  repository.IUserRepository
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

type AuthOption func(*authService)

// WithClock replaces time.Now for both issuing and validating tokens.
func WithClock(now func() time.Time) AuthOption {
	return func(s *authService) {
		s.now = now
	}
}

func NewAuthService(userRepo repository.IUserRepository, jwtConfig config.JWTConfig, opts ...AuthOption) IAuthService {
	s := &authService{
		userRepo:  userRepo,
		secretKey: []byte(jwtConfig.SecretKey),
		ttl:       jwtConfig.TTL(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueToken checks the credentials and mints an access token. Unknown users
// and wrong passwords both yield ErrInvalidCredentials.
func (s *authService) IssueToken(ctx context.Context, username, password string) (*model.DTOLoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !passwordMatches(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	// Tokens carry whole seconds, so issuing is anchored to the second too.
	now := s.now().Truncate(time.Second)
	claims := &model.Claims{
		UserID: user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &model.DTOLoginResponse{
		AccessToken: tokenString,
		TokenType:   model.TokenTypeBearer,
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*model.Identity, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &model.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return &model.Identity{
		Username: claims.Subject,
		UserID:   claims.UserID,
	}, nil
}

// SeedUser creates the user unless the username is already taken, in which
// case the stored row is returned untouched. An empty userID gets a random
// UUID. The password is stored as a bcrypt hash.
func (s *authService) SeedUser(ctx context.Context, username, password, userID string) (*model.User, error) {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error checking for existing user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	if userID == "" {
		userID = uuid.NewString()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := model.User{
		Username: username,
		UserID:   userID,
		Password: string(hashed),
	}

	id, err := s.userRepo.Create(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = id
	return &user, nil
}

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// passwordMatches accepts both bcrypt hashes and cleartext rows.
func passwordMatches(stored, supplied string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(stored, prefix) {
			return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
		}
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
