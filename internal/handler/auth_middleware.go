package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/suar-net/usage-pricing-be/internal/model"
	"github.com/suar-net/usage-pricing-be/internal/service"
)

type contextKey string

const identityContextKey = contextKey("identity")

type AuthMiddleware struct {
	authService service.IAuthService
	logger      logrus.FieldLogger
}

func NewAuthMiddleware(s service.IAuthService, l logrus.FieldLogger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: s,
		logger:      l,
	}
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller's identity in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			respondUnauthorized(w, "Not authenticated")
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		tokenString = strings.TrimSpace(tokenString)
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			respondUnauthorized(w, "Authorization header format must be Bearer {token}")
			return
		}

		identity, err := m.authService.ValidateToken(r.Context(), tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				respondUnauthorized(w, "Token has expired")
			} else {
				m.logger.WithError(err).Debug("Rejected bearer token")
				respondUnauthorized(w, "Could not validate credentials")
			}
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentityFromContext returns the identity stored by Authenticate.
func GetIdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	return identity, ok && identity != nil
}
