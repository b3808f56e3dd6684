package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"registration-service/internal/config"
	"registration-service/internal/domain"
	"registration-service/internal/logger"
	"registration-service/internal/security"

	"github.com/gorilla/mux"
)

type claimsKey struct{}

// AuthMiddleware enforces the security level configured for each named route.
// It runs before the handler, so forbidden callers never reach body validation.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level, name := config.SecurityAdmin, ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
			level = config.GetSecurityLevel(name)
		}

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.authenticate(r)
		if err == nil && !claims.HasRole(security.RoleAdmin) {
			err = fmt.Errorf("%w: admin role required", domain.ErrForbidden)
		}
		if err != nil {
			logger.WarnContext(r.Context(), "Admin access denied", "route", name, "remote_addr", r.RemoteAddr, "reason", err)
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*security.UserClaims, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return nil, fmt.Errorf("%w: authorization token is not provided", domain.ErrForbidden)
	}
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
		token = token[7:]
	}

	claims, err := m.tokenManager.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrForbidden, err)
	}
	return claims, nil
}

// ClaimsFromContext returns the admin claims injected by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*security.UserClaims)
	return claims, ok
}
