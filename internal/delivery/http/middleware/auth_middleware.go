package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinic-backend/internal/domain/entity"
	"clinic-backend/internal/infrastructure/cache"
	"clinic-backend/pkg/jwt"
	"clinic-backend/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const CallerKey contextKey = "caller"

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	tokenStore cache.TokenStore
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, tokenStore cache.TokenStore, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenStore: tokenStore,
		log:        log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		if claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid token type")
			return
		}

		// Check if token is still whitelisted (not revoked)
		allowed, err := m.tokenStore.IsAllowed(r.Context(), cache.AccessTokenKey(claims.UserID, claims.TokenID))
		if err != nil {
			m.log.Warnf("Failed to validate token: %+v", err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !allowed {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		caller := &entity.Caller{
			UserID:  claims.UserID,
			Email:   claims.Email,
			Roles:   claims.Roles,
			TokenID: claims.TokenID,
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// WithCaller stores the caller in the context
func WithCaller(ctx context.Context, caller *entity.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

// GetCallerFromContext extracts the authenticated caller from context
func GetCallerFromContext(ctx context.Context) (*entity.Caller, bool) {
	caller, ok := ctx.Value(CallerKey).(*entity.Caller)
	return caller, ok && caller != nil
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	caller, ok := GetCallerFromContext(ctx)
	if !ok {
		return 0, false
	}
	return caller.UserID, true
}
