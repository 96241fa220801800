package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"askbox-backend/pkg/auth"
)

// Auth provides JWT-backed authentication middleware. Two flavors exist:
// Require for endpoints that need an identity, and Optional for the ask
// endpoint, where an unauthenticated sender is a feature.
type Auth struct {
	validator   *auth.JWTValidator
	ipLimiter   *auth.IPRateLimiter
	userLimiter *auth.UserRateLimiter
	logger      *zap.Logger
}

// NewAuth creates the authentication middleware
func NewAuth(validator *auth.JWTValidator, logger *zap.Logger) *Auth {
	return &Auth{
		validator:   validator,
		ipLimiter:   auth.NewIPRateLimiter(100),
		userLimiter: auth.NewUserRateLimiter(200),
		logger:      logger,
	}
}

// Require rejects requests without a valid bearer token
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.allowIP(w, r) {
			return
		}

		token := extractToken(r)
		if token == "" {
			respondUnauthorized(w, "Missing authentication token")
			return
		}

		claims, err := a.validator.ValidateToken(token)
		if err != nil {
			a.logger.Warn("Invalid token",
				zap.Error(err),
				zap.String("path", r.URL.Path),
			)
			switch err {
			case auth.ErrExpiredToken:
				respondUnauthorized(w, "Token has expired")
			case auth.ErrInvalidSignature:
				respondUnauthorized(w, "Invalid token signature")
			default:
				respondUnauthorized(w, "Invalid token")
			}
			return
		}

		if !a.allowUser(w, r, claims.UserID) {
			return
		}

		ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
			UserID: claims.UserID,
			Email:  claims.Email,
			Roles:  claims.Roles,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches an identity when a valid token is present and lets
// anonymous requests through. A token that is present but invalid is
// still rejected: silently downgrading a signed-in sender to anonymous
// would misattribute their question.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.allowIP(w, r) {
			return
		}

		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := a.validator.ValidateToken(token)
		if err != nil {
			respondUnauthorized(w, "Invalid token")
			return
		}
		if !a.allowUser(w, r, claims.UserID) {
			return
		}

		ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
			UserID: claims.UserID,
			Email:  claims.Email,
			Roles:  claims.Roles,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) allowIP(w http.ResponseWriter, r *http.Request) bool {
	allowed, err := a.ipLimiter.Allow(r.Context(), getClientIP(r))
	if err != nil {
		a.logger.Error("Rate limiter error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}
	if !allowed {
		respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded")
		return false
	}
	return true
}

func (a *Auth) allowUser(w http.ResponseWriter, r *http.Request, userID string) bool {
	allowed, err := a.userLimiter.Allow(r.Context(), userID)
	if err != nil {
		a.logger.Error("Rate limiter error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}
	if !allowed {
		respondWithError(w, http.StatusTooManyRequests, "User rate limit exceeded")
		return false
	}
	return true
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return authHeader
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	respondWithError(w, http.StatusUnauthorized, message)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    code,
	})
}
