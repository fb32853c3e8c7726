package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/coursehub/payment-service/internal/domain/entity"
	apperrors "github.com/coursehub/payment-service/pkg/errors"
)

// contextKey is used for storing the requester in context
type contextKey string

const (
	requesterContextKey contextKey = "requester"

	DefaultCookieName = "session"
)

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret     string
	CookieName string
	Logger     *zap.Logger
	SkipPaths  []string // Paths to skip JWT validation
}

// JWTMiddleware verifies the session token from the session cookie, falling back to a Bearer
// Authorization header, and stores the requester in the request context.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	if config.CookieName == "" {
		config.CookieName = DefaultCookieName
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			tokenString := extractToken(c, config.CookieName)
			if tokenString == "" {
				config.Logger.Debug("Missing session token",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return apperrors.Unauthenticated("authentication required")
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(config.Secret), nil
			})
			if err != nil {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				return apperrors.Unauthenticated("invalid or expired session")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				return apperrors.Unauthenticated("invalid session claims")
			}

			requester := requesterFromClaims(claims)
			if requester.ID == "" {
				config.Logger.Warn("Session token carries no subject", zap.String("path", path))
				return apperrors.Unauthenticated("invalid session claims")
			}

			ctx := context.WithValue(c.Request().Context(), requesterContextKey, requester)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set("user_id", requester.ID)

			return next(c)
		}
	}
}

func extractToken(c echo.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if tokenString, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(tokenString)
	}
	return ""
}

func requesterFromClaims(claims jwt.MapClaims) *entity.Requester {
	id, _ := claims["sub"].(string)
	if id == "" {
		id, _ = claims["id"].(string)
	}
	email, _ := claims["email"].(string)
	return &entity.Requester{ID: id, Email: email}
}

// RequesterFromContext returns the authenticated requester, or nil
func RequesterFromContext(ctx context.Context) *entity.Requester {
	requester, _ := ctx.Value(requesterContextKey).(*entity.Requester)
	return requester
}

// RequireAuth returns the requester or an UNAUTHENTICATED error
func RequireAuth(c echo.Context) (*entity.Requester, error) {
	requester := RequesterFromContext(c.Request().Context())
	if requester == nil {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	return requester, nil
}
