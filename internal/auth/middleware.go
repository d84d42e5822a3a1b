package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	apperrors "neighborconnect/internal/errors"
	"neighborconnect/internal/metrics"
	"neighborconnect/internal/model"
	"neighborconnect/internal/repository"
)

// CSRFHeader carries the double-submit token.
const CSRFHeader = "X-CSRF-Token"

const claimsKey = "session"

// Rejection messages.
const (
	MsgNotAuthenticated = "Access forbidden, user not authenticated!"
	MsgInvalidToken     = "Invalid or expired token!"
	MsgUserGone         = "User no longer exists!"
	MsgAdminOnly        = "Admin access only!"
)

// UserLookup resolves the user a token was issued for.
type UserLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// Middleware authenticates requests against session cookies.
type Middleware struct {
	tokens *TokenService
	users  UserLookup
	log    *zap.Logger
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(tokens *TokenService, users UserLookup, log *zap.Logger) *Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	return &Middleware{tokens: tokens, users: users, log: log}
}

// Authenticate verifies the session cookie, re-resolves the user and stores
// an Identity on the context.
func (m *Middleware) Authenticate() echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + CookieName,
		ContextKey:  claimsKey,
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			return m.tokens.Verify(token)
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			if errors.Is(err, ErrInvalidToken) {
				metrics.AuthRejections.WithLabelValues("authenticate", "invalid").Inc()
				return apperrors.Unauthenticated(MsgInvalidToken)
			}
			metrics.AuthRejections.WithLabelValues("authenticate", "missing").Inc()
			return apperrors.Unauthenticated(MsgNotAuthenticated)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(m.resolve(next))
	}
}

func (m *Middleware) resolve(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(claimsKey).(*Claims)
		if !ok {
			return apperrors.Unauthenticated(MsgNotAuthenticated)
		}

		userID, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			metrics.AuthRejections.WithLabelValues("authenticate", "invalid").Inc()
			return apperrors.Unauthenticated(MsgInvalidToken)
		}

		user, err := m.users.FindByID(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				metrics.AuthRejections.WithLabelValues("authenticate", "unknown_user").Inc()
				m.log.Info("token for deleted user", zap.String("user_id", claims.ID))
				return apperrors.Unauthenticated(MsgUserGone)
			}
			return fmt.Errorf("resolve session user: %w", err)
		}

		SetIdentity(c, &Identity{
			ID:        user.ID.Hex(),
			Role:      user.Role,
			CSRFToken: claims.CSRF,
		})
		return next(c)
	}
}

// RequireCSRF compares the X-CSRF-Token header with the secret embedded in
// the session token. It must run after Authenticate.
func RequireCSRF(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		header := c.Request().Header.Get(CSRFHeader)
		if !ok || id.CSRFToken == "" || header == "" {
			metrics.AuthRejections.WithLabelValues("csrf", "missing").Inc()
			return apperrors.CSRFMismatch()
		}
		if subtle.ConstantTimeCompare([]byte(header), []byte(id.CSRFToken)) != 1 {
			metrics.AuthRejections.WithLabelValues("csrf", "mismatch").Inc()
			return apperrors.CSRFMismatch()
		}
		return next(c)
	}
}

// RequireAdmin rejects callers whose stored role is not admin.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return apperrors.Unauthenticated(MsgNotAuthenticated)
		}
		if !id.IsAdmin() {
			metrics.AuthzDenied.WithLabelValues("admin").Inc()
			return apperrors.Forbidden(MsgAdminOnly)
		}
		return next(c)
	}
}
