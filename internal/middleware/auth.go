package middleware

import (
	"context"
	"strings"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/common"
	"fittrack_backend/internal/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header name for authorization token
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens
	AuthorizationTypeBearer = "Bearer"
	// IdentityIDKey is the context key for the authenticated identity ID
	IdentityIDKey = "identityID"
)

// TokenVerifier turns a bearer token into verified identity claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*identity.Claims, error)
}

// IdentityResolver returns the identity for verified claims, provisioning it
// on first sign-in.
type IdentityResolver interface {
	Ensure(ctx context.Context, claims identity.Claims) (*identity.Identity, bool, error)
}

// AuthMiddleware verifies the bearer token, resolves the identity and binds
// its session to the request context. Everything downstream is scoped by
// that session.
func AuthMiddleware(verifier TokenVerifier, identities IdentityResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			logger.Debug("Authorization header missing")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header is required."))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
			logger.Debug("Authorization header format invalid")
			common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authorization header format must be 'Bearer <token>'."))
			return
		}

		ctx := c.Request.Context()
		claims, err := verifier.Verify(ctx, parts[1])
		if err != nil {
			common.RespondWithError(c, err)
			return
		}

		ident, created, err := identities.Ensure(ctx, *claims)
		if err != nil {
			logger.Warn("Identity resolution failed", zap.String("uid", claims.UID), zap.Error(err))
			common.RespondWithError(c, err)
			return
		}
		if created {
			logger.Info("Identity provisioned on first sign-in", zap.String("identity_id", ident.ID))
		}

		c.Request = c.Request.WithContext(access.WithSession(ctx, access.Session{IdentityID: ident.ID}))
		c.Set(IdentityIDKey, ident.ID)
		if l, ok := c.Get(common.LoggerContextKey); ok {
			if reqLogger, ok := l.(*zap.Logger); ok {
				c.Set(common.LoggerContextKey, reqLogger.With(zap.String("identity_id", ident.ID)))
			}
		}

		c.Next()
	}
}

// GetIdentityIDFromContext retrieves the authenticated identity ID from the Gin context.
func GetIdentityIDFromContext(c *gin.Context) string {
	return c.GetString(IdentityIDKey)
}

// RequireRole allows the request through only if the authenticated identity
// holds role. It must run after AuthMiddleware.
func RequireRole(roles access.RoleChecker, role common.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentityIDFromContext(c)
		if id == "" {
			common.RespondWithError(c, common.ErrUnauthorized)
			return
		}
		held, err := roles.HasRole(c.Request.Context(), id, role)
		if err != nil {
			common.RespondWithError(c, err)
			return
		}
		if !held {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
			return
		}
		c.Next()
	}
}
