package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"campuscore/internal/core/apperror"
	appctx "campuscore/internal/core/context"
)

// AccessClaims are the claims this service reads from access tokens.
// Tokens are issued elsewhere; here they are only verified.
type AccessClaims struct {
	jwt.RegisteredClaims

	Email   string   `json:"email,omitempty"`
	Roles   []string `json:"roles,omitempty"`
	IsAdmin bool     `json:"admin,omitempty"`
}

// TokenVerifier validates HMAC-signed JWT access tokens.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for the given shared secret.
func NewTokenVerifier(secret []byte) *TokenVerifier {
	return &TokenVerifier{secret: secret}
}

// Verify parses the token and builds an Actor from its claims.
func (v *TokenVerifier) Verify(tokenString string) (*appctx.Actor, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &appctx.Actor{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Roles:     claims.Roles,
		IsAdmin:   claims.IsAdmin,
		SessionID: claims.ID,
	}, nil
}

// Auth middleware validates Bearer tokens and populates the actor context.
func Auth(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		actor, err := verifier.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		// Request metadata ends up on audit entries.
		actor.IPAddress = c.ClientIP()
		actor.UserAgent = c.Request.UserAgent()

		ctx := appctx.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", actor.UserID)

		c.Next()
	}
}

// RequireAdmin restricts a route group to admin actors.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := appctx.GetActor(c.Request.Context())
		if actor == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !actor.IsAdmin {
			_ = c.Error(apperror.NewForbidden("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole restricts a route group to actors holding one of the roles.
// Admins always pass.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := appctx.GetActor(c.Request.Context())
		if actor == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if actor.IsAdmin {
			c.Next()
			return
		}
		for _, required := range roles {
			for _, role := range actor.Roles {
				if role == required {
					c.Next()
					return
				}
			}
		}
		_ = c.Error(apperror.NewForbidden("insufficient role").
			WithDetail("required_roles", roles))
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
