package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NithinKS007/PDF-extractor-server/internal/apperror"
	"github.com/NithinKS007/PDF-extractor-server/internal/tokens"
	"github.com/NithinKS007/PDF-extractor-server/pkg/respond"
)

const claimsKey = "claims"

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	VerifyAccessToken(raw string) (*tokens.Payload, error)
}

// AuthMiddleware verifies the Bearer access token and stores its payload
// on the context for Claims and UserID.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respond.Error(c, apperror.New(apperror.MissingAuthHeader))
			return
		}
		scheme, raw, ok := strings.Cut(header, " ")
		raw = strings.TrimSpace(raw)
		if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
			respond.Error(c, apperror.New(apperror.NoAccessToken))
			return
		}

		p, err := ver.VerifyAccessToken(raw)
		if err != nil {
			respond.Error(c, apperror.Wrap(apperror.InvalidToken, err))
			return
		}

		c.Set(claimsKey, p)
		c.Next()
	}
}

// Claims returns the verified token payload, if any.
func Claims(c *gin.Context) (*tokens.Payload, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*tokens.Payload)
	return p, ok && p != nil
}

// UserID returns the authenticated user's id or "".
func UserID(c *gin.Context) string {
	if p, ok := Claims(c); ok {
		return p.UserID
	}
	return ""
}

// SetClaims is used by tests and internal callers to attach a payload.
func SetClaims(c *gin.Context, p *tokens.Payload) {
	c.Set(claimsKey, p)
}

// rateLimitKey prefers the authenticated user, then the client IP.
func rateLimitKey(c *gin.Context) string {
	if id := UserID(c); id != "" {
		return "user:" + id
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
