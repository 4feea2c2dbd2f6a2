package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"songly/internal/core/apperr"
	"songly/internal/core/auth"
	"songly/internal/domain"
)

const KeyPrincipal = "principal"

// Authenticate decodes the bearer token, if any, into the request principal.
// It never rejects: a missing or invalid token leaves the request anonymous.
func Authenticate(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, ok := bearer(c.GetHeader("Authorization")); ok && j != nil {
			if p := j.Decode(tok); p != nil {
				c.Set(KeyPrincipal, p)
			}
		}
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	scheme, tok, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

// PrincipalFrom returns the authenticated caller, or nil.
func PrincipalFrom(c *gin.Context) *domain.Principal {
	v, ok := c.Get(KeyPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*domain.Principal)
	return p
}

// RequireLoggedIn passes any authenticated caller.
func RequireLoggedIn(c *gin.Context) error {
	if PrincipalFrom(c) == nil {
		return apperr.Unauthorized()
	}
	return nil
}

// RequireAdmin passes admins only. Anyone else gets 401.
func RequireAdmin(c *gin.Context) error {
	if p := PrincipalFrom(c); p == nil || !p.IsAdmin {
		return apperr.Unauthorized()
	}
	return nil
}

// RequireSelfOrAdmin passes the user named by the route param, or an admin.
func RequireSelfOrAdmin(param string) func(c *gin.Context) error {
	return func(c *gin.Context) error {
		p := PrincipalFrom(c)
		if p == nil || !(p.IsAdmin || p.Username == c.Param(param)) {
			return apperr.Unauthorized()
		}
		return nil
	}
}
