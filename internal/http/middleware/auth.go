// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the caller identity. Every downstream component reads it
// from the "userID" Gin context key (see UserID); nothing below the HTTP layer
// touches request headers or global state to find out who is calling.
//
// Two modes are supported:
//
//   - jwt: a Bearer token signed with HS256 is required. The subject claim is
//     the caller identity; issuer and audience are enforced when configured.
//   - development: a valid Bearer token is still honored, otherwise the
//     X-User-ID header is trusted, falling back to "demo-user".
//
// In jwt mode, CORS preflights and paths under PublicPrefixes (probes, API
// docs) pass through without an identity.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// AuthModeJWT requires signed bearer tokens.
	AuthModeJWT = "jwt"
	// AuthModeDevelopment trusts the X-User-ID header.
	AuthModeDevelopment = "development"

	userIDKey       = "userID"
	headerUserID    = "X-User-ID"
	defaultDevUser  = "demo-user"
	bearerPrefixLen = len("bearer ")
)

// AuthOptions configures Auth.
type AuthOptions struct {
	Mode       string
	SigningKey []byte
	Issuer     string
	Audience   string

	PublicPrefixes []string
}

// Auth returns a middleware that stores the caller identity under "userID".
func Auth(opts AuthOptions) gin.HandlerFunc {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}

	parse := func(token string) (string, bool) {
		if len(opts.SigningKey) == 0 {
			return "", false
		}
		claims := &jwt.RegisteredClaims{}
		tok, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return opts.SigningKey, nil
		}, parserOpts...)
		if err != nil || !tok.Valid || strings.TrimSpace(claims.Subject) == "" {
			return "", false
		}
		return claims.Subject, true
	}

	unauthorized := func(c *gin.Context, msg string) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "unauthorized",
			"message":    msg,
		})
	}

	return func(c *gin.Context) {
		token, hasToken := bearerToken(c.GetHeader("Authorization"))

		if opts.Mode == AuthModeJWT {
			if c.Request.Method == http.MethodOptions || hasAnyPrefix(c.Request.URL.Path, opts.PublicPrefixes) {
				c.Next()
				return
			}
			if !hasToken {
				unauthorized(c, "missing bearer token")
				return
			}
			sub, ok := parse(token)
			if !ok {
				unauthorized(c, "invalid token")
				return
			}
			c.Set(userIDKey, sub)
			c.Next()
			return
		}

		if hasToken {
			if sub, ok := parse(token); ok {
				c.Set(userIDKey, sub)
				c.Next()
				return
			}
		}
		if h := strings.TrimSpace(c.GetHeader(headerUserID)); h != "" {
			c.Set(userIDKey, h)
		} else {
			c.Set(userIDKey, defaultDevUser)
		}
		c.Next()
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(h string) (string, bool) {
	h = strings.TrimSpace(h)
	if len(h) <= bearerPrefixLen || !strings.EqualFold(h[:bearerPrefixLen], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[bearerPrefixLen:])
	return tok, tok != ""
}

// UserID returns the caller identity stored by Auth, or "" when absent.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
