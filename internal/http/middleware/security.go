// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// SecurityHeaders hardens responses of the JSON API. Blood request payloads
// name patients, so shared caches are told to keep out of them while clients
// may still revalidate list pages through their ETag.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultAPICacheControl allows private revalidation but no shared caching.
	DefaultAPICacheControl = "private, no-cache"
	// DefaultAPIContentSecurityPolicy forbids every fetch and framing; API
	// responses are never rendered as documents.
	DefaultAPIContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"

	defaultHSTSMaxAge = 180 * 24 * time.Hour
)

// SecurityOptions configures SecurityHeaders.
//
// HSTS is emitted only for HTTPS requests and only when EnableHSTS is set;
// HSTSMaxAge defaults to 180 days. CacheControl and ContentSecurityPolicy are
// sent when non-empty, except on paths starting with one of DocsPrefixes
// (the Swagger UI needs scripts and may be cached).
type SecurityOptions struct {
	EnableHSTS            bool
	HSTSMaxAge            time.Duration
	CacheControl          string
	ContentSecurityPolicy string
	EnablePolicy          bool // Permissions-Policy and X-Permitted-Cross-Domain-Policies
	DocsPrefixes          []string
}

// SecurityHeaders returns the middleware. It always sets
// X-Content-Type-Options: nosniff, X-Frame-Options: DENY and
// Referrer-Policy: no-referrer. Handlers may override Cache-Control.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := opt.HSTSMaxAge
	if maxAge <= 0 {
		maxAge = defaultHSTSMaxAge
	}
	hsts := "max-age=" + strconv.FormatInt(int64(maxAge/time.Second), 10) + "; includeSubDomains; preload"

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if !hasAnyPrefix(c.Request.URL.Path, opt.DocsPrefixes) {
			if opt.CacheControl != "" {
				h.Set("Cache-Control", opt.CacheControl)
			}
			if opt.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", opt.ContentSecurityPolicy)
			}
		}

		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security", hsts)
		}

		c.Next()
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// isHTTPS reports whether the request arrived over TLS directly or through
// a proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
