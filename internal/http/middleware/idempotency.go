// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file validates the Idempotency-Key request header and stashes it for
// handlers. When a lookup is configured and the key already completed for
// this caller, the request is marked as a replay so the rate limiter lets it
// through; the handler still serves the stored result itself. Only the routes
// named in IdempotencyOptions.Paths are considered, so a known key cannot
// lift rate limiting elsewhere.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header carrying the idempotency key.
const HeaderIdempotencyKey = "Idempotency-Key"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

// defaultIdemMaxLen matches the width of the idem_key column.
const defaultIdemMaxLen = 128

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// GetIdempotencyKey returns the validated key stored by IdempotencyValidator.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the key was already used successfully by this caller.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	// MaxLen caps the key length. Values <= 0 mean 128.
	MaxLen int
	// Pattern restricts allowed characters. Nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// DefaultUser is the identity used when the request has no X-User-ID.
	DefaultUser string
	// Paths lists the route paths (as registered with Gin) that honor the
	// header. Other routes pass through untouched. Empty means every route.
	Paths []string
}

// IdempotencyLookup reports whether a still-valid record exists for
// (username, key) at now. TTL is enforced by the implementation.
type IdempotencyLookup func(ctx context.Context, username, key string, now time.Time) (bool, error)

// IdempotencyValidator is a no-op for requests without the header. A key that
// is too long or contains disallowed characters is rejected with 400. A
// failing lookup is logged and treated as a miss.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = defaultIdemMaxLen
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultIdemPattern
	}
	paths := make(map[string]struct{}, len(opts.Paths))
	for _, p := range opts.Paths {
		paths[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if len(paths) > 0 {
			if _, ok := paths[c.FullPath()]; !ok {
				c.Next()
				return
			}
		}
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_request",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			user := UserID(c)
			if user == "" {
				user = opts.DefaultUser
			}
			exists, err := lookup(c.Request.Context(), user, key, time.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			}
			if exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}
