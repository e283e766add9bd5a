package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/model"
	"github.com/fittrack/backend/internal/ratelimit"
	"github.com/fittrack/backend/internal/service"
)

const authUserKey = "auth_user"

// Auth validates the bearer token and attaches the subject to the
// request context. The token service's message distinguishes missing,
// expired and malformed credentials; nothing more is disclosed.
func Auth(r *Responder, tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		var token string
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}

		user, err := tokens.VerifyAccess(token)
		if err != nil {
			r.Error(c, err)
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

// RateLimit applies one policy keyed by client IP. Denial short-
// circuits before any validation or authentication work happens. A
// counter-store failure fails open: traffic is served, not dropped.
func RateLimit(r *Responder, limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			r.Log.Warn().Err(err).Str("policy", limiter.Policy().Name).Msg("rate limit store unavailable")
			c.Next()
			return
		}

		setRateLimitHeaders(c, limiter.Policy(), res)
		if !res.Permitted {
			r.Error(c, rateLimited())
			return
		}
		c.Next()
	}
}

// AuthRateLimit applies the stricter authentication policy, keyed by
// IP and route so a login storm does not lock out registration.
// Successful requests are refunded afterwards: only failed attempts
// consume budget, which throttles credential stuffing without
// penalizing legitimate rapid logins.
func AuthRateLimit(r *Responder, limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()

		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			r.Log.Warn().Err(err).Str("policy", limiter.Policy().Name).Msg("rate limit store unavailable")
			c.Next()
			return
		}

		setRateLimitHeaders(c, limiter.Policy(), res)
		if !res.Permitted {
			r.Error(c, rateLimited())
			return
		}

		c.Next()

		if c.Writer.Status() < http.StatusBadRequest {
			if err := limiter.Refund(c.Request.Context(), key); err != nil {
				r.Log.Warn().Err(err).Msg("rate limit refund failed")
			}
		}
	}
}

func rateLimited() error {
	return apperr.New(apperr.RateLimited, "too many requests, please try again later")
}

func setRateLimitHeaders(c *gin.Context, policy ratelimit.Policy, res ratelimit.Result) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(policy.Max))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
}

// RequestLogger emits one line per request.
func RequestLogger(r *Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		r.Log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

func CORS(allowedOrigins []string) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
