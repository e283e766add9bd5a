package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/backend/internal/apperr"
	"github.com/fittrack/backend/internal/config"
	"github.com/fittrack/backend/internal/model"
	"github.com/fittrack/backend/internal/ratelimit"
	"github.com/fittrack/backend/internal/service"
)

func testResponder() *Responder {
	return &Responder{Log: zerolog.Nop()}
}

func testTokenService() *service.TokenService {
	return service.NewTokenService(config.AuthConfig{
		AccessSecret:  "access-test-secret",
		RefreshSecret: "refresh-test-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) model.Envelope {
	t.Helper()
	var env model.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func authTestRouter(tokens *service.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(testResponder(), tokens), func(c *gin.Context) {
		user := GetAuthUser(c)
		c.JSON(http.StatusOK, gin.H{"userId": user.ID})
	})
	return router
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	router := authTestRouter(testTokenService())

	for name, header := range map[string]string{
		"no header":    "",
		"wrong scheme": "Basic abc123",
		"empty bearer": "Bearer ",
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Equal(t, "authentication token missing", decodeEnvelope(t, rec).Message, name)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	tokens := testTokenService()
	user := &model.User{ID: 7, Username: "runner_jane", Email: "jane@example.com"}
	pair, err := tokens.IssuePair(user)
	require.NoError(t, err)

	// Advance the verifier past the access TTL.
	tokens.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	router := authTestRouter(tokens)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication token expired", decodeEnvelope(t, rec).Message)
}

func TestAuthMiddlewareMalformedToken(t *testing.T) {
	router := authTestRouter(testTokenService())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication token invalid", decodeEnvelope(t, rec).Message)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	tokens := testTokenService()
	pair, err := tokens.IssuePair(&model.User{ID: 42, Username: "runner_jane", Email: "jane@example.com"})
	require.NoError(t, err)
	router := authTestRouter(tokens)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":42`)
}

func TestRateLimitMiddlewareCeiling(t *testing.T) {
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.Policy{Name: "general", Window: time.Minute, Max: 3})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ok", RateLimit(testResponder(), limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "too many requests, please try again later", decodeEnvelope(t, rec).Message)
	assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

type brokenStore struct{}

func (brokenStore) Incr(context.Context, string, time.Duration) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("store down")
}

func (brokenStore) Decr(context.Context, string) error {
	return errors.New("store down")
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	limiter := ratelimit.New(brokenStore{}, ratelimit.Policy{Name: "general", Window: time.Minute, Max: 1})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ok", RateLimit(testResponder(), limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestAuthRateLimitRefundsSuccess(t *testing.T) {
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.Policy{Name: "auth", Window: time.Minute, Max: 2})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", AuthRateLimit(testResponder(), limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Successful requests are refunded, so far more than Max pass.
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
}

func TestAuthRateLimitCountsFailures(t *testing.T) {
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.Policy{Name: "auth", Window: time.Minute, Max: 2})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", AuthRateLimit(testResponder(), limiter), func(c *gin.Context) {
		testResponder().Error(c, apperr.New(apperr.Unauthorized, "invalid credentials"))
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAuthRateLimitKeyedByRoute(t *testing.T) {
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.Policy{Name: "auth", Window: time.Minute, Max: 1})
	fail := func(c *gin.Context) {
		testResponder().Error(c, apperr.New(apperr.Unauthorized, "invalid credentials"))
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/login", AuthRateLimit(testResponder(), limiter), fail)
	router.POST("/register", AuthRateLimit(testResponder(), limiter), fail)

	// Exhaust the login budget.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Register has its own counter.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/register", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
