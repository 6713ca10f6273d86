package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/api/internal/config"
	"jobboard/api/internal/metrics"
	"jobboard/api/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testIssuer() *security.TokenIssuer {
	return security.NewTokenIssuer(config.SecurityConfig{
		JWTAccessSecret:  "access",
		JWTRefreshSecret: "refresh",
		JWTAccessTTL:     time.Minute,
		JWTRefreshTTL:    time.Hour,
		Issuer:           "test",
	})
}

func protectedRouter(tokens *security.TokenIssuer) *gin.Engine {
	m := metrics.New()
	r := gin.New()
	api := r.Group("/api/v1", Auth(tokens, m))
	api.GET("/auth/account", func(c *gin.Context) {
		claims, _ := Claims(c)
		c.JSON(http.StatusOK, gin.H{"id": claims.UserID, "actor": Actor(c)})
	})
	gated := api.Group("", RequirePermission(m))
	gated.POST("/jobs", func(c *gin.Context) { c.Status(http.StatusCreated) })
	gated.DELETE("/jobs/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	tokens := testIssuer()
	r := protectedRouter(tokens)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/auth/account", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/auth/account", "garbage").Code)

	refresh, err := tokens.IssueRefresh(security.Identity{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/auth/account", refresh).Code)
}

func TestAuthExposesClaims(t *testing.T) {
	tokens := testIssuer()
	r := protectedRouter(tokens)

	access, err := tokens.IssueAccess(security.Identity{UserID: "u1", Email: "u1@example.com"})
	require.NoError(t, err)

	rec := do(r, http.MethodGet, "/api/v1/auth/account", access)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		ID    string `json:"id"`
		Actor struct {
			ID    string `json:"_id"`
			Email string `json:"email"`
		} `json:"actor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u1", body.ID)
	assert.Equal(t, "u1@example.com", body.Actor.Email)
}

func TestRequirePermissionMatchesRoutePattern(t *testing.T) {
	tokens := testIssuer()
	r := protectedRouter(tokens)

	holder, err := tokens.IssueAccess(security.Identity{
		UserID:      "u1",
		Permissions: []string{"POST /api/v1/jobs", "DELETE /api/v1/jobs/:id"},
	})
	require.NoError(t, err)
	nobody, err := tokens.IssueAccess(security.Identity{UserID: "u2"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/v1/jobs", holder).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/api/v1/jobs/abc", holder).Code)

	denied := do(r, http.MethodPost, "/api/v1/jobs", nobody)
	assert.Equal(t, http.StatusForbidden, denied.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, denied.Body.String())
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/login", RateLimit(limiter), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(r, http.MethodPost, "/login", "").Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/login", "").Code)

	assert.True(t, limiter.Allow("10.0.0.9"))
}

func TestRateLimiterSweepsIdleBuckets(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	now = now.Add(10 * time.Minute)
	limiter.Allow("b")

	assert.NotContains(t, limiter.buckets, "a")
	assert.Contains(t, limiter.buckets, "b")
}

func TestRequestIDAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	tokens := testIssuer()

	r := gin.New()
	r.Use(RequestID(), Logger(log), Recovery(log))
	r.GET("/boom/:id", Auth(tokens, metrics.New()), func(c *gin.Context) { panic("boom") })
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	access, err := tokens.IssueAccess(security.Identity{UserID: "u9"})
	require.NoError(t, err)
	rec := do(r, http.MethodGet, "/boom/1", access)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	id := rec.Header().Get("X-Request-Id")
	require.NotEmpty(t, id)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body["error"])
	assert.Equal(t, id, body["requestId"])

	logged := buf.String()
	assert.Contains(t, logged, "panic recovered")
	assert.Contains(t, logged, `"route":"/boom/:id"`)
	assert.Contains(t, logged, `"user_id":"u9"`)
	assert.Contains(t, logged, `"request_id":"`+id+`"`)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "req-42", rec.Body.String())
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}

func TestRequestIDReplacesUnsafeValues(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, inbound := range []string{
		strings.Repeat("a", maxRequestIDLen+1),
		"line\nbreak",
		"<script>",
		"has space",
	} {
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set("X-Request-Id", inbound)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		got := rec.Header().Get("X-Request-Id")
		assert.NotEqual(t, inbound, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err, "inbound %q", inbound)
	}
}

func corsRequest(r http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/x", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func corsRouter(origins ...string) *gin.Engine {
	r := gin.New()
	r.Use(CORS(origins))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORSListedOrigin(t *testing.T) {
	r := corsRouter("https://app.example.com/")

	rec := corsRequest(r, http.MethodOptions, "https://app.example.com")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	rec = corsRequest(r, http.MethodGet, "https://app.example.com")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "X-Request-Id", rec.Header().Get("Access-Control-Expose-Headers"))

	rec = corsRequest(r, http.MethodGet, "https://evil.example.com")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))

	assert.Equal(t, http.StatusForbidden, corsRequest(r, http.MethodOptions, "https://evil.example.com").Code)
}

func TestCORSWildcardNeverSendsCredentials(t *testing.T) {
	r := corsRouter("*", "https://app.example.com")

	rec := corsRequest(r, http.MethodGet, "https://other.example.com")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = corsRequest(r, http.MethodGet, "https://app.example.com")
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWithoutOrigins(t *testing.T) {
	r := corsRouter()

	rec := corsRequest(r, http.MethodGet, "https://app.example.com")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))

	rec = corsRequest(r, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Vary"))
}
