package ratelimit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(l *Limiter) *gin.Engine {
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/api/stack/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	return r
}

func doGet(r http.Handler, path, ua string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.7:5555"
	req.Header.Set("User-Agent", ua)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareBlocksAfterLimit(t *testing.T) {
	rule := Rule{Name: "t", Limit: 2, Window: DefaultWindow, Message: "slow down"}
	r := newRouter(New(NewMemoryStore(), rule, logger.NewNop()))

	first := doGet(r, "/api/stack/1", "curl/8")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, doGet(r, "/api/stack/1", "curl/8").Code)

	third := doGet(r, "/api/stack/1", "curl/8")
	require.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get("RateLimit-Remaining"))
	assert.NotEmpty(t, third.Header().Get("Retry-After"))

	var body ErrorBody
	require.NoError(t, json.Unmarshal(third.Body.Bytes(), &body))
	assert.Equal(t, ErrorBody{Message: "slow down", RetryAfter: "15 minutes", Limit: 2, Window: "15 minutes"}, body)
}

func TestMiddlewareKeysByUserAgent(t *testing.T) {
	rule := Rule{Name: "t", Limit: 1, Window: time.Minute}
	r := newRouter(New(NewMemoryStore(), rule, logger.NewNop()))

	assert.Equal(t, http.StatusOK, doGet(r, "/api/stack/1", "Mozilla/5.0 Firefox").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/api/stack/1", "curl/8.4").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "/api/stack/1", "curl/8.4").Code)
}

func TestMiddlewareSkipsHealth(t *testing.T) {
	rule := Rule{Name: "t", Limit: 1, Window: time.Minute}
	r := newRouter(New(NewMemoryStore(), rule, logger.NewNop()))

	for i := 0; i < 3; i++ {
		w := doGet(r, "/health", "probe")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("RateLimit-Limit"))
	}
}

func TestMiddlewareFailsOpenWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	rule := Rule{Name: "t", Limit: 1, Window: time.Minute}
	r := newRouter(New(NewRedisStore(client), rule, logger.NewNop()))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doGet(r, "/api/stack/1", "curl").Code)
	}
}

func TestMemoryStoreWindowResets(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, ttl, err := s.Increment(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, time.Minute, ttl)

	now = now.Add(30 * time.Second)
	n, ttl, _ = s.Increment(context.Background(), "k", time.Minute)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 30*time.Second, ttl)

	now = now.Add(31 * time.Second)
	n, _, _ = s.Increment(context.Background(), "k", time.Minute)
	assert.Equal(t, int64(1), n)
}

func TestClientKeyTruncatesFingerprint(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "198.51.100.1:1234"
	c.Request.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")

	assert.Equal(t, "198.51.100.1:TW96aWxsYS", ClientKey(c))
}

func TestHumanWindow(t *testing.T) {
	assert.Equal(t, "15 minutes", HumanWindow(15*time.Minute))
	assert.Equal(t, "1 hour", HumanWindow(time.Hour))
	assert.Equal(t, "90 seconds", HumanWindow(90*time.Second))
}

// Runs against a real server when REDIS_TEST_ADDR is set.
func TestRedisStoreIncrement(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("set REDIS_TEST_ADDR to run redis integration tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	s := NewRedisStore(client)
	key := "test:" + uuid.NewString()
	defer client.Del(context.Background(), s.prefix+key)

	n, ttl, err := s.Increment(context.Background(), key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.LessOrEqual(t, ttl, time.Minute)

	n, _, err = s.Increment(context.Background(), key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
