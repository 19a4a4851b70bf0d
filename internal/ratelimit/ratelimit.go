package ratelimit

import (
	"encoding/base64"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/gin-gonic/gin"
)

const DefaultWindow = 15 * time.Minute

type Rule struct {
	Name    string
	Limit   int64
	Window  time.Duration
	Message string
}

var (
	GenerateRule = Rule{Name: "generate", Limit: 10, Window: DefaultWindow, Message: "Too many AI generation requests, please try again later."}
	ResultsRule  = Rule{Name: "results", Limit: 50, Window: DefaultWindow, Message: "Too many results requests, please try again later."}
	GeneralRule  = Rule{Name: "general", Limit: 100, Window: DefaultWindow, Message: "Too many API requests, please try again later."}
)

// Limiter enforces one Rule against a Store.
type Limiter struct {
	store Store
	rule  Rule
	log   *logger.Logger
}

func New(store Store, rule Rule, log *logger.Logger) *Limiter {
	return &Limiter{store: store, rule: rule, log: log.With("service", "RateLimiter", "rule", rule.Name)}
}

// ErrorBody is the 429 payload.
type ErrorBody struct {
	Message    string `json:"message"`
	RetryAfter string `json:"retryAfter"`
	Limit      int64  `json:"limit"`
	Window     string `json:"window"`
}

// Middleware counts the request and rejects it once the window's limit is
// exceeded. Store failures let the request through.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/health", "/ping":
			c.Next()
			return
		}

		key := l.rule.Name + ":" + ClientKey(c)
		count, ttl, err := l.store.Increment(c.Request.Context(), key, l.rule.Window)
		if err != nil {
			l.log.Warn("rate limit store failed, allowing request", "error", err)
			c.Next()
			return
		}

		remaining := l.rule.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		resetSecs := int64(math.Ceil(ttl.Seconds()))
		c.Header("RateLimit-Limit", strconv.FormatInt(l.rule.Limit, 10))
		c.Header("RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		c.Header("RateLimit-Reset", strconv.FormatInt(resetSecs, 10))

		if count > l.rule.Limit {
			l.log.Warn("Rate limit exceeded", "ip", c.ClientIP(), "path", c.Request.URL.Path)
			c.Header("Retry-After", strconv.FormatInt(resetSecs, 10))
			window := HumanWindow(l.rule.Window)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorBody{
				Message:    l.rule.Message,
				RetryAfter: window,
				Limit:      l.rule.Limit,
				Window:     window,
			})
			return
		}
		c.Next()
	}
}

// ClientKey identifies a caller by IP plus a short user agent fingerprint.
func ClientKey(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	ua := c.GetHeader("User-Agent")
	if ua == "" {
		ua = "unknown"
	}
	fp := base64.StdEncoding.EncodeToString([]byte(ua))
	if len(fp) > 10 {
		fp = fp[:10]
	}
	return ip + ":" + fp
}

// HumanWindow renders a window such as 15m as "15 minutes".
func HumanWindow(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int64(d/time.Minute), "minute")
	default:
		return plural(int64(math.Ceil(d.Seconds())), "second")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
