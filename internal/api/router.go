package api

import (
	"github.com/BerylCAtieno/ai-stack-agent/internal/a2a"
	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Limiters holds one limiter per rule. A nil field disables that rule.
type Limiters struct {
	General  *ratelimit.Limiter
	Generate *ratelimit.Limiter
	Results  *ratelimit.Limiter
}

type RouterConfig struct {
	Stacks      *StackHandler
	Agent       *a2a.Handler
	Limiters    Limiters
	Log         *logger.Logger
	Production  bool
	FrontendURL string
	ServiceName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(RequestLogger(cfg.Log))
	r.Use(SecurityHeaders())
	r.Use(CORS(cfg.Production, cfg.FrontendURL))

	r.GET("/health", Health)

	api := r.Group("/api", limit(cfg.Limiters.General)...)
	{
		api.POST("/generate-stack", append(limit(cfg.Limiters.Generate), cfg.Stacks.GenerateStack)...)
		api.GET("/stack/:profileId", append(limit(cfg.Limiters.Results), cfg.Stacks.GetStack)...)
		api.POST("/create-payment-intent", cfg.Stacks.CreatePaymentIntent)
	}

	if cfg.Agent != nil {
		r.GET("/.well-known/agent.json", cfg.Agent.ServeAgentCard)
		r.POST("/a2a/stack", append(limit(cfg.Limiters.Generate), cfg.Agent.HandleStack)...)
	}

	return r
}

func limit(l *ratelimit.Limiter) []gin.HandlerFunc {
	if l == nil {
		return nil
	}
	return []gin.HandlerFunc{l.Middleware()}
}
