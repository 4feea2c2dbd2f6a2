package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"songly/internal/core/auth"
	mdw "songly/internal/transport/http/middleware"
	"songly/internal/transport/http/response"
)

type Limits struct {
	RPS           float64
	Burst         int
	MaxConcurrent int64
	MaxBodyBytes  int64
	Timeout       time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.RPS <= 0 {
		l.RPS = 200
	}
	if l.Burst <= 0 {
		l.Burst = 400
	}
	if l.MaxConcurrent <= 0 {
		l.MaxConcurrent = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 1 << 20
	}
	if l.Timeout <= 0 {
		l.Timeout = 10 * time.Second
	}
	return l
}

type Options struct {
	JWT          *auth.JWTer
	Limits       Limits
	AllowOrigins []string
	// Ready backs /health; nil always reports ok.
	Ready func(*gin.Context) error
}

// NewAPIEngine assembles middleware, infrastructure routes and every module.
// Routes live at the root: the SPA calls /playlists, /songs, /users and /auth.
func NewAPIEngine(l *zap.Logger, opt Options, mods ...Module) *gin.Engine {
	lim := opt.Limits.withDefaults()

	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.AccessLog(l),
		ginzap.CustomRecoveryWithZap(l, true, mdw.Recovered),
		corsMiddleware(opt.AllowOrigins),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.MaxConcurrent),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.Timeout),
		mdw.Authenticate(opt.JWT),
	)

	r.GET("/health", func(c *gin.Context) {
		if opt.Ready != nil {
			if err := opt.Ready(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, response.Error(http.StatusServiceUnavailable, err.Error()))
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": 1})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	var reg Registry
	reg.Register(mods...)
	reg.MountAll(&r.RouterGroup)

	r.NoRoute(response.NotFound)
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AddAllowHeaders("Authorization")
	return cors.New(cfg)
}
