package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/puckline/matchup/config"
	"github.com/puckline/matchup/models"
)

// Limiters idle for this long are forgotten.
const (
	limiterIdle    = time.Hour
	limiterCleanup = 5 * time.Minute
)

// RateLimit returns per-identity (API key or IP) token-bucket rate limiting
// middleware powered by golang.org/x/time/rate.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiters := gocache.New(limiterIdle, limiterCleanup)
	var mu sync.Mutex

	getLimiter := func(identity string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		var l *rate.Limiter
		if v, ok := limiters.Get(identity); ok {
			l = v.(*rate.Limiter)
		} else {
			l = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
		}
		// Re-setting slides the idle expiry forward.
		limiters.SetDefault(identity, l)
		return l
	}

	return func(c *gin.Context) {
		identity := c.GetString(apiKeyContextKey)
		if identity == "" {
			identity = c.ClientIP()
		}

		if !getLimiter(identity).Allow() {
			reject(c, http.StatusTooManyRequests, models.ErrCodeRateLimited, "rate limit exceeded, please slow down")
			return
		}
		c.Next()
	}
}
