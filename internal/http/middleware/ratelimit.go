// README: Per-client-IP token bucket limiter for the endpoints that call Google.
package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"tripcost/internal/monitoring"
)

const maxTrackedClients = 10000

// RateLimiter hands out one limiter per client IP. The least recently seen
// clients are dropped once maxTrackedClients is reached.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	visitors *lru.Cache[string, *rate.Limiter]
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	visitors, _ := lru.New[string, *rate.Limiter](maxTrackedClients)
	return &RateLimiter{limit: rate.Limit(rps), burst: burst, visitors: visitors}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if l, ok := rl.visitors.Get(ip); ok {
		return l
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors.Add(ip, l)
	return l
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			monitoring.RateLimitExceeded.WithLabelValues(c.FullPath()).Inc()
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "demasiadas solicitudes, intenta en unos segundos"})
			return
		}
		c.Next()
	}
}
