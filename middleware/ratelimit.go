package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Devayan28/Outfitron/model"
	"github.com/Devayan28/Outfitron/utils"
)

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	mu        sync.Mutex
	bucket    map[string]*rate.Limiter
	rate      rate.Limit
	burstSize int
}

func (r *rateLimiter) limiterFor(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.bucket[ip]
	if !ok {
		l = rate.NewLimiter(r.rate, r.burstSize)
		r.bucket[ip] = l
	}
	return l
}

// RateLimit allows perSecond requests per client IP with the given burst.
// A non-positive rate disables limiting.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	if perSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := &rateLimiter{
		bucket:    make(map[string]*rate.Limiter),
		rate:      rate.Limit(perSecond),
		burstSize: max(1, burst),
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.limiterFor(ip).Allow() {
			utils.Logger.Warn("too many requests", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.ErrorResponse{
				Success: false,
				Message: "too many requests",
			})
			return
		}
		c.Next()
	}
}
