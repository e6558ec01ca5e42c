package middleware

import (
	"time"

	ierr "github.com/billbook/billbook/internal/errors"
	"github.com/gin-gonic/gin"
	goCache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// idle limiters are dropped after this long
const limiterIdleTTL = 10 * time.Minute

// RateLimitMiddleware allows perMinute requests per client IP with the given
// burst. Rejected requests are handed to ErrorHandler as 429s.
func RateLimitMiddleware(perMinute, burst int) gin.HandlerFunc {
	limiters := goCache.New(limiterIdleTTL, limiterIdleTTL)
	every := rate.Every(time.Minute / time.Duration(perMinute))

	return func(c *gin.Context) {
		ip := c.ClientIP()

		var limiter *rate.Limiter
		if cached, found := limiters.Get(ip); found {
			limiter = cached.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(every, burst)
			// a concurrent first request may have stored one already
			if err := limiters.Add(ip, limiter, goCache.DefaultExpiration); err != nil {
				if cached, found := limiters.Get(ip); found {
					limiter = cached.(*rate.Limiter)
				}
			}
		}
		// sliding expiry
		limiters.SetDefault(ip, limiter)

		if !limiter.Allow() {
			c.Error(ierr.NewError("rate limit exceeded").
				WithHint("Too many attempts, please try again later").
				Mark(ierr.ErrRateLimited))
			c.Abort()
			return
		}
		c.Next()
	}
}
