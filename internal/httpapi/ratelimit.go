package httpapi

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// IPLimiter rate-limits per client address, guarding the unauthenticated
// application endpoint against scripted submissions.
type IPLimiter struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
	r  rate.Limit
	b  int
}

func NewIPLimiter(reqPerMinute float64, burst int) *IPLimiter {
	return &IPLimiter{
		m: make(map[string]*rate.Limiter),
		r: rate.Limit(reqPerMinute / 60),
		b: burst,
	}
}

func (il *IPLimiter) limiterFor(ip string) *rate.Limiter {
	il.mu.Lock()
	defer il.mu.Unlock()

	if lim, ok := il.m[ip]; ok {
		return lim
	}
	lim := rate.NewLimiter(il.r, il.b)
	il.m[ip] = lim
	return lim
}

func (il *IPLimiter) Allow(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return il.limiterFor(host).Allow()
}

func RateLimit(il *IPLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !il.Allow(r.RemoteAddr) {
				writeErrorStatus(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
