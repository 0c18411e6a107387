/*
middleware.go - Request logging and rate limiting

PURPOSE:
  chi middleware that the stock middleware package does not cover:
  - RequestLogger: one logrus entry per request with status and latency
  - RateLimit:     token bucket per client IP, 429 when exhausted;
                   idle buckets are swept after limiterIdleTTL

SEE ALSO:
  - server.go: middleware order
*/
package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// =============================================================================
// REQUEST LOGGING
// =============================================================================

// RequestLogger logs each request through logrus.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		entry := logrus.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"latency":    time.Since(start),
			"remote":     r.RemoteAddr,
			"request_id": middleware.GetReqID(r.Context()),
		})
		switch {
		case ww.Status() >= 500:
			entry.Error("request")
		case ww.Status() >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	})
}

// =============================================================================
// RATE LIMITING
// =============================================================================

// limiterIdleTTL is how long a client's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP. Buckets idle for
// longer than idleTTL are swept on a later request, so the map holds at most
// the clients seen within roughly two idleTTL windows.
type IPRateLimiter struct {
	limiters  map[string]*clientLimiter
	mu        sync.Mutex
	qps       rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter creates a limiter allowing qps requests per second per IP
// with bursts up to burst.
func NewIPRateLimiter(qps float64, burst int) *IPRateLimiter {
	ttl := limiterIdleTTL
	// A swept bucket comes back full, so never sweep one that is still refilling.
	if qps > 0 {
		if refill := time.Duration(float64(burst) / qps * float64(time.Second)); refill > ttl {
			ttl = refill
		}
	}
	return &IPRateLimiter{
		limiters: make(map[string]*clientLimiter),
		qps:      rate.Limit(qps),
		burst:    burst,
		idleTTL:  ttl,
		now:      time.Now,
	}
}

// Limiter returns the bucket for ip, creating it on first use.
func (l *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now, l.idleTTL)
	}

	c, ok := l.limiters[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.qps, l.burst)}
		l.limiters[ip] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Cleanup drops buckets idle for longer than idle and returns how many remain.
func (l *IPRateLimiter) Cleanup(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(l.now(), idle)
	return len(l.limiters)
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *IPRateLimiter) sweep(now time.Time, idle time.Duration) {
	for ip, c := range l.limiters {
		if now.Sub(c.lastSeen) > idle {
			delete(l.limiters, ip)
		}
	}
	l.lastSweep = now
}

// Middleware rejects requests over the limit with 429.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Limiter(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port; middleware.RealIP has already applied proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
