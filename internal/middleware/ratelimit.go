package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const pruneThreshold = 1024

type window struct {
	count int
	reset time.Time
}

// windowLimiter counts requests per client in fixed windows.
type windowLimiter struct {
	mu      sync.Mutex
	limit   int
	per     time.Duration
	now     func() time.Time
	windows map[string]*window
}

func newWindowLimiter(limit int, per time.Duration) *windowLimiter {
	return &windowLimiter{limit: limit, per: per, now: time.Now, windows: make(map[string]*window)}
}

// allow records one request for client. When the client is over its limit it
// returns false and the time left until the window resets.
func (l *windowLimiter) allow(client string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	win, ok := l.windows[client]
	if !ok || !now.Before(win.reset) {
		if len(l.windows) >= pruneThreshold {
			l.prune(now)
		}
		win = &window{reset: now.Add(l.per)}
		l.windows[client] = win
	}
	if win.count >= l.limit {
		return false, win.reset.Sub(now)
	}
	win.count++
	return true, 0
}

func (l *windowLimiter) prune(now time.Time) {
	for client, win := range l.windows {
		if !now.Before(win.reset) {
			delete(l.windows, client)
		}
	}
}

// RateLimit allows limit requests per client IP in each window of length per.
// A non-positive limit disables the check.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := newWindowLimiter(limit, per)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := limiter.allow(clientKey(r))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				http.Error(w, "Too many sketch requests, please wait a moment.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey prefers the first valid X-Forwarded-For entry, then the remote host.
func clientKey(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := strings.TrimSpace(part); net.ParseIP(ip) != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
