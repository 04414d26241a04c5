package handlers

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// getClientIP usa apenas o RemoteAddr; o middleware RealIP já resolve os cabeçalhos de proxy confiáveis.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimiter limita tentativas de login por IP numa janela fixa.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	limit       int
	window      time.Duration
	now         func() time.Time
	lastCleanup time.Time
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors:    make(map[string]*visitor),
		limit:       limit,
		window:      window,
		now:         time.Now,
		lastCleanup: time.Now(),
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.cleanup(now)

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

// cleanup roda junto com Allow, no máximo uma vez por janela.
func (rl *RateLimiter) cleanup(now time.Time) {
	if now.Sub(rl.lastCleanup) < rl.window {
		return
	}
	rl.lastCleanup = now
	for ip, v := range rl.visitors {
		if now.Sub(v.lastReset) > rl.window*2 {
			delete(rl.visitors, ip)
		}
	}
}
