package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/fakhrymubarak/weather-dashboard/internal/model"
	"golang.org/x/time/rate"
)

// visitor holds a rate limiter and the last time it was used.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-IP limit and a per-IP-and-parameter limit. The
// parameter is read from the query string or, for form posts, the form.
type RateLimiter struct {
	paramKey string

	globalPerMinute float64
	paramPerMinute  float64
	globalRate      rate.Limit
	globalBurst     int
	paramRate       rate.Limit
	paramBurst      int
	idle            time.Duration

	muGlobal       sync.Mutex
	globalVisitors map[string]*visitor // key: ip
	muParam        sync.Mutex
	paramVisitors  map[string]map[string]*visitor // key: ip -> paramValue
}

// NewRateLimiter builds a limiter from cfg, whose rates are per minute.
func NewRateLimiter(cfg config.RateLimiterConfig, paramKey string) *RateLimiter {
	globalRate, globalBurst := cfg.GlobalRate, cfg.GlobalBurst
	if globalRate <= 0 {
		globalRate = 10
	}
	if globalBurst <= 0 {
		globalBurst = 10
	}
	paramRate, paramBurst := cfg.ParamRate, cfg.ParamBurst
	if paramRate <= 0 {
		paramRate = 2
	}
	if paramBurst <= 0 {
		paramBurst = 2
	}
	idle := cfg.CleanupTimeout
	if idle <= 0 {
		idle = 3 * time.Minute
	}
	return &RateLimiter{
		paramKey:        paramKey,
		globalPerMinute: globalRate,
		paramPerMinute:  paramRate,
		globalRate:      rate.Limit(globalRate / 60.0),
		globalBurst:     globalBurst,
		paramRate:       rate.Limit(paramRate / 60.0),
		paramBurst:      paramBurst,
		idle:            idle,
		globalVisitors:  make(map[string]*visitor),
		paramVisitors:   make(map[string]map[string]*visitor),
	}
}

func (rl *RateLimiter) getGlobalLimiter(ip string) *rate.Limiter {
	rl.muGlobal.Lock()
	defer rl.muGlobal.Unlock()
	v, exists := rl.globalVisitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.globalRate, rl.globalBurst)
		rl.globalVisitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) getParamLimiter(ip, param string) *rate.Limiter {
	rl.muParam.Lock()
	defer rl.muParam.Unlock()
	if _, ok := rl.paramVisitors[ip]; !ok {
		rl.paramVisitors[ip] = make(map[string]*visitor)
	}
	v, exists := rl.paramVisitors[ip][param]
	if !exists {
		limiter := rate.NewLimiter(rl.paramRate, rl.paramBurst)
		rl.paramVisitors[ip][param] = &visitor{limiter, time.Now()}
		return limiter
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup removes visitors not seen for longer than the idle timeout.
func (rl *RateLimiter) Cleanup(now time.Time) {
	rl.muGlobal.Lock()
	for ip, v := range rl.globalVisitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.globalVisitors, ip)
		}
	}
	rl.muGlobal.Unlock()

	rl.muParam.Lock()
	for ip, paramMap := range rl.paramVisitors {
		for param, v := range paramMap {
			if now.Sub(v.lastSeen) > rl.idle {
				delete(paramMap, param)
			}
		}
		if len(paramMap) == 0 {
			delete(rl.paramVisitors, ip)
		}
	}
	rl.muParam.Unlock()
}

// StartCleanup runs Cleanup once a minute until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.Cleanup(now)
			}
		}
	}()
}

// Reset clears all visitor state.
func (rl *RateLimiter) Reset() {
	rl.muGlobal.Lock()
	rl.globalVisitors = make(map[string]*visitor)
	rl.muGlobal.Unlock()
	rl.muParam.Lock()
	rl.paramVisitors = make(map[string]map[string]*visitor)
	rl.muParam.Unlock()
}

func (rl *RateLimiter) visitors() (global, param int) {
	rl.muGlobal.Lock()
	global = len(rl.globalVisitors)
	rl.muGlobal.Unlock()
	rl.muParam.Lock()
	param = len(rl.paramVisitors)
	rl.muParam.Unlock()
	return global, param
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // fallback
	}
	return ip
}

func (rl *RateLimiter) getParam(r *http.Request) string {
	if v := r.URL.Query().Get(rl.paramKey); v != "" {
		return strings.TrimSpace(v)
	}
	if r.Method == http.MethodPost {
		return strings.TrimSpace(r.FormValue(rl.paramKey))
	}
	return ""
}

// Middleware rejects requests over either limit with 429 and a JSON error.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)
		param := rl.getParam(r)
		if param == "" {
			// If param is missing, treat as a single bucket
			param = "__none__"
		}
		if !rl.getGlobalLimiter(ip).Allow() {
			writeTooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per user/IP", rl.globalPerMinute),
				"Too Many Requests (global limit)")
			return
		}
		if !rl.getParamLimiter(ip, param).Allow() {
			writeTooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per unique %s per user/IP", rl.paramPerMinute, rl.paramKey),
				"Too Many Requests (per-param limit)")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeTooManyRequests(w http.ResponseWriter, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(model.Failure(errMsg, message))
}
