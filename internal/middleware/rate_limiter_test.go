package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func testConfig() config.RateLimiterConfig {
	return config.RateLimiterConfig{
		CleanupTimeout: 3 * time.Minute,
		GlobalRate:     10,
		GlobalBurst:    10,
		ParamRate:      2,
		ParamBurst:     2,
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	msg, _ := resp["error"].(string)
	return msg
}

func TestRateLimitMiddleware_GlobalBurst(t *testing.T) {
	rl := NewRateLimiter(testConfig(), "location")
	mw := rl.Middleware(okHandler())
	ip := "1.2.3.4:1234"

	// 10 unique params fit in the global burst
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest("GET", fmt.Sprintf("/weather?location=city%d", i), nil)
		req.RemoteAddr = ip
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	req := httptest.NewRequest("GET", "/weather?location=city2", nil)
	req.RemoteAddr = ip
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, decodeError(t, w), "max 10 requests per minute per user/IP")
}

func TestRateLimitMiddleware_PerParamBurst(t *testing.T) {
	rl := NewRateLimiter(testConfig(), "location")
	mw := rl.Middleware(okHandler())
	ip := "2.3.4.5:2345"

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/weather?location=London", nil)
		req.RemoteAddr = ip
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	req := httptest.NewRequest("GET", "/weather?location=London", nil)
	req.RemoteAddr = ip
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, decodeError(t, w), "per unique location")

	// a different client is unaffected
	req = httptest.NewRequest("GET", "/weather?location=London", nil)
	req.RemoteAddr = "9.9.9.9:1"
	w = httptest.NewRecorder()
	mw.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_FormParam(t *testing.T) {
	rl := NewRateLimiter(testConfig(), "value")
	mw := rl.Middleware(okHandler())

	post := func() int {
		form := url.Values{"value": {"Paris"}}
		req := httptest.NewRequest("POST", "/dashboard/x/input", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "3.3.3.3:3"
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())
}

func TestRateLimitMiddleware_ForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/weather", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.1")
	assert.Equal(t, "10.0.0.1", getIP(req))

	req = httptest.NewRequest("GET", "/weather", nil)
	req.RemoteAddr = "no-port"
	assert.Equal(t, "no-port", getIP(req))
}

func TestRateLimiter_CleanupAndReset(t *testing.T) {
	rl := NewRateLimiter(config.RateLimiterConfig{}, "location")
	mw := rl.Middleware(okHandler())

	req := httptest.NewRequest("GET", "/weather?location=Rome", nil)
	req.RemoteAddr = "4.4.4.4:4"
	mw.ServeHTTP(httptest.NewRecorder(), req)

	global, param := rl.visitors()
	assert.Equal(t, 1, global)
	assert.Equal(t, 1, param)

	rl.Cleanup(time.Now())
	global, _ = rl.visitors()
	assert.Equal(t, 1, global, "recent visitors are kept")

	rl.Cleanup(time.Now().Add(4 * time.Minute))
	global, param = rl.visitors()
	assert.Zero(t, global)
	assert.Zero(t, param)

	mw.ServeHTTP(httptest.NewRecorder(), req)
	rl.Reset()
	global, _ = rl.visitors()
	assert.Zero(t, global)
}
