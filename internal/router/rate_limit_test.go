package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bookcart/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newThrottleRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newThrottledLogin(throttle LoginThrottle, client *redis.Client) *gin.Engine {
	r := gin.New()
	r.POST("/login", throttle.Middleware(client), func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, gin.H{"bound": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"bound": true, "email": req.Email})
	})
	return r
}

func postLogin(r *gin.Engine, email, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"`+email+`","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = ip + ":5678"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func statusCodeOf(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %s: %v", w.Body.String(), err)
	}
	return body.StatusCode
}

func TestLoginAttemptKeyFromJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":" Test@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := loginAttemptKey(c); key != "test@example.com|1.2.3.4" {
		t.Fatalf("key want test@example.com|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Test@Example.com") {
		t.Fatalf("request body should be restored after reading email")
	}
}

func TestLoginAttemptKeyFromForm(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=Reader%40Example.com&password=x"))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := loginAttemptKey(c); key != "reader@example.com|1.2.3.4" {
		t.Fatalf("key want reader@example.com|1.2.3.4 got %s", key)
	}
	if got := c.PostForm("password"); got != "x" {
		t.Fatalf("form should stay readable after key extraction, got %q", got)
	}

	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
	c.Request.RemoteAddr = "5.6.7.8:1"
	if key := loginAttemptKey(c); key != "5.6.7.8" {
		t.Fatalf("missing email should fall back to ip, got %s", key)
	}
}

func TestNewLoginThrottleFromConfig(t *testing.T) {
	throttle := NewLoginThrottle(" ", config.LoginRateLimitConfig{WindowSeconds: 300, MaxAttempts: 5, BlockSeconds: 900})
	if throttle.Prefix != "bc:rate:login" {
		t.Fatalf("unexpected prefix %q", throttle.Prefix)
	}
	if !throttle.enabled() {
		t.Fatalf("throttle should be enabled")
	}
	if NewLoginThrottle("shop", config.LoginRateLimitConfig{}).enabled() {
		t.Fatalf("zero limits should disable the throttle")
	}
}

func TestLoginThrottleWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	throttle := LoginThrottle{Prefix: "bc:rate:login", WindowSeconds: 60, MaxAttempts: 1}
	w := postLogin(newThrottledLogin(throttle, nil), "reader@example.com", "1.2.3.4")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"bound":true`) {
		t.Fatalf("expected handler response, got %d %s", w.Code, w.Body.String())
	}
}

func TestLoginThrottleBlocksAfterMaxAttempts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, client := newThrottleRedis(t)

	throttle := LoginThrottle{Prefix: "bc:rate:login", WindowSeconds: 60, MaxAttempts: 2, BlockSeconds: 900}
	r := newThrottledLogin(throttle, client)

	for i := 0; i < 2; i++ {
		w := postLogin(r, "Reader@Example.com", "1.2.3.4")
		if !strings.Contains(w.Body.String(), `"bound":true`) {
			t.Fatalf("attempt %d should reach the handler with its body intact, got %s", i+1, w.Body.String())
		}
	}

	w := postLogin(r, "reader@example.com", "1.2.3.4")
	if code := statusCodeOf(t, w); code != 429 {
		t.Fatalf("third attempt want 429 got %d", code)
	}
	if got := w.Header().Get("Retry-After"); got != "900" {
		t.Fatalf("Retry-After should follow the block period, got %q", got)
	}
	if ttl := mr.TTL("bc:rate:login:reader@example.com|1.2.3.4"); ttl != 900*time.Second {
		t.Fatalf("counter should carry the block ttl, got %v", ttl)
	}

	if w := postLogin(r, "other@example.com", "1.2.3.4"); !strings.Contains(w.Body.String(), `"bound":true`) {
		t.Fatalf("another account from the same ip should not be blocked, got %s", w.Body.String())
	}

	mr.FastForward(901 * time.Second)
	if w := postLogin(r, "reader@example.com", "1.2.3.4"); !strings.Contains(w.Body.String(), `"bound":true`) {
		t.Fatalf("attempts should be allowed after the block expires, got %s", w.Body.String())
	}
}

func TestLoginThrottleRejectsWhenRedisDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr, client := newThrottleRedis(t)
	mr.Close()

	throttle := LoginThrottle{Prefix: "bc:rate:login", WindowSeconds: 60, MaxAttempts: 5}
	w := postLogin(newThrottledLogin(throttle, client), "reader@example.com", "1.2.3.4")
	if code := statusCodeOf(t, w); code != 500 {
		t.Fatalf("unavailable limiter want 500 got %d", code)
	}
}

func TestRetryAfterFallsBackToWindow(t *testing.T) {
	throttle := LoginThrottle{WindowSeconds: 60}
	if got := throttle.retryAfter(-1); got != 60 {
		t.Fatalf("want window fallback 60 got %d", got)
	}
	if got := (LoginThrottle{}).retryAfter(0); got != 1 {
		t.Fatalf("want minimum 1 got %d", got)
	}
}
