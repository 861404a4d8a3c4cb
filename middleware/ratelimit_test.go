package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/clock/testclock"
)

func newTestLimiter(t *testing.T, maxRequests int, per time.Duration) (*RateLimiter, *testclock.Clock) {
	clk := testclock.NewClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	rl := NewRateLimiter(maxRequests, per, clk)
	t.Cleanup(rl.Stop)
	return rl, clk
}

func TestRateLimiterWithinLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 5, time.Minute)
	for i := 0; i < 5; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
}

func TestRateLimiterOverLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, 2, time.Minute)
	rl.allow("1.2.3.4") // 1
	rl.allow("1.2.3.4") // 2
	if rl.allow("1.2.3.4") { // 3 - should be blocked
		t.Fatal("should be rate limited")
	}
}

func TestRateLimiterTokenRefill(t *testing.T) {
	rl, clk := newTestLimiter(t, 1, time.Minute)
	rl.allow("1.2.3.4")
	if rl.allow("1.2.3.4") {
		t.Fatal("should be rate limited immediately")
	}

	clk.Advance(30 * time.Second)
	if rl.allow("1.2.3.4") {
		t.Fatal("half a token should not be enough")
	}

	clk.Advance(61 * time.Second)
	if !rl.allow("1.2.3.4") {
		t.Fatal("token should have refilled")
	}
}

func TestRateLimiterDifferentIPs(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)
	rl.allow("1.1.1.1")
	if !rl.allow("2.2.2.2") {
		t.Fatal("different IP should have its own bucket")
	}
}

func TestRateLimiterCleanupDropsIdleClients(t *testing.T) {
	rl, clk := newTestLimiter(t, 1, time.Minute)
	rl.allow("1.1.1.1")

	// Let the cleanup loop park on its timer before moving time.
	if err := clk.WaitAdvance(11*time.Minute, time.Second, 1); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		rl.mu.Lock()
		n := len(rl.clients)
		rl.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected idle client to be dropped")
}

func TestRateLimiterMiddleware429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newTestLimiter(t, 1, time.Minute)

	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest("GET", "/test", nil))
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("GET", "/test", nil))
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
}
