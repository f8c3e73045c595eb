package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func newLimitedEcho(t *testing.T, max int) (*echo.Echo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	e := echo.New()
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimit(rdb, "login", max, time.Minute))
	return e, mr
}

func postFrom(e *echo.Echo, remote string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimit_BlocksAfterMax(t *testing.T) {
	e, mr := newLimitedEcho(t, 2)

	for i := 0; i < 2; i++ {
		if code := postFrom(e, "192.0.2.1:1000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := postFrom(e, "192.0.2.1:1000"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}

	// Other clients have their own budget.
	if code := postFrom(e, "192.0.2.2:1000"); code != http.StatusOK {
		t.Fatalf("expected 200 for a different IP, got %d", code)
	}

	// The window expires.
	mr.FastForward(time.Minute + time.Second)
	if code := postFrom(e, "192.0.2.1:1000"); code != http.StatusOK {
		t.Fatalf("expected 200 after the window, got %d", code)
	}
}

func TestRateLimit_ZeroDisables(t *testing.T) {
	e, mr := newLimitedEcho(t, 0)

	for i := 0; i < 20; i++ {
		if code := postFrom(e, "192.0.2.1:1000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Errorf("disabled limiter should not touch Redis, found %v", keys)
	}
}

func TestRateLimit_FailsOpenWithoutRedis(t *testing.T) {
	e, mr := newLimitedEcho(t, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		if code := postFrom(e, "192.0.2.1:1000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200 while Redis is down, got %d", i+1, code)
		}
	}
}
