package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripcost/internal/http/middleware"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"client": middleware.CallerClientID(c)})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "203.0.113.7:5555"
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 2)
	r := newEngine(rl.Middleware())

	for i := 0; i < 2; i++ {
		if w := get(r, "/test"); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	w := get(r, "/test")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 1)
	r := newEngine(rl.Middleware())
	_ = get(r, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "198.51.100.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("other client limited: %d", w.Code)
	}
}

func TestClientID_IssuesAndKeepsCookie(t *testing.T) {
	r := newEngine(middleware.ClientID(false))

	w := get(r, "/test")
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.ClientCookie {
		t.Fatalf("expected client cookie, got %v", cookies)
	}
	issued := cookies[0]
	if !issued.HttpOnly {
		t.Error("cookie should be HttpOnly")
	}

	w = get(r, "/test", &http.Cookie{Name: middleware.ClientCookie, Value: issued.Value})
	if len(w.Result().Cookies()) != 0 {
		t.Error("valid cookie should not be reissued")
	}
	if body := w.Body.String(); body != `{"client":"`+issued.Value+`"}` {
		t.Errorf("body = %s", body)
	}
}

func TestClientID_ReplacesGarbage(t *testing.T) {
	r := newEngine(middleware.ClientID(true))
	w := get(r, "/test", &http.Cookie{Name: middleware.ClientCookie, Value: "../../etc"})
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value == "../../etc" || !cookies[0].Secure {
		t.Errorf("cookie not replaced: %v", cookies)
	}
}

func TestRecovery(t *testing.T) {
	r := newEngine(middleware.Logging(zap.NewNop()), middleware.Recovery(zap.NewNop()))
	w := get(r, "/panic")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if w.Body.String() != `{"error":"internal error"}` {
		t.Errorf("body = %s", w.Body.String())
	}
}
