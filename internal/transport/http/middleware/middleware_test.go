package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"songly/internal/core/apperr"
	"songly/internal/core/auth"
	"songly/internal/domain"
)

func init() { gin.SetMode(gin.TestMode) }

func testContext(principal *domain.Principal, params ...gin.Param) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = params
	if principal != nil {
		c.Set(KeyPrincipal, principal)
	}
	return c
}

func TestAuthenticate(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("secret-test")}
	tok, err := j.Issue(domain.Principal{Username: "u1", IsAdmin: true})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := gin.New()
	r.Use(Authenticate(j))
	r.GET("/", func(c *gin.Context) {
		if p := PrincipalFrom(c); p != nil {
			c.String(http.StatusOK, p.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer", "Bearer " + tok, "u1"},
		{"lowercase scheme", "bearer " + tok, "u1"},
		{"no header", "", "anonymous"},
		{"other scheme", "Basic " + tok, "anonymous"},
		{"invalid token", "Bearer nope", "anonymous"},
		{"empty token", "Bearer ", "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if w.Body.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, w.Body.String())
			}
		})
	}
}

func TestGates(t *testing.T) {
	admin := &domain.Principal{Username: "admin", IsAdmin: true}
	user := &domain.Principal{Username: "u1"}
	param := gin.Param{Key: "username", Value: "u1"}

	tests := []struct {
		name string
		gate func(*gin.Context) error
		c    *gin.Context
		ok   bool
	}{
		{"logged in: anonymous", RequireLoggedIn, testContext(nil), false},
		{"logged in: user", RequireLoggedIn, testContext(user), true},
		{"admin: anonymous", RequireAdmin, testContext(nil), false},
		{"admin: user", RequireAdmin, testContext(user), false},
		{"admin: admin", RequireAdmin, testContext(admin), true},
		{"self: same user", RequireSelfOrAdmin("username"), testContext(user, param), true},
		{"self: other user", RequireSelfOrAdmin("username"), testContext(&domain.Principal{Username: "u2"}, param), false},
		{"self: admin", RequireSelfOrAdmin("username"), testContext(admin, param), true},
		{"self: anonymous", RequireSelfOrAdmin("username"), testContext(nil, param), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.gate(tt.c)
			if tt.ok && err != nil {
				t.Errorf("expected pass, got %v", err)
			}
			if !tt.ok && !errors.Is(err, apperr.ErrUnauthorized) {
				t.Errorf("expected unauthorized, got %v", err)
			}
		})
	}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLimits(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		r := gin.New()
		r.Use(RateLimit(1, 1))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		if w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusTooManyRequests || !strings.Contains(w.Body.String(), `"status":429`) {
			t.Errorf("expected 429 envelope, got %d %s", w.Code, w.Body.String())
		}
	})

	t.Run("rate limit per ip", func(t *testing.T) {
		r := gin.New()
		r.Use(RateLimitPerIP(1, 1))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		a := httptest.NewRequest(http.MethodGet, "/", nil)
		a.RemoteAddr = "10.0.0.1:1"
		b := httptest.NewRequest(http.MethodGet, "/", nil)
		b.RemoteAddr = "10.0.0.2:1"
		if w := serve(r, a); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
		if w := serve(r, b); w.Code != http.StatusNoContent {
			t.Errorf("expected a separate bucket, got %d", w.Code)
		}
		a2 := httptest.NewRequest(http.MethodGet, "/", nil)
		a2.RemoteAddr = "10.0.0.1:1"
		if w := serve(r, a2); w.Code != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", w.Code)
		}
	})

	t.Run("max body", func(t *testing.T) {
		r := gin.New()
		r.Use(MaxBodyBytes(4))
		r.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("expected 413, got %d", w.Code)
		}
		if w := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("01"))); w.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", w.Code)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		r := gin.New()
		r.Use(Timeout(10 * time.Millisecond))
		r.GET("/", func(c *gin.Context) { <-c.Request.Context().Done() })

		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusGatewayTimeout {
			t.Errorf("expected 504, got %d", w.Code)
		}
	})

	t.Run("concurrency", func(t *testing.T) {
		r := gin.New()
		r.Use(ConcurrencyLimit(1))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", w.Code)
		}
	})
}

func TestRecoveredAndAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	r := gin.New()
	r.Use(RequestID(), AccessLog(l), ginzap.CustomRecoveryWithZap(zap.NewNop(), false, Recovered))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom?password=hunter2", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":{"message":"kaboom","status":500}}` {
		t.Errorf("unexpected body %s", got)
	}
	if w.Header().Get(KeyRequestID) == "" {
		t.Error("expected a request id header")
	}

	serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))

	entries := logs.FilterMessage("HTTP").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 access log lines, got %d", len(entries))
	}
	if entries[0].Level != zap.ErrorLevel || entries[1].Level != zap.InfoLevel {
		t.Errorf("unexpected levels %v, %v", entries[0].Level, entries[1].Level)
	}
	q, _ := entries[0].ContextMap()["query"].(map[string][]string)
	if q == nil || q["password"][0] != "****" {
		t.Errorf("expected masked password, got %v", entries[0].ContextMap()["query"])
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	tests := []struct {
		name string
		in   string
		keep bool
	}{
		{"caller id kept", "abc-123", true},
		{"empty minted", "", false},
		{"spaces minted", "abc 123", false},
		{"too long minted", strings.Repeat("a", maxRequestIDLen+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.in != "" {
				req.Header.Set(KeyRequestID, tt.in)
			}
			w := serve(r, req)
			got := w.Header().Get(KeyRequestID)
			if got != w.Body.String() {
				t.Errorf("header %q and context %q differ", got, w.Body.String())
			}
			if tt.keep && got != tt.in {
				t.Errorf("expected %q kept, got %q", tt.in, got)
			}
			if !tt.keep && (got == tt.in || len(got) != 36) {
				t.Errorf("expected a fresh uuid, got %q", got)
			}
		})
	}
}
