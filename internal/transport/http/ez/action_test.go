package ez

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"songly/internal/core/apperr"
)

type echoIn struct {
	Name string `json:"name" binding:"required"`
}

type echoOut struct {
	Hello string `json:"hello"`
}

func TestRegisterAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	e := New(&r.RouterGroup)

	calls := 0
	deny := func(c *gin.Context) error {
		if c.GetHeader("X-Allow") == "" {
			return apperr.Unauthorized()
		}
		return nil
	}
	RegisterAction(e, Action[echoIn, echoOut]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Gates:  []Gate{deny},
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *echoIn) (echoOut, error) {
			calls++
			if in.Name == "missing" {
				return echoOut{}, apperr.NotFound("No thing: missing")
			}
			return echoOut{Hello: in.Name}, nil
		},
	})

	do := func(body string, allow bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
		if allow {
			req.Header.Set("X-Allow", "1")
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	tests := []struct {
		name   string
		body   string
		allow  bool
		status int
		want   string
	}{
		{"ok", `{"name":"x"}`, true, http.StatusCreated, `{"hello":"x"}`},
		{"gate runs before validation", `{"bad":1}`, false, http.StatusUnauthorized,
			`{"error":{"message":"Unauthorized","status":401}}`},
		{"validation", `{"bad":1}`, true, http.StatusBadRequest,
			`{"error":{"message":"instance is not allowed to have the additional property \"bad\"","status":400}}`},
		{"handler error", `{"name":"missing"}`, true, http.StatusNotFound,
			`{"error":{"message":"No thing: missing","status":404}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(tt.body, tt.allow)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if strings.TrimSpace(w.Body.String()) != tt.want {
				t.Errorf("expected %s, got %s", tt.want, w.Body.String())
			}
		})
	}
	if calls != 2 {
		t.Errorf("expected handler to run twice, ran %d times", calls)
	}
}
