package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"songly/internal/core/apperr"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"bad request", apperr.BadRequest("bad"), 400, `{"error":{"message":"bad","status":400}}`},
		{"unauthorized", apperr.Unauthorized(), 401, `{"error":{"message":"Unauthorized","status":401}}`},
		{"forbidden", apperr.Forbidden(), 403, `{"error":{"message":"Forbidden","status":403}}`},
		{"not found wrapped", fmt.Errorf("get: %w", apperr.NotFound("No song: 1")), 404, `{"error":{"message":"No song: 1","status":404}}`},
		{"many messages", apperr.BadRequest("a", "b"), 400, `{"error":{"message":["a","b"],"status":400}}`},
		{"unknown", errors.New("boom"), 500, `{"error":{"message":"boom","status":500}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := FromError(tc.err)
			if env.Error.Status != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, env.Error.Status)
			}
			b, err := json.Marshal(env)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != tc.body {
				t.Errorf("expected %s, got %s", tc.body, b)
			}
		})
	}
}

func TestFail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Fail(c, apperr.NotFound("No playlist: x"))
	})
	r.NoRoute(NotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no-such-route", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	want := `{"error":{"message":"Not Found","status":404}}`
	if w.Body.String() != want {
		t.Errorf("expected %s, got %s", want, w.Body.String())
	}
}
