package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"songly/internal/transport/http/response"
)

// EZ wraps a router group for one-line action registration.
type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Group returns the wrapped router group.
func (e EZ) Group() *gin.RouterGroup { return e.g }

// Binder selects where the action input comes from.
type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // URL ?a=b
	BindNone  Binder = "none"  // handler reads c.Param itself
)

// Gate runs before input binding. A non-nil error aborts the request.
type Gate func(c *gin.Context) error

// Action is one route: I is the bound input, O the response body.
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PATCH" | "DELETE"
	Path    string // e.g. "/playlists/:handle"
	Binder  Binder
	Gates   []Gate
	Status  int // defaults to 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction mounts a under e. Gates run first, then binding and
// validation, then the handler. Any error goes through the error envelope.
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := func(c *gin.Context) {
		// 1) access
		for _, gate := range a.Gates {
			if err := gate(c); err != nil {
				response.Fail(c, err)
				return
			}
		}

		// 2) input
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = DecodeJSON(c.Request.Body, &in)
		case BindQuery:
			bindErr = DecodeQuery(c, &in)
		default:
		}
		if bindErr != nil {
			response.Fail(c, bindErr)
			return
		}

		// 3) run
		out, err := a.Handler(c, &in)
		if err != nil {
			response.Fail(c, err)
			return
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}
