package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"songly/internal/core/apperr"
)

// Message is a single string or, when there are several, a list.
type Message []string

func (m Message) MarshalJSON() ([]byte, error) {
	if len(m) == 1 {
		return json.Marshal(m[0])
	}
	return json.Marshal([]string(m))
}

type ErrorBody struct {
	Message Message `json:"message"`
	Status  int     `json:"status"`
}

// Envelope wraps every non-2xx response.
type Envelope struct {
	Error ErrorBody `json:"error"`
}

// Error builds an envelope; with no messages the status text is used.
func Error(status int, msgs ...string) Envelope {
	if len(msgs) == 0 {
		msgs = []string{http.StatusText(status)}
	}
	return Envelope{Error: ErrorBody{Message: msgs, Status: status}}
}

// FromError maps domain errors to their status; anything else is a 500 with the raw message.
func FromError(err error) Envelope {
	if ae, ok := apperr.From(err); ok {
		return Error(ae.Status, ae.Messages...)
	}
	return Error(http.StatusInternalServerError, err.Error())
}

// Fail aborts the request with the envelope for err and records err on the context.
func Fail(c *gin.Context, err error) {
	env := FromError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(env.Error.Status, env)
}

// NotFound answers unmatched routes.
func NotFound(c *gin.Context) {
	Fail(c, apperr.NotFound())
}
