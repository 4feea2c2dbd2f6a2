package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("No user: x"))

	if !errors.Is(err, ErrNotFound) {
		t.Error("expected errors.Is to match the status sentinel")
	}
	if errors.Is(err, ErrBadRequest) {
		t.Error("expected a different status not to match")
	}
	ae, ok := From(err)
	if !ok || ae.Status != 404 || ae.Error() != "No user: x" {
		t.Errorf("unexpected %+v", ae)
	}
	if _, ok := From(errors.New("plain")); ok {
		t.Error("expected plain errors not to be domain errors")
	}

	if got := Unauthorized().Error(); got != "Unauthorized" {
		t.Errorf("expected default message, got %q", got)
	}
	multi := BadRequest("first", " ", "second")
	if len(multi.Messages) != 2 || multi.Error() != "first" {
		t.Errorf("unexpected messages %v", multi.Messages)
	}
	if !errors.Is(ErrNoData, ErrBadRequest) {
		t.Error("expected no data to be a bad request")
	}
}
