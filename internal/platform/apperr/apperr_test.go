package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if KindOf(Validation("bad")) != KindValidation {
		t.Error("expected KindValidation")
	}
	if KindOf(NotFound("gone")) != KindNotFound {
		t.Error("expected KindNotFound")
	}
	if KindOf(Conflict("busy")) != KindConflict {
		t.Error("expected KindConflict")
	}
	if KindOf(errors.New("driver exploded")) != KindPersistence {
		t.Error("expected plain errors to default to KindPersistence")
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("submit rating: %w", NotFound("doctor not found"))
	if !IsNotFound(err) {
		t.Error("expected wrapped NotFound to be detected")
	}
	if KindOf(err) != KindNotFound {
		t.Error("expected KindNotFound through wrapping")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("busy"), http.StatusConflict},
		{Persistence(errors.New("boom"), "save failed"), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestPublicMessage_MasksPersistence(t *testing.T) {
	err := Persistence(errors.New("pq: connection refused"), "save medicine")
	if msg := PublicMessage(err); msg != "internal server error" {
		t.Errorf("expected masked message, got %q", msg)
	}
	if msg := PublicMessage(Validation("name is required")); msg != "name is required" {
		t.Errorf("expected validation message, got %q", msg)
	}
}

func TestErrorString_IncludesCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Persistence(cause, "load doctor")
	if err.Error() != "load doctor: timeout" {
		t.Errorf("unexpected error string %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be unwrappable")
	}
}
