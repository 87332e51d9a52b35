package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("title"), KindValidation},
		{"not found", NotFound("task"), KindNotFound},
		{"unauthenticated", Unauthenticated("no token"), KindUnauthenticated},
		{"conflict", Conflict("email already registered"), KindConflict},
		{"internal", Internal(errors.New("boom")), KindInternal},
		{"plain error", errors.New("boom"), KindInternal},
		{"wrapped", fmt.Errorf("outer: %w", NotFound("task")), KindNotFound},
		{"nil-ish sentinel", errors.New(""), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.kind); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestEnvelopeStatus(t *testing.T) {
	if got := EnvelopeStatus(http.StatusNotFound); got != "fail" {
		t.Errorf("expected fail for 4xx, got %q", got)
	}
	if got := EnvelopeStatus(http.StatusInternalServerError); got != "error" {
		t.Errorf("expected error for 5xx, got %q", got)
	}
}

func TestMessages(t *testing.T) {
	if got := Message(Validation("due_date")); got != "invalid or missing field: due_date" {
		t.Errorf("unexpected validation message %q", got)
	}
	if got := Message(NotFound("task")); got != "no task found with that ID" {
		t.Errorf("unexpected not found message %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindInternal, "cache write failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusBadRequest, KindValidation},
		{http.StatusUnauthorized, KindUnauthenticated},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusInternalServerError, KindInternal},
		{http.StatusBadGateway, KindInternal},
	}

	for _, tt := range tests {
		err := FromStatus(tt.status, "server said no")
		if got := KindOf(err); got != tt.want {
			t.Errorf("FromStatus(%d): kind = %v, want %v", tt.status, got, tt.want)
		}
		if Message(err) != "server said no" {
			t.Errorf("FromStatus(%d): message not preserved", tt.status)
		}
	}
}
