package errors

import (
	"context"
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMalformedNetwork, "link %d out of range", 3)

	if err.Code != ErrCodeMalformedNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMalformedNetwork)
	}

	if err.Message != "link 3 out of range" {
		t.Errorf("Message = %v, want %v", err.Message, "link 3 out of range")
	}

	expected := "MALFORMED_NETWORK: link 3 out of range"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeFetchFailed, cause, "load rollup")

	if err.Code != ErrCodeFetchFailed {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFetchFailed)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "FETCH_FAILED: load rollup: connection refused"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNoRoute, "test"), ErrCodeNoRoute, true},
		{"non-matching code", New(ErrCodeNoRoute, "test"), ErrCodeNetwork, false},
		{"wrapped error uses outer code", Wrap(ErrCodeFetchFailed, New(ErrCodeNetwork, "inner"), "outer"), ErrCodeFetchFailed, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeUnknownStation, "test"), ErrCodeUnknownStation},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeNoRoute, "no route from A to B"), "no route from A to B"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeMalformedNetwork, "x"), false},
		{New(ErrCodeInternal, "x"), false},
		{New(ErrCodeNoRoute, "x"), true},
		{New(ErrCodeFetchFailed, "x"), true},
		{New(ErrCodeUnknownStation, "x"), true},
		{errors.New("plain"), true},
	}
	for _, tt := range tests {
		if got := IsRecoverable(tt.err); got != tt.want {
			t.Errorf("IsRecoverable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestIsDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"ContextDeadline", ctx.Err(), true},
		{"Wrapped", Wrap(ErrCodeNetwork, ctx.Err(), "GET"), true},
		{"Canceled", context.Canceled, false},
		{"Plain", New(ErrCodeNetwork, "refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDeadline(tt.err); got != tt.want {
				t.Errorf("IsDeadline() = %v, want %v", got, tt.want)
			}
		})
	}
}
