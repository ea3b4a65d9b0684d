package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSnugError_Error(t *testing.T) {
	err := New(ErrCategoryParse, CodeNotFound, "unit not found")
	expected := "[PARSE:NOT_FOUND] unit not found"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestSnugError_ErrorWithCause(t *testing.T) {
	cause := fmt.Errorf("read failed")
	err := Wrap(ErrCategoryConfig, CodeInvalidConfig, "bad config", cause)
	expected := "[CONFIG:INVALID_CONFIG] bad config: read failed"
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestSnugError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NewInternalError("boom", cause)
	if !errors.Is(err, cause) {
		t.Error("Unwrap should allow errors.Is to find the cause")
	}
}

func TestSnugError_Is(t *testing.T) {
	err1 := NotFound("xyz")
	err2 := NotFound("abc")
	err3 := IncompatibleUnits("add", "m", "s")

	if !errors.Is(err1, err2) {
		t.Error("errors with same category+code should match via Is")
	}
	if !errors.Is(err1, ErrNotFound) {
		t.Error("NotFound should match the ErrNotFound sentinel")
	}
	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match via Is")
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", err3), ErrIncompatibleUnits) {
		t.Error("wrapped IncompatibleUnits should match the sentinel")
	}
}

func TestNotFoundDetails(t *testing.T) {
	err := NotFound("xyz")
	token, ok := GetDetail(err, "token")
	if !ok || token != "xyz" {
		t.Errorf("expected token detail xyz, got %v (%v)", token, ok)
	}
	if err.Error() != `[PARSE:NOT_FOUND] unit "xyz" not found` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestIncompatibleUnitsDetails(t *testing.T) {
	err := IncompatibleUnits("add", "m", "s")
	left, _ := GetDetail(err, "left")
	right, _ := GetDetail(err, "right")
	if left != "m" || right != "s" {
		t.Errorf("expected m and s, got %v and %v", left, right)
	}
	if _, ok := GetDetail(fmt.Errorf("plain"), "left"); ok {
		t.Error("plain error should have no details")
	}
}

func TestGetCategory(t *testing.T) {
	err := NotFound("xyz")
	if GetCategory(err) != ErrCategoryParse {
		t.Errorf("got %q, want %q", GetCategory(err), ErrCategoryParse)
	}
	if GetCategory(fmt.Errorf("plain error")) != "" {
		t.Error("non-SnugError should return empty category")
	}
}

func TestGetCode(t *testing.T) {
	err := IncompatibleUnits("subtract", "g", "m")
	if GetCode(err) != CodeIncompatibleUnits {
		t.Errorf("got %q, want %q", GetCode(err), CodeIncompatibleUnits)
	}
	if GetCode(fmt.Errorf("plain error")) != "" {
		t.Error("non-SnugError should return empty code")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(ErrCategoryParse, CodeNotFound, "missing")
	detailed := err.WithDetails(map[string]interface{}{"token": "q"})

	if detailed.Details["token"] != "q" {
		t.Error("WithDetails should set details")
	}
	// Original should be unmodified
	if err.Details != nil {
		t.Error("WithDetails should not modify original")
	}
}

func TestConvenienceConstructors(t *testing.T) {
	d := NewInvalidDimension(9)
	if d.Category != ErrCategoryParse || d.Code != CodeInvalidDimension {
		t.Error("NewInvalidDimension mismatch")
	}

	c := NewConfigError("bad")
	if c.Category != ErrCategoryConfig || c.Code != CodeInvalidConfig {
		t.Error("NewConfigError mismatch")
	}

	r := NewRequestError("empty")
	if r.Code != CodeInvalidRequest {
		t.Error("NewRequestError mismatch")
	}

	cause := fmt.Errorf("io error")
	i := NewInternalError("unexpected", cause)
	if i.Category != ErrCategoryInternal || i.Code != CodeUnexpected || !errors.Is(i, cause) {
		t.Error("NewInternalError mismatch")
	}
}
