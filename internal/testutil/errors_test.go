package testutil

import (
	"errors"
	"testing"
)

// errMockWrapped is a static error for testing that non-wrapped errors don't match sentinels.
var errMockWrapped = errors.New("wrapped: viewport driver unavailable")

func TestMockErrors(t *testing.T) {
	if ErrMockViewportUnavailable.Error() != "viewport driver unavailable" {
		t.Errorf("ErrMockViewportUnavailable.Error() = %q, want %q",
			ErrMockViewportUnavailable.Error(), "viewport driver unavailable")
	}
}

func TestMockErrorsAreSentinelErrors(t *testing.T) {
	if !errors.Is(ErrMockViewportUnavailable, ErrMockViewportUnavailable) {
		t.Error("ErrMockViewportUnavailable should be equal to itself")
	}

	if errors.Is(errMockWrapped, ErrMockViewportUnavailable) {
		t.Error("non-wrapped error should not match sentinel")
	}
}
