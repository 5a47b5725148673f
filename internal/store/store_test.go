package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorsWrapErrValidation(t *testing.T) {
	for _, err := range []error{ErrInvalidAmount, ErrInvalidTransaction} {
		if !errors.Is(err, ErrValidation) {
			t.Errorf("expected %v to wrap ErrValidation", err)
		}
	}
}

func TestTransientKeepsCause(t *testing.T) {
	cause := errors.New("database is locked")
	err := fmt.Errorf("%w: %w", ErrTransient, cause)

	if !errors.Is(err, ErrTransient) {
		t.Error("expected ErrTransient in chain")
	}
	if !errors.Is(err, cause) {
		t.Error("expected original cause in chain")
	}
}

func TestBusinessErrorsAreDistinct(t *testing.T) {
	kinds := []error{ErrValidation, ErrNotFound, ErrConflict, ErrInsufficientFunds, ErrTransient}
	for i, a := range kinds {
		for j, b := range kinds {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v must not match %v", a, b)
			}
		}
	}
}
