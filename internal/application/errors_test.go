package application

import "testing"

func TestValidationErrorMessage(t *testing.T) {
	t.Run("without field errors", func(t *testing.T) {
		var nilErr *ValidationError
		if got := nilErr.Error(); got != "validation failed" {
			t.Fatalf("unexpected message %q", got)
		}
		if got := (&ValidationError{}).Error(); got != "validation failed" {
			t.Fatalf("unexpected message %q", got)
		}
	})

	t.Run("names the violated fields in order", func(t *testing.T) {
		vErr := &ValidationError{}
		vErr.addAll(map[string]string{
			"selection": "no range has been chosen",
			"range":     "range crosses a booked slot",
		})
		if got := vErr.Error(); got != "validation failed: range, selection" {
			t.Fatalf("unexpected message %q", got)
		}
	})
}
