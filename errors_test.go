package wise

import (
	"errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	t.Parallel()

	t.Run("step failure with draft id", func(t *testing.T) {
		t.Parallel()

		err := stepFailed(StepPopulate, "pr_1", errors.New("invalid line item"))
		want := "invoice step POPULATE failed (payment request pr_1): invalid line item"
		if err.Error() != want {
			t.Fatalf("expected %q got %q", want, err.Error())
		}
	})

	t.Run("step failure without draft id", func(t *testing.T) {
		t.Parallel()

		err := stepFailed(StepAllocate, "", errors.New("balance not found"))
		want := "invoice step ALLOCATE failed: balance not found"
		if err.Error() != want {
			t.Fatalf("expected %q got %q", want, err.Error())
		}
	})

	t.Run("unwraps the cause", func(t *testing.T) {
		t.Parallel()

		cause := newRemoteError(422, []byte(`{"errors":[{"message":"nope"}]}`))
		err := stepFailed(StepPublish, "pr_1", cause)

		var inner *Error
		if !errors.As(errors.Unwrap(err), &inner) {
			t.Fatalf("expected wrapped *Error")
		}
		if inner.Type != ErrorTypeRemoteCall || inner.Status != 422 {
			t.Fatalf("unexpected cause %+v", inner)
		}
	})

	t.Run("nil receiver", func(t *testing.T) {
		t.Parallel()

		var err *Error
		if err.Error() != "" {
			t.Fatalf("expected empty string")
		}
	})
}
