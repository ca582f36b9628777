package bisque

import (
	"errors"
	"testing"
)

func TestMatchError_Is(t *testing.T) {
	err := newMatchError("bad-key")

	if !errors.Is(err, ErrValueDoesNotMatch) {
		t.Error("MatchError should unwrap to ErrValueDoesNotMatch")
	}
	if errors.Is(err, ErrDuplicateField) {
		t.Error("MatchError should not match ErrDuplicateField")
	}
}

func TestMatchError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "value only",
			err:  newMatchError("xyz"),
			want: "value does not match: xyz",
		},
		{
			name: "with cause",
			err:  newMatchErrorCause("xyz", errors.New("parse failed")),
			want: "value does not match: xyz: parse failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldError_UnwrapsVerbatim(t *testing.T) {
	cause := newMatchError("v")
	err := newFieldError("age", cause)

	if !errors.Is(err, ErrValueDoesNotMatch) {
		t.Error("FieldError should see through to the component error")
	}

	var me *MatchError
	if !errors.As(err, &me) {
		t.Error("component error should be reachable via errors.As")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the component error unchanged")
	}

	if got, want := err.Error(), "field age: value does not match: v"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
