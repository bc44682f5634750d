package perr

import (
	"errors"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain error maps to internal", errors.New("plain"), KindInternal},
		{"input error", New(KindInput, "book-index", "missing file"), KindInput},
		{"wrapped external", Wrap(KindExternal, "asr", errors.New("503")), KindExternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Errorf("KindOf() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(New(KindInput, "s", "m")) {
		t.Error("input errors should not be retryable")
	}
	if !Retryable(New(KindExternal, "s", "m")) {
		t.Error("external failures should be retryable")
	}
}

func TestWrapNilIsNil(t *testing.T) {
	if Wrap(KindExternal, "s", nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := Wrap(KindDataIntegrity, "artifact", cause)
	if !errors.Is(wrapped, cause) {
		t.Error("expected errors.Is to see through to cause")
	}
}
