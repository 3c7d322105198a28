package services

import (
	"errors"
	"fmt"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrExternalTool, "ffmpeg", "decode", "bad stream", cause)

	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool marker in %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause in %v", err)
	}
	want := "external tool error: ffmpeg: decode: bad stream: exit status 1"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "dispatch", "", "", nil)
	if !errors.Is(err, ErrConversionFailed) {
		t.Fatalf("nil marker should default to ErrConversionFailed, got %v", err)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrConfiguration, "", "", "", nil)
	if err.Error() != "configuration error: service failure" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrNotFound, "not_found"},
		{fmt.Errorf("outer: %w", ErrUnsupported), "unsupported"},
		{Wrap(ErrExternalTool, "rsvg", "render", "", nil), "tool_failed"},
		{ErrConfiguration, "config"},
		{errors.New("anything else"), "conversion_failed"},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
