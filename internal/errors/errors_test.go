package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/vango-dev/vdiff/pkg/protocol"
	"github.com/vango-dev/vdiff/pkg/vdom"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "host error",
			code:    CodeHostFailed,
			wantMsg: "Host mutation failed",
			wantCat: CategoryHost,
		},
		{
			name:    "document error",
			code:    CodeInvalidDocument,
			wantMsg: "Invalid tree document",
			wantCat: CategoryDocument,
		},
		{
			name:    "protocol error",
			code:    CodeDesync,
			wantMsg: "Protocol desync",
			wantCat: CategoryProtocol,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryServer, "mount %q busy", "main")
	if err.Message != `mount "main" busy` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Error() != `mount "main" busy` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestErrorString(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := New(CodeSnapshotFailed).Wrap(cause)
	if got, want := err.Error(), "E500: Snapshot store failed: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeHostFailed) != nil {
		t.Error("FromError(nil) should be nil")
	}

	coded := New(CodeUnknownMount)
	wrapped := fmt.Errorf("lookup: %w", coded)
	if got := FromError(wrapped, CodeHostFailed); got != coded {
		t.Errorf("FromError should return the *Error in the chain, got %v", got)
	}

	plain := stderrors.New("plain")
	got := FromError(plain, CodeConfigLoad)
	if got.Code != CodeConfigLoad || got.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"host", &vdom.HostError{Op: vdom.OpAppend, Err: stderrors.New("x")}, CodeHostFailed},
		{"not mounted", vdom.ErrNotMounted, CodeNotMounted},
		{"document", fmt.Errorf("%w: $.children[0]", vdom.ErrInvalidDocument), CodeInvalidDocument},
		{"format", vdom.ErrUnknownFormat, CodeUnknownFormat},
		{"desync", fmt.Errorf("apply: %w", protocol.ErrDesync), CodeDesync},
		{"gap", protocol.ErrSequenceGap, CodeSequenceGap},
		{"decode", protocol.ErrUnknownOp, CodeDecode},
		{"frame", protocol.ErrFrameTooLarge, CodeDecode},
		{"fallback", stderrors.New("other"), CodeSnapshotFailed},
		{"coded", New(CodeUnknownMount), CodeUnknownMount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, CodeSnapshotFailed)
			if got.Code != tt.want {
				t.Errorf("Classify() code = %q, want %q", got.Code, tt.want)
			}
			if !stderrors.Is(got, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}

	if Classify(nil, CodeHostFailed) != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(CodeUnknownMount), http.StatusNotFound},
		{fmt.Errorf("x: %w", New(CodeInvalidDocument)), http.StatusBadRequest},
		{New(CodeUnknownFormat), http.StatusUnsupportedMediaType},
		{New(CodeSnapshotFailed), http.StatusBadGateway},
		{New(CodeNoSnapshot), http.StatusNotFound},
		{New(CodeBadRequest).WithDetail("since must be a number"), http.StatusBadRequest},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	err := New(CodeUnknownMount).
		WithSource("mounts/main").
		Wrap(stderrors.New("not registered"))
	out := err.Format()

	for _, want := range []string{
		"ERROR E501: Unknown mount",
		"mounts/main",
		"Cause: not registered",
		"No mount with this id exists.",
		"Hint: Create it first with PUT /mounts/{id}.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New(CodeConfigInvalid).WithSource("vdiff.toml")
	if got, want := err.FormatCompact(), "vdiff.toml: E401: Invalid configuration"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New(CodeDesync).Wrap(stderrors.New(`got #3, want "#4"`))
	out := err.FormatJSON()
	for _, want := range []string{
		`"code":"E301"`,
		`"category":"protocol"`,
		`"message":"Protocol desync"`,
		`"cause":"got #3, want \"#4\""`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatJSON() missing %s: %s", want, out)
		}
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) != 13 {
		t.Errorf("GetAllCodes() returned %d codes, want 13", len(codes))
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("code %s has an incomplete template", code)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six seven", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q longer than 10", line)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six seven" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestFormatProfile(t *testing.T) {
	err := New(CodeUnknownMount).WithSource("mounts/main")

	if out := err.Format(); strings.Contains(out, "\x1b[") {
		t.Errorf("Format() has escape sequences: %q", out)
	}

	out := err.FormatProfile(termenv.ANSI)
	if !strings.Contains(out, "\x1b[") {
		t.Errorf("FormatProfile(ANSI) has no escape sequences: %q", out)
	}
	for _, want := range []string{"ERROR ", "E501: ", "Unknown mount", "mounts/main"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatProfile(ANSI) missing %q: %q", want, out)
		}
	}
}

func TestFprintPlainError(t *testing.T) {
	var b strings.Builder
	Fprint(termenv.NewOutput(&b, termenv.WithProfile(termenv.Ascii)), stderrors.New("plain failure"))
	if got := b.String(); !strings.Contains(got, "ERROR: plain failure") || strings.Contains(got, "\x1b[") {
		t.Errorf("Fprint() = %q", got)
	}
}

func TestFprintUsesOutputProfile(t *testing.T) {
	var b strings.Builder
	out := termenv.NewOutput(&b, termenv.WithProfile(termenv.ANSI))
	Fprint(out, New(CodeDesync))
	if got := b.String(); !strings.Contains(got, "\x1b[") || !strings.Contains(got, "Protocol desync") {
		t.Errorf("Fprint() = %q", got)
	}
}
