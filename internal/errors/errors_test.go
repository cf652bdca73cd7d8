package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "structural",
			code:    CodeStructural,
			wantMsg: "Malformed node",
			wantCat: CategoryStructure,
		},
		{
			name:    "missing live node",
			code:    CodeMissingLive,
			wantMsg: "Missing live node",
			wantCat: CategoryLive,
		},
		{
			name:    "missing parent",
			code:    CodeMissingParent,
			wantMsg: "Render root has no parent",
			wantCat: CategoryLive,
		},
		{
			name:    "unknown error code",
			code:    "V999",
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
	err := Newf(CategoryTree, "file %q not found", "tree.yaml")
	if err.Message != `file "tree.yaml" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryTree {
		t.Errorf("Category = %q, want %q", err.Category, CategoryTree)
	}
}

func TestError_Error(t *testing.T) {
	err := New(CodeMissingLive).WithPath("0/1").WithDetail("text node has no live text")
	want := "V002: Missing live node at 0/1: text node has no live text"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := &Error{Message: "plain"}
	if bare.Error() != "plain" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "plain")
	}
}

func TestError_IsMatchesCode(t *testing.T) {
	err := New(CodeStructural).WithPath("0")
	wrapped := fmt.Errorf("render: %w", err)

	if !stderrors.Is(wrapped, New(CodeStructural)) {
		t.Error("expected wrapped structural error to match by code")
	}
	if stderrors.Is(wrapped, New(CodeMissingParent)) {
		t.Error("did not expect a match against a different code")
	}

	joined := stderrors.Join(New(CodeMissingLive), New(CodeStructural))
	if !stderrors.Is(joined, New(CodeStructural)) {
		t.Error("expected joined errors to match")
	}

	a := &Error{Message: "a"}
	b := &Error{Message: "a"}
	if stderrors.Is(a, b) {
		t.Error("uncoded errors should only match themselves")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New(CodeInvalidTree).Wrap(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	var ve *Error
	if !stderrors.As(fmt.Errorf("x: %w", err), &ve) || ve.Code != CodeInvalidTree {
		t.Errorf("errors.As = %v", ve)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeUsage) != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New(CodeInvalidConfig)
	if FromError(orig, CodeUsage) != orig {
		t.Error("FromError should return an existing *Error unchanged")
	}

	plain := stderrors.New("boom")
	got := FromError(plain, CodeUsage)
	if got.Code != CodeUsage || got.Wrapped != plain {
		t.Errorf("FromError = %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeStructural).
		WithPath("0/3").
		WithSuggestion("Move the children onto an element node.").
		Wrap(stderrors.New("text node with 2 children"))

	out := err.Format()
	for _, want := range []string{
		"ERROR V001: Malformed node",
		"at 0/3",
		"Hint: Move the children onto an element node.",
		"Cause: text node with 2 children",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New(CodeMissingParent).WithPath("root")
	if got, want := err.FormatCompact(), "root: V003: Render root has no parent"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New(CodeInvalidTree).WithPath("children[2]").Wrap(stderrors.New("bad key"))

	var decoded map[string]string
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &decoded); jerr != nil {
		t.Fatalf("FormatJSON produced invalid JSON: %v", jerr)
	}
	if decoded["code"] != CodeInvalidTree {
		t.Errorf("code = %q", decoded["code"])
	}
	if decoded["path"] != "children[2]" {
		t.Errorf("path = %q", decoded["path"])
	}
	if decoded["cause"] != "bad key" {
		t.Errorf("cause = %q", decoded["cause"])
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("the quick brown fox jumps over the lazy dog", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than width", l)
		}
	}
	if strings.Join(lines, " ") != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("wrapText lost words: %v", lines)
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, New(CodeUsage))
	if !strings.Contains(buf.String(), "V030") {
		t.Errorf("Fprint(*Error) = %q", buf.String())
	}

	buf.Reset()
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint(error) = %q", buf.String())
	}
}

func TestRegistryCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) != 7 {
		t.Errorf("GetAllCodes() returned %d codes, want 7", len(codes))
	}
	for _, code := range codes {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template for %s incomplete: %+v", code, tmpl)
		}
	}
}
