package settings

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeJSONC(t *testing.T) {
	src := "\xEF\xBB\xBF" + `{
    // editor look
    "workbench.colorTheme": "Default Dark+",
    /* sizes */
    "editor.fontSize": 14,
    "editor.rulers": [80, 120,],
    "files.exclude": {
        "**/.git": true,
    },
}`
	doc, err := JSONCCodec{}.Decode("settings.json", []byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	wantKeys := []string{"workbench.colorTheme", "editor.fontSize", "editor.rulers", "files.exclude"}
	if diff := cmp.Diff(wantKeys, doc.Keys()); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}

	theme, _ := doc.Get("workbench.colorTheme")
	if s, ok := theme.AsString(); !ok || s != "Default Dark+" {
		t.Errorf("theme: got %q", s)
	}
	rulers, _ := doc.Get("editor.rulers")
	if items, ok := rulers.AsArray(); !ok || len(items) != 2 {
		t.Errorf("rulers: got %v items", len(items))
	}
	exclude, _ := doc.Get("files.exclude")
	inner, ok := exclude.AsObject()
	if !ok || !inner.Has("**/.git") {
		t.Errorf("files.exclude: expected nested object with **/.git")
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, src := range []string{"", "   \n", "// only a comment\n"} {
		doc, err := JSONCCodec{}.Decode("empty.json", []byte(src))
		if err != nil {
			t.Errorf("Decode(%q): unexpected error %v", src, err)
			continue
		}
		if !doc.IsEmpty() {
			t.Errorf("Decode(%q): got keys %v", src, doc.Keys())
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantDetail string
	}{
		{"missing value", "{\n  \"a\": \n}", "line"},
		{"not an object", `[1, 2]`, "top-level value must be an object"},
		{"unterminated", `{"a": "b"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := JSONCCodec{}.Decode("broken.json", []byte(tt.src))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var parseErr *DocumentParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected DocumentParseError, got %T", err)
			}
			if parseErr.Filename != "broken.json" {
				t.Errorf("Filename: got %q, want broken.json", parseErr.Filename)
			}
			if !strings.Contains(err.Error(), "broken.json") {
				t.Errorf("error should name the file: %v", err)
			}
			if tt.wantDetail != "" && !strings.Contains(parseErr.Detail, tt.wantDetail) {
				t.Errorf("Detail: got %q, want it to contain %q", parseErr.Detail, tt.wantDetail)
			}
		})
	}
}

func TestEncodeKeepsOrderAndLiterals(t *testing.T) {
	doc := NewDocument()
	doc.Set("zeta", String("<html> & co"))
	doc.Set("alpha", Number(3))
	nested := NewDocument()
	nested.Set("b", Bool(true))
	nested.Set("a", Null())
	doc.Set("nested", Object(nested))
	doc.Set("list", Array(String("x"), Number(1.5)))

	out, err := JSONCCodec{}.Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	text := string(out)

	if !strings.HasSuffix(text, "\n") {
		t.Error("expected trailing newline")
	}
	if strings.Index(text, `"zeta"`) > strings.Index(text, `"alpha"`) {
		t.Errorf("expected insertion order, got:\n%s", text)
	}
	if strings.Index(text, `"b"`) > strings.Index(text, `"a"`) {
		t.Errorf("expected nested insertion order, got:\n%s", text)
	}
	if !strings.Contains(text, `"<html> & co"`) {
		t.Errorf("expected HTML characters unescaped, got:\n%s", text)
	}
	if !strings.Contains(text, "    \"zeta\"") {
		t.Errorf("expected four-space indentation, got:\n%s", text)
	}
}

func TestEncodeDecodePreservesNumberLiterals(t *testing.T) {
	doc := mustDecode(t, `{"big": 12345678901234567890, "float": 1.50}`)
	out, err := JSONCCodec{}.Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(out), "12345678901234567890") || !strings.Contains(string(out), "1.50") {
		t.Errorf("number literals not preserved:\n%s", out)
	}
}
