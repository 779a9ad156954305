package filestore

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func newMemStore(t *testing.T, files map[string]string) *Store {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("seeding %s: %v", path, err)
		}
	}
	return New(fs)
}

func TestExists(t *testing.T) {
	store := newMemStore(t, map[string]string{"/share/settings.json": "{}"})

	if !store.Exists("/share/settings.json") {
		t.Error("expected file to exist")
	}
	if !store.Exists("/share") {
		t.Error("expected parent directory to exist")
	}
	if store.Exists("/share/missing.json") {
		t.Error("expected missing file to be absent")
	}
	if store.Exists("") {
		t.Error("expected empty path to be absent")
	}
}

func TestListDirectories(t *testing.T) {
	store := newMemStore(t, map[string]string{
		"/ext/b.two-1.0.0/package.json": "{}",
		"/ext/a.one-2.0.0/package.json": "{}",
		"/ext/extensions.json":          "[]",
	})

	got, err := store.ListDirectories("/ext")
	if err != nil {
		t.Fatalf("ListDirectories: %v", err)
	}
	want := []string{"a.one-2.0.0", "b.two-1.0.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("directories mismatch (-want +got):\n%s", diff)
	}

	if _, err := store.ListDirectories("/nope"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	store := newMemStore(t, nil)
	path := "/home/user/.config/Code/User/settings.json"

	if err := store.WriteFile(path, []byte(`{"a": 1}`)); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := store.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != `{"a": 1}` {
		t.Errorf("content: got %q", data)
	}

	// Overwrite leaves no temp files behind.
	if err := store.WriteFile(path, []byte(`{}`)); err != nil {
		t.Fatalf("second WriteFile: %v", err)
	}
	entries, err := afero.ReadDir(store.Fs(), filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only settings.json, got %v", names)
	}
}

func TestCopyTree(t *testing.T) {
	store := newMemStore(t, map[string]string{
		"/remote/pub.ext-1.1.0/package.json":     `{"name": "ext"}`,
		"/remote/pub.ext-1.1.0/out/extension.js": "module.exports = {}",
		"/local/pub.ext-1.1.0/stale.txt":         "old",
	})

	if err := store.CopyTree("/remote/pub.ext-1.1.0", "/local/pub.ext-1.1.0"); err != nil {
		t.Fatalf("CopyTree: %v", err)
	}

	data, err := store.ReadFile("/local/pub.ext-1.1.0/out/extension.js")
	if err != nil {
		t.Fatalf("copied file missing: %v", err)
	}
	if string(data) != "module.exports = {}" {
		t.Errorf("copied content: got %q", data)
	}
	if store.Exists("/local/pub.ext-1.1.0/stale.txt") {
		t.Error("expected existing target to be replaced")
	}
}

func TestCopyTreeRejectsFileSource(t *testing.T) {
	store := newMemStore(t, map[string]string{"/remote/file.txt": "x"})
	if err := store.CopyTree("/remote/file.txt", "/local/file"); err == nil {
		t.Error("expected error when source is a file")
	}
	if err := store.CopyTree("/remote/missing", "/local/missing"); err == nil {
		t.Error("expected error when source is missing")
	}
}
