package extension

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/nibzard/envsync/internal/filestore"
)

func manifestJSON(publisher, name, version string) string {
	return fmt.Sprintf(`{"publisher": %q, "name": %q, "version": %q}`, publisher, name, version)
}

func memStore(t *testing.T, files map[string]string) *filestore.Store {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("seeding %s: %v", path, err)
		}
	}
	return filestore.New(fs)
}

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Manifest
		wantErr bool
	}{
		{
			name: "complete",
			data: `{"publisher": "ms-python", "name": "python", "version": "2024.2.1", "displayName": "Python", "engines": {"vscode": "^1.80.0"}}`,
			want: Manifest{Publisher: "ms-python", Name: "python", Version: "2024.2.1", DisplayName: "Python"},
		},
		{name: "missing publisher", data: `{"name": "python", "version": "1.0.0"}`, wantErr: true},
		{name: "empty version", data: `{"publisher": "p", "name": "n", "version": ""}`, wantErr: true},
		{name: "numeric version", data: `{"publisher": "p", "name": "n", "version": 1}`, wantErr: true},
		{name: "not an object", data: `["p", "n"]`, wantErr: true},
		{name: "malformed", data: `{"publisher": `, wantErr: true},
		{name: "trailing data", data: `{"publisher": "p", "name": "n", "version": "1.0.0"} {}`, wantErr: true},
		{
			name: "numbers and nesting",
			data: `{"publisher": "p", "name": "n", "version": "0.1.0", "contributes": {"commands": [{"order": 3.5}]}, "size": 12345678901234567890}`,
			want: Manifest{Publisher: "p", Name: "n", Version: "0.1.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManifest([]byte(tt.data))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidManifest) {
					t.Fatalf("expected ErrInvalidManifest, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseManifest: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("manifest mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseManifestNamesField(t *testing.T) {
	_, err := ParseManifest([]byte(`{"publisher": "p", "name": "n", "version": 1}`))
	if err == nil || !strings.Contains(err.Error(), "version: ") {
		t.Errorf("expected error naming the version field, got %v", err)
	}
}

func TestReadManifestMissing(t *testing.T) {
	store := memStore(t, map[string]string{"/remote/empty/README.md": "hi"})
	_, err := ReadManifest(store, "/remote/empty")
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}

func TestScanCandidates(t *testing.T) {
	store := memStore(t, map[string]string{
		"/remote/pub.b-1.0.0/package.json": manifestJSON("pub", "b", "1.0.0"),
		"/remote/pub.a-2.0.0/package.json": manifestJSON("pub", "a", "2.0.0"),
		"/remote/broken/package.json":      `{"name": "broken"}`,
		"/remote/.obsolete/package.json":   manifestJSON("pub", "hidden", "1.0.0"),
		"/remote/extensions.json":          "[]",
	})

	got, err := ScanCandidates(store, "/remote", "/local")
	if err != nil {
		t.Fatalf("ScanCandidates: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %+v", len(got), got)
	}

	if got[0].Source != "/remote/broken" || got[0].HasMetadata() || got[0].Err == nil {
		t.Errorf("broken package: got %+v", got[0])
	}
	if got[1].ID() != "pub.a" || got[1].Version != "2.0.0" || got[1].InstallLocation != "/local/pub.a-2.0.0" {
		t.Errorf("pub.a: got %+v", got[1])
	}
	if got[2].ID() != "pub.b" || got[2].InstallLocation != "/local/pub.b-1.0.0" {
		t.Errorf("pub.b: got %+v", got[2])
	}
}

func TestScanCandidatesMissingDirectory(t *testing.T) {
	store := memStore(t, nil)
	if _, err := ScanCandidates(store, "/remote", "/local"); err == nil {
		t.Error("expected error for unreadable remote directory")
	}
}

func TestScanInstalled(t *testing.T) {
	store := memStore(t, map[string]string{
		"/local/pub.a-1.0.0/package.json": manifestJSON("pub", "a", "1.0.0"),
		"/local/partial/README.md":        "copy interrupted",
	})

	got, err := ScanInstalled(store, "/local")
	if err != nil {
		t.Fatalf("ScanInstalled: %v", err)
	}
	want := []Installed{{ID: "pub.a", Version: "1.0.0", Location: "/local/pub.a-1.0.0"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("installed mismatch (-want +got):\n%s", diff)
	}

	none, err := ScanInstalled(store, "/nowhere")
	if err != nil || none != nil {
		t.Errorf("missing dir: got %v, %v", none, err)
	}
}

func candidate(id, version string) Descriptor {
	pub, name := "pub", id
	return Descriptor{Publisher: pub, Name: name, Version: version, Source: "/remote/" + id + "-" + version}
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		installed  map[string]string
		candidates []Descriptor
		want       []string
	}{
		{
			name:       "same version installed",
			installed:  map[string]string{"pub.ext": "1.0.0"},
			candidates: []Descriptor{candidate("ext", "1.0.0")},
		},
		{
			name:       "newer candidate",
			installed:  map[string]string{"pub.ext": "1.0.0"},
			candidates: []Descriptor{candidate("ext", "1.1.0")},
			want:       []string{"/remote/ext-1.1.0"},
		},
		{
			name:       "not installed",
			installed:  map[string]string{},
			candidates: []Descriptor{candidate("ext", "1.0.0")},
			want:       []string{"/remote/ext-1.0.0"},
		},
		{
			name:       "older candidate",
			installed:  map[string]string{"pub.ext": "2.0.0"},
			candidates: []Descriptor{candidate("ext", "1.9.9")},
		},
		{
			name:      "missing metadata skipped",
			installed: map[string]string{},
			candidates: []Descriptor{
				{Name: "ext", Version: "1.0.0", Source: "/remote/nopub"},
				{Source: "/remote/broken", Err: ErrInvalidManifest},
			},
		},
		{
			name:       "duplicates judged independently",
			installed:  map[string]string{"pub.ext": "1.0.0"},
			candidates: []Descriptor{candidate("ext", "1.2.0"), candidate("ext", "0.9.0"), candidate("ext", "1.1.0")},
			want:       []string{"/remote/ext-1.2.0", "/remote/ext-1.1.0"},
		},
		{
			name:       "malformed installed version is replaced",
			installed:  map[string]string{"pub.ext": "garbage"},
			candidates: []Descriptor{candidate("ext", "0.0.1")},
			want:       []string{"/remote/ext-0.0.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, d := range Reconcile(tt.installed, tt.candidates) {
				got = append(got, d.Source)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("install set mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvaluateVerdicts(t *testing.T) {
	installed := map[string]string{"pub.ext": "1.0.0"}
	if v := Evaluate(installed, candidate("ext", "1.0.0")); v != VerdictUpToDate {
		t.Errorf("same version: got %s", v)
	}
	if v := Evaluate(installed, candidate("other", "1.0.0")); v != VerdictInstall {
		t.Errorf("absent: got %s", v)
	}
	if v := Evaluate(installed, Descriptor{Source: "/x"}); v != VerdictInvalid {
		t.Errorf("no metadata: got %s", v)
	}
}

func TestInstalledVersionsKeepsHighest(t *testing.T) {
	got := InstalledVersions([]Installed{
		{ID: "pub.ext", Version: "1.2.0"},
		{ID: "pub.ext", Version: "1.10.0"},
		{ID: "pub.ext", Version: "1.9.0"},
		{ID: "pub.other", Version: "0.1.0"},
	})
	want := map[string]string{"pub.ext": "1.10.0", "pub.other": "0.1.0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexRegister(t *testing.T) {
	store := memStore(t, map[string]string{
		"/local/extensions.json": `[
  {"identifier": {"id": "pub.keep"}, "version": "1.0.0", "relativeLocation": "pub.keep-1.0.0"},
  {"identifier": {"id": "Pub.Ext"}, "version": "1.0.0", "relativeLocation": "pub.ext-1.0.0"}
]`,
	})
	index := NewIndex(store, "/local")

	d := Descriptor{Publisher: "pub", Name: "ext", Version: "1.1.0", InstallLocation: "/local/pub.ext-1.1.0"}
	if err := index.Register(d); err != nil {
		t.Fatalf("Register: %v", err)
	}

	data, err := store.ReadFile(index.Path())
	if err != nil {
		t.Fatal(err)
	}
	ids := gjsonStrings(data, "#.identifier.id")
	if diff := cmp.Diff([]string{"pub.keep", "pub.ext"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if got := gjsonStrings(data, "#.version"); got[1] != "1.1.0" {
		t.Errorf("version: got %v", got)
	}
	if got := gjsonStrings(data, "#.relativeLocation"); got[1] != "pub.ext-1.1.0" {
		t.Errorf("relativeLocation: got %v", got)
	}
	if got := gjsonStrings(data, "#.location.scheme"); len(got) != 1 || got[0] != "file" {
		t.Errorf("location.scheme: got %v", got)
	}
}

func TestIndexRegisterWithoutIndex(t *testing.T) {
	store := memStore(t, map[string]string{"/local/pub.a-1.0.0/package.json": manifestJSON("pub", "a", "1.0.0")})
	index := NewIndex(store, "/local")
	if err := index.Register(candidate("a", "1.0.0")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if store.Exists(index.Path()) {
		t.Error("index should not be created")
	}
}

func TestIndexRegisterRejectsNonArray(t *testing.T) {
	store := memStore(t, map[string]string{"/local/extensions.json": `{"oops": true}`})
	if err := NewIndex(store, "/local").Register(candidate("a", "1.0.0")); err == nil {
		t.Error("expected error for non-array index")
	}
}

func gjsonStrings(data []byte, path string) []string {
	var out []string
	for _, r := range gjson.GetBytes(data, path).Array() {
		out = append(out, r.String())
	}
	return out
}
