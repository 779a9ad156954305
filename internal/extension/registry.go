package extension

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// IndexFilename is the index newer editors keep in the extensions
// directory to list installed packages.
const IndexFilename = "extensions.json"

// IndexStore is the file access the index needs.
type IndexStore interface {
	FileReader
	Exists(path string) bool
	WriteFile(path string, data []byte) error
}

// Index records copied packages in the local extensions.json.
type Index struct {
	store IndexStore
	dir   string
}

// NewIndex returns an index for the extensions directory dir.
func NewIndex(store IndexStore, dir string) *Index {
	return &Index{store: store, dir: dir}
}

// Path returns the location of the index file.
func (x *Index) Path() string {
	return filepath.Join(x.dir, IndexFilename)
}

// Register adds d to the index, replacing any entry with the same id.
// It does nothing when the directory has no index, as older editors
// discover packages by scanning.
func (x *Index) Register(d Descriptor) error {
	path := x.Path()
	if !x.store.Exists(path) {
		return nil
	}
	data, err := x.store.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading extension index: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("[]")
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsArray() {
		return fmt.Errorf("extension index %s is not a JSON array", path)
	}

	// The editor's index stores ids lower-cased and matches them without
	// case; Descriptor.ID stays case-sensitive everywhere else.
	ids := gjson.GetBytes(data, "#.identifier.id").Array()
	for i := len(ids) - 1; i >= 0; i-- {
		if !strings.EqualFold(ids[i].String(), d.ID()) {
			continue
		}
		if data, err = sjson.DeleteBytes(data, strconv.Itoa(i)); err != nil {
			return fmt.Errorf("removing stale index entry for %s: %w", d.ID(), err)
		}
	}

	location := d.InstallLocation
	if abs, err := filepath.Abs(location); err == nil {
		location = abs
	}
	entry := map[string]any{
		"identifier": map[string]any{"id": strings.ToLower(d.ID())},
		"version":    d.Version,
		"location": map[string]any{
			"$mid":   1,
			"path":   filepath.ToSlash(location),
			"scheme": "file",
		},
		"relativeLocation": filepath.Base(d.InstallLocation),
	}
	if data, err = sjson.SetBytes(data, "-1", entry); err != nil {
		return fmt.Errorf("adding index entry for %s: %w", d.ID(), err)
	}

	if err := x.store.WriteFile(path, data); err != nil {
		return fmt.Errorf("writing extension index: %w", err)
	}
	return nil
}
