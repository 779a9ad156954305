package extension

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"

	"github.com/nibzard/envsync/internal/utils"
)

// ManifestFilename is the metadata file every extension package carries.
const ManifestFilename = "package.json"

var (
	// ErrManifestNotFound is returned when a package has no manifest.
	ErrManifestNotFound = errors.New("manifest file not found")

	// ErrInvalidManifest is returned when a manifest lacks required fields
	// or is not valid JSON.
	ErrInvalidManifest = errors.New("invalid manifest")
)

const manifestSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["publisher", "name", "version"],
  "properties": {
    "publisher": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string", "minLength": 1},
    "displayName": {"type": "string"}
  }
}`

var manifestSchema = jsonschema.MustCompileString("package.schema.json", manifestSchemaJSON)

// Manifest holds the package.json fields the reconciler relies on.
type Manifest struct {
	Publisher   string
	Name        string
	Version     string
	DisplayName string
}

// ID returns the identity declared by the manifest.
func (m Manifest) ID() string {
	return ID(m.Publisher, m.Name)
}

// FileReader is the read side of a file store.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// ReadManifest reads and validates the manifest of the package in dir.
func ReadManifest(store FileReader, dir string) (Manifest, error) {
	path := filepath.Join(dir, ManifestFilename)
	data, err := store.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Manifest{}, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest validates raw package.json bytes against the manifest
// schema and extracts the identity fields.
func ParseManifest(data []byte) (Manifest, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return Manifest{}, fmt.Errorf("%w: parsing JSON: %s", ErrInvalidManifest, err)
	}
	if dec.More() {
		return Manifest{}, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidManifest)
	}
	if err := manifestSchema.Validate(doc); err != nil {
		return Manifest{}, fmt.Errorf("%w: %s", ErrInvalidManifest, describeValidation(err))
	}

	fields := gjson.GetManyBytes(data, "publisher", "name", "version", "displayName")
	return Manifest{
		Publisher:   fields[0].String(),
		Name:        fields[1].String(),
		Version:     fields[2].String(),
		DisplayName: fields[3].String(),
	}, nil
}

// describeValidation flattens a schema validation error to its leaf
// messages.
func describeValidation(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	path := utils.JSONPointerToPath(leaf.InstanceLocation)
	if path == "" {
		return leaf.Message
	}
	return fmt.Sprintf("%s: %s", path, leaf.Message)
}
