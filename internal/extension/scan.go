package extension

import (
	"path/filepath"
	"sort"
	"strings"
)

// Store is the subset of a file store needed to scan extension
// directories.
type Store interface {
	FileReader
	Exists(path string) bool
	ListDirectories(path string) ([]string, error)
}

// ScanCandidates lists the packages under remoteDir as install candidates.
// Packages whose manifest is missing or invalid are still returned, with
// Err set, so callers can report them; Reconcile skips them.
func ScanCandidates(store Store, remoteDir, localDir string) ([]Descriptor, error) {
	names, err := packageDirs(store, remoteDir)
	if err != nil {
		return nil, err
	}

	candidates := make([]Descriptor, 0, len(names))
	for _, name := range names {
		source := filepath.Join(remoteDir, name)
		desc := Descriptor{
			Source:          source,
			InstallLocation: filepath.Join(localDir, name),
		}
		manifest, err := ReadManifest(store, source)
		if err != nil {
			desc.Err = err
		} else {
			desc.Publisher = manifest.Publisher
			desc.Name = manifest.Name
			desc.Version = manifest.Version
		}
		candidates = append(candidates, desc)
	}
	return candidates, nil
}

// ScanInstalled lists the valid packages under dir. A missing directory
// means nothing is installed.
func ScanInstalled(store Store, dir string) ([]Installed, error) {
	if !store.Exists(dir) {
		return nil, nil
	}
	names, err := packageDirs(store, dir)
	if err != nil {
		return nil, err
	}

	var installed []Installed
	for _, name := range names {
		location := filepath.Join(dir, name)
		manifest, err := ReadManifest(store, location)
		if err != nil {
			// Partial copies and foreign directories are not extensions.
			continue
		}
		installed = append(installed, Installed{
			ID:       manifest.ID(),
			Version:  manifest.Version,
			Location: location,
		})
	}
	return installed, nil
}

func packageDirs(store Store, dir string) ([]string, error) {
	names, err := store.ListDirectories(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
