// Package extension reads editor extension packages and decides which
// remote packages must be copied into the local extensions directory.
package extension

// Descriptor describes an extension package found in a store.
type Descriptor struct {
	Publisher string
	Name      string
	Version   string

	// Source is the package directory the descriptor was read from.
	Source string

	// InstallLocation is the local directory the package is copied to.
	InstallLocation string

	// Err records why the package metadata could not be read, if it
	// could not.
	Err error
}

// ID returns the extension identity, publisher.name.
func (d Descriptor) ID() string {
	return ID(d.Publisher, d.Name)
}

// HasMetadata reports whether the package carried the required
// publisher, name and version fields.
func (d Descriptor) HasMetadata() bool {
	return d.Err == nil && d.Publisher != "" && d.Name != "" && d.Version != ""
}

// Installed is an extension present in the local extensions directory.
type Installed struct {
	ID       string
	Version  string
	Location string
}

// ID joins a publisher and a name into an extension identity.
func ID(publisher, name string) string {
	return publisher + "." + name
}
