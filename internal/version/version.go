// Package version orders extension version strings by semantic-version
// precedence.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Order is the three-way result of comparing two versions.
type Order int

const (
	Less    Order = -1
	Equal   Order = 0
	Greater Order = 1
)

func (o Order) String() string {
	switch o {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "unknown"
	}
}

// Parse parses a version string. A leading "v" and surrounding whitespace
// are accepted. It returns nil for malformed input.
func Parse(s string) *semver.Version {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil
	}
	return v
}

// Valid reports whether s parses as a semantic version.
func Valid(s string) bool {
	return Parse(s) != nil
}

// Compare orders a and b. Malformed versions sort below every valid
// version and compare equal to each other.
func Compare(a, b string) Order {
	va, vb := Parse(a), Parse(b)
	switch {
	case va == nil && vb == nil:
		return Equal
	case va == nil:
		return Less
	case vb == nil:
		return Greater
	}
	return Order(va.Compare(vb))
}

// Newer reports whether candidate has strictly higher precedence than
// installed.
func Newer(installed, candidate string) bool {
	return Compare(installed, candidate) == Less
}
