package extension

import "github.com/nibzard/envsync/internal/version"

// Verdict is the reconciliation decision for one candidate.
type Verdict int

const (
	// VerdictInstall means the candidate is absent or newer than the
	// installed copy.
	VerdictInstall Verdict = iota
	// VerdictUpToDate means the installed copy is the same or newer.
	VerdictUpToDate
	// VerdictInvalid means the candidate lacks package metadata.
	VerdictInvalid
)

func (v Verdict) String() string {
	switch v {
	case VerdictInstall:
		return "install"
	case VerdictUpToDate:
		return "up to date"
	case VerdictInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// InstalledVersions maps each installed extension id to its version.
// When an id is installed more than once the highest version wins.
func InstalledVersions(installed []Installed) map[string]string {
	versions := make(map[string]string, len(installed))
	for _, ext := range installed {
		current, ok := versions[ext.ID]
		if !ok || version.Newer(current, ext.Version) {
			versions[ext.ID] = ext.Version
		}
	}
	return versions
}

// Evaluate decides what to do with a single candidate.
func Evaluate(installed map[string]string, candidate Descriptor) Verdict {
	if !candidate.HasMetadata() {
		return VerdictInvalid
	}
	current, ok := installed[candidate.ID()]
	if ok && version.Compare(current, candidate.Version) != version.Less {
		return VerdictUpToDate
	}
	return VerdictInstall
}

// Reconcile returns the candidates that must be copied locally, in input
// order. Each candidate is judged against installed alone, so candidates
// sharing an id may all be returned; applied in order, the last one wins.
func Reconcile(installed map[string]string, candidates []Descriptor) []Descriptor {
	var install []Descriptor
	for _, candidate := range candidates {
		if Evaluate(installed, candidate) == VerdictInstall {
			install = append(install, candidate)
		}
	}
	return install
}
