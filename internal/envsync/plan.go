package envsync

import (
	"context"
	"errors"

	"github.com/nibzard/envsync/internal/extension"
	"github.com/nibzard/envsync/internal/settings"
)

// Plan is what a sync would change, computed without writing anything.
type Plan struct {
	// SettingsSkipped is set when the remote settings path was abandoned.
	SettingsSkipped bool
	RemoteSettings  string
	DefaultsFile    string
	LocalSettings   string
	DefaultsDelta   *settings.Document
	SettingsDelta   *settings.Document
	Warnings        []string

	// ExtensionsSkipped is set when the remote extensions path was abandoned.
	ExtensionsSkipped bool
	RemoteExtensions  string
	Install           []extension.Descriptor
	Invalid           []extension.Descriptor
}

// Empty reports whether applying the plan would change nothing.
func (p *Plan) Empty() bool {
	return p.DefaultsDelta.IsEmpty() && p.SettingsDelta.IsEmpty() && len(p.Install) == 0
}

// Plan computes the pending changes of both passes. Errors from one pass
// are joined and do not prevent the other from being planned.
func (s *Syncer) Plan(ctx context.Context, mode Mode) (*Plan, error) {
	plan := &Plan{
		DefaultsDelta: settings.NewDocument(),
		SettingsDelta: settings.NewDocument(),
	}

	ext, extErr := s.prepareExtensions(ctx, mode)
	if errors.Is(extErr, context.Canceled) {
		return nil, extErr
	}
	switch {
	case extErr != nil:
	case ext == nil:
		plan.ExtensionsSkipped = true
	default:
		plan.RemoteExtensions = ext.remoteDir
		plan.Install = ext.install
		plan.Invalid = ext.invalid()
	}

	set, setErr := s.prepareSettings(ctx, mode)
	switch {
	case setErr != nil:
	case set == nil:
		plan.SettingsSkipped = true
	default:
		plan.RemoteSettings = set.remotePath
		plan.DefaultsFile = set.defaultsPath
		plan.LocalSettings = set.localPath
		plan.DefaultsDelta = set.defaultsDelta
		plan.SettingsDelta = set.remoteDelta
		plan.Warnings = set.warnings
	}

	return plan, errors.Join(extErr, setErr)
}
