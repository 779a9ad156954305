package envsync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nibzard/envsync/internal/settings"
)

// BackupSuffix is appended to the local settings file name for the copy
// taken before it is overwritten.
const BackupSuffix = ".bak"

// settingsPass is the computed outcome of a settings pass before anything
// is written.
type settingsPass struct {
	remotePath   string
	defaultsPath string
	localPath    string

	local    *settings.Document
	original []byte
	existed  bool

	defaultsDelta *settings.Document
	remoteDelta   *settings.Document
	warnings      []string
}

func (p *settingsPass) changed() bool {
	return !p.defaultsDelta.IsEmpty() || !p.remoteDelta.IsEmpty()
}

// result is the local document with both deltas applied.
func (p *settingsPass) result() *settings.Document {
	return settings.Apply(settings.Apply(p.local, p.defaultsDelta), p.remoteDelta)
}

// SyncSettings brings the local settings file up to date with the remote
// settings document. An abandoned path ends the pass without error.
func (s *Syncer) SyncSettings(ctx context.Context, mode Mode) error {
	pass, err := s.prepareSettings(ctx, mode)
	if err != nil || pass == nil {
		return err
	}

	if !pass.changed() {
		s.host.LogLine("Settings are up to date.")
		return nil
	}
	if err := s.writeSettings(pass); err != nil {
		s.reportError(ctx, err)
		return err
	}

	if n := pass.defaultsDelta.Len(); n > 0 {
		s.host.LogLine(fmt.Sprintf("Added %d default setting(s): %s", n, strings.Join(pass.defaultsDelta.Keys(), ", ")))
	}
	if n := pass.remoteDelta.Len(); n > 0 {
		s.host.LogLine(fmt.Sprintf("Updated %d setting(s): %s", n, strings.Join(pass.remoteDelta.Keys(), ", ")))
	}
	s.logger.Info("settings synced", "file", pass.localPath,
		"defaults", pass.defaultsDelta.Len(), "updated", pass.remoteDelta.Len())
	return nil
}

// prepareSettings confirms paths, reads every document and computes the
// deltas. It returns nil when the remote settings path was abandoned.
func (s *Syncer) prepareSettings(ctx context.Context, mode Mode) (*settingsPass, error) {
	remote, err := s.confirmRemoteSettings(ctx, mode)
	if err != nil {
		return nil, err
	}
	if !remote.Confirmed() {
		return nil, nil
	}

	pass := &settingsPass{
		remotePath:    remote.Path,
		localPath:     s.opts.SettingsFile,
		defaultsDelta: settings.NewDocument(),
		remoteDelta:   settings.NewDocument(),
	}
	if pass.localPath == "" {
		return nil, errors.New("local settings file location is unknown")
	}

	local, original, existed, err := s.readLocal(pass.localPath)
	if err != nil {
		s.reportError(ctx, err)
		return nil, err
	}
	pass.local, pass.original, pass.existed = local, original, existed

	// Defaults never block the remote comparison.
	defaults, err := s.confirmDefaults(ctx, mode, remote.Path)
	switch {
	case err != nil:
		return nil, err
	case defaults.Confirmed():
		pass.defaultsPath = defaults.Path
		doc, err := s.readDocument(defaults.Path)
		if err != nil {
			msg := fmt.Sprintf("Skipping default settings: %v", err)
			pass.warnings = append(pass.warnings, msg)
			s.logger.Warn("defaults skipped", "file", defaults.Path, "err", err)
			if _, werr := s.host.ShowWarning(ctx, msg); werr != nil {
				s.logger.Debug("warning not shown", "err", werr)
			}
		} else {
			pass.defaultsDelta = settings.MergeDefaults(doc, local)
		}
	}

	remoteDoc, err := s.readDocument(remote.Path)
	if err != nil {
		s.reportError(ctx, err)
		return nil, err
	}
	merged := settings.Apply(local, pass.defaultsDelta)
	pass.remoteDelta = settings.Diff(merged, remoteDoc)

	s.logger.Debug("settings compared", "remote", remote.Path,
		"defaults", pass.defaultsDelta.Len(), "delta", pass.remoteDelta.Len())
	return pass, nil
}

// readLocal reads the local settings file. A missing file is an empty
// document.
func (s *Syncer) readLocal(path string) (*settings.Document, []byte, bool, error) {
	data, err := s.store.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return settings.NewDocument(), nil, false, nil
	}
	if err != nil {
		return nil, nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := s.codec.Decode(path, data)
	if err != nil {
		return nil, nil, false, err
	}
	return doc, data, true, nil
}

func (s *Syncer) readDocument(path string) (*settings.Document, error) {
	data, err := s.store.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.codec.Decode(path, data)
}

// writeSettings backs up the current local file and writes the merged
// document.
func (s *Syncer) writeSettings(pass *settingsPass) error {
	data, err := s.codec.Encode(pass.result())
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if pass.existed {
		backup := pass.localPath + BackupSuffix
		if err := s.store.WriteFile(backup, pass.original); err != nil {
			return fmt.Errorf("backing up %s: %w", pass.localPath, err)
		}
	}
	if err := s.store.WriteFile(pass.localPath, data); err != nil {
		return fmt.Errorf("writing %s: %w", pass.localPath, err)
	}
	return nil
}

// reportError surfaces err to the user. Parse errors name the file.
func (s *Syncer) reportError(ctx context.Context, err error) {
	msg := err.Error()
	var pe *settings.DocumentParseError
	if errors.As(err, &pe) {
		msg = fmt.Sprintf("Could not read settings file %s: %s", pe.Filename, pe.Detail)
	}
	s.logger.Error("settings sync failed", "err", err)
	if _, herr := s.host.ShowError(ctx, msg); herr != nil {
		s.logger.Debug("error not shown", "err", herr)
	}
}
