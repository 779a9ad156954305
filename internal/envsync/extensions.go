package envsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/nibzard/envsync/internal/extension"
	"github.com/nibzard/envsync/internal/parallel"
	"github.com/nibzard/envsync/internal/version"
)

// extensionPass is the computed outcome of an extensions pass before any
// package is copied.
type extensionPass struct {
	remoteDir  string
	installed  []extension.Installed
	candidates []extension.Descriptor
	install    []extension.Descriptor
}

// invalid returns the candidates skipped for missing metadata.
func (p *extensionPass) invalid() []extension.Descriptor {
	var out []extension.Descriptor
	for _, c := range p.candidates {
		if !c.HasMetadata() {
			out = append(out, c)
		}
	}
	return out
}

// SyncExtensions copies remote extension packages that are missing locally
// or newer than the installed copy. Copy failures are logged and do not
// stop other copies.
func (s *Syncer) SyncExtensions(ctx context.Context, mode Mode) error {
	pass, err := s.prepareExtensions(ctx, mode)
	if err != nil || pass == nil {
		return err
	}
	if len(pass.install) == 0 {
		s.host.LogLine("Extensions are up to date.")
		return nil
	}

	copied := s.copyPackages(ctx, pass.install)
	if err := ctx.Err(); err != nil {
		return err
	}

	index := extension.NewIndex(s.store, s.opts.ExtensionsDir)
	for _, d := range copied {
		if err := index.Register(d); err != nil {
			s.logger.Warn("extension index not updated", "extension", d.ID(), "err", err)
		}
	}

	failed := len(pass.install) - len(copied)
	msg := fmt.Sprintf("Installed %d extension(s). Restart the editor to load them.", len(copied))
	if failed > 0 {
		msg = fmt.Sprintf("Installed %d extension(s), %d failed (see log). Restart the editor to load them.", len(copied), failed)
	}
	if len(copied) == 0 {
		msg = fmt.Sprintf("No extensions installed, %d failed (see log).", failed)
	}
	if _, err := s.host.ShowInfo(ctx, msg); err != nil {
		s.logger.Debug("summary not shown", "err", err)
	}
	return nil
}

// prepareExtensions confirms the remote path, scans both sides and
// reconciles. It returns nil when the remote path was abandoned.
func (s *Syncer) prepareExtensions(ctx context.Context, mode Mode) (*extensionPass, error) {
	remote, err := s.confirmRemoteExtensions(ctx, mode)
	if err != nil {
		return nil, err
	}
	if !remote.Confirmed() {
		return nil, nil
	}
	if s.opts.ExtensionsDir == "" {
		return nil, errors.New("local extensions directory is unknown")
	}
	if err := s.store.EnsureDirectory(s.opts.ExtensionsDir); err != nil {
		return nil, fmt.Errorf("creating %s: %w", s.opts.ExtensionsDir, err)
	}

	installed, err := s.host.ListInstalledExtensions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing installed extensions: %w", err)
	}
	candidates, err := extension.ScanCandidates(s.store, remote.Path, s.opts.ExtensionsDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", remote.Path, err)
	}

	pass := &extensionPass{
		remoteDir:  remote.Path,
		installed:  installed,
		candidates: candidates,
	}
	for _, c := range pass.invalid() {
		s.logger.Warn("skipping package without metadata", "dir", c.Source, "err", c.Err)
	}
	for _, c := range candidates {
		if c.HasMetadata() && !version.Valid(c.Version) {
			s.logger.Warn("malformed version sorts below every release", "extension", c.ID(), "version", c.Version)
		}
	}
	pass.install = dedupeByLocation(extension.Reconcile(extension.InstalledVersions(installed), candidates))

	s.logger.Debug("extensions reconciled", "remote", remote.Path,
		"installed", len(installed), "candidates", len(candidates), "install", len(pass.install))
	return pass, nil
}

// dedupeByLocation drops earlier copies to the same install location; the
// last one wins and keeps its position.
func dedupeByLocation(install []extension.Descriptor) []extension.Descriptor {
	last := make(map[string]int, len(install))
	for i, d := range install {
		last[d.InstallLocation] = i
	}
	out := make([]extension.Descriptor, 0, len(last))
	for i, d := range install {
		if last[d.InstallLocation] == i {
			out = append(out, d)
		}
	}
	return out
}

// copyPackages copies every package on the worker pool and returns the
// ones that succeeded, in input order.
func (s *Syncer) copyPackages(ctx context.Context, install []extension.Descriptor) []extension.Descriptor {
	pool := parallel.NewWorkerPool(ctx, s.opts.CopyWorkers)
	for _, d := range install {
		s.logger.Info("installing extension", "extension", d.ID(), "version", d.Version)
		pool.Submit(d.ID(), func(context.Context) error {
			return s.store.CopyTree(d.Source, d.InstallLocation)
		})
	}

	results, errs := pool.Wait()
	for _, err := range errs {
		s.logger.Error("extension copy failed", "err", err)
		s.host.LogLine(fmt.Sprintf("Failed to install %v", err))
	}

	var copied []extension.Descriptor
	for i, r := range results {
		if r.Err == nil {
			copied = append(copied, install[i])
		}
	}
	return copied
}

// ExtensionStatus is the reconciliation verdict for one remote package.
type ExtensionStatus struct {
	Candidate extension.Descriptor
	Verdict   extension.Verdict
	// Installed is the local version, if any.
	Installed string
}

// ExtensionReport lists both sides of the extensions pass.
type ExtensionReport struct {
	RemoteDir string
	Installed []extension.Installed
	Remote    []ExtensionStatus
}

// Extensions reports installed and remote packages with their verdicts
// without copying anything. It returns nil when the remote path was
// abandoned.
func (s *Syncer) Extensions(ctx context.Context, mode Mode) (*ExtensionReport, error) {
	pass, err := s.prepareExtensions(ctx, mode)
	if err != nil || pass == nil {
		return nil, err
	}
	versions := extension.InstalledVersions(pass.installed)
	report := &ExtensionReport{RemoteDir: pass.remoteDir, Installed: pass.installed}
	for _, c := range pass.candidates {
		report.Remote = append(report.Remote, ExtensionStatus{
			Candidate: c,
			Verdict:   extension.Evaluate(versions, c),
			Installed: versions[c.ID()],
		})
	}
	return report, nil
}
