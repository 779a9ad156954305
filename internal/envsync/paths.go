package envsync

import (
	"context"
	"path/filepath"

	"github.com/nibzard/envsync/internal/config"
	"github.com/nibzard/envsync/internal/confirm"
)

func (s *Syncer) confirmRemoteSettings(ctx context.Context, mode Mode) (confirm.Result, error) {
	return s.confirm(ctx, confirm.Options{
		Key:         config.KeyRemoteSettingsPath,
		Prompt:      "Path to the shared settings.json",
		Interactive: mode == Interactive,
		Resolve:     config.ExpandPath,
	})
}

// confirmDefaults resolves the optional defaults file relative to the
// remote settings directory.
func (s *Syncer) confirmDefaults(ctx context.Context, mode Mode, remoteSettings string) (confirm.Result, error) {
	base := filepath.Dir(remoteSettings)
	relative := confirm.RelativeTo(base)
	return s.confirm(ctx, confirm.Options{
		Key:         config.KeyRemoteDefaultsFile,
		Prompt:      "Defaults file, relative to " + base,
		Interactive: mode == Interactive,
		Optional:    true,
		Resolve: func(v string) string {
			return relative(config.ExpandPath(v))
		},
	})
}

func (s *Syncer) confirmRemoteExtensions(ctx context.Context, mode Mode) (confirm.Result, error) {
	return s.confirm(ctx, confirm.Options{
		Key:         config.KeyRemoteExtensionsPath,
		Prompt:      "Path to the shared extensions directory",
		Interactive: mode == Interactive,
		Resolve:     config.ExpandPath,
	})
}

func (s *Syncer) confirm(ctx context.Context, opts confirm.Options) (confirm.Result, error) {
	res, err := s.confirmer.Confirm(ctx, opts)
	if err != nil {
		return res, err
	}
	switch res.State {
	case confirm.StateConfirmed:
		s.logger.Debug("path confirmed", "key", opts.Key, "path", res.Path)
	case confirm.StateDisabled:
		s.logger.Info("disabled", "key", opts.Key)
	default:
		if confirm.IsPathInvalid(res.Err) {
			s.logger.Warn("skipping step", "key", opts.Key, "err", res.Err)
		} else {
			s.logger.Debug("skipping step", "key", opts.Key, "state", res.State)
		}
	}
	return res, nil
}
