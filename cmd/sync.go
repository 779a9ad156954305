package cmd

import (
	"github.com/spf13/cobra"

	"github.com/nibzard/envsync/internal/envsync"
)

func (a *app) syncCommand() *cobra.Command {
	var extensionsOnly, settingsOnly bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync extensions and settings from the shared location",
		Long: `Sync copies missing or newer extension packages and then brings the
local settings file up to date. Missing or unreachable shared paths are
prompted for when running in a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.syncer()
			ctx := cmd.Context()
			switch {
			case extensionsOnly && !settingsOnly:
				return s.SyncExtensions(ctx, envsync.Interactive)
			case settingsOnly && !extensionsOnly:
				return s.SyncSettings(ctx, envsync.Interactive)
			default:
				return s.SyncAll(ctx, envsync.Interactive)
			}
		},
	}
	cmd.Flags().BoolVar(&extensionsOnly, "extensions", false, "Sync extensions only")
	cmd.Flags().BoolVar(&settingsOnly, "settings", false, "Sync settings only")
	return cmd
}

func (a *app) startupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "startup",
		Short: "Run an automatic sync if sync_on_startup is enabled",
		Long: `Startup is meant for login scripts and editor launch hooks. It never
prompts and does nothing unless sync_on_startup is true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.SyncOnStartup {
				a.logger.Debug("sync_on_startup disabled")
				return nil
			}
			return a.syncer().SyncAll(cmd.Context(), envsync.Automatic)
		},
	}
}

func (a *app) watchCommand() *cobra.Command {
	var debounce = envsync.DefaultDebounce
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-sync settings whenever the shared settings change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.syncer().Watch(cmd.Context(), debounce)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "Wait this long for changes to settle")
	return cmd
}
