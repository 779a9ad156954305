package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nibzard/envsync/internal/logging"
)

func (a *app) logCommand() *cobra.Command {
	var follow bool
	var lines int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Print the latest envsync log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.LogDir == "" {
				return fmt.Errorf("file logging is disabled (log_dir is empty)")
			}
			path, err := logging.FindLatestLog(a.cfg.LogDir)
			if err != nil {
				return fmt.Errorf("finding latest log: %w", err)
			}
			if path == "" {
				fmt.Fprintln(a.out, "No log files found.")
				return nil
			}
			if follow {
				fmt.Fprintf(a.errOut, "Tailing: %s (Ctrl+C to stop)\n", path)
			}
			err = logging.TailLog(cmd.Context(), a.out, path, lines, follow)
			if err != nil && cmd.Context().Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow the log (like tail -f)")
	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of lines to show (0 = all)")
	return cmd
}
