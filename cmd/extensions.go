package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nibzard/envsync/internal/envsync"
	"github.com/nibzard/envsync/internal/ui"
)

func (a *app) extensionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extensions",
		Short: "Inspect local and shared extensions",
	}
	cmd.AddCommand(a.extensionsListCommand())
	return cmd
}

func (a *app) extensionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed extensions and shared packages with their status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := a.syncer().Extensions(cmd.Context(), envsync.Interactive)
			if err != nil {
				return err
			}
			if report == nil {
				fmt.Fprintln(a.out, "Remote extensions path is not set.")
				return nil
			}

			fmt.Fprintf(a.out, "Installed (%d)\n", len(report.Installed))
			rows := make([][]string, 0, len(report.Installed))
			for _, ext := range report.Installed {
				rows = append(rows, []string{ext.ID, ext.Version, ext.Location})
			}
			fmt.Fprintln(a.out, ui.Table([]string{"ID", "VERSION", "LOCATION"}, rows))

			fmt.Fprintf(a.out, "\nShared in %s (%d)\n", report.RemoteDir, len(report.Remote))
			rows = rows[:0]
			for _, st := range report.Remote {
				id := st.Candidate.ID()
				if !st.Candidate.HasMetadata() {
					id = filepath.Base(st.Candidate.Source)
				}
				rows = append(rows, []string{id, st.Candidate.Version, st.Installed, st.Verdict.String()})
			}
			fmt.Fprintln(a.out, ui.Table([]string{"ID", "VERSION", "INSTALLED", "STATUS"}, rows))
			return nil
		},
	}
}
