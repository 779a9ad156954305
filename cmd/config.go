package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nibzard/envsync/internal/config"
	"github.com/nibzard/envsync/internal/ui"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change envsync configuration",
	}
	cmd.AddCommand(a.configShowCommand(), a.configSetCommand(), a.configExampleCommand())
	return cmd
}

func (a *app) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cws, err := config.LoadWithSources(cmd.Flags())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Config file: %s\n\n", cws.Config.File)
			rows := make([][]string, 0, len(config.Keys()))
			for _, key := range config.Keys() {
				rows = append(rows, []string{key, cws.Config.Value(key), string(cws.Sources[key])})
			}
			fmt.Fprintln(a.out, ui.Table([]string{"KEY", "VALUE", "SOURCE"}, rows))
			fmt.Fprintf(a.out, "\nLocal settings:   %s\n", cws.Config.SettingsFile())
			fmt.Fprintf(a.out, "Local extensions: %s\n", cws.Config.ExtensionsDir())
			return nil
		},
	}
}

func (a *app) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> [value]",
		Short: "Set a key in the user config file (omit value to clear it)",
		Args:  cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.Keys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(_ *cobra.Command, args []string) error {
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			if err := a.cfg.Persist(args[0], value); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s = %q written to %s\n", args[0], a.cfg.Value(args[0]), a.cfg.File)
			return nil
		},
	}
}

func (a *app) configExampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "example",
		Short:       "Print an example config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(*cobra.Command, []string) error {
			fmt.Fprint(a.out, config.ExampleConfig())
			return nil
		},
	}
}
