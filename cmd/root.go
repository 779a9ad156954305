// Package cmd implements the envsync command tree.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nibzard/envsync/internal/config"
	"github.com/nibzard/envsync/internal/envsync"
	"github.com/nibzard/envsync/internal/filestore"
	"github.com/nibzard/envsync/internal/host"
	"github.com/nibzard/envsync/internal/logging"
	"github.com/nibzard/envsync/internal/settings"
)

// Version is set via ldflags at build time.
var Version = "dev"

// skipSetup marks commands that run without loading config or logging.
const skipSetup = "skip-setup"

// app is the state shared by every command of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	cfg    *config.Config
	logger *log.Logger
	closer io.Closer

	// interactive overrides terminal detection when set.
	interactive *bool
}

// Run executes the envsync CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr, nil)
}

func run(ctx context.Context, args []string, out, errOut io.Writer, interactive *bool) error {
	a := &app{out: out, errOut: errOut, interactive: interactive}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	defer a.close()

	err := root.ExecuteContext(ctx)
	if err != nil && strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintf(errOut, "%v\n\n%s", err, root.UsageString())
	}
	return err
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "envsync",
		Short: "Mirror shared editor settings and extensions",
		Long: `envsync copies editor settings and extension packages from a shared
location into the local editor installation. It only adds and updates;
nothing local is ever deleted.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	config.RegisterFlags(root.PersistentFlags())
	root.SetVersionTemplate("envsync version {{.Version}}\n")

	root.AddCommand(
		a.syncCommand(),
		a.startupCommand(),
		a.planCommand(),
		a.watchCommand(),
		a.extensionsCommand(),
		a.configCommand(),
		a.logCommand(),
		a.versionCommand(),
	)
	return root
}

// setup loads configuration and opens the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if !needsSetup(cmd) {
		return nil
	}
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, closer, err := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Timestamps: cfg.LogTimestamps,
		Dir:        cfg.LogDir,
		Console:    a.errOut,
	})
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	a.cfg, a.logger, a.closer = cfg, logger, closer
	logger.Debug("config loaded", "file", cfg.File, "editor", cfg.Editor)
	return nil
}

// needsSetup reports whether cmd reads config. Help, completion and
// commands annotated with skipSetup do not.
func needsSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipSetup] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion":
			return false
		}
	}
	return true
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *app) terminal(store *filestore.Store) *host.Terminal {
	opts := []host.Option{host.WithOutput(a.out)}
	if a.interactive != nil {
		opts = append(opts, host.WithInteractive(*a.interactive))
	}
	return host.New(a.cfg, store, a.logger, opts...)
}

func (a *app) syncer() *envsync.Syncer {
	s, _ := a.session()
	return s
}

// session returns a Syncer and the terminal it reports to.
func (a *app) session() (*envsync.Syncer, *host.Terminal) {
	store := filestore.NewOS()
	term := a.terminal(store)
	s := envsync.New(term, store, settings.JSONCCodec{}, a.logger, envsync.Options{
		SettingsFile:  a.cfg.SettingsFile(),
		ExtensionsDir: a.cfg.ExtensionsDir(),
		CopyWorkers:   a.cfg.CopyWorkers,
	})
	return s, term
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(*cobra.Command, []string) error {
			return versionCommand(a.out)
		},
	}
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "envsync version %s\n", Version)
	return nil
}
