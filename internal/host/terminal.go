// Package host runs sync passes from a terminal session.
package host

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/envsync/internal/config"
	"github.com/nibzard/envsync/internal/extension"
	"github.com/nibzard/envsync/internal/ui"
)

// Terminal is a sync host backed by the user config file, the local
// extensions directory and an optional interactive terminal.
type Terminal struct {
	cfg         *config.Config
	store       extension.Store
	logger      *log.Logger
	out         io.Writer
	interactive bool

	promptText func(ctx context.Context, title, defaultValue string) (string, bool, error)
	choose     func(ctx context.Context, severity ui.Severity, message string, choices []string) (string, error)
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithOutput sets where messages and log lines are printed.
func WithOutput(w io.Writer) Option {
	return func(t *Terminal) { t.out = w }
}

// WithInteractive overrides terminal detection.
func WithInteractive(interactive bool) Option {
	return func(t *Terminal) { t.interactive = interactive }
}

// New returns a Terminal. Prompts are enabled only when stdin and stdout
// are terminals and cfg does not forbid them.
func New(cfg *config.Config, store extension.Store, logger *log.Logger, opts ...Option) *Terminal {
	t := &Terminal{
		cfg:         cfg,
		store:       store,
		logger:      logger,
		out:         os.Stdout,
		interactive: ui.Interactive(),
		promptText:  ui.PromptText,
		choose:      ui.Choose,
	}
	for _, opt := range opts {
		opt(t)
	}
	if cfg.NonInteractive {
		t.interactive = false
	}
	return t
}

// Interactive reports whether the terminal may prompt.
func (t *Terminal) Interactive() bool {
	return t.interactive
}

func (t *Terminal) PromptForText(ctx context.Context, message, defaultValue string) (string, bool, error) {
	if !t.interactive {
		return "", false, nil
	}
	return t.promptText(ctx, message, defaultValue)
}

func (t *Terminal) ShowError(ctx context.Context, message string, choices ...string) (string, error) {
	return t.show(ctx, ui.SeverityError, message, choices)
}

func (t *Terminal) ShowWarning(ctx context.Context, message string, choices ...string) (string, error) {
	return t.show(ctx, ui.SeverityWarning, message, choices)
}

func (t *Terminal) ShowInfo(ctx context.Context, message string, choices ...string) (string, error) {
	return t.show(ctx, ui.SeverityInfo, message, choices)
}

// show prints plain notifications and offers choices only when the
// terminal can prompt. A dialog that cannot be shown counts as dismissed.
func (t *Terminal) show(ctx context.Context, severity ui.Severity, message string, choices []string) (string, error) {
	if len(choices) == 0 || !t.interactive {
		fmt.Fprintln(t.out, ui.Render(severity, message))
		return "", nil
	}
	return t.choose(ctx, severity, message, choices)
}

// ConfiguredValue reads key from the loaded configuration.
func (t *Terminal) ConfiguredValue(key string) string {
	return t.cfg.Value(key)
}

// SetConfiguredValue stores key in memory and in the user config file.
func (t *Terminal) SetConfiguredValue(key, value string) error {
	if err := t.cfg.Persist(key, value); err != nil {
		return err
	}
	t.logger.Info("configuration updated", "key", key, "file", t.cfg.File)
	return nil
}

// ListInstalledExtensions scans the local extensions directory.
func (t *Terminal) ListInstalledExtensions(context.Context) ([]extension.Installed, error) {
	return extension.ScanInstalled(t.store, t.cfg.ExtensionsDir())
}

// LogLine prints a line of sync output.
func (t *Terminal) LogLine(text string) {
	fmt.Fprintln(t.out, text)
}
