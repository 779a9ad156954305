// Package envsync mirrors editor settings and extensions from a shared
// location into the local editor installation.
//
// A Syncer runs two independent passes. The settings pass merges an
// optional defaults document and then copies every top-level setting that
// differs from the remote document into the local settings file. The
// extensions pass copies remote extension packages that are missing
// locally or newer than the installed copy. Nothing local is ever deleted.
package envsync

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/nibzard/envsync/internal/confirm"
	"github.com/nibzard/envsync/internal/extension"
	"github.com/nibzard/envsync/internal/logging"
	"github.com/nibzard/envsync/internal/settings"
)

// Mode says whether the user explicitly asked for a pass.
type Mode int

const (
	// Interactive passes may prompt for missing or invalid paths.
	Interactive Mode = iota
	// Automatic passes (startup, watch) never prompt.
	Automatic
)

func (m Mode) String() string {
	if m == Automatic {
		return "automatic"
	}
	return "interactive"
}

// Host is the editor or terminal the sync runs in.
type Host interface {
	PromptForText(ctx context.Context, message, defaultValue string) (string, bool, error)
	ShowError(ctx context.Context, message string, choices ...string) (string, error)
	ShowWarning(ctx context.Context, message string, choices ...string) (string, error)
	ShowInfo(ctx context.Context, message string, choices ...string) (string, error)
	ConfiguredValue(key string) string
	SetConfiguredValue(key, value string) error
	ListInstalledExtensions(ctx context.Context) ([]extension.Installed, error)
	LogLine(text string)
}

// FileStore is the filesystem the sync reads and writes.
type FileStore interface {
	Exists(path string) bool
	ListDirectories(path string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	CopyTree(src, dst string) error
	EnsureDirectory(path string) error
}

// Codec converts settings documents to and from bytes.
type Codec interface {
	Decode(filename string, data []byte) (*settings.Document, error)
	Encode(doc *settings.Document) ([]byte, error)
}

// Options holds the local side of the sync.
type Options struct {
	// SettingsFile is the local settings document.
	SettingsFile string
	// ExtensionsDir is the local extensions directory.
	ExtensionsDir string
	// CopyWorkers bounds concurrent package copies. Zero means 4.
	CopyWorkers int
}

const defaultCopyWorkers = 4

// Syncer runs settings and extension passes.
type Syncer struct {
	host      Host
	store     FileStore
	codec     Codec
	logger    *log.Logger
	confirmer *confirm.Confirmer
	opts      Options
}

// New returns a Syncer. A nil logger discards output.
func New(host Host, store FileStore, codec Codec, logger *log.Logger, opts Options) *Syncer {
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.CopyWorkers <= 0 {
		opts.CopyWorkers = defaultCopyWorkers
	}
	return &Syncer{
		host:      host,
		store:     store,
		codec:     codec,
		logger:    logger,
		confirmer: confirm.New(host, store, logger),
		opts:      opts,
	}
}

// SyncAll runs the extensions pass and then the settings pass. A failure in
// one does not stop the other.
func (s *Syncer) SyncAll(ctx context.Context, mode Mode) error {
	extErr := s.SyncExtensions(ctx, mode)
	if errors.Is(extErr, context.Canceled) {
		return extErr
	}
	setErr := s.SyncSettings(ctx, mode)
	return errors.Join(extErr, setErr)
}
