// Package confirm resolves a configured path before a sync step may use it.
//
// Each target (remote extensions directory, remote settings file, remote
// defaults file) runs its own machine:
//
//	unconfirmed -> prompting | validating | abandoned
//	prompting   -> validating | abandoned
//	validating  -> confirmed | prompting | abandoned | disabled
//
// Prompts happen only in interactive mode. Abandonment is a result, not an
// error.
package confirm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/looplab/fsm"
)

// State is a confirmation state.
type State string

const (
	StateUnconfirmed State = "unconfirmed"
	StatePrompting   State = "prompting"
	StateValidating  State = "validating"
	StateConfirmed   State = "confirmed"
	StateAbandoned   State = "abandoned"
	StateDisabled    State = "disabled"
)

const (
	eventHavePath   = "have_path"
	eventNeedPrompt = "need_prompt"
	eventEntered    = "entered"
	eventValid      = "valid"
	eventReprompt   = "reprompt"
	eventDisable    = "disable"
	eventCancel     = "cancel"
)

// Choices offered when a path fails validation.
const (
	ChoiceRetry      = "Retry"
	ChoiceChangePath = "Change Path"
	ChoiceDisable    = "Disable"
)

// PathInvalidError reports a configured path that does not exist or cannot
// be reached.
type PathInvalidError struct {
	Key  string
	Path string
}

func (e *PathInvalidError) Error() string {
	return fmt.Sprintf("%s: path %q does not exist or is not accessible", e.Key, e.Path)
}

// Host is the user-facing side the machine talks to.
type Host interface {
	PromptForText(ctx context.Context, message, defaultValue string) (string, bool, error)
	ShowError(ctx context.Context, message string, choices ...string) (string, error)
	ConfiguredValue(key string) string
	SetConfiguredValue(key, value string) error
}

// Checker tests path existence.
type Checker interface {
	Exists(path string) bool
}

// Options describes one confirmation target.
type Options struct {
	// Key names the configuration value holding the path.
	Key string
	// Prompt is the message shown when asking for a path.
	Prompt string
	// Interactive allows prompts and error dialogs.
	Interactive bool
	// Optional targets are skipped when unconfigured and may be disabled.
	Optional bool
	// Resolve maps the configured value to the path that is checked.
	// Nil means the value is used as is.
	Resolve func(value string) string
}

// Result is the outcome of a confirmation.
type Result struct {
	State State
	// Value is the configured or entered value.
	Value string
	// Path is Value after resolution.
	Path string
	// Err is set when an automatic run abandoned an invalid path.
	Err error
}

// Confirmed reports whether the path may be used.
func (r Result) Confirmed() bool {
	return r.State == StateConfirmed
}

// Confirmer runs confirmation machines against a Host.
type Confirmer struct {
	host   Host
	files  Checker
	logger *log.Logger
}

// New returns a Confirmer. A nil logger discards output.
func New(host Host, files Checker, logger *log.Logger) *Confirmer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Confirmer{host: host, files: files, logger: logger}
}

func (c *Confirmer) newMachine(key string) *fsm.FSM {
	return fsm.NewFSM(
		string(StateUnconfirmed),
		fsm.Events{
			{Name: eventHavePath, Src: []string{string(StateUnconfirmed)}, Dst: string(StateValidating)},
			{Name: eventNeedPrompt, Src: []string{string(StateUnconfirmed)}, Dst: string(StatePrompting)},
			{Name: eventEntered, Src: []string{string(StatePrompting)}, Dst: string(StateValidating)},
			{Name: eventValid, Src: []string{string(StateValidating)}, Dst: string(StateConfirmed)},
			{Name: eventReprompt, Src: []string{string(StateValidating)}, Dst: string(StatePrompting)},
			{Name: eventDisable, Src: []string{string(StateValidating)}, Dst: string(StateDisabled)},
			{
				Name: eventCancel,
				Src:  []string{string(StateUnconfirmed), string(StatePrompting), string(StateValidating)},
				Dst:  string(StateAbandoned),
			},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				c.logger.Debug("path confirmation", "key", key, "from", e.Src, "to", e.Dst)
			},
		},
	)
}

// Confirm drives the machine for opts until it reaches a terminal state.
// Errors are returned only for Host failures and context cancellation.
func (c *Confirmer) Confirm(ctx context.Context, opts Options) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	machine := c.newMachine(opts.Key)
	fire := func(event string) error {
		if err := machine.Event(ctx, event); err != nil {
			return fmt.Errorf("confirming %s: %w", opts.Key, err)
		}
		return nil
	}

	value := strings.TrimSpace(c.host.ConfiguredValue(opts.Key))
	entered := false
	var invalid error

	switch {
	case value != "":
		if err := fire(eventHavePath); err != nil {
			return Result{}, err
		}
	case opts.Optional || !opts.Interactive:
		if err := fire(eventCancel); err != nil {
			return Result{}, err
		}
	default:
		if err := fire(eventNeedPrompt); err != nil {
			return Result{}, err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		switch State(machine.Current()) {
		case StatePrompting:
			text, ok, err := c.host.PromptForText(ctx, opts.Prompt, value)
			if err != nil {
				return Result{}, fmt.Errorf("prompting for %s: %w", opts.Key, err)
			}
			text = strings.TrimSpace(text)
			if !ok || text == "" {
				if err := fire(eventCancel); err != nil {
					return Result{}, err
				}
				continue
			}
			value, entered, invalid = text, true, nil
			if err := fire(eventEntered); err != nil {
				return Result{}, err
			}

		case StateValidating:
			path := resolve(opts, value)
			if c.files.Exists(path) {
				if entered {
					if err := c.host.SetConfiguredValue(opts.Key, value); err != nil {
						return Result{}, fmt.Errorf("saving %s: %w", opts.Key, err)
					}
				}
				if err := fire(eventValid); err != nil {
					return Result{}, err
				}
				continue
			}

			invalid = &PathInvalidError{Key: opts.Key, Path: path}
			if !opts.Interactive {
				if err := fire(eventCancel); err != nil {
					return Result{}, err
				}
				continue
			}
			next, err := c.askRecovery(ctx, opts, invalid)
			if err != nil {
				return Result{}, err
			}
			switch next {
			case "":
				// Retry: validate again.
			case eventDisable:
				if err := c.host.SetConfiguredValue(opts.Key, ""); err != nil {
					return Result{}, fmt.Errorf("clearing %s: %w", opts.Key, err)
				}
				value, invalid = "", nil
				if err := fire(eventDisable); err != nil {
					return Result{}, err
				}
			default:
				if next == eventReprompt {
					invalid = nil
				}
				if err := fire(next); err != nil {
					return Result{}, err
				}
			}

		default:
			res := Result{State: State(machine.Current()), Value: value}
			if value != "" {
				res.Path = resolve(opts, value)
			}
			if res.State == StateAbandoned {
				res.Err = invalid
			}
			return res, nil
		}
	}
}

// askRecovery shows the invalid-path dialog and returns the event to
// fire, or "" to validate again.
func (c *Confirmer) askRecovery(ctx context.Context, opts Options, invalid error) (string, error) {
	choices := []string{ChoiceRetry, ChoiceChangePath}
	if opts.Optional {
		choices = append(choices, ChoiceDisable)
	}
	choice, err := c.host.ShowError(ctx, invalid.Error(), choices...)
	if err != nil {
		return "", fmt.Errorf("reporting invalid %s: %w", opts.Key, err)
	}
	switch choice {
	case ChoiceRetry:
		return "", nil
	case ChoiceChangePath:
		return eventReprompt, nil
	case ChoiceDisable:
		if opts.Optional {
			return eventDisable, nil
		}
	}
	return eventCancel, nil
}

func resolve(opts Options, value string) string {
	if opts.Resolve == nil {
		return value
	}
	return opts.Resolve(value)
}

// RelativeTo resolves relative values against dir.
func RelativeTo(dir string) func(string) string {
	return func(value string) string {
		if filepath.IsAbs(value) || dir == "" {
			return value
		}
		return filepath.Join(dir, value)
	}
}

// IsPathInvalid reports whether err is a *PathInvalidError.
func IsPathInvalid(err error) bool {
	var pe *PathInvalidError
	return errors.As(err, &pe)
}
