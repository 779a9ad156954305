package confirm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeHost struct {
	values  map[string]string
	prompts []string // scripted answers; "<cancel>" cancels
	choices []string // scripted dialog answers

	promptCalls int
	errorCalls  []string
	lastChoices []string
	saved       map[string]string
}

func (h *fakeHost) PromptForText(_ context.Context, _ string, _ string) (string, bool, error) {
	h.promptCalls++
	if len(h.prompts) == 0 {
		return "", false, nil
	}
	answer := h.prompts[0]
	h.prompts = h.prompts[1:]
	if answer == "<cancel>" {
		return "", false, nil
	}
	return answer, true, nil
}

func (h *fakeHost) ShowError(_ context.Context, message string, choices ...string) (string, error) {
	h.errorCalls = append(h.errorCalls, message)
	h.lastChoices = choices
	if len(h.choices) == 0 {
		return "", nil
	}
	choice := h.choices[0]
	h.choices = h.choices[1:]
	return choice, nil
}

func (h *fakeHost) ConfiguredValue(key string) string {
	return h.values[key]
}

func (h *fakeHost) SetConfiguredValue(key, value string) error {
	if h.saved == nil {
		h.saved = map[string]string{}
	}
	h.saved[key] = value
	if h.values == nil {
		h.values = map[string]string{}
	}
	h.values[key] = value
	return nil
}

type fakeFiles map[string]bool

func (f fakeFiles) Exists(path string) bool { return f[path] }

func TestAutomaticWithoutPathNeverPrompts(t *testing.T) {
	host := &fakeHost{}
	c := New(host, fakeFiles{}, nil)

	res, err := c.Confirm(context.Background(), Options{Key: "remote_settings_path", Interactive: false})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if res.State != StateAbandoned {
		t.Errorf("state: got %s, want %s", res.State, StateAbandoned)
	}
	if host.promptCalls != 0 || len(host.errorCalls) != 0 {
		t.Errorf("expected no host interaction, got %d prompts and %d dialogs", host.promptCalls, len(host.errorCalls))
	}
	if res.Err != nil {
		t.Errorf("unconfigured path should not carry an error, got %v", res.Err)
	}
}

func TestAutomaticInvalidPathAbandonsSilently(t *testing.T) {
	host := &fakeHost{values: map[string]string{"remote_settings_path": "/share/missing.json"}}
	c := New(host, fakeFiles{}, nil)

	res, err := c.Confirm(context.Background(), Options{Key: "remote_settings_path"})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if res.State != StateAbandoned {
		t.Fatalf("state: got %s", res.State)
	}
	var pe *PathInvalidError
	if !errors.As(res.Err, &pe) || pe.Path != "/share/missing.json" {
		t.Errorf("expected PathInvalidError for the path, got %v", res.Err)
	}
	if host.promptCalls != 0 || len(host.errorCalls) != 0 {
		t.Error("automatic run must not interact with the user")
	}
}

func TestConfiguredValidPathConfirms(t *testing.T) {
	host := &fakeHost{values: map[string]string{"remote_extensions_path": "/share/ext"}}
	c := New(host, fakeFiles{"/share/ext": true}, nil)

	res, err := c.Confirm(context.Background(), Options{Key: "remote_extensions_path", Interactive: true})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !res.Confirmed() || res.Path != "/share/ext" {
		t.Errorf("got %+v", res)
	}
	if host.promptCalls != 0 {
		t.Error("configured path should not prompt")
	}
	if host.saved != nil {
		t.Error("unchanged value should not be saved")
	}
}

func TestInteractivePromptPersistsEnteredPath(t *testing.T) {
	host := &fakeHost{prompts: []string{"  /share/ext  "}}
	c := New(host, fakeFiles{"/share/ext": true}, nil)

	res, err := c.Confirm(context.Background(), Options{Key: "remote_extensions_path", Interactive: true})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !res.Confirmed() {
		t.Fatalf("state: got %s", res.State)
	}
	if diff := cmp.Diff(map[string]string{"remote_extensions_path": "/share/ext"}, host.saved); diff != "" {
		t.Errorf("saved values mismatch (-want +got):\n%s", diff)
	}
}

func TestInteractivePromptCancelled(t *testing.T) {
	host := &fakeHost{prompts: []string{"<cancel>"}}
	c := New(host, fakeFiles{}, nil)

	res, err := c.Confirm(context.Background(), Options{Key: "remote_settings_path", Interactive: true})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if res.State != StateAbandoned || res.Err != nil {
		t.Errorf("got %+v", res)
	}
}

func TestInvalidPathRecovery(t *testing.T) {
	tests := []struct {
		name      string
		optional  bool
		files     fakeFiles
		prompts   []string
		choices   []string
		wantState State
		wantValue string
		wantSaved map[string]string
	}{
		{
			name:      "retry until dismissed",
			choices:   []string{ChoiceRetry, ChoiceRetry},
			files:     fakeFiles{},
			wantState: StateAbandoned,
			wantValue: "/share/a",
		},
		{
			name:      "change path",
			choices:   []string{ChoiceChangePath},
			prompts:   []string{"/share/b"},
			files:     fakeFiles{"/share/b": true},
			wantState: StateConfirmed,
			wantValue: "/share/b",
			wantSaved: map[string]string{"key": "/share/b"},
		},
		{
			name:      "dismissed",
			choices:   []string{""},
			files:     fakeFiles{},
			wantState: StateAbandoned,
			wantValue: "/share/a",
		},
		{
			name:      "disable optional",
			optional:  true,
			choices:   []string{ChoiceDisable},
			files:     fakeFiles{},
			wantState: StateDisabled,
			wantSaved: map[string]string{"key": ""},
		},
		{
			name:      "disable ignored for required target",
			choices:   []string{ChoiceDisable},
			files:     fakeFiles{},
			wantState: StateAbandoned,
			wantValue: "/share/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := &fakeHost{
				values:  map[string]string{"key": "/share/a"},
				prompts: tt.prompts,
				choices: tt.choices,
			}
			c := New(host, tt.files, nil)

			res, err := c.Confirm(context.Background(), Options{Key: "key", Interactive: true, Optional: tt.optional})
			if err != nil {
				t.Fatalf("Confirm: %v", err)
			}
			if res.State != tt.wantState {
				t.Errorf("state: got %s, want %s", res.State, tt.wantState)
			}
			if res.Value != tt.wantValue {
				t.Errorf("value: got %q, want %q", res.Value, tt.wantValue)
			}
			if diff := cmp.Diff(tt.wantSaved, host.saved); diff != "" {
				t.Errorf("saved mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRetrySucceedsOnceAvailable(t *testing.T) {
	files := fakeFiles{}
	host := &fakeHost{values: map[string]string{"key": "/share/a"}}
	// The dialog "mounts" the share before answering Retry.
	mounting := &mountingHost{fakeHost: host, files: files, path: "/share/a"}
	c := New(mounting, files, nil)

	res, err := c.Confirm(context.Background(), Options{Key: "key", Interactive: true})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !res.Confirmed() {
		t.Errorf("state: got %s", res.State)
	}
	if len(host.errorCalls) != 1 {
		t.Errorf("expected one dialog, got %d", len(host.errorCalls))
	}
}

type mountingHost struct {
	*fakeHost
	files fakeFiles
	path  string
}

func (h *mountingHost) ShowError(ctx context.Context, message string, choices ...string) (string, error) {
	h.fakeHost.ShowError(ctx, message, choices...)
	h.files[h.path] = true
	return ChoiceRetry, nil
}

func TestDialogChoices(t *testing.T) {
	for _, optional := range []bool{false, true} {
		host := &fakeHost{values: map[string]string{"key": "/missing"}}
		c := New(host, fakeFiles{}, nil)
		if _, err := c.Confirm(context.Background(), Options{Key: "key", Interactive: true, Optional: optional}); err != nil {
			t.Fatalf("Confirm: %v", err)
		}
		want := []string{ChoiceRetry, ChoiceChangePath}
		if optional {
			want = append(want, ChoiceDisable)
		}
		if diff := cmp.Diff(want, host.lastChoices); diff != "" {
			t.Errorf("optional=%v choices mismatch (-want +got):\n%s", optional, diff)
		}
	}
}

func TestOptionalUnconfiguredSkipsPrompt(t *testing.T) {
	host := &fakeHost{}
	c := New(host, fakeFiles{}, nil)

	res, err := c.Confirm(context.Background(), Options{Key: "remote_defaults_file", Interactive: true, Optional: true})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if res.State != StateAbandoned || host.promptCalls != 0 {
		t.Errorf("got %+v with %d prompts", res, host.promptCalls)
	}
}

func TestResolveRelativeDefaultsFile(t *testing.T) {
	host := &fakeHost{values: map[string]string{"remote_defaults_file": "defaults.json"}}
	c := New(host, fakeFiles{"/share/editor/defaults.json": true}, nil)

	res, err := c.Confirm(context.Background(), Options{
		Key:      "remote_defaults_file",
		Optional: true,
		Resolve:  RelativeTo("/share/editor"),
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !res.Confirmed() || res.Path != "/share/editor/defaults.json" || res.Value != "defaults.json" {
		t.Errorf("got %+v", res)
	}
}

func TestRelativeTo(t *testing.T) {
	resolve := RelativeTo("/share")
	if got := resolve("/abs/file.json"); got != "/abs/file.json" {
		t.Errorf("absolute: got %q", got)
	}
	if got := resolve("sub/file.json"); got != "/share/sub/file.json" {
		t.Errorf("relative: got %q", got)
	}
	if got := RelativeTo("")("file.json"); got != "file.json" {
		t.Errorf("no base: got %q", got)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	host := &fakeHost{values: map[string]string{"key": "/share/a"}}
	if _, err := New(host, fakeFiles{}, nil).Confirm(ctx, Options{Key: "key", Interactive: true}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
