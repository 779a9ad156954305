package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nibzard/envsync/internal/envsync"
	"github.com/nibzard/envsync/internal/ui"
)

func (a *app) planCommand() *cobra.Command {
	var uiMode string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a sync would change without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if uiMode != "" && uiMode != "tui" {
				return fmt.Errorf("unknown ui mode %q (want tui)", uiMode)
			}
			ctx := cmd.Context()
			s, term := a.session()
			plan, planErr := s.Plan(ctx, envsync.Interactive)
			if plan == nil {
				return planErr
			}
			view := planView(plan)

			var apply bool
			var err error
			if uiMode == "tui" {
				apply, err = ui.RunPlanViewer(ctx, view)
			} else {
				fmt.Fprint(a.out, ui.RenderPlan(view))
				if term.Interactive() && view.Applicable {
					apply, err = ui.Confirm(ctx, "Apply these changes?")
				}
			}
			if err != nil {
				return err
			}
			if !apply {
				return planErr
			}
			// Paths were confirmed while planning.
			return s.SyncAll(ctx, envsync.Automatic)
		},
	}
	cmd.Flags().StringVar(&uiMode, "ui", "", "UI mode (tui for the interactive plan viewer)")
	return cmd
}

// planView turns a plan into viewer sections.
func planView(plan *envsync.Plan) ui.PlanView {
	settingsSection := ui.PlanSection{Title: "Settings", Empty: "settings are up to date"}
	switch {
	case plan.SettingsSkipped:
		settingsSection.Empty = "skipped: remote settings path not set"
	case plan.RemoteSettings == "":
		settingsSection.Empty = "not planned (see errors)"
	default:
		settingsSection.Title = fmt.Sprintf("Settings  %s -> %s", plan.RemoteSettings, plan.LocalSettings)
		for _, key := range plan.DefaultsDelta.Keys() {
			settingsSection.Items = append(settingsSection.Items, ui.PlanItem{
				Text: fmt.Sprintf("add default %s (from %s)", key, filepath.Base(plan.DefaultsFile)),
			})
		}
		for _, key := range plan.SettingsDelta.Keys() {
			settingsSection.Items = append(settingsSection.Items, ui.PlanItem{Text: "set " + key})
		}
		for _, w := range plan.Warnings {
			settingsSection.Items = append(settingsSection.Items, ui.PlanItem{Text: w, Kind: ui.ItemWarning})
		}
	}

	extSection := ui.PlanSection{Title: "Extensions", Empty: "extensions are up to date"}
	switch {
	case plan.ExtensionsSkipped:
		extSection.Empty = "skipped: remote extensions path not set"
	case plan.RemoteExtensions == "":
		extSection.Empty = "not planned (see errors)"
	default:
		extSection.Title = "Extensions  " + plan.RemoteExtensions
		for _, d := range plan.Install {
			extSection.Items = append(extSection.Items, ui.PlanItem{
				Text: fmt.Sprintf("install %s %s", d.ID(), d.Version),
			})
		}
		for _, d := range plan.Invalid {
			extSection.Items = append(extSection.Items, ui.PlanItem{
				Text: fmt.Sprintf("skip %s: %v", filepath.Base(d.Source), d.Err),
				Kind: ui.ItemWarning,
			})
		}
	}

	return ui.PlanView{
		Title:      "envsync plan",
		Sections:   []ui.PlanSection{extSection, settingsSection},
		Applicable: !plan.Empty(),
	}
}
