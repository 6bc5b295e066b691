package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kennyg/skillset/internal/artifact"
	"github.com/kennyg/skillset/internal/fetch"
	"github.com/kennyg/skillset/internal/skillset"
	"github.com/kennyg/skillset/internal/ui"
)

var addCmd = &cobra.Command{
	Use:     "add <name>",
	Aliases: []string{"activate", "use"},
	Short:   "Activate a skillset",
	Long: `Activate a skillset: remove the items the current skillset installed
(pinned items stay), then download every skill and agent of the new one.

Examples:
  skillset add frontend
  skillset add backend --yes
  skillset add backend --dry-run`,
	Args: cobra.ExactArgs(1),
	Run:  runAdd,
}

// activateOptions are shared by add and sync
type activateOptions struct {
	yes    bool
	dryRun bool
	strict bool
}

var addOpts activateOptions

func init() {
	addCmd.Flags().BoolVarP(&addOpts.yes, "yes", "y", false, "Skip confirmation")
	addCmd.Flags().BoolVar(&addOpts.dryRun, "dry-run", false, "Show the plan without changing anything")
	addCmd.Flags().BoolVar(&addOpts.strict, "strict", false, "Record only items that were downloaded successfully")
}

func runAdd(cmd *cobra.Command, args []string) {
	activate(cmd, loadProject(), args[0], addOpts)
}

func activate(cmd *cobra.Command, p *project, name string, opts activateOptions) {
	out := cmd.OutOrStdout()

	plan, err := skillset.PlanActivate(p.registry, p.state, name)
	if err != nil {
		exitWithError(err.Error())
	}

	remote := newRemote(p.paths)
	renderPlan(out, plan, remote)

	if opts.dryRun {
		fmt.Fprintln(out, ui.InfoLine("Dry run: nothing was changed"))
		return
	}
	if !confirmPlan(cmd, opts.yes) {
		return
	}

	if err := p.paths.EnsureDirs(); err != nil {
		exitWithError(err.Error())
	}

	engine := skillset.New(remote, p.store,
		skillset.WithWorkers(viper.GetInt("workers")),
		skillset.WithStrict(opts.strict),
	)
	report, next, err := engine.Apply(cmd.Context(), plan, p.state, p.paths.StateFile)
	renderReport(out, report)
	if err != nil {
		exitWithError(err.Error())
	}

	fmt.Fprintln(out)
	msg := fmt.Sprintf("Activated %s (%d items recorded)", plan.Target, len(next.SkillsetItems))
	if n := report.Failures(); n > 0 {
		fmt.Fprintln(out, ui.WarningLine(fmt.Sprintf("%s, %d failed", msg, n)))
	} else {
		fmt.Fprintln(out, ui.SuccessLine(msg))
	}
	fmt.Fprintln(out)
}

// confirmPlan asks before mutating unless skip is set. A declined or
// unanswered prompt prints a notice and returns false.
func confirmPlan(cmd *cobra.Command, skip bool) bool {
	if skip {
		return true
	}

	out := cmd.OutOrStdout()
	ok, err := ui.Confirm(cmd.InOrStdin(), out, "  Proceed?")
	if err != nil {
		exitWithError(err.Error())
	}
	if !ok {
		fmt.Fprintln(out, ui.RenderMuted("  Cancelled."))
	}
	return ok
}

// renderPlan prints what a plan will delete and download. remote may be nil
// when the plan fetches nothing.
func renderPlan(w io.Writer, plan *skillset.Plan, remote *fetch.Remote) {
	fmt.Fprintln(w)
	switch plan.Action {
	case skillset.ActionActivate:
		title := "Activate " + plan.Target
		if plan.Previous != "" && plan.Previous != plan.Target {
			title += " (replacing " + plan.Previous + ")"
		}
		fmt.Fprintln(w, ui.SectionHeader(title))
		if plan.Description != "" {
			fmt.Fprintf(w, "  %s\n", ui.RenderMuted(plan.Description))
		}
	case skillset.ActionDeactivate:
		fmt.Fprintln(w, ui.SectionHeader("Deactivate "+plan.Previous))
	}
	fmt.Fprintln(w)

	if len(plan.ToDelete) > 0 {
		fmt.Fprintln(w, ui.Render(ui.Subtitle, "  Remove"))
		for _, name := range plan.ToDelete {
			fmt.Fprintln(w, ui.DeleteLine(name))
		}
		fmt.Fprintln(w)
	}

	if len(plan.Kept) > 0 {
		fmt.Fprintln(w, ui.Render(ui.Subtitle, "  Keep"))
		for _, name := range plan.Kept {
			fmt.Fprintf(w, "    %s %s\n", name, ui.PinnedBadge())
		}
		fmt.Fprintln(w)
	}

	if len(plan.ToFetch) > 0 {
		header := "  Download"
		if remote != nil {
			header += " from " + remote.Source().String()
		}
		fmt.Fprintln(w, ui.Render(ui.Subtitle, header))
		for _, item := range plan.ToFetch {
			fmt.Fprintln(w, ui.AddLine(kindBadge(item.Kind)+" "+item.Name))
		}
		fmt.Fprintln(w)
	}

	if len(plan.ToDelete) == 0 && len(plan.ToFetch) == 0 {
		fmt.Fprintln(w, ui.RenderMuted("  Nothing to remove or download."))
		fmt.Fprintln(w)
	}
}

// renderReport prints the outcome of every item that did not simply succeed
func renderReport(w io.Writer, report *skillset.Report) {
	if report == nil {
		return
	}

	for _, d := range report.Deletions {
		if d.Status == skillset.DeleteFailed {
			fmt.Fprintln(w, ui.ErrorLine(fmt.Sprintf("remove %s: %v", d.Name, d.Err)))
		}
	}

	installed := 0
	for _, f := range report.Fetches {
		switch f.Status {
		case skillset.Fetched:
			installed++
		case skillset.Absent:
			fmt.Fprintln(w, ui.WarningLine(fmt.Sprintf("%s %s not found in source, skipped", f.Item.Kind, f.Item.Name)))
		default:
			fmt.Fprintln(w, ui.ErrorLine(fmt.Sprintf("%s %s: %v", f.Item.Kind, f.Item.Name, f.Err)))
		}
	}

	if len(report.Fetches) > 0 {
		fmt.Fprintln(w, ui.InfoLine(fmt.Sprintf("Installed %d of %d items", installed, len(report.Fetches))))
	}
}

func kindBadge(kind artifact.Kind) string {
	if kind == artifact.KindAgent {
		return ui.AgentBadge()
	}
	return ui.SkillBadge()
}
