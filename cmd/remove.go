package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kennyg/skillset/internal/skillset"
	"github.com/kennyg/skillset/internal/ui"
)

var removeCmd = &cobra.Command{
	Use:     "remove",
	Aliases: []string{"rm", "deactivate", "off"},
	Short:   "Deactivate the active skillset",
	Long: `Deactivate the active skillset, removing the items it installed.
Pinned items are left in place.

Examples:
  skillset remove
  skillset remove --yes`,
	Args: cobra.NoArgs,
	Run:  runRemove,
}

var (
	removeYes    bool
	removeDryRun bool
)

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip confirmation")
	removeCmd.Flags().BoolVar(&removeDryRun, "dry-run", false, "Show the plan without changing anything")
}

func runRemove(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	p := loadProject()

	plan := skillset.PlanDeactivate(p.state)
	if plan.Noop() {
		fmt.Fprintln(out, ui.InfoLine("No skillset is active"))
		return
	}

	renderPlan(out, plan, nil)

	if removeDryRun {
		fmt.Fprintln(out, ui.InfoLine("Dry run: nothing was changed"))
		return
	}
	if !confirmPlan(cmd, removeYes) {
		return
	}

	report, _, err := skillset.New(nil, p.store).Apply(cmd.Context(), plan, p.state, p.paths.StateFile)
	renderReport(out, report)
	if err != nil {
		exitWithError(err.Error())
	}

	fmt.Fprintln(out, ui.SuccessLine("Deactivated "+plan.Previous))
	fmt.Fprintln(out)
}
