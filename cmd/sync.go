package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kennyg/skillset/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"refresh"},
	Short:   "Re-download the active skillset",
	Long: `Activate the active skillset again. Items are removed and downloaded
afresh from the source, picking up registry and upstream changes.`,
	Args: cobra.NoArgs,
	Run:  runSync,
}

var syncOpts activateOptions

func init() {
	syncCmd.Flags().BoolVarP(&syncOpts.yes, "yes", "y", false, "Skip confirmation")
	syncCmd.Flags().BoolVar(&syncOpts.dryRun, "dry-run", false, "Show the plan without changing anything")
	syncCmd.Flags().BoolVar(&syncOpts.strict, "strict", false, "Record only items that were downloaded successfully")
}

func runSync(cmd *cobra.Command, args []string) {
	p := loadProject()

	active, ok := p.state.Active()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), ui.InfoLine("No skillset is active, nothing to sync"))
		return
	}

	activate(cmd, p, active, syncOpts)
}
