package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kennyg/skillset/internal/artifact"
	"github.com/kennyg/skillset/internal/config"
	"github.com/kennyg/skillset/internal/ui"
)

var pinCmd = &cobra.Command{
	Use:   "pin <name>...",
	Short: "Keep items when switching skillsets",
	Long: `Pin item names so they are never removed by add, sync or remove,
whichever skillset installed them. Pinning does not download anything.

Examples:
  skillset pin code-review
  skillset pin planner tester`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPin,
}

var unpinCmd = &cobra.Command{
	Use:   "unpin <name>...",
	Short: "Allow pinned items to be removed again",
	Long: `Unpin item names. Nothing is deleted now; the items become
eligible for removal on the next add, sync or remove.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runUnpin,
}

func runPin(cmd *cobra.Command, args []string) {
	for _, name := range args {
		if err := artifact.ValidateName(name); err != nil {
			exitWithError(err.Error())
		}
	}

	paths := statePaths()
	state := config.LoadState(paths.StateFile)

	added := state.Pin(args...)
	if len(added) > 0 {
		if err := config.SaveState(paths.StateFile, state); err != nil {
			exitWithError(err.Error())
		}
	}

	out := cmd.OutOrStdout()
	if len(added) == 0 {
		fmt.Fprintln(out, ui.InfoLine("Already pinned: "+strings.Join(args, ", ")))
		return
	}
	fmt.Fprintln(out, ui.SuccessLine("Pinned: "+strings.Join(added, ", ")))
}

func runUnpin(cmd *cobra.Command, args []string) {
	paths := statePaths()
	state := config.LoadState(paths.StateFile)

	removed := state.Unpin(args...)
	if len(removed) > 0 {
		if err := config.SaveState(paths.StateFile, state); err != nil {
			exitWithError(err.Error())
		}
	}

	out := cmd.OutOrStdout()
	if len(removed) == 0 {
		fmt.Fprintln(out, ui.InfoLine("Not pinned: "+strings.Join(args, ", ")))
		return
	}
	fmt.Fprintln(out, ui.SuccessLine("Unpinned: "+strings.Join(removed, ", ")))
}

// statePaths resolves paths without requiring a registry; pinning works
// before any skillset is defined
func statePaths() *config.Paths {
	paths, err := config.GetPaths(viper.GetString("dir"))
	if err != nil {
		exitWithError(err.Error())
	}
	return paths
}
