package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kennyg/skillset/internal/config"
	"github.com/kennyg/skillset/internal/registry"
	"github.com/kennyg/skillset/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available skillsets",
	Long: `List the skillsets defined in the registry, marking the active one,
followed by the pinned items and the items the active skillset installed.`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func runList(cmd *cobra.Command, args []string) {
	p := loadProject()
	renderList(cmd.OutOrStdout(), p.registry, p.state, p.paths.RegistryFile)
}

// renderList prints the catalog and the current state. It performs no I/O
// besides writing to w.
func renderList(w io.Writer, reg *registry.Registry, state *config.State, registryPath string) {
	names := reg.Names()
	if len(names) == 0 {
		fmt.Fprint(w, ui.EmptyRegistry(registryPath))
		return
	}

	active, _ := state.Active()

	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.SectionHeader("Skillsets"))
	fmt.Fprintln(w)

	descWidth := ui.DescriptionWidth()
	for _, name := range names {
		set, _ := reg.Lookup(name)

		line := "  " + ui.RenderHighlight(name)
		if name == active {
			line += " " + ui.ActiveBadge()
		}
		counts := fmt.Sprintf("(%d skills, %d agents)", len(set.Skills), len(set.Agents))
		fmt.Fprintf(w, "%s %s\n", line, ui.RenderMuted(counts))

		for _, l := range ui.WrapText(set.Description, descWidth) {
			fmt.Fprintf(w, "    %s\n", ui.RenderMuted(l))
		}
	}

	fmt.Fprintln(w)
	if active == "" {
		fmt.Fprintln(w, ui.InfoLine("No skillset is active"))
	} else {
		fmt.Fprintln(w, ui.InfoLine("Active: "+active))
	}
	fmt.Fprintf(w, "  Installed: %s\n", joinOrNone(state.SkillsetItems))
	fmt.Fprintf(w, "  Pinned:    %s\n", joinOrNone(state.Pinned))
	fmt.Fprint(w, ui.PageFooter())
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return ui.RenderMuted("(none)")
	}
	return strings.Join(names, ", ")
}
