package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kennyg/skillset/internal/artifact"
	"github.com/kennyg/skillset/internal/config"
	"github.com/kennyg/skillset/internal/fetch"
	"github.com/kennyg/skillset/internal/local"
	"github.com/kennyg/skillset/internal/registry"
	"github.com/kennyg/skillset/internal/skillset"
	"github.com/kennyg/skillset/internal/ui"
)

var infoCmd = &cobra.Command{
	Use:     "info <name>",
	Aliases: []string{"show"},
	Short:   "Show a skillset in detail",
	Long: `Show a skillset's description and items, whether each item is
present locally, and where it is downloaded from.`,
	Args: cobra.ExactArgs(1),
	Run:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) {
	p := loadProject()

	name := args[0]
	set, ok := p.registry.Lookup(name)
	if !ok {
		exitWithError((&skillset.UnknownSkillsetError{Name: name, Available: p.registry.Names()}).Error())
	}

	renderInfo(cmd.OutOrStdout(), name, set, p.state, p.store, newRemote(p.paths))
}

func renderInfo(w io.Writer, name string, set registry.Skillset, state *config.State, store *local.Store, remote *fetch.Remote) {
	title := ui.Render(ui.Title, name)
	if active, _ := state.Active(); active == name {
		title += " " + ui.ActiveBadge()
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, title)
	if set.Description != "" {
		fmt.Fprintln(w, ui.RenderMuted(set.Description))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, ui.Render(ui.Subtitle, "Items"))
	fmt.Fprintln(w, ui.Divider(40))

	items := set.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, ui.RenderMuted("  (empty)"))
	}
	for _, item := range items {
		status := ui.StatusWarn()
		if store.Has(item) {
			status = ui.StatusOK()
		}
		line := fmt.Sprintf("  %s %s %s", status, kindBadge(item.Kind), ui.RenderHighlight(item.Name))
		if state.IsPinned(item.Name) {
			line += " " + ui.PinnedBadge()
		}
		fmt.Fprintln(w, line)
		if remote != nil {
			fmt.Fprintf(w, "      %s\n", ui.RenderMuted(remote.URL(item)))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Skills: %d  Agents: %d  Present locally: %d\n",
		len(set.Skills), len(set.Agents), countPresent(store, items))
	fmt.Fprintln(w)
}

func countPresent(store *local.Store, items []artifact.Item) int {
	n := 0
	for _, item := range items {
		if store.Has(item) {
			n++
		}
	}
	return n
}
