package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kennyg/skillset/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check installed items against the recorded state",
	Long: `Compare the items the state file records for the active skillset
with what is actually on disk, and show the configured source.

Items recorded but missing locally usually come from a download that failed;
run 'skillset sync' to retry them.`,
	Args: cobra.NoArgs,
	Run:  runDoctor,
}

// driftEntry is one recorded name and what exists for it on disk
type driftEntry struct {
	Name  string
	Skill bool
	Agent bool
}

func (d driftEntry) present() bool {
	return d.Skill || d.Agent
}

func runDoctor(cmd *cobra.Command, args []string) {
	p := loadProject()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.SectionHeader("Diagnosing"))
	fmt.Fprintln(out)

	src, err := loadSource(p.paths)
	if err != nil {
		fmt.Fprintln(out, ui.ErrorLine("source: "+err.Error()))
	} else {
		fmt.Fprintln(out, ui.InfoLine("Source: "+src.String()))
		if gh, err := newGitHub(src); err != nil {
			fmt.Fprintln(out, ui.ErrorLine("github: "+err.Error()))
		} else if gh.IsAuthenticated() {
			fmt.Fprintln(out, ui.InfoLine("GitHub token found, private sources supported"))
		} else {
			fmt.Fprintln(out, ui.RenderMuted("  No GitHub token, public sources only"))
		}
	}
	fmt.Fprintln(out)

	active, ok := p.state.Active()
	if !ok {
		fmt.Fprintln(out, ui.InfoLine("No skillset is active"))
		if len(p.state.SkillsetItems) > 0 {
			fmt.Fprintln(out, ui.WarningLine(fmt.Sprintf(
				"state records %d items without an active skillset; 'skillset add <name>' removes them",
				len(p.state.SkillsetItems))))
		}
		fmt.Fprint(out, ui.PageFooter())
		return
	}
	if _, known := p.registry.Lookup(active); !known {
		fmt.Fprintln(out, ui.WarningLine(fmt.Sprintf("active skillset %q is no longer in the registry", active)))
	}

	entries := make([]driftEntry, 0, len(p.state.SkillsetItems))
	for _, name := range p.state.SkillsetItems {
		skill, agent := p.store.HasName(name)
		entries = append(entries, driftEntry{Name: name, Skill: skill, Agent: agent})
	}

	renderDrift(out, active, entries)
	fmt.Fprint(out, ui.PageFooter())
}

func renderDrift(w io.Writer, active string, entries []driftEntry) {
	fmt.Fprintf(w, "  %s %s\n\n", ui.RenderHighlight(active), ui.ActiveBadge())

	missing := 0
	for _, e := range entries {
		if e.present() {
			fmt.Fprintf(w, "  %s %s\n", ui.StatusOK(), e.Name)
			continue
		}
		missing++
		fmt.Fprintf(w, "  %s %s %s\n", ui.StatusError(), e.Name, ui.RenderMuted("recorded but not on disk"))
	}

	fmt.Fprintln(w)
	if missing == 0 {
		fmt.Fprintln(w, ui.SuccessLine(fmt.Sprintf("All %d recorded items are present", len(entries))))
		return
	}
	fmt.Fprintln(w, ui.WarningLine(fmt.Sprintf("%d of %d recorded items are missing; run 'skillset sync'", missing, len(entries))))
}
