package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// IsTTY indicates whether stdout is an interactive terminal.
// When false, UI functions produce plain text without colors or decorations.
var IsTTY = term.IsTerminal(os.Stdout.Fd())

// ═══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE
// ═══════════════════════════════════════════════════════════════════════════════

var (
	Gold   = lipgloss.Color("#F4D03F")
	Amber  = lipgloss.Color("#E59866")
	Copper = lipgloss.Color("#DC7633")

	Purple  = lipgloss.Color("#9B59B6")
	Blue    = lipgloss.Color("#5DADE2")
	Cyan    = lipgloss.Color("#76D7C4")
	Green   = lipgloss.Color("#58D68D")
	Emerald = lipgloss.Color("#27AE60")
	Pink    = lipgloss.Color("#FF6B9D")
	Magenta = lipgloss.Color("#E91E8C")

	White    = lipgloss.Color("#FDFEFE")
	Gray     = lipgloss.Color("#AAB7B8")
	DarkGray = lipgloss.Color("#5D6D7E")
	Black    = lipgloss.Color("#1C2833")
)

// ═══════════════════════════════════════════════════════════════════════════════
// TEXT STYLES
// ═══════════════════════════════════════════════════════════════════════════════

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Gold)

	Subtitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	Success = lipgloss.NewStyle().
		Foreground(Green)

	Error = lipgloss.NewStyle().
		Foreground(Pink).
		Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Copper)

	Info = lipgloss.NewStyle().
		Foreground(Blue)

	// Muted is for secondary text such as descriptions and paths
	Muted = lipgloss.NewStyle().
		Foreground(Gray)

	Dim = lipgloss.NewStyle().
		Foreground(DarkGray)

	// Highlight marks skillset and item names
	Highlight = lipgloss.NewStyle().
		Foreground(Gold).
		Bold(true)
)

// ═══════════════════════════════════════════════════════════════════════════════
// BADGES
// ═══════════════════════════════════════════════════════════════════════════════

var baseBadge = lipgloss.NewStyle().
	Padding(0, 1).
	Bold(true)

func badge(plain, styled string, bg, fg lipgloss.Color) string {
	if !IsTTY {
		return plain
	}
	return baseBadge.Background(bg).Foreground(fg).Render(styled)
}

// SkillBadge returns the skill kind badge
func SkillBadge() string {
	return badge("[SKILL]", "✦ SKILL", Purple, White)
}

// AgentBadge returns the agent kind badge
func AgentBadge() string {
	return badge("[AGENT]", "◈ AGENT", Magenta, White)
}

// ActiveBadge marks the active skillset
func ActiveBadge() string {
	return badge("[ACTIVE]", "● ACTIVE", Emerald, White)
}

// PinnedBadge marks a pinned item
func PinnedBadge() string {
	return badge("[PINNED]", "⚲ PINNED", Gold, Black)
}

// StatusOK returns the success status badge
func StatusOK() string {
	return badge("[OK]", "✓", Green, White)
}

// StatusWarn returns the warning status badge
func StatusWarn() string {
	return badge("[!]", "!", Copper, White)
}

// StatusError returns the error status badge
func StatusError() string {
	return badge("[ERR]", "✗", Pink, White)
}

// ═══════════════════════════════════════════════════════════════════════════════
// HEADERS
// ═══════════════════════════════════════════════════════════════════════════════

// Divider returns a horizontal divider
func Divider(width int) string {
	return Render(lipgloss.NewStyle().Foreground(DarkGray), strings.Repeat("─", width))
}

// SectionHeader creates a decorated section header spanning the terminal
func SectionHeader(title string) string {
	if !IsTTY {
		return fmt.Sprintf("=== %s ===", title)
	}

	width := TerminalWidth()
	if width > 80 {
		width = 80
	}

	titleLen := lipgloss.Width(title)
	padLeft := (width - titleLen - 6) / 2
	if padLeft < 2 {
		padLeft = 2
	}
	padRight := width - titleLen - 6 - padLeft
	if padRight < 2 {
		padRight = 2
	}

	left := lipgloss.NewStyle().Foreground(DarkGray).Render(strings.Repeat("─", padLeft) + "┤ ")
	right := lipgloss.NewStyle().Foreground(DarkGray).Render(" ├" + strings.Repeat("─", padRight))

	return left + Title.Render(title) + right
}

// PageFooter closes a section started by SectionHeader
func PageFooter() string {
	if !IsTTY {
		return "\n"
	}

	width := TerminalWidth()
	if width > 80 {
		width = 80
	}
	padSide := (width - 5) / 2
	left := strings.Repeat("─", padSide)
	right := strings.Repeat("─", width-padSide-5)
	line := lipgloss.NewStyle().Foreground(DarkGray).Render(left + " ✦ " + right)
	return "\n" + line + "\n"
}

// ═══════════════════════════════════════════════════════════════════════════════
// STATUS LINES
// ═══════════════════════════════════════════════════════════════════════════════

// StatusLine creates a status line with icon and message
func StatusLine(icon, message string, color lipgloss.Color) string {
	if !IsTTY {
		return fmt.Sprintf("  %s %s", icon, message)
	}
	style := lipgloss.NewStyle().Foreground(color)
	return fmt.Sprintf("  %s %s", style.Render(icon), style.Render(message))
}

// SuccessLine creates a success status line
func SuccessLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  OK: %s", message)
	}
	return StatusLine("✓", message, Green)
}

// ErrorLine creates an error status line
func ErrorLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  ERROR: %s", message)
	}
	return StatusLine("✗", message, Pink)
}

// WarningLine creates a warning status line
func WarningLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  WARN: %s", message)
	}
	return StatusLine("!", message, Copper)
}

// InfoLine creates an info status line
func InfoLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  %s", message)
	}
	return StatusLine("→", message, Blue)
}

// DeleteLine marks an item scheduled for removal
func DeleteLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  - %s", message)
	}
	return StatusLine("−", message, Pink)
}

// AddLine marks an item scheduled for download
func AddLine(message string) string {
	if !IsTTY {
		return fmt.Sprintf("  + %s", message)
	}
	return StatusLine("+", message, Green)
}

// EmptyRegistry is shown when the catalog defines no skillsets
func EmptyRegistry(path string) string {
	if !IsTTY {
		return fmt.Sprintf("\n  (no skillsets)\n\n  Define skillsets in %s\n", path)
	}
	message := Muted.Render("No skillsets defined yet.")
	hint := lipgloss.NewStyle().Foreground(Cyan).Render(path)
	return fmt.Sprintf("\n  %s\n  Add them to %s\n", message, hint)
}

// ═══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ═══════════════════════════════════════════════════════════════════════════════

// WrapText wraps text into lines no wider than maxWidth
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range words {
		if currentLine.Len() == 0 {
			currentLine.WriteString(word)
		} else if currentLine.Len()+1+len(word) <= maxWidth {
			currentLine.WriteString(" ")
			currentLine.WriteString(word)
		} else {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentLine.WriteString(word)
		}
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return lines
}

// Render applies a lipgloss style to text, returning plain text in non-TTY environments.
func Render(style lipgloss.Style, text string) string {
	if !IsTTY {
		return text
	}
	return style.Render(text)
}

// RenderMuted renders text in muted style (TTY-aware)
func RenderMuted(text string) string {
	return Render(Muted, text)
}

// RenderHighlight renders text in highlight style (TTY-aware)
func RenderHighlight(text string) string {
	return Render(Highlight, text)
}

// TerminalWidth returns the current terminal width, defaulting to 80 if unknown
func TerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// DescriptionWidth returns the recommended width for descriptions based on terminal size
func DescriptionWidth() int {
	desc := TerminalWidth() - 8
	if desc < 40 {
		return 40
	}
	return desc
}
