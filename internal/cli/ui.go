package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal: headings, spinner
	colorOK     = lipgloss.Color("35")  // green: success, cache hits
	colorFail   = lipgloss.Color("167") // soft red: errors
	colorValue  = lipgloss.Color("255") // white: values and paths
	colorLabel  = lipgloss.Color("245") // gray: keys, fresh renders
	colorDim    = lipgloss.Color("240") // dim gray: details
)

var (
	// StyleTitle renders section headings such as "Top drivers".
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders values, addresses and file paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey         = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleHit         = lipgloss.NewStyle().Foreground(colorOK)
	styleMiss        = lipgloss.NewStyle().Foreground(colorLabel)
)

// status marks prefix one-line messages.
var (
	markOK   = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
	markFail = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	markInfo = lipgloss.NewStyle().Foreground(colorLabel).Render("›")
	markFile = StyleDim.Render("→")
)

// =============================================================================
// Output
// =============================================================================

func printStatus(mark, format string, args ...any) {
	fmt.Println(mark + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printStatus(markOK, format, args...) }

func printError(format string, args ...any) { printStatus(markFail, format, args...) }

func printInfo(format string, args ...any) { printStatus(markInfo, format, args...) }

// printDetail prints an indented, dimmed line under a status message.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written artifact.
func printFile(path string) {
	fmt.Println("  " + markFile + " " + StyleValue.Render(path))
}

func printHeading(title string) {
	fmt.Println(StyleTitle.Render(title))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func printNewline() {
	fmt.Println()
}

// printStats prints the row count and whether the artifacts came from the
// cache, e.g. "1,204 rows · cached".
func printStats(rows int, cached bool) {
	var parts []string
	if rows > 0 {
		parts = append(parts, StyleDim.Render(humanize.Comma(int64(rows))+" rows"))
	}
	if cached {
		parts = append(parts, styleHit.Render("cached"))
	} else {
		parts = append(parts, styleMiss.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}
