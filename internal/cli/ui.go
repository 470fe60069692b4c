package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// uiOut receives status lines. Chart bytes written to stdout bypass it.
var uiOut io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // chart type names, spinner
	colorOK     = lipgloss.Color("35")  // success, cache hits
	colorWarn   = lipgloss.Color("220") // fallbacks, skipped work
	colorFail   = lipgloss.Color("167") // failed charts
	colorCmd    = lipgloss.Color("75")  // suggested commands
	colorValue  = lipgloss.Color("255") // paths, counts
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for headings such as the chart picker title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	// StyleValue for output paths and counts.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorWarn)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleChartType = lipgloss.NewStyle().Foreground(colorAccent)
	styleCacheHit  = lipgloss.NewStyle().Foreground(colorOK)
	styleDrawn     = lipgloss.NewStyle().Foreground(colorMuted)
	styleCommand   = lipgloss.NewStyle().Foreground(colorCmd)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	sep         = " · "
)

// =============================================================================
// Status Lines
// =============================================================================

func statusLine(icon string, style lipgloss.Style, msg string) {
	fmt.Fprintln(uiOut, style.Render(icon)+" "+msg)
}

func printSuccess(format string, args ...any) {
	statusLine(iconSuccess, styleIconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	statusLine(iconError, styleIconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusLine(iconWarning, styleIconWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusLine(iconInfo, styleIconInfo, fmt.Sprintf(format, args...))
}

// printOutput prints the path a chart, page or export was written to.
func printOutput(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// details prints a dim line of facts joined by a separator.
func details(parts ...string) {
	var b strings.Builder
	b.WriteString("  ")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(sep))
		}
		b.WriteString(p)
	}
	fmt.Fprintln(uiOut, b.String())
}

func recordCount(n int) string {
	if n == 1 {
		return "1 record"
	}
	return fmt.Sprintf("%d records", n)
}

// =============================================================================
// Chart Summaries
// =============================================================================

// printRendered reports a rendered chart. An empty chartType means the
// artifact came from the cache or the data was empty.
func printRendered(chartType string, n int, cached bool, path string) {
	label := chartType
	if label == "" {
		label = "chart"
	}
	printSuccess("Rendered %s", styleChartType.Render(label))

	var parts []string
	if n > 0 {
		parts = append(parts, StyleDim.Render(recordCount(n)))
	}
	if cached {
		parts = append(parts, styleCacheHit.Render("from cache"))
	} else {
		parts = append(parts, styleDrawn.Render("drawn"))
	}
	details(parts...)
	printOutput(path)
}

// printExported reports the records written by the export command.
func printExported(n int, format, path string) {
	printSuccess("Exported %s as %s", recordCount(n), format)
	printOutput(path)
}

// printPageWritten reports a page whose data-vis elements were drawn.
func printPageWritten(drawn, total int, path string) {
	if total == 0 {
		printInfo("No data-vis elements")
	} else {
		printSuccess("Drew %d of %d charts", drawn, total)
	}
	printOutput(path)
}

// printCacheCleared reports a cleared cache directory.
func printCacheCleared(n int, dir string) {
	printSuccess("Cleared %d cached responses and charts", n)
	details(StyleDim.Render(dir))
}

// printTypeHint suggests rendering with an explicit chart type.
func printTypeHint() {
	fmt.Fprintln(uiOut, StyleDim.Render("Force a chart type:")+" "+
		styleCommand.Render(appName+" render <source> --type <type>"))
}
