package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/glow/pkg/pipeline"
)

// stdout receives command results. Logs and the spinner go elsewhere.
var stdout io.Writer = os.Stdout

// Palette shared with the data source picker and the spinner.
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings such as the picker title.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)

	// StyleHighlight renders values picked out of a sentence, like a cron
	// schedule.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)

	// StyleLink renders the address of the served site.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue renders paths and other values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorAmber)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleWarning     = lipgloss.NewStyle().Foreground(colorAmber)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// maxListed is how many incomplete pages are named before the rest are
// summarised as a count.
const maxListed = 10

func emit(s string) { fmt.Fprintln(stdout, s) }

func printSuccess(format string, args ...any) {
	emit(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	emit(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	emit(styleIconWarning.Render(iconWarning) + " " + styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	emit(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	emit("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file or directory.
func printFile(path string) {
	emit("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	emit(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// printResult summarises a compile run: page count, failures and duration
// on one line, then the names of the data sources or events that need
// attention.
func printResult(title string, res *pipeline.Result) {
	printSuccess("%s", title)

	status := styleIconSuccess.Render("complete")
	if n := len(res.Failed); n > 0 {
		status = styleWarning.Render(fmt.Sprintf("%d incomplete", n))
	}
	sep := StyleDim.Render(" · ")
	emit("  " + StyleDim.Render(fmt.Sprintf("%d pages", len(res.Pages))) + sep + status + sep +
		StyleDim.Render(res.Duration.Round(time.Millisecond).String()))

	printFailed("Incomplete", res.Failed)
}

// printFailed warns about each name, listing at most maxListed.
func printFailed(label string, names []string) {
	for i, name := range names {
		if i == maxListed {
			printWarning("%s: %d more", label, len(names)-maxListed)
			return
		}
		printWarning("%s: %s", label, name)
	}
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	emit(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { emit("") }
