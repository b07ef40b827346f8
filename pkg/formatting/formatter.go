// Package formatting handles result formatting and output display
package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/gsettools/gset/pkg/backup"
	"github.com/gsettools/gset/pkg/settings"
)

// Color definitions for command output
var (
	// Status colors
	ValidColor   = color.New(color.BgGreen, color.FgBlack)
	InvalidColor = color.New(color.BgRed, color.FgWhite)

	// Detail color (dim light gray)
	DetailColor = color.New(color.Faint, color.FgWhite) // Dimmed light gray
)

// Shared styles for property and backup tables
var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Formatter handles formatting and displaying command results
type Formatter struct {
	colorMode string
	verbose   bool
}

// NewFormatter creates a new result formatter
func NewFormatter(colorMode string, verbose bool) *Formatter {
	return &Formatter{
		colorMode: colorMode,
		verbose:   verbose,
	}
}

// PrintValidation prints one "<name>....<status>" validation line, padded
// with dots to 79 columns. Invalid files also get an error detail line.
func (f *Formatter) PrintValidation(name string, err error) {
	shouldUseColor := f.shouldEnableColor()
	color.NoColor = !shouldUseColor

	if err == nil {
		f.printStatusLine(name, "Valid", ValidColor, shouldUseColor)
		return
	}

	f.printStatusLine(name, "Invalid", InvalidColor, shouldUseColor)
	if shouldUseColor {
		fmt.Printf("%s\n", DetailColor.Sprintf("- error: %v", err))
	} else {
		fmt.Printf("- error: %v\n", err)
	}
}

// printStatusLine prints a name and status joined by dot padding
func (f *Formatter) printStatusLine(name, status string, statusColor *color.Color, shouldUseColor bool) {
	totalWidth := 79
	dotsLength := max(totalWidth-len(name)-len(status),
		// Always have at least one dot
		1)
	dots := strings.Repeat(".", dotsLength)

	if shouldUseColor {
		fmt.Printf("%s%s%s\n", name, dots, statusColor.Sprint(status))
	} else {
		fmt.Printf("%s%s%s\n", name, dots, status)
	}
}

// PrintDetail prints a dimmed "- " detail line
func (f *Formatter) PrintDetail(format string, args ...any) {
	if f.shouldEnableColor() {
		fmt.Printf("%s\n", DetailColor.Sprintf("- "+format, args...))
	} else {
		fmt.Printf("- "+format+"\n", args...)
	}
}

// PrintVerboseDetail prints a detail line only in verbose mode
func (f *Formatter) PrintVerboseDetail(format string, args ...any) {
	if !f.verbose {
		return
	}
	f.PrintDetail(format, args...)
}

// shouldEnableColor determines if color output should be used based on the color mode setting
func (f *Formatter) shouldEnableColor() bool {
	switch f.colorMode {
	case "always":
		return true
	case "never":
		return false
	case "auto":
		// Check if stdout is a terminal
		return !color.NoColor // fatih/color package auto-detects terminals
	default:
		// Check if stdout is a terminal
		return !color.NoColor // fatih/color package auto-detects terminals
	}
}

// PropertyTable renders document properties as a bordered table in
// document order
func PropertyTable(props []settings.Property) string {
	rows := make([][]string, 0, len(props))
	for _, p := range props {
		rows = append(rows, []string{p.Name.Text(), p.Type.String(), p.FormatValue()})
	}
	return renderTable([]string{"KEY", "TYPE", "VALUE"}, rows)
}

// BackupTable renders backup entries as a bordered table, newest first
func BackupTable(entries []backup.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Created.Format(time.DateTime),
			formatAge(time.Since(e.Created)),
			e.Path,
		})
	}
	return renderTable([]string{"CREATED", "AGE", "PATH"}, rows)
}

// renderTable renders headers and rows with the shared table styles
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}

// formatAge renders an age compactly: sub-minute ages keep sub-second
// precision, longer ones round to minutes, hours, then days
func formatAge(duration time.Duration) string {
	// Convert to seconds for comparison
	seconds := duration.Seconds()

	switch {
	case seconds < 0.005: // Less than 5ms shows as 0s
		return "0s"
	case seconds < 1.0: // Less than 1s shows as milliseconds with 2 decimal places
		return fmt.Sprintf("%.2fs", seconds)
	case seconds < 60.0: // Less than 1 minute shows as seconds with 1 decimal place
		return fmt.Sprintf("%.1fs", seconds)
	case seconds < 3600.0: // Less than 1 hour shows minutes and seconds
		minutes := int(seconds) / 60
		remainingSeconds := int(seconds) % 60
		return fmt.Sprintf("%dm%ds", minutes, remainingSeconds)
	case seconds < 86400.0: // Less than 1 day shows hours and minutes
		hours := int(seconds) / 3600
		remainingMinutes := (int(seconds) % 3600) / 60
		return fmt.Sprintf("%dh%dm", hours, remainingMinutes)
	default: // 1 day or more shows whole days
		return fmt.Sprintf("%dd", int(seconds)/86400)
	}
}
