// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/muhamm-ad/rpasign/internal/ingest"
	"github.com/muhamm-ad/rpasign/internal/model"
)

var (
	// PrimaryColor is the main theme color (signage blue).
	PrimaryColor = lipgloss.Color("#2F6FDE")
	// SuccessColor marks authorized parking and completed operations.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor marks skipped fragments.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor marks prohibitions and failures.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#95E1D3")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)

	// LabelStyle pads field labels into a column.
	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(12)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	SignIcon    = "🅿️"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the sign icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(SignIcon + " " + title)
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
}

func orDash(s string) string {
	if s == "" {
		return SubtleStyle.Render("-")
	}
	return s
}

func joinStrings[T fmt.Stringer](items []T) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, ", ")
}

// RenderRule renders one compiled rule as labelled lines.
func RenderRule(index int, rule model.SignRule) string {
	status := SuccessStyle.Render("parking authorized")
	if !rule.ParkingAuthorized() {
		status = ErrorStyle.Render("no parking")
	}

	lines := []string{
		BoldStyle.Render(fmt.Sprintf("Rule %d", index+1)) + "  " + status,
		field("durations", orDash(joinStrings(rule.Durations()))),
		field("times", orDash(joinStrings(rule.DailyTimeRanges()))),
		field("days", orDash(rule.WeeklyDays().String())),
		field("months", orDash(joinStrings(rule.AnnualMonthRanges()))),
	}
	if md, ok := rule.Metadata(); ok {
		lines = append(lines, field("metadata", InfoStyle.Render(md)))
	}

	return strings.Join(lines, "\n")
}

// RenderSignDesc renders a description, its rules and any skipped fragments.
func RenderSignDesc(desc *model.SignDesc) string {
	title := "Sign"
	if desc.Code != "" {
		title += " " + desc.Code
	}

	sections := []string{
		field("raw", desc.RawText),
		field("cleaned", SubtleStyle.Render(desc.CleanedText)),
	}
	for i, rule := range desc.Rules {
		sections = append(sections, "", RenderRule(i, rule))
	}
	for _, f := range desc.Failures {
		sections = append(sections, "", FormatWarning(fmt.Sprintf("skipped fragment %d %q: %s", f.Index, f.Fragment, f.Reason)))
	}

	return RenderBox(title, strings.Join(sections, "\n"))
}

// RenderSignRow renders a one-line listing entry.
func RenderSignRow(desc *model.SignDesc) string {
	row := fmt.Sprintf("%-12s %2d rule(s)  %s", desc.Code, len(desc.Rules), desc.RawText)
	if len(desc.Failures) > 0 {
		row += "  " + WarningStyle.Render(fmt.Sprintf("[%d skipped]", len(desc.Failures)))
	}
	return row
}

// RenderCompileSummary renders batch statistics.
func RenderCompileSummary(summary *ingest.CompileSummary) string {
	lines := []string{
		field("records", fmt.Sprint(summary.TotalRecords)),
		field("compiled", SuccessStyle.Render(fmt.Sprint(summary.Compiled))),
		field("failed", failedCount(summary.Failed)),
		field("rules", fmt.Sprint(summary.TotalRules)),
		field("skipped", fmt.Sprint(summary.FragmentFailures)),
		field("elapsed", summary.ProcessingTime.Round(time.Millisecond).String()),
	}
	return RenderBox("Import summary", strings.Join(lines, "\n"))
}

func failedCount(n int) string {
	if n == 0 {
		return fmt.Sprint(n)
	}
	return ErrorStyle.Render(fmt.Sprint(n))
}
