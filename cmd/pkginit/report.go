package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pkginit/internal/gen"
	"pkginit/internal/model"
)

var (
	changedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7a89"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
	pathStyle      = lipgloss.NewStyle().Bold(true)
	summaryStyle   = lipgloss.NewStyle().Faint(true)
)

// renderReport prints one line per processed directory plus a summary.
func renderReport(results gen.Results) string {
	var b strings.Builder
	var changed, unchanged, skipped, failed int

	for _, res := range sortedResults(results) {
		label := displayPath(res.Path)
		switch {
		case res.Skipped:
			skipped++
			b.WriteString(skippedStyle.Render("skip   ") + " " + pathStyle.Render(label) + "\n")
		case res.Changed:
			changed++
			b.WriteString(changedStyle.Render("write  ") + " " + pathStyle.Render(label) + "\n")
		default:
			unchanged++
			b.WriteString(unchangedStyle.Render("ok     ") + " " + label + "\n")
		}
		for _, err := range res.Errors {
			failed++
			b.WriteString("        " + errorStyle.Render(err.Error()) + "\n")
		}
	}

	b.WriteString(summaryStyle.Render(fmt.Sprintf(
		"%d changed, %d unchanged, %d skipped, %d error(s)",
		changed, unchanged, skipped, failed)) + "\n")
	return b.String()
}

// renderPreview shows the full generated content for every changed
// directory, with the per-directory status lines of renderReport.
func renderPreview(results gen.Results) string {
	var b strings.Builder
	b.WriteString(renderReport(results))

	for _, res := range sortedResults(results) {
		if res.Skipped || !res.Changed {
			continue
		}
		b.WriteString("\n" + pathStyle.Render("--- "+displayPath(res.Path)+" ---") + "\n")
		b.WriteString(res.NewContent)
	}
	return b.String()
}

func sortedResults(results gen.Results) []model.ProcessingResult {
	paths := make([]string, 0, len(results))
	for p := range results {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]model.ProcessingResult, 0, len(paths))
	for _, p := range paths {
		out = append(out, results[p])
	}
	return out
}

func displayPath(p string) string {
	if p == "" {
		return "."
	}
	return p
}
