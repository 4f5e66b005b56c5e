// Package report renders decisions and audit events for terminals and
// pipelines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/ragfw/ragfw/internal/audit"
	"github.com/ragfw/ragfw/internal/types"
)

type PrintOptions struct {
	NoColor bool
}

// Row is one decided document.
type Row struct {
	Source   string          `json:"source"`
	Decision types.Decision  `json:"decision"`
	Findings []types.Finding `json:"findings"`
}

var (
	styleDeny   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleAllow  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleHigh   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleMedium = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleLow    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// PrintTable writes one table row per document followed by a summary line.
func PrintTable(w io.Writer, rows []Row, opts PrintOptions) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No documents")
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("Source", "Decision", "Score", "Policy", "Findings")
	for _, r := range rows {
		if err := table.Append(
			r.Source,
			colorAction(r.Decision.Action, opts.NoColor),
			fmt.Sprintf("%.3f", r.Decision.Score),
			r.Decision.Policy,
			summarizeFindings(r.Findings, opts.NoColor),
		); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	PrintSummary(w, rows)
	return nil
}

// PrintText writes one plain line per document.
func PrintText(w io.Writer, rows []Row, opts PrintOptions) {
	for _, r := range rows {
		fmt.Fprintf(w, "%-6s %.3f %s", colorAction(r.Decision.Action, opts.NoColor), r.Decision.Score, r.Source)
		if len(r.Decision.Reasons) > 0 {
			fmt.Fprintf(w, "  [%s]", strings.Join(r.Decision.Reasons, ", "))
		}
		fmt.Fprintln(w)
	}
	PrintSummary(w, rows)
}

// PrintSummary writes the count of documents that were not denied.
func PrintSummary(w io.Writer, rows []Row) {
	safe := 0
	for _, r := range rows {
		if !r.Decision.Denied() {
			safe++
		}
	}
	fmt.Fprintf(w, "Safe docs: %d / %d\n", safe, len(rows))
}

// PrintAudit renders audit events as a table, oldest first.
func PrintAudit(w io.Writer, events []audit.Event, opts PrintOptions) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No audit events")
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("Time", "Decision", "Score", "Policy", "Reasons", "Hash")
	for _, ev := range events {
		if err := table.Append(
			ev.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			colorAction(ev.Decision, opts.NoColor),
			fmt.Sprintf("%.3f", ev.Score),
			ev.Policy,
			strings.Join(ev.Reasons, ", "),
			shortHash(ev.ContentHash),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteJSON pretty-prints v for pipelines.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func summarizeFindings(fs []types.Finding, noColor bool) string {
	if len(fs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		label := f.Scanner + ":" + f.Match
		if f.Severity != "" {
			label += " (" + colorSeverity(f.Severity, noColor) + ")"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "\n")
}

func shortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:12]
}

func colorAction(a types.Action, noColor bool) string {
	if noColor {
		return string(a)
	}
	if a == types.ActionDeny {
		return styleDeny.Render(string(a))
	}
	return styleAllow.Render(string(a))
}

func colorSeverity(s types.Severity, noColor bool) string {
	if noColor {
		return string(s)
	}
	switch s {
	case types.SevHigh, types.SevCritical:
		return styleHigh.Render(string(s))
	case types.SevMed:
		return styleMedium.Render(string(s))
	default:
		return styleLow.Render(string(s))
	}
}
