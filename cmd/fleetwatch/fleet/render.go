// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	severityColors = map[telemetry.Severity]lipgloss.Color{
		telemetry.SeverityCritical: lipgloss.Color("9"),
		telemetry.SeverityHigh:     lipgloss.Color("208"),
		telemetry.SeverityMedium:   lipgloss.Color("11"),
		telemetry.SeverityLow:      lipgloss.Color("10"),
		telemetry.SeverityUnknown:  lipgloss.Color("8"),
	}

	// severityOrder lists severities most urgent first.
	severityOrder = []telemetry.Severity{
		telemetry.SeverityCritical,
		telemetry.SeverityHigh,
		telemetry.SeverityMedium,
		telemetry.SeverityLow,
		telemetry.SeverityUnknown,
	}
)

func renderSeverity(severity telemetry.Severity) string {
	style := lipgloss.NewStyle().Bold(severity == telemetry.SeverityCritical)
	if color, ok := severityColors[severity]; ok {
		style = style.Foreground(color)
	}
	return style.Render(string(severity))
}

func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

// applicationsTable renders registrations one per row, in the order
// given.
func applicationsTable(applications []telemetry.Registration) string {
	if len(applications) == 0 {
		return mutedStyle.Render("no registered applications")
	}
	rows := make([][]string, 0, len(applications))
	for _, application := range applications {
		rows = append(rows, []string{
			application.InstanceID,
			application.AppName,
			string(application.AppType),
			orDash(application.Namespace),
			application.PodName,
			orDash(application.Version),
			formatTime(application.RegisteredAt),
		})
	}
	return renderTable(
		[]string{"INSTANCE", "APP", "TYPE", "NAMESPACE", "POD", "VERSION", "REGISTERED"},
		rows,
	)
}

// eventsTable renders events one per row, in the order given.
func eventsTable(events []telemetry.Event) string {
	if len(events) == 0 {
		return mutedStyle.Render("no events")
	}
	rows := make([][]string, 0, len(events))
	for _, event := range events {
		rows = append(rows, []string{
			formatTime(event.Timestamp),
			renderSeverity(event.Severity),
			event.EventType,
			orDash(event.Field(telemetry.FieldAppName)),
			orDash(event.Field(telemetry.FieldPodName)),
			shortID(event.EventID),
		})
	}
	return renderTable([]string{"TIME", "SEVERITY", "TYPE", "APP", "POD", "EVENT"}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return orDash(id)
}

// statsSummary is the one-block headline of a stats report.
func statsSummary(stats *telemetry.Stats) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s %d across %d applications",
		titleStyle.Render("Events:"), stats.TotalEvents, stats.TotalApplications)
	if stats.EvictedEvents > 0 {
		fmt.Fprintf(&builder, " %s", mutedStyle.Render(fmt.Sprintf("(%d evicted)", stats.EvictedEvents)))
	}
	builder.WriteString("\n")

	severities := make([]string, 0, len(severityOrder))
	for _, severity := range severityOrder {
		count := stats.EventsBySeverity[string(severity)]
		if count == 0 && severity == telemetry.SeverityUnknown {
			continue
		}
		severities = append(severities, renderSeverity(severity)+" "+strconv.Itoa(count))
	}
	builder.WriteString(strings.Join(severities, "  "))
	return builder.String()
}

// statsView renders the full stats report: the summary plus one count
// table per breakdown.
func statsView(stats *telemetry.Stats) string {
	sections := []string{statsSummary(stats)}
	for _, breakdown := range []struct {
		title  string
		header string
		counts map[string]int
	}{
		{"Events by type", "EVENT TYPE", stats.EventsByType},
		{"Events by application", "APPLICATION", stats.EventsByApplication},
		{"Applications by type", "APP TYPE", stats.ApplicationsByType},
	} {
		sections = append(sections, titleStyle.Render(breakdown.title)+"\n"+countsTable(breakdown.header, breakdown.counts))
	}
	sections = append(sections, mutedStyle.Render("generated "+formatTime(stats.GeneratedAt)))
	return strings.Join(sections, "\n\n")
}

// countsTable renders name/count pairs, highest count first and then by
// name.
func countsTable(header string, counts map[string]int) string {
	if len(counts) == 0 {
		return mutedStyle.Render("none")
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if byCount := cmp.Compare(counts[b], counts[a]); byCount != 0 {
			return byCount
		}
		return cmp.Compare(a, b)
	})
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(counts[name])})
	}
	return renderTable([]string{header, "COUNT"}, rows)
}
