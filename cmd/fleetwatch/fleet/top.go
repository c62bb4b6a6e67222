// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/fleetwatch/cmd/fleetwatch/cli"
	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

type topParams struct {
	CollectorConnection
	Interval time.Duration `json:"interval" flag:"interval" desc:"refresh interval" default:"2s"`
	Limit    int           `json:"limit" flag:"limit,n" desc:"number of recent events to show" default:"10"`
}

// TopCommand returns the "top" command.
func TopCommand() *cli.Command {
	var params topParams
	return &cli.Command{
		Name:    "top",
		Summary: "Live view of fleet statistics and recent events",
		Description: `Show a full-screen view of the collector's statistics and most recent
events, refreshed every --interval. Press q to quit.`,
		Usage: "fleetwatch top [flags]",
		Examples: []cli.Example{
			{Description: "Refresh every 5 seconds", Command: "fleetwatch top --interval 5s"},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Interval < 100*time.Millisecond {
				return cli.Validation("--interval must be at least 100ms, got %s", params.Interval)
			}
			if params.Limit < 1 {
				return cli.Validation("--limit must be at least 1, got %d", params.Limit)
			}

			client, err := params.connect()
			if err != nil {
				return err
			}
			fetch := func() topSnapshot {
				callCtx, cancel := params.callContext(ctx)
				defer cancel()

				stats, err := client.Stats(callCtx)
				if err != nil {
					return topSnapshot{err: params.classify(err, "fetching stats")}
				}
				events, err := client.Events(callCtx, telemetry.EventQuery{Limit: params.Limit})
				if err != nil {
					return topSnapshot{err: params.classify(err, "querying events")}
				}
				return topSnapshot{stats: stats, events: events.Events, fetchedAt: time.Now()}
			}

			model := newTopModel(params.Server, params.Interval, fetch)
			if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
				return cli.Internal("running top: %w", err)
			}
			return nil
		},
	}
}

// topSnapshot is one refresh of the collector's state. A failed
// refresh carries only err.
type topSnapshot struct {
	stats     *telemetry.Stats
	events    []telemetry.Event
	fetchedAt time.Time
	err       error
}

// refreshTickMsg triggers the next refresh.
type refreshTickMsg time.Time

// topModel is the bubbletea model behind "fleetwatch top". A refresh
// runs as a tea.Cmd; its result schedules the next one, so at most one
// fetch is in flight.
type topModel struct {
	server   string
	interval time.Duration
	fetch    func() topSnapshot

	snapshot topSnapshot

	// lastGood is the most recent successful snapshot, kept on screen
	// while the collector is failing.
	lastGood *topSnapshot
	width    int
}

func newTopModel(server string, interval time.Duration, fetch func() topSnapshot) topModel {
	return topModel{server: server, interval: interval, fetch: fetch}
}

func (m topModel) refresh() tea.Msg {
	return m.fetch()
}

func (m topModel) Init() tea.Cmd {
	return m.refresh
}

func (m topModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case topSnapshot:
		m.snapshot = msg
		if msg.err == nil {
			good := msg
			m.lastGood = &good
		}
		return m, tea.Tick(m.interval, func(t time.Time) tea.Msg {
			return refreshTickMsg(t)
		})
	case refreshTickMsg:
		return m, m.refresh
	}
	return m, nil
}

func (m topModel) View() string {
	var builder strings.Builder
	builder.WriteString(titleStyle.Render("fleetwatch top"))
	builder.WriteString(mutedStyle.Render(fmt.Sprintf("  %s  every %s  q to quit", m.server, m.interval)))
	builder.WriteString("\n\n")

	if m.snapshot.err != nil {
		builder.WriteString(errorStyle.Render("error: "))
		builder.WriteString(m.snapshot.err.Error())
		builder.WriteString("\n\n")
	}

	if m.lastGood == nil {
		if m.snapshot.err == nil {
			builder.WriteString(mutedStyle.Render("connecting..."))
		}
		return m.fit(builder.String())
	}

	builder.WriteString(statsSummary(m.lastGood.stats))
	builder.WriteString("\n\n")
	builder.WriteString(titleStyle.Render("Recent events"))
	builder.WriteString("\n")
	builder.WriteString(eventsTable(m.lastGood.events))
	builder.WriteString("\n")
	builder.WriteString(mutedStyle.Render("updated " + formatTime(m.lastGood.fetchedAt)))
	return m.fit(builder.String())
}

// fit clips the view to the terminal width once it is known.
func (m topModel) fit(view string) string {
	if m.width <= 0 {
		return view
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(view)
}
