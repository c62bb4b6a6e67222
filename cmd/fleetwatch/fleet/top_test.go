// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fleet

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/fleetwatch/lib/schema/telemetry"
)

func goodSnapshot() topSnapshot {
	return topSnapshot{
		stats: &telemetry.Stats{
			TotalEvents:       2,
			TotalApplications: 1,
			EventsBySeverity:  map[string]int{"critical": 1, "low": 1},
		},
		events: []telemetry.Event{
			{EventType: "privilege_escalation", Severity: telemetry.SeverityCritical, Timestamp: epoch, EventID: "0f8e3c1a-6c4f-4e55-9f3a-2b1f0d9e8c7b"},
			{EventType: "rate_limit_exceeded", Severity: telemetry.SeverityLow, Timestamp: epoch},
		},
		fetchedAt: epoch,
	}
}

func TestTopInitFetches(t *testing.T) {
	calls := 0
	model := newTopModel("http://collector:8000", time.Second, func() topSnapshot {
		calls++
		return goodSnapshot()
	})

	command := model.Init()
	if command == nil {
		t.Fatal("expected Init to return a refresh command")
	}
	message := command()
	if calls != 1 {
		t.Fatalf("expected one fetch, got %d", calls)
	}
	if _, ok := message.(topSnapshot); !ok {
		t.Fatalf("expected topSnapshot message, got %T", message)
	}
}

func TestTopSnapshotSchedulesNextRefresh(t *testing.T) {
	model := newTopModel("http://collector:8000", time.Second, goodSnapshot)

	updated, command := model.Update(goodSnapshot())
	if command == nil {
		t.Fatal("expected a tick command after a snapshot")
	}
	view := updated.View()
	for _, want := range []string{"Events: 2 across 1 applications", "privilege_escalation", "0f8e3c1a", "updated 2026-03-01 12:00:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}

	// The tick message turns into the next fetch.
	_, command = updated.Update(refreshTickMsg(epoch))
	if command == nil {
		t.Fatal("expected a refresh command after a tick")
	}
	if _, ok := command().(topSnapshot); !ok {
		t.Fatal("expected refresh command to produce a snapshot")
	}
}

func TestTopKeepsLastGoodSnapshotOnError(t *testing.T) {
	model := newTopModel("http://collector:8000", time.Second, goodSnapshot)
	updated, _ := model.Update(goodSnapshot())
	updated, command := updated.Update(topSnapshot{err: errors.New("connection refused")})
	if command == nil {
		t.Fatal("expected refreshes to continue after an error")
	}

	view := updated.View()
	if !strings.Contains(view, "connection refused") {
		t.Errorf("expected error in view:\n%s", view)
	}
	if !strings.Contains(view, "privilege_escalation") {
		t.Errorf("expected last good events to stay visible:\n%s", view)
	}
}

func TestTopViewBeforeFirstSnapshot(t *testing.T) {
	model := newTopModel("http://collector:8000", time.Second, goodSnapshot)
	if view := model.View(); !strings.Contains(view, "connecting...") {
		t.Errorf("expected connecting placeholder, got:\n%s", view)
	}

	updated, _ := model.Update(topSnapshot{err: errors.New("forbidden")})
	view := updated.View()
	if strings.Contains(view, "connecting...") || !strings.Contains(view, "forbidden") {
		t.Errorf("expected only the error before any good snapshot:\n%s", view)
	}
}

func TestTopQuitKeys(t *testing.T) {
	model := newTopModel("http://collector:8000", time.Second, goodSnapshot)
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, command := model.Update(key)
		if command == nil {
			t.Fatalf("expected quit command for %q", key.String())
		}
		if _, ok := command().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg for %q", key.String())
		}
	}

	_, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if command != nil {
		t.Error("expected other keys to be ignored")
	}
}
