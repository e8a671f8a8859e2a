package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/matrix-datasets/internal/config"
	"github.com/handiism/matrix-datasets/internal/loader"
)

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_ToggleOptions(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})

	if !m.includeUnknown || !m.catalog {
		t.Errorf("includeUnknown = %v, catalog = %v, want both true", m.includeUnknown, m.catalog)
	}
	if !strings.Contains(m.View(), "[x] Include unknown formats") {
		t.Error("view should show the include-unknown option as checked")
	}
}

func TestModel_EnterIgnoresEmptyInput(t *testing.T) {
	m := NewModel(config.DefaultSettings())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateInput {
		t.Errorf("state = %v, want StateInput", m.state)
	}
}

func TestModel_ScanError(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m.state = StateScanning

	m = update(t, m, ScanDoneMsg{Err: loader.ErrNoDatasets})
	if m.state != StateError || !errors.Is(m.err, loader.ErrNoDatasets) {
		t.Fatalf("state = %v, err = %v", m.state, m.err)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.state != StateInput || m.err != nil {
		t.Errorf("reset should return to input, got state %v err %v", m.state, m.err)
	}
}

func TestModel_ProgressLogs(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m.state = StateScanning

	m = update(t, m, ProgressMsg{Event: loader.ProgressEvent{Message: "hidden", Level: loader.LevelVerbose}})
	for i := 0; i < maxLogs+3; i++ {
		m = update(t, m, ProgressMsg{Event: loader.ProgressEvent{Message: "found", Level: loader.LevelInfo}})
	}

	if len(m.logs) != maxLogs {
		t.Errorf("kept %d logs, want %d", len(m.logs), maxLogs)
	}
	if strings.Contains(m.View(), "hidden") {
		t.Error("verbose messages should be hidden unless verbose is on")
	}
}

func TestModel_DownloadDone(t *testing.T) {
	m := NewModel(config.DefaultSettings())
	m.state = StateDownloading
	m.datasets = []string{"web [market, remote]"}

	m = update(t, m, DownloadDoneMsg{Received: 2 << 20, Files: 1, TotalF: 1})
	if m.state != StateComplete {
		t.Fatalf("state = %v, want StateComplete", m.state)
	}
	if !strings.Contains(m.View(), "Datasets: 1") {
		t.Error("completion view should show dataset count")
	}
}

func TestForwardEvent_FullBuffer(t *testing.T) {
	events := make(chan loader.ProgressEvent, 1)
	events <- loader.ProgressEvent{Message: "first"}
	send := forwardEvent(context.Background(), events)

	// Verbose events never wait for the UI
	send(loader.ProgressEvent{Message: "noise", Level: loader.LevelVerbose})

	done := make(chan struct{})
	go func() {
		send(loader.ProgressEvent{Message: "boom", Level: loader.LevelError})
		close(done)
	}()

	if got := <-events; got.Message != "first" {
		t.Fatalf("first event = %q, want %q", got.Message, "first")
	}
	select {
	case got := <-events:
		if got.Message != "boom" || got.Level != loader.LevelError {
			t.Errorf("delivered %+v, want the error event", got)
		}
	case <-time.After(time.Second):
		t.Fatal("error event was not delivered")
	}
	<-done
}

func TestForwardEvent_Cancelled(t *testing.T) {
	events := make(chan loader.ProgressEvent, 1)
	events <- loader.ProgressEvent{Message: "first"}
	ctx, cancel := context.WithCancel(context.Background())
	send := forwardEvent(ctx, events)

	done := make(chan struct{})
	go func() {
		send(loader.ProgressEvent{Message: "late", Level: loader.LevelWarning})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("send blocked after cancellation")
	}
	if len(events) != 1 {
		t.Errorf("buffer holds %d events, want 1", len(events))
	}
}
