package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/sonowidget/internal/domain"
)

const (
	statusLineDuration = 3 * time.Second
	saveTimeout        = 2 * time.Second
)

// waitForPoll blocks on the poller channel for the next result
func waitForPoll(events <-chan domain.PollResult) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		res, ok := <-events
		if !ok {
			return pollClosedMsg{}
		}
		return PollMsg{Result: res}
	}
}

// send dispatches commands concurrently, one message per result
func (m Model) send(cmds ...domain.Command) tea.Cmd {
	if m.bridge == nil || len(cmds) == 0 {
		return nil
	}
	b := m.bridge

	batch := make([]tea.Cmd, 0, len(cmds))
	for _, c := range cmds {
		batch = append(batch, func() tea.Msg {
			return CommandResultMsg{Result: b.Do(context.Background(), c)}
		})
	}
	return tea.Batch(batch...)
}

func (m Model) searchCmd(query string) tea.Cmd {
	if m.bridge == nil {
		return nil
	}
	b := m.bridge
	return func() tea.Msg {
		return searchResultMsg{query: query, results: b.Search(context.Background(), query)}
	}
}

func (m Model) launchCmd() tea.Cmd {
	if m.launcher == nil {
		return nil
	}
	l := m.launcher
	return func() tea.Msg {
		return launchResultMsg{err: l.Launch(context.Background())}
	}
}

func (m Model) savePositionCmd(pos domain.Position) tea.Cmd {
	if m.positions == nil {
		return nil
	}
	s := m.positions
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return positionSavedMsg{pos: pos, err: s.SavePosition(ctx, pos)}
	}
}

// showStatus sets the transient status line and schedules its removal
func (m Model) showStatus(text string) (Model, tea.Cmd) {
	m.statusSeq++
	m.statusLine = text
	seq := m.statusSeq
	return m, tea.Tick(statusLineDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// actionName is the command verb without its arguments, e.g. "volume"
func actionName(action string) string {
	name, _, _ := strings.Cut(action, "/")
	return name
}
