package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/sonowidget/internal/bridge"
	"github.com/genricoloni/sonowidget/internal/derive"
	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/genricoloni/sonowidget/internal/viewstate"
)

func (m Model) openBrowser() (Model, tea.Cmd) {
	m.state = m.state.OpenBrowser()
	m.cursor = 0
	if m.state.BrowserTab == viewstate.TabSearch {
		cmd := m.search.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) closeModal() (Model, tea.Cmd) {
	m.state = m.state.CloseModal()
	m.search.Blur()
	m.search.SetValue("")
	m.cursor = 0
	return m, nil
}

func (m Model) setTab(tab viewstate.Tab) (Model, tea.Cmd) {
	m.state = m.state.SetBrowserTab(tab)
	m.cursor = 0
	if tab == viewstate.TabSearch {
		cmd := m.search.Focus()
		return m, cmd
	}
	m.search.Blur()
	return m, nil
}

func (m Model) cycleRoom(delta int) (Model, tea.Cmd) {
	current := derive.BrowseTarget(m.state, m.snap.Zones)
	m.state = m.state.SetTargetRoom(derive.NextRoom(derive.RoomOptions(m.snap.Zones), current, delta))
	return m, nil
}

func (m Model) browserItemCount() int {
	b, ok := derive.BuildBrowserModal(m.snap, m.state)
	if !ok {
		return 0
	}
	return len(b.Items)
}

// modalRowCount is the number of rows the modal cursor walks
func (m Model) modalRowCount() int {
	switch m.state.Modal {
	case viewstate.ModalBrowser:
		return m.browserItemCount()
	case viewstate.ModalGroupManager:
		if g, ok := derive.BuildGroupModal(m.snap, m.state); ok {
			return len(g.Rows())
		}
	}
	return 0
}

func (m Model) moveCursor(delta int) Model {
	n := m.modalRowCount()
	if n == 0 {
		m.cursor = 0
		return m
	}
	m.cursor = min(max(0, m.cursor+delta), n-1)
	return m
}

func (m Model) handleBrowserKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	searching := m.state.BrowserTab == viewstate.TabSearch

	switch {
	case key.Matches(msg, keys.Close):
		return m.closeModal()
	case key.Matches(msg, keys.NextTab):
		return m.setTab(m.state.BrowserTab.Next())
	case msg.Type == tea.KeyUp:
		return m.moveCursor(-1), nil
	case msg.Type == tea.KeyDown:
		return m.moveCursor(1), nil
	case key.Matches(msg, keys.Select):
		return m.playItem(m.cursor)
	}

	if searching {
		return m.updateSearch(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		return m.moveCursor(-1), nil
	case key.Matches(msg, keys.Down):
		return m.moveCursor(1), nil
	case key.Matches(msg, keys.PrevRoom):
		return m.cycleRoom(-1)
	case key.Matches(msg, keys.NextRoom):
		return m.cycleRoom(1)
	}
	return m, nil
}

// updateSearch feeds a key to the search box and searches when the query changes
func (m Model) updateSearch(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	q := m.search.Value()
	if q == m.state.SearchQuery {
		return m, cmd
	}

	var issue bool
	m.state, issue = m.state.SetSearchQuery(q)
	m.cursor = 0
	if issue {
		cmd = tea.Batch(cmd, m.searchCmd(q))
	}
	return m, cmd
}

// playItem plays the i-th browser item to the browse target and closes the browser
func (m Model) playItem(i int) (Model, tea.Cmd) {
	b, ok := derive.BuildBrowserModal(m.snap, m.state)
	if !ok || i < 0 || i >= len(b.Items) || b.Target == "" {
		return m, nil
	}

	item := b.Items[i]
	var c domain.Command
	switch b.Tab {
	case viewstate.TabFavorites:
		c = bridge.PlayFavorite(b.Target, item.Value)
	case viewstate.TabPlaylists:
		c = bridge.PlayPlaylist(b.Target, item.Value)
	default:
		c = bridge.PlayURI(b.Target, item.Value)
	}

	m, _ = m.closeModal()
	return m, m.send(c)
}

func (m Model) handleGroupKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Close):
		return m.closeModal()
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		return m.moveCursor(-1), nil
	case key.Matches(msg, keys.Down):
		return m.moveCursor(1), nil
	case key.Matches(msg, keys.Select):
		g, ok := derive.BuildGroupModal(m.snap, m.state)
		if !ok {
			return m, nil
		}
		rows := g.Rows()
		if m.cursor >= len(rows) {
			return m, nil
		}
		return m.toggleMember(rows[m.cursor])
	case key.Matches(msg, keys.AddAll):
		return m.addAll()
	case key.Matches(msg, keys.UngroupAll):
		return m.ungroupAll()
	}
	return m, nil
}

// toggleMember removes room from the managed group or adds it
func (m Model) toggleMember(room string) (Model, tea.Cmd) {
	g, ok := derive.BuildGroupModal(m.snap, m.state)
	if !ok {
		return m, nil
	}
	for _, r := range g.Grouped {
		if r == room {
			return m, m.send(bridge.LeaveGroup(room))
		}
	}
	for _, r := range g.Available {
		if r == room {
			return m, m.send(bridge.JoinGroup(room, g.Coordinator))
		}
	}
	return m, nil
}

func (m Model) addAll() (Model, tea.Cmd) {
	g, ok := derive.BuildGroupModal(m.snap, m.state)
	if !ok {
		return m, nil
	}
	cmds := make([]domain.Command, 0, len(g.Available))
	for _, room := range g.Available {
		cmds = append(cmds, bridge.JoinGroup(room, g.Coordinator))
	}
	return m, m.send(cmds...)
}

func (m Model) ungroupAll() (Model, tea.Cmd) {
	g, ok := derive.BuildGroupModal(m.snap, m.state)
	if !ok {
		return m, nil
	}
	cmds := make([]domain.Command, 0, len(g.Grouped))
	for _, room := range g.Grouped {
		cmds = append(cmds, bridge.LeaveGroup(room))
	}
	return m, m.send(cmds...)
}
