package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/sonowidget/internal/bridge"
	"github.com/genricoloni/sonowidget/internal/derive"
	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/genricoloni/sonowidget/internal/render"
	"github.com/genricoloni/sonowidget/internal/viewstate"
	zone "github.com/lrstanley/bubblezone"
)

// zoneHit resolves clicks through the zones recorded by the last Scan
func zoneHit(manager *zone.Manager) func([]string, tea.MouseMsg) string {
	return func(ids []string, msg tea.MouseMsg) string {
		for _, id := range ids {
			if info := manager.Get(id); info != nil && info.InBounds(msg) {
				return id
			}
		}
		return ""
	}
}

// clickTarget is a clickable element of the current frame
type clickTarget struct {
	id     string
	action func(Model) (Model, tea.Cmd)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionMotion:
		// Motion is only honoured while a drag is in progress
		if m.state.Dragging {
			m.state = m.state.DragTo(msg.X, msg.Y)
		}
		return m, nil

	case tea.MouseActionRelease:
		var persist bool
		m.state, persist = m.state.EndDrag()
		if persist {
			return m, m.savePositionCmd(m.state.Position)
		}
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	targets := m.clickTargets()
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, t.id)
	}

	id := m.hit(ids, msg)
	if id == render.IDDrag {
		m.state = m.state.BeginDrag(msg.X, msg.Y)
		return m, nil
	}
	for _, t := range targets {
		if t.id == id {
			return t.action(m)
		}
	}
	return m, nil
}

// clickTargets lists what the current frame renders as clickable
func (m Model) clickTargets() []clickTarget {
	switch m.status {
	case domain.StatusOffline:
		return []clickTarget{{render.IDStart, Model.start}}
	case domain.StatusReady:
	default:
		return nil
	}
	if len(m.snap.Zones) == 0 {
		return nil
	}

	if !m.modalVisible() {
		return m.panelTargets()
	}

	switch m.state.Modal {
	case viewstate.ModalGroupManager:
		if g, ok := derive.BuildGroupModal(m.snap, m.state); ok {
			return m.groupTargets(g)
		}
	case viewstate.ModalBrowser:
		if b, ok := derive.BuildBrowserModal(m.snap, m.state); ok {
			return m.browserTargets(b)
		}
	}
	return m.panelTargets()
}

func (m Model) panelTargets() []clickTarget {
	targets := []clickTarget{
		{render.IDDrag, nil},
		{render.IDCollapse, func(m Model) (Model, tea.Cmd) {
			m.state = m.state.ToggleCollapse()
			return m, nil
		}},
		{render.IDFocus, func(m Model) (Model, tea.Cmd) {
			m.state = m.state.ToggleFocus()
			return m, nil
		}},
	}
	if m.state.Collapsed {
		return targets
	}

	targets = append(targets, clickTarget{render.IDBrowse, Model.openBrowser})

	for i, z := range m.sortedZones() {
		room := z.RoomName()
		for _, a := range render.ZoneActions {
			targets = append(targets, clickTarget{render.ZoneID(room, a), func(m Model) (Model, tea.Cmd) {
				m.selected = i
				return m.zoneAction(room, a)
			}})
		}
		if !m.state.IsExpanded(room) {
			continue
		}
		for j, f := range derive.QuickFavorites(m.snap.Favorites) {
			targets = append(targets, clickTarget{render.QuickPlayID(room, j), func(m Model) (Model, tea.Cmd) {
				return m, m.send(bridge.PlayFavorite(room, f.Title))
			}})
		}
	}
	return targets
}

func (m Model) groupTargets(g derive.GroupModal) []clickTarget {
	targets := []clickTarget{
		{render.IDModalClose, Model.closeModal},
		{render.IDAddAll, Model.addAll},
	}
	if len(g.Grouped) > 0 {
		targets = append(targets, clickTarget{render.IDUngroupAll, Model.ungroupAll})
	}
	for i, room := range g.Rows() {
		targets = append(targets, clickTarget{render.GroupRowID(room), func(m Model) (Model, tea.Cmd) {
			m.cursor = i
			return m.toggleMember(room)
		}})
	}
	return targets
}

func (m Model) browserTargets(b derive.BrowserModal) []clickTarget {
	targets := []clickTarget{
		{render.IDModalClose, Model.closeModal},
		{render.IDRoomPrev, func(m Model) (Model, tea.Cmd) { return m.cycleRoom(-1) }},
		{render.IDRoomNext, func(m Model) (Model, tea.Cmd) { return m.cycleRoom(1) }},
	}
	for _, tab := range viewstate.Tabs {
		targets = append(targets, clickTarget{render.TabID(tab), func(m Model) (Model, tea.Cmd) {
			return m.setTab(tab)
		}})
	}
	if b.Tab == viewstate.TabSearch {
		targets = append(targets, clickTarget{render.IDSearchBox, func(m Model) (Model, tea.Cmd) {
			cmd := m.search.Focus()
			return m, cmd
		}})
	}
	for i := range b.Items {
		targets = append(targets, clickTarget{render.ItemID(i), func(m Model) (Model, tea.Cmd) {
			return m.playItem(i)
		}})
	}
	return targets
}
