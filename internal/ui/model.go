// Package ui wires terminal input to the view state and the bridge.
package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/sonowidget/internal/bridge"
	"github.com/genricoloni/sonowidget/internal/derive"
	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/genricoloni/sonowidget/internal/render"
	"github.com/genricoloni/sonowidget/internal/snapshot"
	"github.com/genricoloni/sonowidget/internal/viewstate"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"
)

// ArtLoader draws cached thumbnails and loads missing ones in the background
type ArtLoader interface {
	render.ArtSource
	Load(url string) tea.Cmd
}

// Deps are the collaborators of the model. Any of them may be nil in tests.
type Deps struct {
	Logger     *zap.Logger
	Bridge     domain.Bridge
	Launcher   domain.Launcher
	Positions  domain.PositionStore
	Art        ArtLoader
	Events     <-chan domain.PollResult
	VolumeStep int
}

// Model is the bubbletea model of the widget
type Model struct {
	logger     *zap.Logger
	bridge     domain.Bridge
	launcher   domain.Launcher
	positions  domain.PositionStore
	art        ArtLoader
	events     <-chan domain.PollResult
	volumeStep int

	zones *zone.Manager
	// hit returns the first of ids whose zone contains the mouse event
	hit func(ids []string, msg tea.MouseMsg) string

	status domain.Status
	snap   domain.Snapshot
	state  viewstate.State

	width, height int
	selected      int
	cursor        int

	search   textinput.Model
	spinner  spinner.Model
	spinning bool
	help     help.Model

	statusLine string
	statusSeq  int
}

// New creates the model at the restored panel position
func New(d Deps, pos domain.Position) Model {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Search albums..."
	ti.Prompt = "🔍 "
	ti.CharLimit = 100
	ti.Width = render.ModalWidth - 14

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	h := help.New()
	h.Width = render.PanelWidth - 4

	step := d.VolumeStep
	if step <= 0 {
		step = 5
	}

	m := Model{
		logger:     logger,
		bridge:     d.Bridge,
		launcher:   d.Launcher,
		positions:  d.Positions,
		art:        d.Art,
		events:     d.Events,
		volumeStep: step,
		zones:      zone.New(),
		status:     domain.StatusStartingUp,
		state:      viewstate.New(pos),
		search:     ti,
		spinner:    sp,
		spinning:   true,
		help:       h,
	}
	m.hit = zoneHit(m.zones)
	return m
}

// Position returns the current panel position
func (m Model) Position() domain.Position {
	return m.state.Position
}

// State returns the current view state
func (m Model) State() viewstate.State {
	return m.state
}

// Status returns the status of the latest poll result
func (m Model) Status() domain.Status {
	return m.status
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForPoll(m.events), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	if m.needsSpinner() && !m.spinning {
		m.spinning = true
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case PollMsg:
		return m.applyPoll(msg.Result)

	case pollClosedMsg:
		m.logger.Debug("Poll channel closed")
		return m, nil

	case CommandResultMsg:
		if msg.Result.Outcome == domain.OutcomeIgnored {
			return m.showStatus("command failed: " + actionName(msg.Result.Command.Action))
		}
		return m, nil

	case searchResultMsg:
		m.state = m.state.SetSearchResults(msg.query, msg.results)
		m.cursor = min(m.cursor, max(0, m.browserItemCount()-1))
		return m, nil

	case launchResultMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to start bridge", zap.Error(msg.err))
			return m.showStatus("start failed")
		}
		return m, nil

	case positionSavedMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to save position", zap.Error(msg.err))
		} else {
			m.logger.Debug("Position saved", zap.Int("top", msg.pos.Top), zap.Int("right", msg.pos.Right))
		}
		return m, nil

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusLine = ""
		}
		return m, nil

	case spinner.TickMsg:
		if !m.needsSpinner() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) needsSpinner() bool {
	return m.status == domain.StatusStartingUp || m.state.SearchLoading
}

// applyPoll stores a new snapshot and keeps cursors and modals consistent with it
func (m Model) applyPoll(res domain.PollResult) (Model, tea.Cmd) {
	prev, hadSelection := m.selectedZone()
	m.status, m.snap = snapshot.Parse(res.Raw)
	cmds := []tea.Cmd{waitForPoll(m.events)}

	// The selection follows its room when the sort order changes
	if hadSelection {
		if i, ok := m.zoneIndex(prev.RoomName()); ok {
			m.selected = i
		}
	}

	if m.state.Modal == viewstate.ModalGroupManager {
		if _, ok := derive.FindZone(m.snap.Zones, m.state.GroupZone); !ok {
			m.state = m.state.CloseGroupManager()
			m.cursor = 0
		}
	}

	m.selected = min(m.selected, max(0, len(m.snap.Zones)-1))
	m.cursor = min(m.cursor, max(0, m.modalRowCount()-1))

	if m.art != nil {
		for _, z := range m.snap.Zones {
			if url := snapshot.ParseTrack(z.Coordinator.State.CurrentTrack).AlbumArt; url != "" {
				cmds = append(cmds, m.art.Load(url))
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// sortedZones is the zone list in display order
func (m Model) sortedZones() []domain.Zone {
	return derive.SortZones(m.snap.Zones)
}

// zoneIndex returns the display position of the zone led by room
func (m Model) zoneIndex(room string) (int, bool) {
	for i, z := range m.sortedZones() {
		if z.RoomName() == room {
			return i, true
		}
	}
	return 0, false
}

func (m Model) selectedZone() (domain.Zone, bool) {
	zones := m.sortedZones()
	if m.selected < 0 || m.selected >= len(zones) {
		return domain.Zone{}, false
	}
	return zones[m.selected], true
}

func (m Model) ready() bool {
	return m.status == domain.StatusReady && len(m.snap.Zones) > 0
}

// modalVisible reports whether an open modal is on screen and owns input.
// Collapsing hides the modal without closing it.
func (m Model) modalVisible() bool {
	return m.ready() && !m.state.Collapsed && m.state.Modal != viewstate.ModalNone
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.modalVisible() {
		switch m.state.Modal {
		case viewstate.ModalBrowser:
			return m.handleBrowserKey(msg)
		case viewstate.ModalGroupManager:
			return m.handleGroupKey(msg)
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Start):
		return m.start()
	}

	if !m.ready() {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Collapse):
		m.state = m.state.ToggleCollapse()
	case key.Matches(msg, keys.Focus):
		m.state = m.state.ToggleFocus()
	case key.Matches(msg, keys.Browse):
		return m.openBrowser()
	case key.Matches(msg, keys.Up):
		m.selected = max(0, m.selected-1)
	case key.Matches(msg, keys.Down):
		m.selected = min(len(m.snap.Zones)-1, m.selected+1)
	case key.Matches(msg, keys.Group):
		return m.selectedAction(render.ActionGroup)
	case key.Matches(msg, keys.PlayPause):
		return m.selectedAction(render.ActionPlayPause)
	case key.Matches(msg, keys.Next):
		return m.selectedAction(render.ActionNext)
	case key.Matches(msg, keys.Previous):
		return m.selectedAction(render.ActionPrevious)
	case key.Matches(msg, keys.VolumeUp):
		return m.selectedAction(render.ActionVolUp)
	case key.Matches(msg, keys.VolumeDown):
		return m.selectedAction(render.ActionVolDown)
	case key.Matches(msg, keys.Mute):
		return m.selectedAction(render.ActionMute)
	case key.Matches(msg, keys.Expand):
		return m.selectedAction(render.ActionExpand)
	}
	return m, nil
}

func (m Model) selectedAction(a render.ZoneAction) (Model, tea.Cmd) {
	z, ok := m.selectedZone()
	if !ok {
		return m, nil
	}
	return m.zoneAction(z.RoomName(), a)
}

// zoneAction runs a card control for the zone led by room
func (m Model) zoneAction(room string, a render.ZoneAction) (Model, tea.Cmd) {
	z, ok := derive.FindZone(m.snap.Zones, room)
	if !ok {
		return m, nil
	}

	switch a {
	case render.ActionPlayPause:
		return m, m.send(bridge.PlayPause(room, z.IsPlaying()))
	case render.ActionPrevious:
		return m, m.send(bridge.Previous(room))
	case render.ActionNext:
		return m, m.send(bridge.Next(room))
	case render.ActionMute:
		return m, m.send(bridge.ToggleMute(room))
	case render.ActionVolDown:
		return m, m.send(bridge.VolumeDown(room, m.volumeStep))
	case render.ActionVolUp:
		return m, m.send(bridge.VolumeUp(room, m.volumeStep))
	case render.ActionExpand:
		m.state = m.state.ToggleZoneExpansion(room)
	case render.ActionGroup:
		m.state = m.state.OpenGroupManager(room)
		m.search.Blur()
		m.search.SetValue("")
		m.cursor = 0
	}
	return m, nil
}

func (m Model) start() (Model, tea.Cmd) {
	if m.status != domain.StatusOffline {
		return m, nil
	}
	m.logger.Info("Starting bridge on request")
	return m, m.launchCmd()
}

func (m Model) View() string {
	in := render.Input{
		Status:     m.status,
		Snapshot:   m.snap,
		State:      m.state,
		Width:      m.width,
		Height:     m.height,
		Marker:     m.zones,
		Spinner:    m.spinner.View(),
		Selected:   m.selected,
		Cursor:     m.cursor,
		SearchBox:  m.search.View(),
		StatusLine: m.statusLine,
		Help:       m.helpView(),
	}
	if m.art != nil {
		in.Art = m.art
	}
	return m.zones.Scan(render.Render(in))
}

func (m Model) helpView() string {
	bindings := keys.panelHelp()
	if m.status == domain.StatusOffline {
		bindings = keys.offlineHelp()
	}
	return m.help.ShortHelpView(bindings)
}
