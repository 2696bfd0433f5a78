package ui

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/genricoloni/sonowidget/internal/bridge"
	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/genricoloni/sonowidget/internal/domain/mocks"
	"github.com/genricoloni/sonowidget/internal/render"
	"github.com/genricoloni/sonowidget/internal/viewstate"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

// householdJSON is a ready poll result: Living Room plays and leads Kitchen,
// Office is idle on its own
func householdJSON(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"zones": []any{
			map[string]any{
				"uuid": "RINCON_B",
				"coordinator": map[string]any{
					"roomName": "Office",
					"uuid":     "RINCON_B",
					"state":    map[string]any{"volume": 12, "playbackState": "STOPPED"},
				},
				"members": []any{map[string]any{"roomName": "Office", "uuid": "RINCON_B"}},
			},
			map[string]any{
				"uuid": "RINCON_A",
				"coordinator": map[string]any{
					"roomName": "Living Room",
					"uuid":     "RINCON_A",
					"state": map[string]any{
						"volume":        30,
						"playbackState": "PLAYING",
						"currentTrack":  map[string]any{"title": "Heroes", "artist": "David Bowie"},
					},
				},
				"members": []any{
					map[string]any{"roomName": "Living Room", "uuid": "RINCON_A"},
					map[string]any{"roomName": "Kitchen", "uuid": "RINCON_C"},
				},
			},
		},
		"favorites": []any{map[string]any{"title": "Discover Weekly"}, "Jazz & Blues"},
		"playlists": []any{"Road Trip"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

type testDeps struct {
	bridge    *mocks.MockBridge
	launcher  *mocks.MockLauncher
	positions *mocks.MockPositionStore
}

func newTestModel(t *testing.T, raw []byte) (Model, testDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	d := testDeps{
		bridge:    mocks.NewMockBridge(ctrl),
		launcher:  mocks.NewMockLauncher(ctrl),
		positions: mocks.NewMockPositionStore(ctrl),
	}
	m := New(Deps{
		Logger:     zap.NewNop(),
		Bridge:     d.bridge,
		Launcher:   d.launcher,
		Positions:  d.positions,
		VolumeStep: 5,
	}, domain.DefaultPosition)

	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if raw != nil {
		m, _ = update(m, PollMsg{Result: domain.PollResult{Raw: raw, At: time.Now()}})
	}
	return m, d
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = update(m, keyPress(k))
	}
	return m, cmd
}

// collect runs cmd and returns the messages it produces, expanding batches.
// Commands that do not return promptly are timers and are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// expectCommands registers each command as the next bridge call
func expectCommands(d testDeps, cmds ...domain.Command) {
	for _, c := range cmds {
		d.bridge.EXPECT().Do(gomock.Any(), c).
			Return(domain.CommandResult{Command: c, Outcome: domain.OutcomeSent})
	}
}

func TestModel_PollStatus(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		status   domain.Status
		contains string
	}{
		{"Offline", []byte(`{"error":"offline"}`), domain.StatusOffline, "Sonos Offline"},
		{"No Speakers", []byte(`{"error":"no-speakers"}`), domain.StatusNoSpeakers, "No speakers found"},
		{"Malformed", []byte(`{"zones":`), domain.StatusStartingUp, "Starting up..."},
		{"Ready", nil, domain.StatusReady, "Sonos (2 zones)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := tt.raw
			if raw == nil {
				raw = householdJSON(t)
			}
			m, _ := newTestModel(t, raw)

			if m.Status() != tt.status {
				t.Errorf("expected status %v, got %v", tt.status, m.Status())
			}
			if view := m.View(); !strings.Contains(view, tt.contains) {
				t.Errorf("expected view to contain %q, got:\n%s", tt.contains, view)
			}
		})
	}
}

func TestModel_StartsUpBeforeFirstPoll(t *testing.T) {
	m, _ := newTestModel(t, nil)

	if m.Status() != domain.StatusStartingUp {
		t.Errorf("expected starting-up before the first poll, got %v", m.Status())
	}
	if !m.needsSpinner() {
		t.Error("expected the spinner while starting up")
	}
}

func TestModel_TransportKeys(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected domain.Command
	}{
		// Living Room sorts first because it is playing
		{"Pause Playing Zone", []string{"space"}, bridge.Pause("Living Room")},
		{"Play Idle Zone", []string{"down", "space"}, bridge.Play("Office")},
		{"Next", []string{"n"}, bridge.Next("Living Room")},
		{"Previous", []string{"p"}, bridge.Previous("Living Room")},
		{"Volume Up", []string{"+"}, bridge.VolumeUp("Living Room", 5)},
		{"Volume Down", []string{"down", "-"}, bridge.VolumeDown("Office", 5)},
		{"Mute", []string{"m"}, bridge.ToggleMute("Living Room")},
		{"Selection Clamps", []string{"down", "down", "down", "up", "up", "up", "n"}, bridge.Next("Living Room")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, d := newTestModel(t, householdJSON(t))
			expectCommands(d, tt.expected)

			_, cmd := press(m, tt.keys...)
			msgs := collect(cmd)
			if len(msgs) != 1 {
				t.Fatalf("expected 1 message, got %d", len(msgs))
			}
			res, ok := msgs[0].(CommandResultMsg)
			if !ok || res.Result.Command != tt.expected {
				t.Errorf("unexpected message %+v", msgs[0])
			}
		})
	}
}

func TestModel_SelectionFollowsRoom(t *testing.T) {
	m, d := newTestModel(t, householdJSON(t))
	m, _ = press(m, "down")

	// Office starts playing and Living Room stops, so the sort order flips
	swapped := strings.NewReplacer("PLAYING", "STOPPED", "STOPPED", "PLAYING").
		Replace(string(householdJSON(t)))
	m, _ = update(m, PollMsg{Result: domain.PollResult{Raw: []byte(swapped), At: time.Now()}})

	if z, ok := m.selectedZone(); !ok || z.RoomName() != "Office" {
		t.Fatalf("expected Office to stay selected, got %q", z.RoomName())
	}

	expectCommands(d, bridge.Next("Office"))
	_, cmd := press(m, "n")
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if res, ok := msgs[0].(CommandResultMsg); !ok || res.Result.Command != bridge.Next("Office") {
		t.Errorf("unexpected message %+v", msgs[0])
	}
}

func TestModel_PanelToggles(t *testing.T) {
	m, _ := newTestModel(t, householdJSON(t))

	m, _ = press(m, "c")
	if !m.State().Collapsed {
		t.Fatal("expected collapsed")
	}
	if view := m.View(); !strings.Contains(view, "Heroes") {
		t.Errorf("expected collapsed bar to show now playing, got:\n%s", view)
	}

	m, _ = press(m, "c", "f", "e")
	if m.State().Collapsed || !m.State().Focused {
		t.Errorf("unexpected state %+v", m.State())
	}
	if !m.State().IsExpanded("Living Room") {
		t.Error("expected Living Room to be expanded")
	}
	if view := m.View(); !strings.Contains(view, "Quick Play") {
		t.Errorf("expected Quick Play list, got:\n%s", view)
	}
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			m, _ := newTestModel(t, householdJSON(t))
			_, cmd := press(m, k)
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
		})
	}
}

func TestModel_CommandFailureShowsStatus(t *testing.T) {
	m, _ := newTestModel(t, householdJSON(t))

	failed := CommandResultMsg{Result: domain.CommandResult{
		Command: bridge.VolumeUp("Office", 5),
		Outcome: domain.OutcomeIgnored,
		Err:     errors.New("bridge unreachable"),
	}}

	m, cmd := update(m, failed)
	if cmd == nil {
		t.Fatal("expected a timer to clear the status line")
	}
	if view := m.View(); !strings.Contains(view, "command failed: volume") {
		t.Errorf("expected status line, got:\n%s", view)
	}

	// A second failure restarts the timer, so the first expiry is stale
	m, _ = update(m, failed)
	m, _ = update(m, clearStatusMsg{seq: m.statusSeq - 1})
	if m.statusLine == "" {
		t.Error("stale expiry cleared the status line")
	}

	m, _ = update(m, clearStatusMsg{seq: m.statusSeq})
	if m.statusLine != "" {
		t.Errorf("expected status line cleared, got %q", m.statusLine)
	}

	// Sent and skipped outcomes are silent
	m, _ = update(m, CommandResultMsg{Result: domain.CommandResult{Outcome: domain.OutcomeSkipped}})
	if m.statusLine != "" {
		t.Errorf("expected no status line, got %q", m.statusLine)
	}
}

func TestModel_GroupManager(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected []domain.Command
	}{
		{"Remove Grouped Room", []string{"g", "enter"}, []domain.Command{bridge.LeaveGroup("Kitchen")}},
		{"Add Available Room", []string{"g", "down", "enter"}, []domain.Command{bridge.JoinGroup("Office", "Living Room")}},
		{"Add All", []string{"g", "A"}, []domain.Command{bridge.JoinGroup("Office", "Living Room")}},
		{"Ungroup All", []string{"g", "U"}, []domain.Command{bridge.LeaveGroup("Kitchen")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, d := newTestModel(t, householdJSON(t))
			expectCommands(d, tt.expected...)

			m, cmd := press(m, tt.keys...)
			if m.State().Modal != viewstate.ModalGroupManager {
				t.Fatalf("expected group manager to stay open")
			}
			if msgs := collect(cmd); len(msgs) != len(tt.expected) {
				t.Errorf("expected %d results, got %d", len(tt.expected), len(msgs))
			}
		})
	}
}

func TestModel_GroupManagerView(t *testing.T) {
	m, _ := newTestModel(t, householdJSON(t))

	m, _ = press(m, "g")
	view := m.View()
	for _, want := range []string{"Group: Living Room", "Current Group (2 speakers)", "Available Speakers", "Ungroup All"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in:\n%s", want, view)
		}
	}

	m, _ = press(m, "esc")
	if m.State().Modal != viewstate.ModalNone {
		t.Error("expected esc to close the group manager")
	}
}

func TestModel_CollapsedModalReleasesInput(t *testing.T) {
	m, d := newTestModel(t, householdJSON(t))
	m, _ = press(m, "g")
	m.state = m.state.ToggleCollapse()

	expectCommands(d, bridge.Next("Living Room"))
	m, cmd := press(m, "n")
	if msgs := collect(cmd); len(msgs) != 1 {
		t.Fatalf("expected the panel shortcut to run, got %d messages", len(msgs))
	}
	if m.State().Modal != viewstate.ModalGroupManager {
		t.Error("expected the group manager to stay open while hidden")
	}
	if strings.Contains(m.View(), "Group: Living Room") {
		t.Error("expected the collapsed panel to hide the modal")
	}
}

func TestModel_GroupManagerClosesWhenZoneVanishes(t *testing.T) {
	m, _ := newTestModel(t, householdJSON(t))
	m, _ = press(m, "g")

	officeOnly := []byte(`{"zones":[{"uuid":"RINCON_B","coordinator":{"roomName":"Office","uuid":"RINCON_B","state":{}},"members":[]}]}`)
	m, _ = update(m, PollMsg{Result: domain.PollResult{Raw: officeOnly}})

	if m.State().Modal != viewstate.ModalNone {
		t.Errorf("expected group manager closed, got modal %v", m.State().Modal)
	}
}

func TestModel_BrowserPlaysItems(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected domain.Command
	}{
		{"Favorite To Playing Room", []string{"b", "enter"}, bridge.PlayFavorite("Living Room", "Discover Weekly")},
		{"Second Favorite", []string{"b", "down", "enter"}, bridge.PlayFavorite("Living Room", "Jazz & Blues")},
		{"Favorite To Next Room", []string{"b", "]", "enter"}, bridge.PlayFavorite("Office", "Discover Weekly")},
		{"Room Picker Wraps", []string{"b", "[", "[", "enter"}, bridge.PlayFavorite("Living Room", "Discover Weekly")},
		{"Playlist", []string{"b", "tab", "enter"}, bridge.PlayPlaylist("Living Room", "Road Trip")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, d := newTestModel(t, householdJSON(t))
			expectCommands(d, tt.expected)

			m, cmd := press(m, tt.keys...)
			if m.State().Modal != viewstate.ModalNone {
				t.Error("expected browser to close after playing")
			}
			if msgs := collect(cmd); len(msgs) != 1 {
				t.Errorf("expected 1 result, got %d", len(msgs))
			}
		})
	}
}

func TestModel_BrowserSearch(t *testing.T) {
	m, d := newTestModel(t, householdJSON(t))

	results := []domain.SearchResult{
		{Title: "OK Computer", Artist: "Radiohead", URI: "spotify:album:okc"},
		{Title: "No URI"},
		{Title: "Kid A", Artist: "Radiohead", URI: "spotify:album:kida"},
	}
	d.bridge.EXPECT().Search(gomock.Any(), "ra").Return(results)

	m, _ = press(m, "b", "tab", "tab")
	if m.State().BrowserTab != viewstate.TabSearch {
		t.Fatalf("expected search tab, got %v", m.State().BrowserTab)
	}

	// One character is below the search threshold
	m, cmd := press(m, "r")
	for _, msg := range collect(cmd) {
		if _, ok := msg.(searchResultMsg); ok {
			t.Fatal("searched for a one-character query")
		}
	}

	m, cmd = press(m, "a")
	if !m.State().SearchLoading {
		t.Error("expected loading state while searching")
	}
	for _, msg := range collect(cmd) {
		if res, ok := msg.(searchResultMsg); ok {
			m, _ = update(m, res)
		}
	}
	if m.State().SearchLoading || len(m.State().SearchResults) != 3 {
		t.Fatalf("expected results applied, got %+v", m.State())
	}
	if view := m.View(); !strings.Contains(view, "Results (2)") {
		t.Errorf("expected playable results heading, got:\n%s", view)
	}

	// Stale results for an older query are dropped
	m, _ = update(m, searchResultMsg{query: "r", results: nil})
	if len(m.State().SearchResults) != 3 {
		t.Error("stale results replaced current ones")
	}

	expectCommands(d, bridge.PlayURI("Living Room", "spotify:album:kida"))
	m, cmd = press(m, "down", "enter")
	if len(collect(cmd)) != 1 {
		t.Error("expected the result to be played")
	}
	if m.State().Modal != viewstate.ModalNone || m.State().SearchQuery != "" {
		t.Errorf("expected browser closed and search reset, got %+v", m.State())
	}
}

func TestModel_BrowserTypingDoesNotTriggerShortcuts(t *testing.T) {
	m, d := newTestModel(t, householdJSON(t))
	d.bridge.EXPECT().Search(gomock.Any(), "nq").Return(nil).AnyTimes()

	m, cmd := press(m, "b", "tab", "tab", "n", "q")
	for _, msg := range collect(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			t.Fatal("q quit while typing a search")
		}
	}
	if m.State().SearchQuery != "nq" {
		t.Errorf("expected query %q, got %q", "nq", m.State().SearchQuery)
	}
}

func TestModel_BrowserEmptyList(t *testing.T) {
	m, _ := newTestModel(t, householdJSON(t))

	// Without favorites there is nothing to play, enter is a no-op
	m.snap.Favorites = nil
	m, cmd := press(m, "b", "enter")
	if cmd != nil {
		t.Error("expected no command")
	}
	if m.State().Modal != viewstate.ModalBrowser {
		t.Error("expected browser to stay open")
	}
}

func TestModel_StartKey(t *testing.T) {
	t.Run("Offline Launches", func(t *testing.T) {
		m, d := newTestModel(t, []byte(`{"error":"offline"}`))
		d.launcher.EXPECT().Launch(gomock.Any()).Return(nil)

		_, cmd := press(m, "s")
		msgs := collect(cmd)
		if len(msgs) != 1 {
			t.Fatalf("expected launch result, got %d messages", len(msgs))
		}
	})

	t.Run("Launch Failure Is Reported", func(t *testing.T) {
		m, d := newTestModel(t, []byte(`{"error":"offline"}`))
		d.launcher.EXPECT().Launch(gomock.Any()).Return(errors.New("no start command"))

		m, cmd := press(m, "s")
		for _, msg := range collect(cmd) {
			m, _ = update(m, msg)
		}
		if m.statusLine != "start failed" {
			t.Errorf("expected status line, got %q", m.statusLine)
		}
	})

	t.Run("Ready Ignores Start", func(t *testing.T) {
		m, _ := newTestModel(t, householdJSON(t))
		if _, cmd := press(m, "s"); cmd != nil {
			t.Error("expected no launch while the bridge is up")
		}
	})
}

// withHit makes every mouse event land on id
func withHit(m Model, id string) Model {
	m.hit = func(ids []string, _ tea.MouseMsg) string {
		for _, candidate := range ids {
			if candidate == id {
				return id
			}
		}
		return ""
	}
	return m
}

func click(m Model, id string) (Model, tea.Cmd) {
	m = withHit(m, id)
	return update(m, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func TestModel_Clicks(t *testing.T) {
	tests := []struct {
		name     string
		setup    []string
		id       string
		expected domain.Command
	}{
		{"Play Idle Zone", nil, render.ZoneID("Office", render.ActionPlayPause), bridge.Play("Office")},
		{"Volume Up", nil, render.ZoneID("Living Room", render.ActionVolUp), bridge.VolumeUp("Living Room", 5)},
		{"Quick Play", []string{"e"}, render.QuickPlayID("Living Room", 1), bridge.PlayFavorite("Living Room", "Jazz & Blues")},
		{"Browser Item", []string{"b"}, render.ItemID(1), bridge.PlayFavorite("Living Room", "Jazz & Blues")},
		{"Group Row", []string{"g"}, render.GroupRowID("Office"), bridge.JoinGroup("Office", "Living Room")},
		{"Ungroup All", []string{"g"}, render.IDUngroupAll, bridge.LeaveGroup("Kitchen")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, d := newTestModel(t, householdJSON(t))
			expectCommands(d, tt.expected)

			m, _ = press(m, tt.setup...)
			_, cmd := click(m, tt.id)
			if len(collect(cmd)) != 1 {
				t.Error("expected one command result")
			}
		})
	}
}

func TestModel_ClickOnlyHitsRenderedElements(t *testing.T) {
	m, _ := newTestModel(t, householdJSON(t))

	// Quick Play is not rendered until the card is expanded
	if _, cmd := click(m, render.QuickPlayID("Living Room", 0)); cmd != nil {
		t.Error("expected no command for a hidden element")
	}

	// Zone controls are hidden behind an open modal
	m, _ = press(m, "b")
	if _, cmd := click(m, render.ZoneID("Office", render.ActionNext)); cmd != nil {
		t.Error("expected no command behind the modal")
	}
}

func TestModel_ClickPanelButtons(t *testing.T) {
	m, _ := newTestModel(t, householdJSON(t))

	m, _ = click(m, render.IDBrowse)
	if m.State().Modal != viewstate.ModalBrowser {
		t.Fatal("expected browser open")
	}
	m, _ = click(m, render.TabID(viewstate.TabPlaylists))
	if m.State().BrowserTab != viewstate.TabPlaylists {
		t.Error("expected playlists tab")
	}
	m, _ = click(m, render.IDRoomNext)
	if m.State().BrowserTargetRoom != "Office" {
		t.Errorf("expected Office target, got %q", m.State().BrowserTargetRoom)
	}
	m, _ = click(m, render.IDModalClose)
	if m.State().Modal != viewstate.ModalNone {
		t.Error("expected browser closed")
	}

	m, _ = click(m, render.ZoneID("Office", render.ActionGroup))
	if m.State().Modal != viewstate.ModalGroupManager || m.State().GroupZone != "Office" {
		t.Errorf("expected group manager for Office, got %+v", m.State())
	}
	m, _ = press(m, "esc")

	m, _ = click(m, render.IDFocus)
	m, _ = click(m, render.IDCollapse)
	if !m.State().Focused || !m.State().Collapsed {
		t.Errorf("unexpected state %+v", m.State())
	}
}

func TestModel_ClickStartWhenOffline(t *testing.T) {
	m, d := newTestModel(t, []byte(`{"error":"offline"}`))
	d.launcher.EXPECT().Launch(gomock.Any()).Return(nil)

	_, cmd := click(m, render.IDStart)
	if len(collect(cmd)) != 1 {
		t.Error("expected launch result")
	}
}

func TestModel_Drag(t *testing.T) {
	m, d := newTestModel(t, householdJSON(t))
	d.positions.EXPECT().SavePosition(gomock.Any(), domain.Position{Top: 4, Right: 7}).Return(nil)

	// Motion without a drag is ignored
	m, _ = update(m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	if m.Position() != domain.DefaultPosition {
		t.Fatalf("motion moved the panel: %+v", m.Position())
	}

	m = withHit(m, render.IDDrag)
	m, _ = update(m, tea.MouseMsg{X: 50, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.State().Dragging {
		t.Fatal("expected drag to begin on the handle")
	}

	m, _ = update(m, tea.MouseMsg{X: 45, Y: 8, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if want := (domain.Position{Top: 4, Right: 7}); m.Position() != want {
		t.Errorf("expected %+v, got %+v", want, m.Position())
	}

	m, cmd := update(m, tea.MouseMsg{X: 45, Y: 8, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.State().Dragging {
		t.Error("expected drag to end")
	}
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected position save, got %d messages", len(msgs))
	}
	if saved, ok := msgs[0].(positionSavedMsg); !ok || saved.err != nil {
		t.Errorf("unexpected message %+v", msgs[0])
	}

	// A release without a drag does not save again
	if _, cmd := update(m, tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}); cmd != nil {
		t.Error("expected no save without a drag")
	}
}
