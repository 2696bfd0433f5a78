// Package viewstate holds the widget's UI state as an immutable value.
// Every transition returns a new State; callers keep the latest one.
package viewstate

import (
	"unicode/utf8"

	"github.com/genricoloni/sonowidget/internal/domain"
)

// MinSearchLength is the shortest query, in characters, that triggers a search
const MinSearchLength = 2

// Modal identifies which overlay is open
type Modal int

const (
	ModalNone Modal = iota
	ModalGroupManager
	ModalBrowser
)

// Tab is a music browser tab
type Tab int

const (
	TabFavorites Tab = iota
	TabPlaylists
	TabSearch
)

// Tabs lists browser tabs in display order
var Tabs = []Tab{TabFavorites, TabPlaylists, TabSearch}

func (t Tab) String() string {
	switch t {
	case TabPlaylists:
		return "Playlists"
	case TabSearch:
		return "Search"
	default:
		return "Favorites"
	}
}

// Next returns the tab after t, wrapping around
func (t Tab) Next() Tab {
	return Tabs[(int(t)+1)%len(Tabs)]
}

// State is the full UI state. The zero value is not usable, start from New.
type State struct {
	Collapsed bool
	Focused   bool
	expanded  map[string]struct{}

	Modal Modal
	// GroupZone is the coordinator room of the zone in the group manager
	GroupZone string

	BrowserTab        Tab
	BrowserTargetRoom string
	SearchQuery       string
	SearchResults     []domain.SearchResult
	SearchLoading     bool

	Position domain.Position

	Dragging  bool
	dragStart domain.Position
	anchorX   int
	anchorY   int
}

// New returns the initial state at the given position
func New(pos domain.Position) State {
	return State{
		expanded: map[string]struct{}{},
		Position: pos,
	}
}

// IsExpanded reports whether the zone card for room shows its Quick Play list
func (s State) IsExpanded(room string) bool {
	_, ok := s.expanded[room]
	return ok
}

// ExpandedCount returns the number of expanded zone cards
func (s State) ExpandedCount() int {
	return len(s.expanded)
}

func (s State) ToggleCollapse() State {
	s.Collapsed = !s.Collapsed
	return s
}

func (s State) ToggleFocus() State {
	s.Focused = !s.Focused
	return s
}

// ToggleZoneExpansion adds or removes room from the expanded set
func (s State) ToggleZoneExpansion(room string) State {
	next := make(map[string]struct{}, len(s.expanded)+1)
	for k := range s.expanded {
		next[k] = struct{}{}
	}
	if _, ok := next[room]; ok {
		delete(next, room)
	} else {
		next[room] = struct{}{}
	}
	s.expanded = next
	return s
}

// OpenGroupManager shows the group manager for the zone led by room,
// closing the browser first.
func (s State) OpenGroupManager(room string) State {
	if s.Modal == ModalBrowser {
		s = s.CloseBrowser()
	}
	s.Modal = ModalGroupManager
	s.GroupZone = room
	return s
}

func (s State) CloseGroupManager() State {
	if s.Modal == ModalGroupManager {
		s.Modal = ModalNone
	}
	s.GroupZone = ""
	return s
}

// OpenBrowser shows the music browser, closing the group manager first.
// Tab and target room are kept from the previous open.
func (s State) OpenBrowser() State {
	if s.Modal == ModalGroupManager {
		s = s.CloseGroupManager()
	}
	s.Modal = ModalBrowser
	return s
}

// CloseBrowser hides the browser and resets the search
func (s State) CloseBrowser() State {
	if s.Modal == ModalBrowser {
		s.Modal = ModalNone
	}
	s.SearchQuery = ""
	s.SearchResults = nil
	s.SearchLoading = false
	return s
}

// CloseModal closes whichever modal is open
func (s State) CloseModal() State {
	switch s.Modal {
	case ModalGroupManager:
		return s.CloseGroupManager()
	case ModalBrowser:
		return s.CloseBrowser()
	}
	return s
}

func (s State) SetBrowserTab(tab Tab) State {
	s.BrowserTab = tab
	return s
}

func (s State) SetTargetRoom(room string) State {
	s.BrowserTargetRoom = room
	return s
}

// SetSearchQuery stores q and reports whether a search should be issued for it.
// Queries below MinSearchLength clear any previous results.
func (s State) SetSearchQuery(q string) (State, bool) {
	s.SearchQuery = q
	if utf8.RuneCountInString(q) >= MinSearchLength {
		s.SearchLoading = true
		return s, true
	}
	s.SearchResults = nil
	s.SearchLoading = false
	return s, false
}

// SetSearchResults applies results for q. Results for any query other than
// the current one are stale and dropped.
func (s State) SetSearchResults(q string, results []domain.SearchResult) State {
	if q != s.SearchQuery {
		return s
	}
	s.SearchResults = results
	s.SearchLoading = false
	return s
}

// BeginDrag records the pointer anchor and the position it started from
func (s State) BeginDrag(x, y int) State {
	s.Dragging = true
	s.anchorX, s.anchorY = x, y
	s.dragStart = s.Position
	return s
}

// DragTo moves the panel with the pointer. The panel is anchored top-right,
// so moving right shrinks the right offset.
func (s State) DragTo(x, y int) State {
	if !s.Dragging {
		return s
	}
	s.Position = domain.Position{
		Top:   max(0, s.dragStart.Top+(y-s.anchorY)),
		Right: max(0, s.dragStart.Right-(x-s.anchorX)),
	}
	return s
}

// EndDrag finishes a drag and reports whether the position should be persisted
func (s State) EndDrag() (State, bool) {
	if !s.Dragging {
		return s, false
	}
	s.Dragging = false
	return s, true
}

func (s State) SetPosition(pos domain.Position) State {
	s.Position = domain.Position{Top: max(0, pos.Top), Right: max(0, pos.Right)}
	return s
}
