// Package derive computes display data from a snapshot and the view state.
// All functions are pure and never mutate their inputs.
package derive

import (
	"fmt"
	"slices"
	"strings"

	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/genricoloni/sonowidget/internal/snapshot"
	"github.com/genricoloni/sonowidget/internal/viewstate"
)

// QuickPlayLimit caps the favorites shown on an expanded zone card
const QuickPlayLimit = 10

// SortZones orders playing zones first, then by room name ignoring case
func SortZones(zones []domain.Zone) []domain.Zone {
	sorted := slices.Clone(zones)
	slices.SortStableFunc(sorted, func(a, b domain.Zone) int {
		ap, bp := a.IsPlaying(), b.IsPlaying()
		switch {
		case ap && !bp:
			return -1
		case !ap && bp:
			return 1
		}
		if c := strings.Compare(strings.ToLower(a.RoomName()), strings.ToLower(b.RoomName())); c != 0 {
			return c
		}
		return strings.Compare(a.RoomName(), b.RoomName())
	})
	return sorted
}

// GroupedRooms returns the members of zone other than its coordinator
func GroupedRooms(zone domain.Zone) []string {
	rooms := make([]string, 0, len(zone.Members))
	for _, m := range zone.Members {
		if m.UUID != zone.Coordinator.UUID {
			rooms = append(rooms, m.RoomName)
		}
	}
	return rooms
}

// AvailableSpeakers lists every room that could join zone's group
func AvailableSpeakers(zones []domain.Zone, zone domain.Zone) []string {
	exclude := map[string]struct{}{zone.RoomName(): {}}
	for _, r := range GroupedRooms(zone) {
		exclude[r] = struct{}{}
	}

	var rooms []string
	for _, z := range zones {
		for _, m := range z.Members {
			if _, skip := exclude[m.RoomName]; skip {
				continue
			}
			exclude[m.RoomName] = struct{}{}
			rooms = append(rooms, m.RoomName)
		}
	}
	return rooms
}

// PlayingCount returns the number of playing zones
func PlayingCount(zones []domain.Zone) int {
	n := 0
	for _, z := range zones {
		if z.IsPlaying() {
			n++
		}
	}
	return n
}

// NowPlaying returns the first playing zone in display order
func NowPlaying(zones []domain.Zone) (domain.Zone, bool) {
	for _, z := range SortZones(zones) {
		if z.IsPlaying() {
			return z, true
		}
	}
	return domain.Zone{}, false
}

// DefaultBrowseTarget picks the room new content plays to when none is chosen:
// the first playing zone, else the first zone, else "".
func DefaultBrowseTarget(zones []domain.Zone) string {
	if z, ok := NowPlaying(zones); ok {
		return z.RoomName()
	}
	sorted := SortZones(zones)
	if len(sorted) > 0 {
		return sorted[0].RoomName()
	}
	return ""
}

// BrowseTarget resolves the effective target room. A chosen room that has
// since disappeared falls back to the default.
func BrowseTarget(state viewstate.State, zones []domain.Zone) string {
	if state.BrowserTargetRoom != "" {
		if _, ok := FindZone(zones, state.BrowserTargetRoom); ok {
			return state.BrowserTargetRoom
		}
	}
	return DefaultBrowseTarget(zones)
}

// FindZone returns the zone coordinated by room
func FindZone(zones []domain.Zone, room string) (domain.Zone, bool) {
	for _, z := range zones {
		if z.RoomName() == room {
			return z, true
		}
	}
	return domain.Zone{}, false
}

// RoomOption is one entry of the browser's room picker
type RoomOption struct {
	Room  string
	Label string
}

// RoomOptions labels each zone by its coordinator, with a +n suffix for groups
func RoomOptions(zones []domain.Zone) []RoomOption {
	sorted := SortZones(zones)
	opts := make([]RoomOption, 0, len(sorted))
	for _, z := range sorted {
		label := z.RoomName()
		if n := len(z.Members); n > 1 {
			label = fmt.Sprintf("%s (+%d)", label, n-1)
		}
		opts = append(opts, RoomOption{Room: z.RoomName(), Label: label})
	}
	return opts
}

// QuickFavorites returns the favorites shown on an expanded card
func QuickFavorites(favs []domain.Favorite) []domain.Favorite {
	if len(favs) > QuickPlayLimit {
		return favs[:QuickPlayLimit:QuickPlayLimit]
	}
	return favs
}

// ZoneCard is everything the renderer needs for one zone
type ZoneCard struct {
	Room      string
	Playing   bool
	Muted     bool
	Volume    int
	Track     domain.ParsedTrack
	GroupSize int // members besides the coordinator
	Expanded  bool
	Favorites []domain.Favorite
}

// BuildZoneCards produces cards in display order
func BuildZoneCards(snap domain.Snapshot, state viewstate.State) []ZoneCard {
	sorted := SortZones(snap.Zones)
	cards := make([]ZoneCard, 0, len(sorted))
	for _, z := range sorted {
		st := z.Coordinator.State
		card := ZoneCard{
			Room:      z.RoomName(),
			Playing:   z.IsPlaying(),
			Muted:     st.Mute,
			Volume:    st.Volume,
			Track:     snapshot.ParseTrack(st.CurrentTrack),
			GroupSize: len(GroupedRooms(z)),
			Expanded:  state.IsExpanded(z.RoomName()),
		}
		if card.Expanded {
			card.Favorites = QuickFavorites(snap.Favorites)
		}
		cards = append(cards, card)
	}
	return cards
}

// GroupModal is the content of the group manager
type GroupModal struct {
	Coordinator string
	Grouped     []string
	Available   []string
}

// Size is the number of speakers in the group, coordinator included
func (g GroupModal) Size() int {
	return len(g.Grouped) + 1
}

// Rows lists grouped rooms followed by available rooms, the order the
// keyboard cursor walks them in
func (g GroupModal) Rows() []string {
	rows := make([]string, 0, len(g.Grouped)+len(g.Available))
	rows = append(rows, g.Grouped...)
	return append(rows, g.Available...)
}

// BuildGroupModal returns the group manager content, or false when the
// managed zone is gone from the snapshot.
func BuildGroupModal(snap domain.Snapshot, state viewstate.State) (GroupModal, bool) {
	if state.Modal != viewstate.ModalGroupManager {
		return GroupModal{}, false
	}
	zone, ok := FindZone(snap.Zones, state.GroupZone)
	if !ok {
		return GroupModal{}, false
	}
	return GroupModal{
		Coordinator: zone.RoomName(),
		Grouped:     GroupedRooms(zone),
		Available:   AvailableSpeakers(snap.Zones, zone),
	}, true
}

// BrowserItem is one selectable row of the music browser
type BrowserItem struct {
	Title  string
	Artist string
	ArtURI string
	// Value is what gets played: favorite or playlist name, or a URI
	Value string
}

// BrowserModal is the content of the music browser
type BrowserModal struct {
	Tab     viewstate.Tab
	Target  string
	Rooms   []RoomOption
	Items   []BrowserItem
	Query   string
	Loading bool
}

// Heading is the label above the item list
func (b BrowserModal) Heading() string {
	switch b.Tab {
	case viewstate.TabPlaylists:
		return fmt.Sprintf("Sonos Playlists (%d)", len(b.Items))
	case viewstate.TabSearch:
		switch {
		case b.Loading:
			return "Searching..."
		case len(b.Items) > 0:
			return fmt.Sprintf("Results (%d)", len(b.Items))
		default:
			return "Search your music services"
		}
	default:
		return fmt.Sprintf("Sonos Favorites (%d)", len(b.Items))
	}
}

// Empty is the placeholder shown when the tab has no items
func (b BrowserModal) Empty() string {
	switch b.Tab {
	case viewstate.TabFavorites:
		return "No favorites found. Add some in the Sonos app!"
	case viewstate.TabPlaylists:
		return "No playlists found. Create some in the Sonos app!"
	}
	return ""
}

// BuildBrowserModal returns the browser content for the active tab
func BuildBrowserModal(snap domain.Snapshot, state viewstate.State) (BrowserModal, bool) {
	if state.Modal != viewstate.ModalBrowser {
		return BrowserModal{}, false
	}

	m := BrowserModal{
		Tab:     state.BrowserTab,
		Target:  BrowseTarget(state, snap.Zones),
		Rooms:   RoomOptions(snap.Zones),
		Query:   state.SearchQuery,
		Loading: state.SearchLoading,
	}

	switch state.BrowserTab {
	case viewstate.TabFavorites:
		for _, f := range snap.Favorites {
			m.Items = append(m.Items, BrowserItem{Title: f.Title, ArtURI: f.AlbumArtURI, Value: f.Title})
		}
	case viewstate.TabPlaylists:
		for _, p := range snap.Playlists {
			m.Items = append(m.Items, BrowserItem{Title: p, Value: p})
		}
	case viewstate.TabSearch:
		for _, r := range state.SearchResults {
			// Results without a URI cannot be played
			if r.URI == "" {
				continue
			}
			m.Items = append(m.Items, BrowserItem{Title: r.Title, Artist: r.Artist, ArtURI: r.ArtURI, Value: r.URI})
		}
	}
	return m, true
}

// NextRoom cycles the target room through the picker by delta steps
func NextRoom(rooms []RoomOption, current string, delta int) string {
	if len(rooms) == 0 {
		return ""
	}
	idx := 0
	for i, r := range rooms {
		if r.Room == current {
			idx = i
			break
		}
	}
	n := len(rooms)
	return rooms[((idx+delta)%n+n)%n].Room
}
