// Package snapshot turns raw poll output into validated domain records.
// Every function here is total: malformed input maps to a display state,
// never to an error or a panic.
package snapshot

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/genricoloni/sonowidget/internal/domain"
)

// NoMediaTitle is shown when a zone has nothing loaded
const NoMediaTitle = "No media"

var (
	lineInTitle  = regexp.MustCompile(`TITLE ([^|]+)`)
	lineInArtist = regexp.MustCompile(`ARTIST ([^|]+)`)
)

type envelope struct {
	Error     string            `json:"error"`
	Zones     []json.RawMessage `json:"zones"`
	Favorites json.RawMessage   `json:"favorites"`
	Playlists json.RawMessage   `json:"playlists"`
}

// Parse decodes one poll result. The returned snapshot is only meaningful
// when the status is StatusReady.
func Parse(raw []byte) (domain.Status, domain.Snapshot) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return domain.StatusOffline, domain.Snapshot{}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return domain.StatusStartingUp, domain.Snapshot{}
	}

	switch env.Error {
	case "":
	case domain.ErrorOffline:
		return domain.StatusOffline, domain.Snapshot{}
	case domain.ErrorNoSpeakers:
		return domain.StatusNoSpeakers, domain.Snapshot{}
	default:
		return domain.StatusStartingUp, domain.Snapshot{}
	}

	if len(env.Zones) == 0 {
		return domain.StatusNoSpeakers, domain.Snapshot{}
	}

	favorites, playlists := rawList(env.Favorites), rawList(env.Playlists)
	snap := domain.Snapshot{
		Zones:     make([]domain.Zone, 0, len(env.Zones)),
		Favorites: make([]domain.Favorite, 0, len(favorites)),
		Playlists: make([]domain.Playlist, 0, len(playlists)),
	}

	for _, rz := range env.Zones {
		if z, ok := parseZone(rz); ok {
			snap.Zones = append(snap.Zones, z)
		}
	}
	if len(snap.Zones) == 0 {
		return domain.StatusStartingUp, domain.Snapshot{}
	}

	for _, rf := range favorites {
		var f domain.Favorite
		if err := json.Unmarshal(rf, &f); err == nil && f.Title != "" {
			snap.Favorites = append(snap.Favorites, f)
		}
	}

	for _, rp := range playlists {
		if name, ok := parsePlaylist(rp); ok {
			snap.Playlists = append(snap.Playlists, name)
		}
	}

	return domain.StatusReady, snap
}

// rawList splits a JSON array into its elements. Anything else is an empty list.
func rawList(raw json.RawMessage) []json.RawMessage {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

// parseZone validates one zone and restores the coordinator-in-members invariant
func parseZone(raw json.RawMessage) (domain.Zone, bool) {
	var z domain.Zone
	if err := json.Unmarshal(raw, &z); err != nil {
		return domain.Zone{}, false
	}
	if z.Coordinator.RoomName == "" {
		return domain.Zone{}, false
	}

	found := false
	members := z.Members[:0]
	for _, m := range z.Members {
		if m.RoomName == "" {
			continue
		}
		if m.UUID == z.Coordinator.UUID {
			found = true
		}
		members = append(members, m)
	}
	if !found {
		coord := domain.SpeakerRef{RoomName: z.Coordinator.RoomName, UUID: z.Coordinator.UUID}
		members = append([]domain.SpeakerRef{coord}, members...)
	}
	z.Members = members

	if z.Coordinator.State.Volume < 0 {
		z.Coordinator.State.Volume = 0
	}
	if z.Coordinator.State.Volume > 100 {
		z.Coordinator.State.Volume = 100
	}
	return z, true
}

// parsePlaylist accepts a bare name or an object carrying a title/name
func parsePlaylist(raw json.RawMessage) (string, bool) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name, name != ""
	}
	var obj struct {
		Title string `json:"title"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	if obj.Title != "" {
		return obj.Title, true
	}
	return obj.Name, obj.Name != ""
}

// ParseTrack resolves title, artist and artwork from any of the track shapes
// the bridge produces: regular tracks, radio streams and line-in strings.
func ParseTrack(track *domain.TrackPayload) domain.ParsedTrack {
	if track == nil || (track.Title == "" && track.StationName == "") {
		return domain.ParsedTrack{Title: NoMediaTitle}
	}

	title := track.Title
	artist := track.Artist
	art := track.AbsoluteAlbumArtURI
	if art == "" {
		art = track.AlbumArtURI
	}

	if strings.Contains(title, "TYPE=SNG") {
		titleMatch := lineInTitle.FindStringSubmatch(title)
		artistMatch := lineInArtist.FindStringSubmatch(title)
		if titleMatch != nil {
			title = strings.TrimSpace(titleMatch[1])
		}
		if artistMatch != nil {
			artist = strings.TrimSpace(artistMatch[1])
		}
	}

	if track.Type == "radio" && track.StationName != "" {
		if title == "" || title == track.StationName {
			title = track.StationName
		}
		if artist == "" && track.StationName != title {
			artist = track.StationName
		}
	}

	return domain.ParsedTrack{Title: title, Artist: artist, AlbumArt: art}
}

// ParseSearchResults decodes a search response, dropping untitled items
func ParseSearchResults(raw []byte) []domain.SearchResult {
	var items []struct {
		Title       string `json:"title"`
		Name        string `json:"name"`
		Artist      string `json:"artist"`
		AlbumArtURI string `json:"albumArtUri"`
		ImageURL    string `json:"imageUrl"`
		URI         string `json:"uri"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(raw), &items); err != nil {
		return []domain.SearchResult{}
	}

	results := make([]domain.SearchResult, 0, len(items))
	for _, it := range items {
		title := it.Title
		if title == "" {
			title = it.Name
		}
		if title == "" {
			continue
		}
		art := it.AlbumArtURI
		if art == "" {
			art = it.ImageURL
		}
		results = append(results, domain.SearchResult{
			Title:  title,
			Artist: it.Artist,
			ArtURI: art,
			URI:    it.URI,
		})
	}
	return results
}
