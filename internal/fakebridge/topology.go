package fakebridge

import (
	"github.com/genricoloni/sonowidget/internal/domain"
)

type speaker struct {
	room     string
	uuid     string
	volume   int
	mute     bool
	state    domain.PlaybackState
	track    *domain.TrackPayload
	trackIdx int
}

// demoTracks is the queue every speaker cycles through on next/previous
var demoTracks = []domain.TrackPayload{
	{
		Type:                "track",
		Title:               "Heroes",
		Artist:              "David Bowie",
		Album:               "Heroes",
		AbsoluteAlbumArtURI: "https://i.scdn.co/image/ab67616d0000b273heroes",
	},
	{
		Type:   "track",
		Title:  "So What",
		Artist: "Miles Davis",
		Album:  "Kind of Blue",
	},
	{
		Type:        "radio",
		Title:       "Morning Jazz",
		StationName: "Jazz24",
	},
}

// seed builds the demo household: two grouped rooms playing and an idle office
func seed() ([]*speaker, map[string]string) {
	first := demoTracks[0]
	speakers := []*speaker{
		{room: "Living Room", uuid: "RINCON_000E58A1B2C301400", volume: 32, state: domain.StatePlaying, track: &first},
		{room: "Kitchen", uuid: "RINCON_000E58A1B2C401400", volume: 18, state: domain.StatePlaying, track: &first},
		{room: "Office", uuid: "RINCON_000E58A1B2C501400", volume: 12, state: domain.StateStopped},
	}
	coordinators := map[string]string{
		"Living Room": "Living Room",
		"Kitchen":     "Living Room",
		"Office":      "Office",
	}
	return speakers, coordinators
}

func seedFavorites() []domain.Favorite {
	return []domain.Favorite{
		{Title: "Discover Weekly", AlbumArtURI: "https://i.scdn.co/image/discover-weekly"},
		{Title: "Jazz & Blues"},
		{Title: "BBC Radio 6 Music"},
		{Title: "Lo-fi Beats", AlbumArtURI: "https://i.scdn.co/image/lofi"},
	}
}

func seedPlaylists() []string {
	return []string{"Dinner Party", "Focus", "Road Trip"}
}

func seedResults() []searchItem {
	return []searchItem{
		{Title: "OK Computer", Artist: "Radiohead", AlbumArtURI: "https://i.scdn.co/image/okc", URI: "spotify:album:6dVIqQ8qmQ5GBnJ9shOYGE"},
		{Title: "In Rainbows", Artist: "Radiohead", URI: "spotify:album:5vkqYmiPBYLaalcmjujWxK"},
		{Name: "Kid A", Artist: "Radiohead", ImageURL: "https://i.scdn.co/image/kida", URI: "spotify:album:6GjwtEZcfenmOf6l18N7T7"},
		{Title: "Blue Train", Artist: "John Coltrane", URI: "spotify:album:4TfNwT5jlUSWpUNSZlCUIy"},
	}
}

// searchItem mirrors the bridge's search result shape
type searchItem struct {
	Title       string `json:"title,omitempty"`
	Name        string `json:"name,omitempty"`
	Artist      string `json:"artist,omitempty"`
	AlbumArtURI string `json:"albumArtUri,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	URI         string `json:"uri"`
}
