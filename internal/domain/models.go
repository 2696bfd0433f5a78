package domain

import (
	"encoding/json"
	"time"
)

// PlaybackState is the transport state reported by the bridge for a coordinator
type PlaybackState string

const (
	// StatePlaying indicates the zone is currently playing
	StatePlaying PlaybackState = "PLAYING"
	// StatePaused indicates the zone is paused
	StatePaused PlaybackState = "PAUSED_PLAYBACK"
	// StateStopped indicates the zone is stopped
	StateStopped PlaybackState = "STOPPED"
	// StateTransitioning is reported briefly while the player changes tracks
	StateTransitioning PlaybackState = "TRANSITIONING"
)

// Status is the outcome of parsing one poll result
type Status int

const (
	// StatusStartingUp covers malformed or partial poll output
	StatusStartingUp Status = iota
	// StatusOffline means the bridge could not be reached
	StatusOffline
	// StatusNoSpeakers means the bridge answered with zero zones
	StatusNoSpeakers
	// StatusReady means a usable snapshot is available
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusOffline:
		return "offline"
	case StatusNoSpeakers:
		return "no-speakers"
	case StatusReady:
		return "ready"
	default:
		return "starting-up"
	}
}

// Sentinel values carried in the poll output contract
const (
	ErrorOffline    = "offline"
	ErrorNoSpeakers = "no-speakers"
)

// TrackPayload is the raw currentTrack object. Depending on the source it
// describes a regular track, a radio stream or line-in input.
type TrackPayload struct {
	Type                string `json:"type"`
	Title               string `json:"title"`
	Artist              string `json:"artist"`
	Album               string `json:"album"`
	AlbumArtURI         string `json:"albumArtUri"`
	AbsoluteAlbumArtURI string `json:"absoluteAlbumArtUri"`
	StationName         string `json:"stationName"`
	URI                 string `json:"uri"`
}

// ParsedTrack holds display-ready track fields
type ParsedTrack struct {
	Title  string
	Artist string
	// AlbumArt is empty when no artwork is known
	AlbumArt string
}

// SpeakerState is the playback state of a single speaker
type SpeakerState struct {
	Volume        int           `json:"volume"`
	Mute          bool          `json:"mute"`
	PlaybackState PlaybackState `json:"playbackState"`
	CurrentTrack  *TrackPayload `json:"currentTrack"`
}

// Speaker is a player as reported inside a zone
type Speaker struct {
	RoomName string       `json:"roomName"`
	UUID     string       `json:"uuid"`
	State    SpeakerState `json:"state"`
}

// SpeakerRef identifies a zone member
type SpeakerRef struct {
	RoomName string `json:"roomName"`
	UUID     string `json:"uuid"`
}

// Zone groups one or more speakers under a single coordinator
type Zone struct {
	UUID        string       `json:"uuid"`
	Coordinator Speaker      `json:"coordinator"`
	Members     []SpeakerRef `json:"members"`
}

// RoomName returns the coordinator's room name
func (z Zone) RoomName() string {
	return z.Coordinator.RoomName
}

// IsPlaying reports whether the coordinator is playing
func (z Zone) IsPlaying() bool {
	return z.Coordinator.State.PlaybackState == StatePlaying
}

// Favorite is a Sonos favorite. The bridge sends either a bare name or an
// object; both are resolved into this shape when decoded.
type Favorite struct {
	Title       string
	AlbumArtURI string
}

// UnmarshalJSON accepts both the string and the object form
func (f *Favorite) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*f = Favorite{Title: name}
		return nil
	}

	var obj struct {
		Title       string `json:"title"`
		AlbumArtURI string `json:"albumArtUri"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*f = Favorite{Title: obj.Title, AlbumArtURI: obj.AlbumArtURI}
	return nil
}

// Playlist is a Sonos playlist name
type Playlist = string

// SearchResult is one item returned by a music service search
type SearchResult struct {
	Title  string
	Artist string
	ArtURI string
	URI    string
}

// Snapshot is one fully parsed poll result
type Snapshot struct {
	Zones     []Zone
	Favorites []Favorite
	Playlists []Playlist
}

// PollResult is the raw output of one poll tick, in the
// {error} | {zones, favorites, playlists} contract
type PollResult struct {
	Raw []byte
	At  time.Time
}

// Position is the panel offset from the top-right corner, in cells
type Position struct {
	Top   int `json:"top"`
	Right int `json:"right"`
}

// DefaultPosition is used when nothing has been persisted yet
var DefaultPosition = Position{Top: 1, Right: 2}
