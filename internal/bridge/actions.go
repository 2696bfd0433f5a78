package bridge

import (
	"fmt"
	"net/url"

	"github.com/genricoloni/sonowidget/internal/domain"
)

// Plain transport actions understood by node-sonos-http-api
const (
	ActionPlay       = "play"
	ActionPause      = "pause"
	ActionNext       = "next"
	ActionPrevious   = "previous"
	ActionToggleMute = "togglemute"
	ActionLeave      = "leave"
)

// Play resumes playback in room
func Play(room string) domain.Command {
	return domain.Command{Room: room, Action: ActionPlay}
}

// Pause pauses room
func Pause(room string) domain.Command {
	return domain.Command{Room: room, Action: ActionPause}
}

// Next skips to the next track
func Next(room string) domain.Command {
	return domain.Command{Room: room, Action: ActionNext}
}

// Previous goes back one track
func Previous(room string) domain.Command {
	return domain.Command{Room: room, Action: ActionPrevious}
}

// VolumeUp raises the volume by step
func VolumeUp(room string, step int) domain.Command {
	return domain.Command{Room: room, Action: fmt.Sprintf("volume/+%d", step)}
}

// VolumeDown lowers the volume by step
func VolumeDown(room string, step int) domain.Command {
	return domain.Command{Room: room, Action: fmt.Sprintf("volume/-%d", step)}
}

// ToggleMute flips the mute flag
func ToggleMute(room string) domain.Command {
	return domain.Command{Room: room, Action: ActionToggleMute}
}

// JoinGroup adds room to the group led by coordinator
func JoinGroup(room, coordinator string) domain.Command {
	return domain.Command{Room: room, Action: "join/" + url.PathEscape(coordinator)}
}

// LeaveGroup removes room from its group
func LeaveGroup(room string) domain.Command {
	return domain.Command{Room: room, Action: ActionLeave}
}

// PlayFavorite starts a Sonos favorite by name
func PlayFavorite(room, name string) domain.Command {
	return domain.Command{Room: room, Action: "favorite/" + url.PathEscape(name)}
}

// PlayPlaylist starts a Sonos playlist by name
func PlayPlaylist(room, name string) domain.Command {
	return domain.Command{Room: room, Action: "playlist/" + url.PathEscape(name)}
}

// PlayURI sets the transport URI, used for search results
func PlayURI(room, uri string) domain.Command {
	return domain.Command{Room: room, Action: "setavtransporturi/" + url.PathEscape(uri)}
}

// PlayPause toggles between play and pause based on the current state
func PlayPause(room string, playing bool) domain.Command {
	if playing {
		return Pause(room)
	}
	return Play(room)
}
