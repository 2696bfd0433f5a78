package render

import (
	"strconv"

	"github.com/genricoloni/sonowidget/internal/viewstate"
)

// Zone IDs name every clickable element. The UI resolves mouse events by
// looking these IDs up in the zone manager after each frame is scanned.
const (
	IDStart      = "panel:start"
	IDDrag       = "panel:drag"
	IDCollapse   = "panel:collapse"
	IDFocus      = "panel:focus"
	IDBrowse     = "panel:browse"
	IDModalClose = "modal:close"
	IDAddAll     = "group:add-all"
	IDUngroupAll = "group:ungroup-all"
	IDRoomPrev   = "browser:room-prev"
	IDRoomNext   = "browser:room-next"
	IDSearchBox  = "browser:search"
)

// ZoneAction is a per-zone control
type ZoneAction string

const (
	ActionPrevious  ZoneAction = "previous"
	ActionPlayPause ZoneAction = "playpause"
	ActionNext      ZoneAction = "next"
	ActionMute      ZoneAction = "mute"
	ActionVolDown   ZoneAction = "voldown"
	ActionVolUp     ZoneAction = "volup"
	ActionExpand    ZoneAction = "expand"
	ActionGroup     ZoneAction = "group"
)

// ZoneActions lists every per-zone control
var ZoneActions = []ZoneAction{
	ActionPrevious, ActionPlayPause, ActionNext,
	ActionMute, ActionVolDown, ActionVolUp,
	ActionExpand, ActionGroup,
}

// ZoneID identifies a control on the card for room
func ZoneID(room string, action ZoneAction) string {
	return "zone:" + string(action) + ":" + room
}

// QuickPlayID identifies the i-th Quick Play favorite on room's card
func QuickPlayID(room string, i int) string {
	return "quickplay:" + strconv.Itoa(i) + ":" + room
}

// TabID identifies a browser tab button
func TabID(tab viewstate.Tab) string {
	return "browser:tab:" + strconv.Itoa(int(tab))
}

// ItemID identifies the i-th item of the active browser list
func ItemID(i int) string {
	return "browser:item:" + strconv.Itoa(i)
}

// GroupRowID identifies the add/remove button of a group manager row
func GroupRowID(room string) string {
	return "group:row:" + room
}

// Marker wraps rendered text in a clickable zone
type Marker interface {
	Mark(id, v string) string
}

type noMarker struct{}

func (noMarker) Mark(_, v string) string { return v }
