// Package render draws the widget as a string for the terminal.
// Rendering is a pure function of its Input; clickable elements are wrapped
// with the supplied Marker so the UI can hit-test mouse events.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/genricoloni/sonowidget/internal/derive"
	"github.com/genricoloni/sonowidget/internal/domain"
	"github.com/genricoloni/sonowidget/internal/snapshot"
	"github.com/genricoloni/sonowidget/internal/viewstate"
)

// ArtSource returns a pre-rendered thumbnail for an artwork URL
type ArtSource interface {
	Lookup(url string) (string, bool)
}

// Input is everything a frame depends on
type Input struct {
	Status   domain.Status
	Snapshot domain.Snapshot
	State    viewstate.State

	// Width and Height are the terminal size, zero until known
	Width  int
	Height int

	Marker Marker
	Art    ArtSource

	Spinner string
	// Selected is the zone cursor in display order
	Selected int
	// Cursor is the row cursor inside the open modal
	Cursor int
	// SearchBox is the rendered search input
	SearchBox  string
	StatusLine string
	Help       string
}

// Render draws one frame. It never panics: any failure while drawing falls
// back to the starting-up panel.
func Render(in Input) (out string) {
	if in.Marker == nil {
		in.Marker = noMarker{}
	}

	defer func() {
		if r := recover(); r != nil {
			out = place(startingUpPanel(in), in)
		}
	}()

	switch in.Status {
	case domain.StatusOffline:
		return place(offlinePanel(in), in)
	case domain.StatusNoSpeakers:
		return place(noSpeakersPanel(), in)
	case domain.StatusStartingUp:
		return place(startingUpPanel(in), in)
	}

	if len(in.Snapshot.Zones) == 0 {
		return place(noSpeakersPanel(), in)
	}

	// A collapsed widget hides any open modal until it is expanded again
	if in.State.Collapsed {
		return place(collapsedPanel(in), in)
	}

	var modal string
	switch in.State.Modal {
	case viewstate.ModalGroupManager:
		if g, ok := derive.BuildGroupModal(in.Snapshot, in.State); ok {
			modal = groupModal(in, g)
		}
	case viewstate.ModalBrowser:
		if b, ok := derive.BuildBrowserModal(in.Snapshot, in.State); ok {
			modal = browserModal(in, b)
		}
	}
	if modal == "" {
		return place(expandedPanel(in), in)
	}

	// Controls under the modal are not clickable
	under := in
	under.Marker = noMarker{}
	return overlayCentered(place(expandedPanel(under), under), modal, in)
}

func offlinePanel(in Input) string {
	body := errorStyle.Bold(true).Render("🔊 Sonos Offline") + "\n" +
		mutedStyle.Render("Click to start") + "\n" +
		faintStyle.Render("(press s)")
	return in.Marker.Mark(IDStart, messageStyle.Render(body))
}

func noSpeakersPanel() string {
	body := titleStyle.Render("🔊 Sonos") + "\n" + mutedStyle.Render("No speakers found")
	return messageStyle.Render(body)
}

func startingUpPanel(in Input) string {
	line := "Starting up..."
	if in.Spinner != "" {
		line += " " + in.Spinner
	}
	body := titleStyle.Render("🔊 Sonos") + "\n" + mutedStyle.Render(line)
	return messageStyle.Render(body)
}

// innerWidth is the usable content width of the panel
func innerWidth(in Input) int {
	w := PanelWidth
	if in.Width > 0 && in.Width < w {
		w = max(in.Width, 24)
	}
	return w - 4
}

func frame(in Input, content string) string {
	style := panelStyle
	if in.State.Focused {
		style = focusedPanelStyle
	}
	return style.Render(content)
}

func dragHandle(in Input, width int) string {
	return in.Marker.Mark(IDDrag, lipgloss.PlaceHorizontal(width, lipgloss.Center, dragStyle.Render("⋮⋮")))
}

func focusButton(in Input) string {
	icon := "◑"
	if in.State.Focused {
		icon = "◐"
	}
	return in.Marker.Mark(IDFocus, buttonStyle.Render(icon))
}

func collapsedPanel(in Input) string {
	width := innerWidth(in)

	label := "Sonos"
	if z, ok := derive.NowPlaying(in.Snapshot.Zones); ok {
		title := snapshot.ParseTrack(z.Coordinator.State.CurrentTrack).Title
		if title == "" {
			title = "Playing"
		}
		label = greenStyle.Render(truncate(title, width-8))
	}

	buttons := focusButton(in) + " " + in.Marker.Mark(IDCollapse, buttonStyle.Render("▼"))
	lines := []string{
		dragHandle(in, width),
		spread("♪ "+label, buttons, width),
	}
	lines = append(lines, footer(in, width)...)
	return frame(in, strings.Join(lines, "\n"))
}

func expandedPanel(in Input) string {
	width := innerWidth(in)
	zones := in.Snapshot.Zones

	right := ""
	if n := derive.PlayingCount(zones); n > 0 {
		right = greenStyle.Render(fmt.Sprintf("%d playing", n)) + " "
	}
	right += in.Marker.Mark(IDBrowse, buttonStyle.Render("🎵")) + " " +
		focusButton(in) + " " +
		in.Marker.Mark(IDCollapse, buttonStyle.Render("▲"))

	lines := []string{
		dragHandle(in, width),
		spread(titleStyle.Render(fmt.Sprintf("♪ Sonos (%d zones)", len(zones))), right, width),
	}

	for i, card := range derive.BuildZoneCards(in.Snapshot, in.State) {
		lines = append(lines, zoneCard(in, card, i == in.Selected, width))
	}

	lines = append(lines, footer(in, width)...)
	return frame(in, strings.Join(lines, "\n"))
}

func footer(in Input, width int) []string {
	var lines []string
	if in.StatusLine != "" {
		lines = append(lines, errorStyle.Render(truncate(in.StatusLine, width)))
	}
	if in.Help != "" {
		lines = append(lines, in.Help)
	}
	return lines
}

func zoneCard(in Input, c derive.ZoneCard, selected bool, width int) string {
	m := in.Marker
	cardWidth := width - 2
	infoWidth := cardWidth - ArtWidth - 1

	name := titleStyle.Render(truncate(c.Room, infoWidth-14))
	if c.GroupSize > 0 {
		name += " " + greenStyle.Render(fmt.Sprintf("+%d", c.GroupSize))
	}
	if c.Playing {
		name += " " + greenStyle.Render("●")
	}

	expand := "▼"
	if c.Expanded {
		expand = "▲"
	}
	buttons := m.Mark(ZoneID(c.Room, ActionGroup), buttonStyle.Render("👥")) + " " +
		m.Mark(ZoneID(c.Room, ActionExpand), buttonStyle.Render(expand))

	info := []string{
		spread(name, buttons, infoWidth),
		truncate(c.Track.Title, infoWidth),
	}
	if c.Track.Artist != "" {
		info = append(info, mutedStyle.Render(truncate(c.Track.Artist, infoWidth)))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top, albumArt(in, c.Track.AlbumArt), " ", strings.Join(info, "\n"))

	lines := []string{header, controls(in, c, cardWidth)}

	if c.Expanded && len(c.Favorites) > 0 {
		lines = append(lines, labelStyle.Render("Quick Play"))
		for i, f := range c.Favorites {
			entry := greenStyle.Render("▶") + " " + truncate(f.Title, cardWidth-2)
			lines = append(lines, m.Mark(QuickPlayID(c.Room, i), entry))
		}
	}

	style := cardStyle
	switch {
	case selected:
		style = style.BorderForeground(colorText)
	case c.Playing:
		style = style.BorderForeground(colorGreen)
	}
	return style.Render(padLines(strings.Join(lines, "\n"), cardWidth))
}

func controls(in Input, c derive.ZoneCard, width int) string {
	m := in.Marker

	play := buttonStyle.Render("▶")
	if c.Playing {
		play = greenStyle.Render("⏸")
	}
	transport := m.Mark(ZoneID(c.Room, ActionPrevious), buttonStyle.Render("◀◀")) + "  " +
		m.Mark(ZoneID(c.Room, ActionPlayPause), play) + "  " +
		m.Mark(ZoneID(c.Room, ActionNext), buttonStyle.Render("▶▶"))

	mute := "🔊"
	if c.Muted {
		mute = "🔇"
	}
	volume := m.Mark(ZoneID(c.Room, ActionMute), mute) + " " +
		m.Mark(ZoneID(c.Room, ActionVolDown), buttonStyle.Render("−")) + " " +
		volumeBar(c.Volume, c.Muted) + " " +
		m.Mark(ZoneID(c.Room, ActionVolUp), buttonStyle.Render("+")) + " " +
		mutedStyle.Render(fmt.Sprintf("%3d", c.Volume))

	return spread(transport, volume, width)
}

func volumeBar(volume int, muted bool) string {
	filled := min(max(volume, 0), 100) * volumeBarWidth / 100
	fill := greenStyle
	if muted {
		fill = mutedStyle
	}
	return fill.Render(strings.Repeat("━", filled)) + faintStyle.Render(strings.Repeat("─", volumeBarWidth-filled))
}

func albumArt(in Input, url string) string {
	if url != "" && in.Art != nil {
		if thumb, ok := in.Art.Lookup(url); ok {
			return thumb
		}
	}
	return lipgloss.Place(ArtWidth, ArtHeight, lipgloss.Center, lipgloss.Center, faintStyle.Render("♪"))
}

// place positions a block by its offset from the top-right corner
func place(block string, in Input) string {
	pos := in.State.Position
	left := 0
	if in.Width > 0 {
		left = max(0, in.Width-pos.Right-lipgloss.Width(block))
	}
	pad := strings.Repeat(" ", left)

	var b strings.Builder
	b.WriteString(strings.Repeat("\n", max(0, pos.Top)))
	for i, line := range strings.Split(block, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(pad)
		b.WriteString(line)
	}
	return b.String()
}

// overlayCentered draws fg over bg in the middle of the terminal, or at the
// top-left corner while the terminal size is unknown
func overlayCentered(bg, fg string, in Input) string {
	x, y := 0, 0
	if in.Width > 0 && in.Height > 0 {
		x = max(0, (in.Width-lipgloss.Width(fg))/2)
		y = max(0, (in.Height-lipgloss.Height(fg))/2)
	}
	return overlay(bg, fg, x, y)
}

// overlay draws fg over bg with its top-left corner at column x, row y.
// Background cells outside fg keep their styling.
func overlay(bg, fg string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	for len(bgLines) < y+len(fgLines) {
		bgLines = append(bgLines, "")
	}

	for i, line := range fgLines {
		row := bgLines[y+i]
		if w := ansi.StringWidth(row); w < x {
			row += strings.Repeat(" ", x-w)
		}
		left := ansi.Truncate(row, x, "")
		right := ansi.TruncateLeft(row, x+ansi.StringWidth(line), "")
		bgLines[y+i] = left + line + right
	}
	return strings.Join(bgLines, "\n")
}

// spread puts left and right on one line of the given width
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// padLines right-pads every line to width so bordered blocks line up
func padLines(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if w := lipgloss.Width(l); w < width {
			lines[i] = l + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}

// truncate shortens plain text to width cells with an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
