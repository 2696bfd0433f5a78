package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/genricoloni/sonowidget/internal/derive"
	"github.com/genricoloni/sonowidget/internal/viewstate"
)

const modalInner = ModalWidth - 6

func modalTitle(in Input, title string) string {
	return spread(titleStyle.Render(title), in.Marker.Mark(IDModalClose, buttonStyle.Render("✕")), modalInner)
}

func cursorPrefix(selected bool) string {
	if selected {
		return selectedStyle.Render("› ")
	}
	return "  "
}

func groupModal(in Input, g derive.GroupModal) string {
	m := in.Marker
	lines := []string{
		modalTitle(in, "Group: "+g.Coordinator),
		"",
		labelStyle.Render(fmt.Sprintf("Current Group (%d speakers)", g.Size())),
		spread("  "+titleStyle.Render(g.Coordinator), faintStyle.Render("Coordinator"), modalInner),
	}

	row := 0
	for _, room := range g.Grouped {
		button := m.Mark(GroupRowID(room), removeStyle.Render("Remove"))
		lines = append(lines, spread(cursorPrefix(row == in.Cursor)+truncate(room, modalInner-12), button, modalInner))
		row++
	}

	if len(g.Available) > 0 {
		lines = append(lines, "", labelStyle.Render("Available Speakers"))
		for _, room := range g.Available {
			button := m.Mark(GroupRowID(room), addStyle.Render("Add to Group"))
			lines = append(lines, spread(cursorPrefix(row == in.Cursor)+truncate(room, modalInner-18), button, modalInner))
			row++
		}
	}

	actions := m.Mark(IDAddAll, addStyle.Render("[Add All Speakers]"))
	if len(g.Grouped) > 0 {
		actions += "  " + m.Mark(IDUngroupAll, removeStyle.Render("[Ungroup All]"))
	}
	lines = append(lines, "", labelStyle.Render("Quick Actions"), actions)

	if in.StatusLine != "" {
		lines = append(lines, "", errorStyle.Render(truncate(in.StatusLine, modalInner)))
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func browserModal(in Input, b derive.BrowserModal) string {
	m := in.Marker

	target := "none"
	for _, r := range b.Rooms {
		if r.Room == b.Target {
			target = r.Label
			break
		}
	}
	picker := m.Mark(IDRoomPrev, buttonStyle.Render("‹")) + " " +
		greenStyle.Render(truncate(target, modalInner-14)) + " " +
		m.Mark(IDRoomNext, buttonStyle.Render("›"))

	var tabs []string
	for _, t := range viewstate.Tabs {
		style := tabStyle
		if t == b.Tab {
			style = activeTab
		}
		tabs = append(tabs, m.Mark(TabID(t), style.Render(t.String())))
	}

	lines := []string{
		modalTitle(in, "Browse Music"),
		"",
		labelStyle.Render("Play To") + "  " + picker,
		"",
		strings.Join(tabs, " "),
		"",
	}

	if b.Tab == viewstate.TabSearch {
		lines = append(lines, m.Mark(IDSearchBox, in.SearchBox), "")
	}

	heading := b.Heading()
	if b.Loading && in.Spinner != "" {
		heading += " " + in.Spinner
	}
	lines = append(lines, labelStyle.Render(heading))
	lines = append(lines, browserItems(in, b)...)

	if b.Tab == viewstate.TabSearch {
		lines = append(lines, "", faintStyle.Render("Tip: searches the service configured on the bridge"))
	}
	if in.StatusLine != "" {
		lines = append(lines, "", errorStyle.Render(truncate(in.StatusLine, modalInner)))
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func browserItems(in Input, b derive.BrowserModal) []string {
	if len(b.Items) == 0 {
		switch {
		case b.Empty() != "":
			return []string{faintStyle.Render(b.Empty())}
		case b.Tab == viewstate.TabSearch && !b.Loading && len(b.Query) >= viewstate.MinSearchLength:
			return []string{faintStyle.Render("No results")}
		}
		return nil
	}

	start := 0
	if in.Cursor >= modalListRows {
		start = in.Cursor - modalListRows + 1
	}
	end := min(len(b.Items), start+modalListRows)

	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, faintStyle.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		it := b.Items[i]
		title := truncate(it.Title, modalInner-6)
		text := greenStyle.Render("▶") + " " + title
		if it.Artist != "" {
			room := modalInner - 6 - lipgloss.Width(title)
			if room > 6 {
				text += mutedStyle.Render(" · " + truncate(it.Artist, room-3))
			}
		}
		lines = append(lines, cursorPrefix(i == in.Cursor)+in.Marker.Mark(ItemID(i), text))
	}
	if end < len(b.Items) {
		lines = append(lines, faintStyle.Render(fmt.Sprintf("  ↓ %d more", len(b.Items)-end)))
	}
	return lines
}
