package ui

import (
	"github.com/genricoloni/sonowidget/internal/domain"
)

// PollMsg carries one poll result from the poller channel
type PollMsg struct {
	Result domain.PollResult
}

// CommandResultMsg reports the outcome of a bridge command
type CommandResultMsg struct {
	Result domain.CommandResult
}

type pollClosedMsg struct{}

type searchResultMsg struct {
	query   string
	results []domain.SearchResult
}

type clearStatusMsg struct {
	seq int
}

type launchResultMsg struct {
	err error
}

type positionSavedMsg struct {
	pos domain.Position
	err error
}
