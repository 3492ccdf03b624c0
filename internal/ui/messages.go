package ui

import (
	"time"

	"github.com/raphi011/wtt/internal/worktree"
)

// refreshDoneMsg delivers a completed background fetch. Exactly one of
// refreshDoneMsg/refreshFailedMsg arrives per started refresh.
type refreshDoneMsg struct {
	records []worktree.Record
}

// refreshFailedMsg delivers a failed background fetch.
type refreshFailedMsg struct {
	err error
}

// tickMsg drives the spinner and status message expiry.
type tickMsg time.Time

type statusLevel int

const (
	levelInfo statusLevel = iota
	levelSuccess
	levelWarning
	levelError
)

// statusExpiry is how long a transient status message stays visible.
const statusExpiry = 5 * time.Second

type statusMessage struct {
	text  string
	level statusLevel
	at    time.Time
}
