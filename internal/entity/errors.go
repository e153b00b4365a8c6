package entity

import "errors"

var (
	// ErrUserInput marks a bad flag or volume selector.
	ErrUserInput = errors.New("invalid input")
	// ErrNetwork marks a failure to fetch the table of contents.
	ErrNetwork = errors.New("network failure")
	// ErrConsistency marks a missing or broken manifest, a manifest entry whose cache
	// file is gone, or a project root that cannot be located.
	ErrConsistency = errors.New("inconsistent cache state")
	// ErrTocNotFound means the page has no contents section or no volume wrappers.
	// The run ends successfully with nothing to emit.
	ErrTocNotFound = errors.New("table of contents not found")
)

// Mode selects where chapter content comes from.
type Mode int

const (
	ModeOnline Mode = iota
	ModeOffline
)

func (m Mode) String() string {
	if m == ModeOffline {
		return "offline"
	}
	return "online"
}
