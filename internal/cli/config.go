package cli

import "errors"

// Mode selects what the generator does with expanded sources
type Mode int

const (
	// ModePrint writes changed sources to the generator's output
	ModePrint Mode = iota
	// ModeWrite rewrites changed files in place
	ModeWrite
	// ModeCheck only reports files that would change
	ModeCheck
)

func (m Mode) String() string {
	switch m {
	case ModeWrite:
		return "write"
	case ModeCheck:
		return "check"
	default:
		return "print"
	}
}

// Config holds the options for one generator run
type Config struct {
	// Paths lists files, directories or recursive patterns like ./...
	Paths []string

	Mode Mode

	// Verbose enables detailed logging and error reporting
	Verbose bool
}

var (
	// ErrOutOfDate is returned in check mode when a file would change
	ErrOutOfDate = errors.New("generated code is out of date")
	// ErrExpansionFailed is returned when any declaration produced a diagnostic
	ErrExpansionFailed = errors.New("some declarations could not be expanded")
	// ErrNoFiles is returned when the paths matched no source files
	ErrNoFiles = errors.New("no source files found")
)
