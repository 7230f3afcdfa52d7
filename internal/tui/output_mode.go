package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how command results are presented.
type OutputMode int

const (
	// OutputModePlain renders unstyled text, safe for pipes and CI logs.
	OutputModePlain OutputMode = iota
	// OutputModeStyled renders Lip Gloss styled text without interactivity.
	OutputModeStyled
	// OutputModeInteractive runs a full Bubble Tea program.
	OutputModeInteractive
)

// defaultTerminalWidth is used when the width cannot be detected.
const defaultTerminalWidth = 80

// DetectOutputMode picks the presentation mode for the current terminal.
// Interactive requires both stdin and stdout to be terminals; NO_COLOR or
// any of the explicit flags downgrade the mode.
func DetectOutputMode(noColor, plain, nonInteractive bool) OutputMode {
	if plain || noColor || os.Getenv("NO_COLOR") != "" {
		return OutputModePlain
	}

	stdoutTTY := term.IsTerminal(int(os.Stdout.Fd()))
	if !stdoutTTY {
		return OutputModePlain
	}

	if nonInteractive || !term.IsTerminal(int(os.Stdin.Fd())) {
		return OutputModeStyled
	}

	return OutputModeInteractive
}

// TerminalWidth returns the stdout width, or a default when not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	return width
}
