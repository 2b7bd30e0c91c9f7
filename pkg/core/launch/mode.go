package launch

import "fmt"

// Mode selects the signal dispositions the child stub installs before it
// replaces itself with the requested program.
type Mode int

const (
	// Foreground children keep the default interrupt action.
	Foreground Mode = iota
	// Background children ignore interrupts.
	Background
	// Failed children exit with ExitFailure without running anything. They
	// stand in for a command whose redirection could not be set up.
	Failed
)

var modeNames = map[Mode]string{
	Foreground: "fg",
	Background: "bg",
	Failed:     "fail",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown launch mode %q", s)
}
