package wish

import "github.com/rcarmo/go-wish/pkg/core/launch"

// State is the session state owned by the loop.
type State struct {
	// LastStatus is the outcome of the most recent foreground command or
	// failed redirection.
	LastStatus launch.Status
	// Fresh is set while LastStatus was collected after the last line read,
	// which is when an interrupt still refers to it.
	Fresh bool
}

const (
	enterForegroundOnly = "\nEntering foreground-only mode (& is now ignored)\n"
	exitForegroundOnly  = "\nExiting foreground-only mode\n"
)
