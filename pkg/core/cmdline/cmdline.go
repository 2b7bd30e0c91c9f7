// Package cmdline splits input lines into tokens and classifies the
// resulting command.
package cmdline

import (
	"fmt"
	"strings"
)

// BackgroundToken is the trailing token that requests background execution.
const BackgroundToken = "&"

// DefaultMaxArgs is the largest number of tokens a single line may carry.
const DefaultMaxArgs = 512

// Kind classifies a command for dispatch.
type Kind int

const (
	// KindEmpty covers blank lines and comments. Nothing is dispatched.
	KindEmpty Kind = iota
	// KindBuiltin is handled inside the interpreter.
	KindBuiltin
	// KindExternal is launched as a child process.
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBuiltin:
		return "builtin"
	case KindExternal:
		return "external"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Built-in command names.
const (
	Exit   = "exit"
	Cd     = "cd"
	Status = "status"
)

var builtins = map[string]bool{
	Exit:   true,
	Cd:     true,
	Status: true,
}

// Command is one classified input line.
type Command struct {
	Args       []string
	Kind       Kind
	Background bool
	// Ignored reports that a trailing & was dropped because the session is
	// in foreground-only mode.
	Ignored bool
}

// Name returns the program or built-in name, or "" for an empty command.
func (c Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// Split breaks a raw line into whitespace-delimited tokens. There is no
// quoting or escaping.
func Split(line string) []string {
	return strings.Fields(line)
}

// Validate rejects token lists longer than maxArgs. A non-positive maxArgs
// disables the check.
func Validate(tokens []string, maxArgs int) error {
	if maxArgs > 0 && len(tokens) > maxArgs {
		return fmt.Errorf("too many arguments (%d > %d)", len(tokens), maxArgs)
	}
	return nil
}

// IsComment reports whether the token list is a comment line.
func IsComment(tokens []string) bool {
	return len(tokens) > 0 && strings.HasPrefix(tokens[0], "#")
}

// Classify decides how tokens are dispatched. A trailing & is always
// stripped; it selects background mode only when foregroundOnly is false.
func Classify(tokens []string, foregroundOnly bool) Command {
	if len(tokens) == 0 || IsComment(tokens) {
		return Command{Kind: KindEmpty}
	}
	args := append([]string(nil), tokens...)
	cmd := Command{}
	if args[len(args)-1] == BackgroundToken {
		args = args[:len(args)-1]
		if foregroundOnly {
			cmd.Ignored = true
		} else {
			cmd.Background = true
		}
	}
	cmd.Args = args
	switch {
	case len(args) == 0:
		// A lone "&" has nothing left to run.
		cmd.Kind = KindEmpty
		cmd.Background = false
	case builtins[args[0]]:
		cmd.Kind = KindBuiltin
	default:
		cmd.Kind = KindExternal
	}
	return cmd
}
