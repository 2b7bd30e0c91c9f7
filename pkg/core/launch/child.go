//go:build !js && !wasm && !wasip1

package launch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/rcarmo/go-wish/pkg/core"
)

// ChildName is the argv[0] that selects the child stub in a multi-call
// binary.
const ChildName = "wish-exec"

// IsChild reports whether args (normally os.Args) select the child stub.
func IsChild(args []string) bool {
	return len(args) > 0 && filepath.Base(args[0]) == ChildName
}

// RunChild is the child half of a launch. args are "wish-exec MODE PROG
// ARGS...". It installs the child's signal dispositions and replaces the
// process image with PROG; it only returns when that fails.
func RunChild(args []string) int {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "%s: missing mode\n", ChildName)
		return core.ExitUsage
	}
	mode, err := ParseMode(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", ChildName, err)
		return core.ExitUsage
	}
	if mode == Failed {
		return core.ExitFailure
	}
	argv := args[2:]
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "%s: missing command\n", ChildName)
		return core.ExitUsage
	}

	// Ignored dispositions survive exec; caught ones reset to default.
	signal.Ignore(syscall.SIGTSTP)
	if mode == Background {
		signal.Ignore(syscall.SIGINT)
	} else {
		signal.Reset(syscall.SIGINT)
	}

	path, err := exec.LookPath(argv[0])
	if errors.Is(err, exec.ErrDot) {
		err = nil
	}
	if err == nil {
		_ = unix.Exec(path, argv, os.Environ())
	}
	fmt.Fprintf(os.Stdout, "%s: no such file or directory\n", argv[0])
	return core.ExitFailure
}
