//go:build !js && !wasm && !wasip1

package wish

import (
	"os"

	"github.com/rcarmo/go-wish/pkg/core"
	"github.com/rcarmo/go-wish/pkg/core/cmdline"
)

// Built-ins run in the interpreter itself. They take no redirections and a
// trailing & has no effect on them.
func (s *Shell) builtin(cmd cmdline.Command) (int, bool) {
	switch cmd.Name() {
	case cmdline.Exit:
		return s.exit(), true
	case cmdline.Cd:
		s.cd(cmd.Args[1:])
	case cmdline.Status:
		s.stdio.Printf("%s\n", s.state.LastStatus)
	}
	return core.ExitSuccess, false
}

// exit terminates every tracked job. The interpreter always exits 0.
func (s *Shell) exit() int {
	n := s.jobs.Shutdown()
	s.logger.Debug("session ended", "terminated_jobs", n)
	return core.ExitSuccess
}

func (s *Shell) cd(args []string) {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	if target == "" {
		target = os.Getenv("HOME")
	}
	if target == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			s.stdio.Errorf("cd: %v\n", err)
			return
		}
		target = home
	}
	if err := os.Chdir(target); err != nil {
		s.stdio.Errorf("cd: %v\n", err)
	}
}
