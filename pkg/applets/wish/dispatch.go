//go:build !js && !wasm && !wasip1

package wish

import (
	"errors"
	"syscall"

	"github.com/rcarmo/go-wish/pkg/core"
	"github.com/rcarmo/go-wish/pkg/core/cmdline"
	"github.com/rcarmo/go-wish/pkg/core/expand"
	"github.com/rcarmo/go-wish/pkg/core/jobs"
	"github.com/rcarmo/go-wish/pkg/core/launch"
	"github.com/rcarmo/go-wish/pkg/core/redirect"
)

// Execute runs one raw input line. done reports that the session is over,
// in which case code is the interpreter's exit code.
func (s *Shell) Execute(line string) (code int, done bool) {
	tokens := cmdline.Split(line)
	if len(tokens) == 0 || cmdline.IsComment(tokens) {
		return core.ExitSuccess, false
	}
	s.state.Fresh = false
	if err := cmdline.Validate(tokens, s.cfg.MaxArgs); err != nil {
		s.stdio.Printf("%v\n", err)
		return core.ExitSuccess, false
	}
	cmd := cmdline.Classify(expand.Tokens(tokens, s.pid), s.signals.ForegroundOnly())
	s.logger.Debug("dispatch", "kind", cmd.Kind.String(), "argv", cmd.Args,
		"background", cmd.Background, "ignored_background", cmd.Ignored)

	switch cmd.Kind {
	case cmdline.KindBuiltin:
		return s.builtin(cmd)
	case cmdline.KindExternal:
		return s.external(cmd)
	}
	return core.ExitSuccess, false
}

func (s *Shell) external(cmd cmdline.Command) (int, bool) {
	spec, err := redirect.Parse(cmd.Args)
	var streams *redirect.Streams
	if err != nil {
		s.stdio.Printf("%v\n", err)
	} else {
		streams, err = redirect.Open(spec, cmd.Background, s.stdio, s.cfg.NullDevice)
	}
	if err != nil {
		return s.failed(cmd)
	}
	defer s.restore(streams)

	mode := launch.Foreground
	if cmd.Background {
		mode = launch.Background
	}
	p, err := s.launcher.Start(spec.Args, mode, streams)
	if err != nil {
		return s.fatal(core.ExitForkFailed, err)
	}
	if !cmd.Background {
		s.collect(p.Pid)
		return core.ExitSuccess, false
	}

	if _, err := s.jobs.Add(p.Pid); err != nil {
		if errors.Is(err, jobs.ErrTableFull) {
			if kerr := s.launcher.Signal(p.Pid, syscall.SIGTERM); kerr != nil {
				s.logger.Warn("terminate untracked job", "pid", p.Pid, "error", kerr)
			}
		}
		return s.fatal(core.ExitJobTableFull, err)
	}
	s.stdio.Printf("background pid is %d\n", p.Pid)
	return core.ExitSuccess, false
}

// failed stands in for a command whose redirection could not be set up: a
// child that exits nonzero is still started and collected, so status
// reports it like any other failed command. A background request still
// announces the pid but is waited for here and never tracked.
func (s *Shell) failed(cmd cmdline.Command) (int, bool) {
	streams, err := redirect.Open(redirect.Spec{}, cmd.Background, s.stdio, s.cfg.NullDevice)
	if err != nil {
		s.logger.Warn("open fallback streams", "error", err)
		s.record(launch.Exited(core.ExitFailure))
		return core.ExitSuccess, false
	}
	defer s.restore(streams)

	p, err := s.launcher.StartFailed(streams)
	if err != nil {
		return s.fatal(core.ExitForkFailed, err)
	}
	st, err := s.launcher.Wait(p.Pid)
	if err != nil {
		s.logger.Warn("collect failed command", "pid", p.Pid, "error", err)
		st = launch.Exited(core.ExitFailure)
	}
	s.record(st)
	if cmd.Background {
		s.stdio.Printf("background pid is %d\n", p.Pid)
	}
	return core.ExitSuccess, false
}

// collect blocks until the foreground child exits and records its status.
func (s *Shell) collect(pid int) {
	st, err := s.launcher.Wait(pid)
	if err != nil {
		s.logger.Warn("collect foreground command", "pid", pid, "error", err)
		return
	}
	s.record(st)
}

func (s *Shell) record(st launch.Status) {
	s.state.LastStatus = st
	s.state.Fresh = true
}

func (s *Shell) restore(streams *redirect.Streams) {
	if err := streams.Restore(); err != nil {
		s.logger.Warn("restore streams", "error", err)
	}
}

// fatal terminates tracked jobs and ends the session with code.
func (s *Shell) fatal(code int, err error) (int, bool) {
	s.stdio.Errorf("wish: %v\n", err)
	s.logger.Error("fatal", "error", err, "code", code)
	s.jobs.Shutdown()
	return code, true
}
