//go:build !js && !wasm && !wasip1

// Package launch starts external commands and collects their exit status.
//
// Go cannot run code in a child between fork and exec, so children are
// started by re-executing the interpreter binary under the name ChildName.
// That stub fixes the child's signal dispositions and then execs the real
// program (see RunChild). Waiting is done with wait4 directly so background
// children can be polled without blocking.
package launch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/rcarmo/go-wish/pkg/core/redirect"
)

// Process is a started child.
type Process struct {
	Pid  int
	Argv []string
	Mode Mode
}

// Launcher starts children through the stub and waits for them.
type Launcher struct {
	exe    string
	logger *slog.Logger
}

// New returns a Launcher that re-executes exe as the child stub. An empty
// exe resolves to the running binary.
func New(exe string, logger *slog.Logger) (*Launcher, error) {
	if exe == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate interpreter binary: %w", err)
		}
		exe = self
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{exe: exe, logger: logger}, nil
}

// Start launches argv with the given streams. An error means the child
// could not be created at all, which callers treat as fatal.
func (l *Launcher) Start(argv []string, mode Mode, streams *redirect.Streams) (*Process, error) {
	if len(argv) == 0 && mode != Failed {
		return nil, errors.New("empty command")
	}
	if streams == nil {
		return nil, errors.New("no streams for child")
	}
	args := make([]string, 0, len(argv)+2)
	args = append(args, ChildName, mode.String())
	args = append(args, argv...)
	proc, err := os.StartProcess(l.exe, args, &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{streams.Stdin, streams.Stdout, streams.Stderr},
	})
	if err != nil {
		return nil, fmt.Errorf("fork: %w", err)
	}
	streams.Started()
	p := &Process{Pid: proc.Pid, Argv: argv, Mode: mode}
	// wait4 is used from here on; the handle is not needed.
	_ = proc.Release()
	l.logger.Debug("child started", "pid", p.Pid, "mode", mode.String(), "argv", argv)
	return p, nil
}

// StartFailed launches a child that exits with ExitFailure straight away.
// It keeps status reporting identical for commands whose redirection
// failed.
func (l *Launcher) StartFailed(streams *redirect.Streams) (*Process, error) {
	return l.Start(nil, Failed, streams)
}

// Wait blocks until pid exits.
func (l *Launcher) Wait(pid int) (Status, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, 0, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return Status{}, fmt.Errorf("wait %d: %w", pid, err)
		}
		st := fromWaitStatus(ws)
		l.logger.Debug("child collected", "pid", pid, "status", st.String())
		return st, nil
	}
}

// Poll checks pid without blocking. done is false while the child runs.
func (l *Launcher) Poll(pid int) (st Status, done bool, err error) {
	var ws unix.WaitStatus
	wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG, nil)
	if err != nil {
		return Status{}, false, fmt.Errorf("poll %d: %w", pid, err)
	}
	if wpid == 0 {
		return Status{}, false, nil
	}
	return fromWaitStatus(ws), true, nil
}

// Signal delivers sig to pid.
func (l *Launcher) Signal(pid int, sig syscall.Signal) error {
	if err := unix.Kill(pid, sig); err != nil {
		return fmt.Errorf("kill %d: %w", pid, err)
	}
	return nil
}

func fromWaitStatus(ws unix.WaitStatus) Status {
	if ws.Signaled() {
		return Killed(ws.Signal())
	}
	return Exited(ws.ExitStatus())
}
