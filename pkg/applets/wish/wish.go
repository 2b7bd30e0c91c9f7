//go:build !js && !wasm && !wasip1

// Package wish implements an interactive command interpreter with
// background jobs, trailing redirections and a foreground-only mode.
package wish

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/rcarmo/go-wish/pkg/core"
	"github.com/rcarmo/go-wish/pkg/core/config"
	"github.com/rcarmo/go-wish/pkg/core/jobs"
	"github.com/rcarmo/go-wish/pkg/core/launch"
	"github.com/rcarmo/go-wish/pkg/core/log"
	"github.com/rcarmo/go-wish/pkg/core/redirect"
	"github.com/rcarmo/go-wish/pkg/core/sigbridge"
)

// Signals is the loop's view of asynchronous session signals.
type Signals interface {
	TakeInterrupt() bool
	TakeToggles() (int, bool)
	ForegroundOnly() bool
	Wake() <-chan struct{}
}

// Launcher starts and collects children. *launch.Launcher implements it.
type Launcher interface {
	jobs.ProcessControl
	Start(argv []string, mode launch.Mode, streams *redirect.Streams) (*launch.Process, error)
	StartFailed(streams *redirect.Streams) (*launch.Process, error)
	Wait(pid int) (launch.Status, error)
}

// Options wires a Shell to its collaborators.
type Options struct {
	Config   config.Config
	Launcher Launcher
	Signals  Signals
	Logger   *slog.Logger
	// PID replaces $$ in tokens. Zero means the current process.
	PID int
	// Interactive selects prompting in "auto" prompt mode.
	Interactive bool
}

// Shell is one interpreter session.
type Shell struct {
	stdio    *core.Stdio
	cfg      config.Config
	launcher Launcher
	signals  Signals
	jobs     *jobs.Table
	logger   *slog.Logger
	pid      int
	prompt   bool

	state   State
	reader  *bufio.Reader
	pending chan lineResult
}

type lineResult struct {
	line string
	err  error
}

// Run is the wish entry point: wish [--config FILE].
func Run(stdio *core.Stdio, args []string) int {
	configPath := ""
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config":
			if i+1 >= len(args) {
				return core.UsageError(stdio, "wish", "--config requires a file")
			}
			configPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		default:
			return core.UsageError(stdio, "wish", fmt.Sprintf("unknown argument %q", arg))
		}
	}

	var cfg config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover()
	}
	if err != nil {
		stdio.Errorf("wish: %v\n", err)
		return core.ExitFailure
	}

	var logOut io.Writer = stdio.Err
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return core.FileError(stdio, "wish", cfg.Log.File, err)
		}
		defer f.Close()
		logOut = f
	}
	log.Setup(cfg.Log.Level, logOut)
	logger := log.SetSession(uuid.NewString())

	launcher, err := launch.New("", log.WithComponent("launch"))
	if err != nil {
		stdio.Errorf("wish: %v\n", err)
		return core.ExitFailure
	}

	bridge := sigbridge.New()
	bridge.Start()
	defer bridge.Stop()

	sh := New(stdio, Options{
		Config:      cfg,
		Launcher:    launcher,
		Signals:     bridge,
		Logger:      logger,
		Interactive: isTerminal(stdio.In),
	})
	logger.Debug("session started", "config", cfg.Source, "pid", sh.pid)
	return sh.Loop()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// New returns a Shell reading lines from stdio.In.
func New(stdio *core.Stdio, opts Options) *Shell {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	pid := opts.PID
	if pid == 0 {
		pid = os.Getpid()
	}
	prompt := false
	switch opts.Config.PromptMode {
	case config.PromptAlways:
		prompt = true
	case config.PromptAuto:
		prompt = opts.Interactive
	}
	return &Shell{
		stdio:    stdio,
		cfg:      opts.Config,
		launcher: opts.Launcher,
		signals:  opts.Signals,
		jobs:     jobs.New(opts.Config.MaxBackgroundJobs, opts.Launcher, log.Component(logger, "jobs")),
		logger:   logger,
		pid:      pid,
		prompt:   prompt,
		reader:   bufio.NewReader(stdio.In),
	}
}

// State returns a copy of the session state.
func (s *Shell) State() State { return s.state }

// Jobs lists the tracked background jobs.
func (s *Shell) Jobs() []jobs.Job { return s.jobs.Jobs() }

// Reap collects finished background jobs and reports them.
func (s *Shell) Reap() int { return s.jobs.Reap(s.stdio.Out) }

// Loop runs the interpreter until exit, end of input or a fatal error and
// returns the process exit code.
func (s *Shell) Loop() int {
	for {
		s.serviceSignals()
		s.Reap()
		res, ok := s.readLine()
		if !ok {
			continue
		}
		if res.line == "" && res.err != nil {
			if res.err != io.EOF {
				s.logger.Warn("read command", "error", res.err)
			}
			return s.exit()
		}
		if code, done := s.Execute(res.line); done {
			return code
		}
	}
}

// readLine prints the prompt and waits for the in-flight read or a signal
// wake-up. After a wake-up the read stays in flight and ok is false.
func (s *Shell) readLine() (lineResult, bool) {
	if s.prompt {
		s.stdio.Print(s.cfg.Prompt)
	}
	if s.pending == nil {
		ch := make(chan lineResult, 1)
		s.pending = ch
		go func() {
			line, err := s.reader.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
	}
	select {
	case res := <-s.pending:
		s.pending = nil
		return res, true
	case <-s.signals.Wake():
		return lineResult{}, false
	}
}

// serviceSignals reports what signal delivery recorded since the last
// pass. The foreground wait has always finished by the time it runs.
func (s *Shell) serviceSignals() {
	select {
	case <-s.signals.Wake():
	default:
	}
	if n, foregroundOnly := s.signals.TakeToggles(); n > 0 {
		s.logger.Debug("mode toggled", "count", n, "foreground_only", foregroundOnly)
		for i := 0; i < n; i++ {
			// Mode after toggle i, counted back from the final one.
			on := foregroundOnly != ((n-1-i)%2 == 1)
			if on {
				s.stdio.Print(enterForegroundOnly)
			} else {
				s.stdio.Print(exitForegroundOnly)
			}
		}
	}
	if s.signals.TakeInterrupt() {
		s.logger.Debug("interrupt", "fresh", s.state.Fresh)
		if s.state.Fresh && s.state.LastStatus.Signaled {
			s.stdio.Printf("\n%s\n", s.state.LastStatus)
		}
		s.state.Fresh = false
	}
}
