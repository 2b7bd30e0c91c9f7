// Package redirect parses trailing < and > control tokens and prepares the
// standard streams a child process runs with.
//
// The interpreter never rebinds its own descriptors. Instead every command
// gets a Streams value holding the files its child will see as fds 0, 1 and
// 2. The interpreter's streams are saved on Open and reinstated by Restore,
// which must run on every exit path.
package redirect

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rcarmo/go-wish/pkg/core"
)

const (
	// InToken redirects standard input from the following file.
	InToken = "<"
	// OutToken redirects standard output to the following file.
	OutToken = ">"

	// Window is how many trailing tokens are scanned for control tokens.
	// "< in > out" is the longest tail that can carry them.
	Window = 4
)

var (
	// ErrOpen marks a redirection file that could not be opened.
	ErrOpen = errors.New("cannot open redirection file")
	// ErrMissingTarget marks a control token with no file name after it.
	ErrMissingTarget = errors.New("missing file name")
)

// Spec is the result of parsing the control tokens of one command.
type Spec struct {
	// Args is the argument vector with control tokens and file names removed.
	Args []string
	// In is the input file, or "" when stdin is not redirected.
	In string
	// Out is the effective output file, or "" when stdout is not redirected.
	Out string
	// Truncate lists output files named before the effective one. Each is
	// still created or truncated, as POSIX shells do for "> a > b".
	Truncate []string
}

// HasIn reports whether stdin is explicitly redirected.
func (s Spec) HasIn() bool { return s.In != "" }

// HasOut reports whether stdout is explicitly redirected.
func (s Spec) HasOut() bool { return s.Out != "" }

// Parse scans the tail of args for control tokens. Index 0 is the program
// name and is never treated as a control token.
func Parse(args []string) (Spec, error) {
	spec := Spec{}
	drop := make([]bool, len(args))
	low := len(args) - Window
	if low < 1 {
		low = 1
	}
	for i := len(args) - 1; i >= low; i-- {
		tok := args[i]
		if tok != InToken && tok != OutToken {
			continue
		}
		if i+1 >= len(args) || drop[i+1] {
			return Spec{}, fmt.Errorf("%w after %s", ErrMissingTarget, tok)
		}
		target := args[i+1]
		switch tok {
		case InToken:
			if spec.In == "" {
				spec.In = target
			}
		case OutToken:
			if spec.Out == "" {
				spec.Out = target
			} else {
				spec.Truncate = append(spec.Truncate, target)
			}
		}
		drop[i] = true
		drop[i+1] = true
	}
	spec.Args = make([]string, 0, len(args))
	for i, tok := range args {
		if !drop[i] {
			spec.Args = append(spec.Args, tok)
		}
	}
	return spec, nil
}

// Streams are the descriptors one child runs with, plus whatever is needed
// to undo them.
type Streams struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	stdio     *core.Stdio
	savedIn   io.Reader
	savedOut  io.Writer
	opened    []*os.File
	childEnds []*os.File
	copiers   sync.WaitGroup
	restored  bool
}

// Open prepares the streams for one command. Explicit redirections are
// opened first; a background command then gets the null device on every
// side the user left alone, and on stderr when the interpreter's stderr is
// not a file. Only foreground commands are ever fed through pipe copiers,
// so Restore never waits on a background child. On failure the diagnostic is written to the
// interactive output stream, everything opened so far is closed and the
// returned Streams is nil.
func Open(spec Spec, background bool, stdio *core.Stdio, nullDevice string) (*Streams, error) {
	s := &Streams{
		stdio:    stdio,
		savedIn:  stdio.In,
		savedOut: stdio.Out,
	}
	if err := s.open(spec, background, nullDevice); err != nil {
		_ = s.Restore()
		return nil, err
	}
	return s, nil
}

func (s *Streams) open(spec Spec, background bool, nullDevice string) error {
	for _, name := range spec.Truncate {
		f, err := openOutput(name)
		if err != nil {
			s.stdio.Printf("cannot open %s for output\n", name)
			return fmt.Errorf("%w: %v", ErrOpen, err)
		}
		_ = f.Close()
	}
	if spec.HasOut() {
		f, err := openOutput(spec.Out)
		if err != nil {
			s.stdio.Printf("cannot open %s for output\n", spec.Out)
			return fmt.Errorf("%w: %v", ErrOpen, err)
		}
		s.track(f)
		s.Stdout = f
	}
	if spec.HasIn() {
		f, err := os.Open(spec.In)
		if err != nil {
			s.stdio.Printf("cannot open %s for input\n", spec.In)
			return fmt.Errorf("%w: %v", ErrOpen, err)
		}
		s.track(f)
		s.Stdin = f
	}
	if background {
		if s.Stdin == nil {
			f, err := os.Open(nullDevice)
			if err != nil {
				s.stdio.Printf("cannot open %s for input\n", nullDevice)
				return fmt.Errorf("%w: %v", ErrOpen, err)
			}
			s.track(f)
			s.Stdin = f
		}
		if s.Stdout == nil {
			f, err := os.OpenFile(nullDevice, os.O_WRONLY, 0)
			if err != nil {
				s.stdio.Printf("cannot open %s for output\n", nullDevice)
				return fmt.Errorf("%w: %v", ErrOpen, err)
			}
			s.track(f)
			s.Stdout = f
		}
		// Background children never feed a pipe copier.
		if _, ok := s.stdio.Err.(*os.File); !ok {
			f, err := os.OpenFile(nullDevice, os.O_WRONLY, 0)
			if err != nil {
				s.stdio.Printf("cannot open %s for output\n", nullDevice)
				return fmt.Errorf("%w: %v", ErrOpen, err)
			}
			s.track(f)
			s.Stderr = f
		}
	}
	var err error
	if s.Stdin == nil {
		if s.Stdin, err = s.inherit(s.stdio.In, nullDevice); err != nil {
			return err
		}
	}
	if s.Stdout == nil {
		if s.Stdout, err = s.inheritWriter(s.stdio.Out); err != nil {
			return err
		}
	}
	if s.Stderr == nil {
		if s.Stderr, err = s.inheritWriter(s.stdio.Err); err != nil {
			return err
		}
	}
	return nil
}

func openOutput(name string) (*os.File, error) {
	return os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

func (s *Streams) track(f *os.File) {
	s.opened = append(s.opened, f)
}

// inherit hands the interpreter's input to the child when it is a real
// file. Any other reader would have to be drained by a copier that competes
// with the interpreter's own line reads, so the child gets the null device.
func (s *Streams) inherit(r io.Reader, nullDevice string) (*os.File, error) {
	if f, ok := r.(*os.File); ok {
		return f, nil
	}
	f, err := os.Open(nullDevice)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", nullDevice, err)
	}
	s.track(f)
	return f, nil
}

// inheritWriter passes file-backed writers straight through and feeds any
// other writer from a pipe, much like os/exec does for Cmd.Stdout.
func (s *Streams) inheritWriter(w io.Writer) (*os.File, error) {
	if f, ok := w.(*os.File); ok {
		return f, nil
	}
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("pipe: %w", err)
	}
	s.childEnds = append(s.childEnds, pw)
	s.copiers.Add(1)
	go func() {
		defer s.copiers.Done()
		_, _ = io.Copy(w, pr)
		_ = pr.Close()
	}()
	return pw, nil
}

// Started releases the interpreter's copies of descriptors that only the
// child should hold open. It must be called once the child has been
// started so pipe copiers see EOF when the child exits.
func (s *Streams) Started() {
	for _, f := range s.childEnds {
		_ = f.Close()
	}
	s.childEnds = nil
}

// Restore closes everything Open created, waits for pipe copiers to drain
// and reinstates the interpreter's saved streams. It is safe to call more
// than once.
func (s *Streams) Restore() error {
	if s == nil || s.restored {
		return nil
	}
	s.restored = true
	s.Started()
	var errs []error
	for _, f := range s.opened {
		if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}
	s.opened = nil
	s.copiers.Wait()
	s.stdio.In = s.savedIn
	s.stdio.Out = s.savedOut
	s.Stdin, s.Stdout, s.Stderr = nil, nil, nil
	return errors.Join(errs...)
}
