// Package jobs tracks background children in a fixed-capacity slot table.
package jobs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"syscall"

	"github.com/rcarmo/go-wish/pkg/core/launch"
)

//go:generate mockgen -destination=mocks/mock_control.go -package=mocks github.com/rcarmo/go-wish/pkg/core/jobs ProcessControl

// ProcessControl is what the table needs from the process layer.
// *launch.Launcher implements it.
type ProcessControl interface {
	Poll(pid int) (launch.Status, bool, error)
	Signal(pid int, sig syscall.Signal) error
}

const (
	// Empty marks an unused slot.
	Empty = -1
	// DefaultCapacity is the number of concurrent background jobs.
	DefaultCapacity = 256
)

// ErrTableFull is returned by Add when every slot is taken. The table
// never grows past its configured capacity.
var ErrTableFull = errors.New("too many background processes")

// Job is one tracked background child.
type Job struct {
	Pid  int
	Slot int
}

// Table is a bounded registry of background process IDs.
type Table struct {
	slots  []int
	count  int
	ctl    ProcessControl
	logger *slog.Logger
}

// New returns an empty table with room for capacity jobs.
func New(capacity int, ctl ProcessControl, logger *slog.Logger) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	slots := make([]int, capacity)
	for i := range slots {
		slots[i] = Empty
	}
	return &Table{slots: slots, ctl: ctl, logger: logger}
}

// Add stores pid in the first empty slot.
func (t *Table) Add(pid int) (Job, error) {
	for i, p := range t.slots {
		if p == Empty {
			t.slots[i] = pid
			t.count++
			t.logger.Debug("job tracked", "pid", pid, "slot", i)
			return Job{Pid: pid, Slot: i}, nil
		}
	}
	return Job{}, fmt.Errorf("%w (limit %d)", ErrTableFull, len(t.slots))
}

// Reap polls every tracked job without blocking, writes a completion line
// to w for each one that finished and frees its slot. It returns the
// number of jobs reaped.
func (t *Table) Reap(w io.Writer) int {
	reaped := 0
	for i, pid := range t.slots {
		if pid == Empty {
			continue
		}
		st, done, err := t.ctl.Poll(pid)
		if err != nil {
			// Nothing left to collect; the slot would never clear otherwise.
			t.logger.Warn("dropping unpollable job", "pid", pid, "slot", i, "error", err)
			t.clear(i)
			continue
		}
		if !done {
			continue
		}
		fmt.Fprintf(w, "background pid %d is done: %s\n", pid, st)
		if st.Signaled {
			t.logger.Debug("job reaped", "pid", pid, "signal", launch.SignalName(st.Signal))
		} else {
			t.logger.Debug("job reaped", "pid", pid, "exit", st.Code)
		}
		t.clear(i)
		reaped++
	}
	return reaped
}

// Shutdown sends SIGTERM to every tracked job, starting from the first
// slot, and empties the table. It returns how many jobs were signalled.
func (t *Table) Shutdown() int {
	signalled := 0
	for i, pid := range t.slots {
		if pid == Empty {
			continue
		}
		if err := t.ctl.Signal(pid, syscall.SIGTERM); err != nil {
			t.logger.Warn("terminate job", "pid", pid, "error", err)
		} else {
			signalled++
		}
		t.clear(i)
	}
	return signalled
}

func (t *Table) clear(slot int) {
	t.slots[slot] = Empty
	t.count--
}

// Len returns the number of tracked jobs.
func (t *Table) Len() int { return t.count }

// Cap returns the table capacity.
func (t *Table) Cap() int { return len(t.slots) }

// Jobs lists the tracked jobs in slot order.
func (t *Table) Jobs() []Job {
	jobs := make([]Job, 0, t.count)
	for i, pid := range t.slots {
		if pid != Empty {
			jobs = append(jobs, Job{Pid: pid, Slot: i})
		}
	}
	return jobs
}
