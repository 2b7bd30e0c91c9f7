// Package sigbridge turns asynchronous session signals into flags the
// interpreter loop polls between commands.
//
// Delivery only writes atomics and posts a wake-up. Everything that prints,
// waits or touches the job table happens on the loop's goroutine.
package sigbridge

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// Bridge carries interrupt and foreground-only state between signal
// delivery and the loop.
type Bridge struct {
	interrupt atomic.Bool
	// mode packs the foreground-only flag in bit 0 and the number of
	// unserviced toggles above it, so both are read and cleared together.
	mode atomic.Uint64

	wake chan struct{}
	sigs chan os.Signal
	done chan struct{}
	wg   sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// New returns a bridge that is not yet receiving signals.
func New() *Bridge {
	return &Bridge{
		wake: make(chan struct{}, 1),
		sigs: make(chan os.Signal, 8),
		done: make(chan struct{}),
	}
}

// Start registers for SIGINT and SIGTSTP and ignores SIGHUP and SIGQUIT for
// the rest of the session.
func (b *Bridge) Start() {
	b.startOnce.Do(func() {
		signal.Ignore(syscall.SIGHUP, syscall.SIGQUIT)
		signal.Notify(b.sigs, syscall.SIGINT, syscall.SIGTSTP)
		b.wg.Add(1)
		go b.run()
	})
}

// Stop undoes Start.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		signal.Stop(b.sigs)
		close(b.done)
		b.wg.Wait()
	})
}

func (b *Bridge) run() {
	defer b.wg.Done()
	for {
		select {
		case sig := <-b.sigs:
			b.Deliver(sig)
		case <-b.done:
			return
		}
	}
}

// Deliver records sig as if it had just arrived. Signals other than SIGINT
// and SIGTSTP are ignored.
func (b *Bridge) Deliver(sig os.Signal) {
	switch sig {
	case syscall.SIGINT:
		b.interrupt.Store(true)
	case syscall.SIGTSTP:
		for {
			old := b.mode.Load()
			if b.mode.CompareAndSwap(old, (old^1)+2) {
				break
			}
		}
	default:
		return
	}
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// TakeInterrupt reports and clears a pending interrupt.
func (b *Bridge) TakeInterrupt() bool {
	return b.interrupt.Swap(false)
}

// TakeToggles returns and clears the number of mode toggles delivered
// since the last call, along with the mode after the last of them.
func (b *Bridge) TakeToggles() (int, bool) {
	for {
		old := b.mode.Load()
		if b.mode.CompareAndSwap(old, old&1) {
			return int(old >> 1), old&1 == 1
		}
	}
}

// ForegroundOnly reports whether a trailing & is currently ignored.
func (b *Bridge) ForegroundOnly() bool {
	return b.mode.Load()&1 == 1
}

// Wake is readable after a delivery. It holds at most one pending value.
func (b *Bridge) Wake() <-chan struct{} {
	return b.wake
}
