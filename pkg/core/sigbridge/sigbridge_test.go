package sigbridge_test

import (
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarmo/go-wish/pkg/core/sigbridge"
)

func TestInterrupt(t *testing.T) {
	b := sigbridge.New()
	assert.False(t, b.TakeInterrupt())

	b.Deliver(syscall.SIGINT)
	b.Deliver(syscall.SIGINT)
	assert.True(t, b.TakeInterrupt())
	assert.False(t, b.TakeInterrupt())
	assert.False(t, b.ForegroundOnly())
}

func TestToggles(t *testing.T) {
	b := sigbridge.New()

	b.Deliver(syscall.SIGTSTP)
	assert.True(t, b.ForegroundOnly())
	n, fg := b.TakeToggles()
	assert.Equal(t, 1, n)
	assert.True(t, fg)

	n, fg = b.TakeToggles()
	assert.Zero(t, n)
	assert.True(t, fg)

	b.Deliver(syscall.SIGTSTP)
	b.Deliver(syscall.SIGTSTP)
	b.Deliver(syscall.SIGTSTP)
	n, fg = b.TakeToggles()
	assert.Equal(t, 3, n)
	assert.False(t, fg)
	assert.False(t, b.ForegroundOnly())
}

func TestConcurrentToggles(t *testing.T) {
	b := sigbridge.New()
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Deliver(syscall.SIGTSTP)
		}()
	}
	wg.Wait()
	n, fg := b.TakeToggles()
	assert.Equal(t, 64, n)
	assert.False(t, fg)
}

func TestWakeHoldsOne(t *testing.T) {
	b := sigbridge.New()
	b.Deliver(syscall.SIGINT)
	b.Deliver(syscall.SIGTSTP)

	select {
	case <-b.Wake():
	default:
		t.Fatal("expected a wake-up")
	}
	select {
	case <-b.Wake():
		t.Fatal("wake channel should hold a single value")
	default:
	}
}

func TestIgnoresOtherSignals(t *testing.T) {
	b := sigbridge.New()
	b.Deliver(syscall.SIGUSR1)
	select {
	case <-b.Wake():
		t.Fatal("unexpected wake-up")
	default:
	}
	assert.False(t, b.TakeInterrupt())
}

func TestStartReceivesSignals(t *testing.T) {
	b := sigbridge.New()
	b.Start()
	defer b.Stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTSTP))
	select {
	case <-b.Wake():
	case <-time.After(5 * time.Second):
		t.Fatal("SIGTSTP was not delivered")
	}
	n, fg := b.TakeToggles()
	assert.Equal(t, 1, n)
	assert.True(t, fg)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))
	require.Eventually(t, b.TakeInterrupt, 5*time.Second, 10*time.Millisecond)
}

func TestStopIsIdempotent(t *testing.T) {
	b := sigbridge.New()
	b.Start()
	b.Stop()
	b.Stop()
}
