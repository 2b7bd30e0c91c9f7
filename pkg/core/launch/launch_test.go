package launch_test

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarmo/go-wish/pkg/core/launch"
	"github.com/rcarmo/go-wish/pkg/core/redirect"
	"github.com/rcarmo/go-wish/pkg/testutil"
)

func TestMain(m *testing.M) {
	if launch.IsChild(os.Args) {
		os.Exit(launch.RunChild(os.Args))
	}
	os.Exit(m.Run())
}

func newLauncher(t *testing.T) *launch.Launcher {
	t.Helper()
	l, err := launch.New("", testutil.DiscardLogger())
	require.NoError(t, err)
	return l
}

func openStreams(t *testing.T, background bool) (*redirect.Streams, func() string) {
	t.Helper()
	stdio, out, _ := testutil.CaptureStdioNoInput()
	streams, err := redirect.Open(redirect.Spec{}, background, stdio, os.DevNull)
	require.NoError(t, err)
	return streams, func() string {
		require.NoError(t, streams.Restore())
		return out.String()
	}
}

// waitExec waits until the stub has replaced itself with name.
func waitExec(t *testing.T, pid int, name string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return testutil.ReadComm(pid) == name
	}, 5*time.Second, 10*time.Millisecond)
}

func TestForegroundExitCode(t *testing.T) {
	l := newLauncher(t)
	streams, finish := openStreams(t, false)

	p, err := l.Start([]string{"sh", "-c", "echo hi; exit 3"}, launch.Foreground, streams)
	require.NoError(t, err)
	st, err := l.Wait(p.Pid)
	require.NoError(t, err)

	assert.Equal(t, launch.Exited(3), st)
	assert.Equal(t, "exit value 3", st.String())
	assert.Equal(t, "hi\n", finish())
}

func TestSignalTerminated(t *testing.T) {
	l := newLauncher(t)
	streams, finish := openStreams(t, false)

	p, err := l.Start([]string{"sh", "-c", "kill -TERM $$"}, launch.Foreground, streams)
	require.NoError(t, err)
	st, err := l.Wait(p.Pid)
	require.NoError(t, err)
	finish()

	assert.True(t, st.Signaled)
	assert.Equal(t, syscall.SIGTERM, st.Signal)
	assert.Equal(t, "terminated by signal 15", st.String())
}

func TestUnknownCommand(t *testing.T) {
	l := newLauncher(t)
	streams, finish := openStreams(t, false)

	p, err := l.Start([]string{"wish-no-such-command-xyz"}, launch.Foreground, streams)
	require.NoError(t, err)
	st, err := l.Wait(p.Pid)
	require.NoError(t, err)

	assert.Equal(t, launch.Exited(1), st)
	assert.Equal(t, "wish-no-such-command-xyz: no such file or directory\n", finish())
}

func TestStartFailedExitsNonzero(t *testing.T) {
	l := newLauncher(t)
	streams, finish := openStreams(t, false)

	p, err := l.StartFailed(streams)
	require.NoError(t, err)
	st, err := l.Wait(p.Pid)
	require.NoError(t, err)

	assert.Equal(t, launch.Exited(1), st)
	assert.Empty(t, finish())
}

func TestPollBackground(t *testing.T) {
	l := newLauncher(t)
	streams, finish := openStreams(t, true)
	defer finish()

	p, err := l.Start([]string{"sleep", "30"}, launch.Background, streams)
	require.NoError(t, err)
	waitExec(t, p.Pid, "sleep")

	_, done, err := l.Poll(p.Pid)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, l.Signal(p.Pid, syscall.SIGTERM))
	var st launch.Status
	require.Eventually(t, func() bool {
		st, done, err = l.Poll(p.Pid)
		return err == nil && done
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, launch.Killed(syscall.SIGTERM), st)
}

func TestBackgroundIgnoresInterrupt(t *testing.T) {
	l := newLauncher(t)
	streams, finish := openStreams(t, true)
	defer finish()

	p, err := l.Start([]string{"sleep", "30"}, launch.Background, streams)
	require.NoError(t, err)
	waitExec(t, p.Pid, "sleep")

	require.NoError(t, l.Signal(p.Pid, syscall.SIGINT))
	time.Sleep(100 * time.Millisecond)
	_, done, err := l.Poll(p.Pid)
	require.NoError(t, err)
	assert.False(t, done, "background child should survive SIGINT")

	require.NoError(t, l.Signal(p.Pid, syscall.SIGKILL))
	st, err := l.Wait(p.Pid)
	require.NoError(t, err)
	assert.Equal(t, launch.Killed(syscall.SIGKILL), st)
}

func TestForegroundInterruptAndSuspend(t *testing.T) {
	l := newLauncher(t)
	streams, finish := openStreams(t, false)
	defer finish()

	p, err := l.Start([]string{"sleep", "30"}, launch.Foreground, streams)
	require.NoError(t, err)
	waitExec(t, p.Pid, "sleep")

	require.NoError(t, l.Signal(p.Pid, syscall.SIGTSTP))
	time.Sleep(100 * time.Millisecond)
	assert.NotEqual(t, "T", testutil.ReadState(p.Pid), "SIGTSTP must be ignored in children")

	require.NoError(t, l.Signal(p.Pid, syscall.SIGINT))
	st, err := l.Wait(p.Pid)
	require.NoError(t, err)
	assert.Equal(t, launch.Killed(syscall.SIGINT), st)
}

func TestIsChild(t *testing.T) {
	assert.True(t, launch.IsChild([]string{"wish-exec", "fg", "ls"}))
	assert.True(t, launch.IsChild([]string{"/proc/self/wish-exec"}))
	assert.False(t, launch.IsChild([]string{"wish"}))
	assert.False(t, launch.IsChild(nil))
}

func TestRunChildUsage(t *testing.T) {
	assert.Equal(t, 2, launch.RunChild([]string{launch.ChildName}))
	assert.Equal(t, 2, launch.RunChild([]string{launch.ChildName, "sideways", "ls"}))
	assert.Equal(t, 2, launch.RunChild([]string{launch.ChildName, "fg"}))
	assert.Equal(t, 1, launch.RunChild([]string{launch.ChildName, "fail", "ls"}))
}

func TestModeRoundTrip(t *testing.T) {
	for _, m := range []launch.Mode{launch.Foreground, launch.Background, launch.Failed} {
		got, err := launch.ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	assert.Equal(t, "Mode(7)", launch.Mode(7).String())
}

func TestStatusHelpers(t *testing.T) {
	assert.True(t, launch.Exited(0).Success())
	assert.False(t, launch.Exited(2).Success())
	assert.False(t, launch.Killed(syscall.SIGINT).Success())
	assert.Equal(t, "terminated by signal 2", launch.Killed(syscall.SIGINT).String())
}

func TestSignalName(t *testing.T) {
	assert.Equal(t, "INT", launch.SignalName(syscall.SIGINT))
	assert.Equal(t, "TSTP", launch.SignalName(syscall.SIGTSTP))
	assert.Equal(t, "200", launch.SignalName(syscall.Signal(200)))
}
