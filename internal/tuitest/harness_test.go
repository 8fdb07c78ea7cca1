package tuitest

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX pty")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunCapturesOutput(t *testing.T) {
	requireShell(t)
	rec, err := Run(context.Background(), Config{
		Command: []string{"sh", "-c", "printf 'hello from the pty'"},
		Steps:   []Step{{WaitFor: "hello"}},
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	f, ok := rec.FrameContaining("hello from the pty")
	require.True(t, ok, "output: %q", rec.Raw)
	assert.Equal(t, "hello from the pty", f.Plain)
}

func TestRunReapsProgramWhenStepFails(t *testing.T) {
	requireShell(t)
	start := time.Now()
	_, err := Run(context.Background(), Config{
		Command: []string{"sh", "-c", "echo ready; exec sleep 30"},
		Steps:   []Step{{WaitFor: "never printed"}},
		Timeout: 300 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 0")
	assert.Less(t, time.Since(start), 10*time.Second)
	goleak.VerifyNone(t)
}

func TestRunRejectsDisallowedExit(t *testing.T) {
	requireShell(t)
	_, err := Run(context.Background(), Config{
		Command: []string{"sh", "-c", "exit 3"},
		Timeout: 5 * time.Second,
	})
	require.Error(t, err)

	_, err = Run(context.Background(), Config{
		Command:          []string{"sh", "-c", "echo bye; exit 3"},
		Timeout:          5 * time.Second,
		AllowedExitCodes: []int{3},
	})
	require.NoError(t, err)
}
