// Package tuitest runs a terminal program inside a pseudo terminal, replays
// scripted keystrokes and captures what it drew.
package tuitest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 100
	defaultHeight  = 30
	defaultTimeout = 10 * time.Second
)

// Step is one scripted interaction. The harness waits Delay, or until a
// frame contains WaitFor when it is set, then writes Input.
type Step struct {
	Delay   time.Duration
	WaitFor string
	Input   []byte
}

// Config describes the program to spawn and how to drive it.
type Config struct {
	Command          []string
	Dir              string
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

// Recording is the raw terminal stream plus the frames parsed from it.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// output collects the PTY stream while steps are waiting on it.
type output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

func (o *output) contains(s string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return strings.Contains(stripANSI(o.buf.String()), s)
}

func (o *output) bytes() []byte {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]byte(nil), o.buf.Bytes()...)
}

// Run starts cfg.Command in a PTY, plays the steps and waits for the
// program to exit.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, orDefault(cfg.Timeout, defaultTimeout))
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = buildEnv(cfg.Env)

	size := &pty.Winsize{
		Rows: uint16(orDefault(cfg.Height, defaultHeight)),
		Cols: uint16(orDefault(cfg.Width, defaultWidth)),
	}
	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}

	out := &output{}
	copyDone := make(chan struct{})
	go func() {
		defer close(copyDone)
		responder := newTerminalResponder(ptmx)
		buf := make([]byte, 4096)
		for {
			n, readErr := ptmx.Read(buf)
			if n > 0 {
				responder.Process(buf[:n])
				_, _ = out.Write(buf[:n])
			}
			if readErr != nil {
				return
			}
		}
	}()

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	// Every return path reaps the child and drains the reader.
	exited := false
	defer func() {
		if !exited {
			_ = cmd.Process.Kill()
			<-waitErr
		}
		_ = ptmx.Close()
		<-copyDone
	}()

	start := time.Now()
	for i, step := range cfg.Steps {
		if err := waitStep(ctx, step, out); err != nil {
			return nil, fmt.Errorf("tuitest: step %d: %w", i, err)
		}
		if len(step.Input) > 0 {
			if _, err := ptmx.Write(step.Input); err != nil {
				return nil, fmt.Errorf("tuitest: write input: %w", err)
			}
		}
	}

	select {
	case err := <-waitErr:
		exited = true
		if err != nil && !exitAllowed(err, cfg) {
			return nil, fmt.Errorf("tuitest: program exited with error: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}

	_ = ptmx.Close()
	<-copyDone

	raw := out.bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func waitStep(ctx context.Context, step Step, out *output) error {
	if step.Delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(step.Delay):
		}
	}
	if step.WaitFor == "" {
		return nil
	}
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for !out.contains(step.WaitFor) {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", step.WaitFor, ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

func exitAllowed(err error, cfg Config) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		for _, code := range cfg.AllowedExitCodes {
			if exitErr.ExitCode() == code {
				return true
			}
		}
	}
	return cfg.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt")
}

func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

func buildEnv(extra []string) []string {
	env := append(os.Environ(), extra...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

// Keys understood by the preview program.
var (
	KeyQuit    = []byte{'q'}
	KeyRestart = []byte{'r'}
	KeySkip    = []byte{'s'}
	KeyHelp    = []byte{'?'}
	KeyCtrlC   = []byte{3}
	KeyEsc     = []byte{27}
)
