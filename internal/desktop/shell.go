// Package desktop runs the backend as a child process and points a window at it.
package desktop

import (
	"context" // Request cancellation
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"os/exec" // Child processes
	"runtime" // Platform detection
	"time"    // Time durations

	"github.com/sirupsen/logrus" // Structured logging
)

// ErrBackendExited is returned when the backend stops before the window opens
var ErrBackendExited = errors.New("backend exited before the window opened")

// Shell starts one backend process, waits a fixed delay and opens URL.
// A slow backend shows an error page; nothing polls it for readiness.
// Env must carry whatever the backend needs to start, such as JWT_SECRET.
type Shell struct {
	Binary string                 // Backend executable
	Args   []string               // Backend arguments
	Env    []string               // Extra environment, appended to the inherited one
	URL    string                 // Address opened once the delay has passed
	Delay  time.Duration          // Fixed wait before opening
	Open   func(url string) error // Defaults to OpenBrowser
}

// Run blocks until the backend exits or ctx is cancelled. Cancelling ctx
// kills the backend and is not an error.
func (s *Shell) Run(ctx context.Context) error {
	open := s.Open
	if open == nil {
		open = OpenBrowser
	}
	log := logrus.WithField("backend", s.Binary)

	cmd := exec.CommandContext(ctx, s.Binary, s.Args...)
	if len(s.Env) > 0 {
		cmd.Env = append(cmd.Environ(), s.Env...)
	}
	stdout := log.WriterLevel(logrus.InfoLevel)
	stderr := log.WriterLevel(logrus.WarnLevel)
	defer stdout.Close()
	defer stderr.Close()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start backend: %w", err)
	}
	log.WithField("pid", cmd.Process.Pid).Info("Backend started")

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case err := <-done:
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBackendExited, err)
		}
		return ErrBackendExited
	case <-timer.C:
	}

	if err := open(s.URL); err != nil {
		log.WithError(err).WithField("url", s.URL).Error("Failed to open window")
	} else {
		log.WithField("url", s.URL).Info("Window opened")
	}

	err := <-done
	if ctx.Err() != nil {
		log.Info("Backend stopped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	return nil
}

// OpenBrowser opens url with the platform's default handler
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}
