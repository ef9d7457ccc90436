package sshutils

import (
	"bytes"
	"strings"

	"github.com/skiffworks/skiff/pkg/logger"
	"github.com/skiffworks/skiff/pkg/models"
)

// CommandResult captures one remote command invocation. A non-zero ExitStatus
// is a result, not an error.
type CommandResult struct {
	ExitStatus int
	Stdout     string
	Stderr     string
}

// Session pairs a live transport with the machine it belongs to. It is valid
// only inside the Execute call that produced it and must not be retained.
type Session struct {
	client  SSHClienter
	machine *models.Machine
	l       *logger.Logger
}

// Machine returns the machine this session is connected to.
func (s *Session) Machine() *models.Machine {
	return s.machine
}

// Run executes cmd on the guest and returns its exit status with captured
// stdout and stderr.
func (s *Session) Run(cmd string) (*CommandResult, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	s.l.Debugf("running on %q: %s", s.machine.Name, cmd)

	var stdout, stderr bytes.Buffer
	status, err := sess.Run(cmd, &stdout, &stderr)
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		ExitStatus: status,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
	}, nil
}

// RunWithCallback executes cmd, invoking fn for each complete line of stdout
// as it arrives, while still capturing the full result.
func (s *Session) RunWithCallback(cmd string, fn func(line string)) (*CommandResult, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	s.l.Debugf("running on %q with output callback: %s", s.machine.Name, cmd)

	var stdout, stderr bytes.Buffer
	lw := &lineWriter{fn: fn}
	status, err := sess.Run(cmd, &teeWriter{a: &stdout, b: lw}, &stderr)
	lw.flush()
	if err != nil {
		return nil, err
	}
	return &CommandResult{
		ExitStatus: status,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
	}, nil
}

// lineWriter buffers writes and emits complete lines to fn.
type lineWriter struct {
	fn  func(string)
	buf bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Partial line; keep it buffered.
			w.buf.WriteString(line)
			break
		}
		w.fn(strings.TrimRight(line, "\n"))
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	if w.buf.Len() > 0 {
		w.fn(w.buf.String())
		w.buf.Reset()
	}
}

// teeWriter duplicates writes to two writers, ignoring errors from the
// secondary callback path.
type teeWriter struct {
	a *bytes.Buffer
	b *lineWriter
}

func (t *teeWriter) Write(p []byte) (int, error) {
	t.a.Write(p)
	return t.b.Write(p)
}
