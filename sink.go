package iterate

import (
	"fmt"
	"io"
	"os"
)

// OutputSink is where snapshots land. Direct mode writes straight to the
// process's stdout; staged mode accumulates the whole run in a scratch file
// and streams it to stdout in bulk afterwards, decoupling the timing-critical
// sampling phase from a slow or blocking consumer.
type OutputSink struct {
	file   *os.File
	staged bool
}

// NewDirectSink returns a sink that emits to stdout as snapshots happen.
func NewDirectSink() *OutputSink {
	return &OutputSink{file: os.Stdout}
}

// NewStagedSink creates the scratch file and immediately unlinks it, so it
// stays reachable through the open handle but can never outlive the process
// as a visible artifact, even on abnormal exit.
func NewStagedSink(runID string) (*OutputSink, error) {
	f, err := os.CreateTemp("", "iterate-"+runID+"-*")
	if err != nil {
		return nil, fmt.Errorf("unable to create tmpfile: %w", err)
	}
	if err := os.Remove(f.Name()); err != nil {
		ProblemLogger.Printf("could not unlink scratch file %s: %v", f.Name(), err)
	}
	return &OutputSink{file: f, staged: true}, nil
}

// File exposes the underlying descriptor for vectored writes.
func (s *OutputSink) File() *os.File { return s.file }

// Staged reports whether this sink accumulates before final emission.
func (s *OutputSink) Staged() bool { return s.staged }

// Drain streams a staged sink's accumulated snapshots to dst in order. On a
// direct sink it is a no-op: everything was already written.
func (s *OutputSink) Drain(dst io.Writer) error {
	if !s.staged {
		return nil
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding scratch file: %w", err)
	}
	if _, err := io.Copy(dst, s.file); err != nil {
		return fmt.Errorf("draining scratch file: %w", err)
	}
	return nil
}

// Close releases the scratch file handle. Direct sinks leave stdout alone.
func (s *OutputSink) Close() error {
	if !s.staged {
		return nil
	}
	return s.file.Close()
}
