package iterate

import (
	"fmt"
	"io"
	"os/exec"
)

// PipeSource commands one long-lived child process. The child's argv is
// fixed at construction; run-time data only ever travels as payload written
// to the child's stdin. Each tick writes the command line and drains a
// single read from the child's stdout, because the child keeps running
// across ticks and never signals EOF per response.
//
// Known limitation: a child that wedges or exits mid-run is not restarted.
// Writes and reads then fail, are logged, and yield empty snapshots until
// teardown, which reaps the child.
type PipeSource struct {
	argv    []string
	cmdline []byte

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

// NewPipeSource returns a source that keeps one `tc -s -b -` child alive and
// asks it for "<command> show dev <device>" statistics every tick.
func NewPipeSource(command, device string) *PipeSource {
	return NewCommandPipe([]string{"tc", "-s", "-b", "-"},
		fmt.Sprintf("%s show dev %s\n", command, device))
}

// NewCommandPipe returns a source that spawns argv once and writes cmdline to
// its stdin before each read. argv must be fixed, trusted strings.
func NewCommandPipe(argv []string, cmdline string) *PipeSource {
	return &PipeSource{argv: argv, cmdline: []byte(cmdline)}
}

// Name identifies this source in diagnostics.
func (ps *PipeSource) Name() string { return "pipe" }

// Prepare spawns the child with both pipes connected. Failure to start is
// fatal: there is nothing to sample without the child.
func (ps *PipeSource) Prepare() error {
	ps.cmd = exec.Command(ps.argv[0], ps.argv[1:]...)
	var err error
	if ps.stdin, err = ps.cmd.StdinPipe(); err != nil {
		return fmt.Errorf("%w: stdin pipe: %v", ErrChildProcess, err)
	}
	if ps.stdout, err = ps.cmd.StdoutPipe(); err != nil {
		ps.releasePipes()
		return fmt.Errorf("%w: stdout pipe: %v", ErrChildProcess, err)
	}
	if err = ps.cmd.Start(); err != nil {
		ps.releasePipes()
		return fmt.Errorf("%w: exec %q: %v", ErrChildProcess, ps.argv[0], err)
	}
	return nil
}

// releasePipes closes the parent ends left over from a failed spawn.
func (ps *PipeSource) releasePipes() {
	if ps.stdin != nil {
		ps.stdin.Close()
		ps.stdin = nil
	}
	if ps.stdout != nil {
		ps.stdout.Close()
		ps.stdout = nil
	}
	ps.cmd = nil
}

// Capture writes the command line to the child and performs one read from
// its stdout. One read, not a drain loop: the child stays running, so EOF
// never arrives and a second read would block into the next tick's response.
func (ps *PipeSource) Capture(buf []byte) (int, error) {
	if _, err := ps.stdin.Write(ps.cmdline); err != nil {
		return 0, fmt.Errorf("%w: writing command: %v", ErrSourceUnavailable, err)
	}
	n, err := ps.stdout.Read(buf)
	if n <= 0 {
		if err == nil {
			err = io.EOF
		}
		return 0, fmt.Errorf("%w: reading command output: %v", ErrSourceUnavailable, err)
	}
	return n, nil
}

// BufferSize reports the working-buffer capacity for pipe sampling.
func (ps *PipeSource) BufferSize() int { return BufferSize }

// Close shuts the child's stdin so it sees EOF, then reaps it.
func (ps *PipeSource) Close() error {
	if ps.cmd == nil {
		return nil
	}
	ps.stdin.Close()
	return ps.cmd.Wait()
}
