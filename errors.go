package iterate

import "errors"

// Sentinel errors for the sampler. Only ErrConfigInvalid, ErrNoMembersFound,
// and ErrChildProcess can abort a run, and only before the sampling loop
// starts; everything else is recovered per tick.
var (
	// ErrSourceUnavailable means a source or one of its streams could not be
	// opened or read this tick. The tick still emits an (empty) snapshot.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrBufferOverrun means a rendered snapshot would not fit the working
	// buffer's reserve; the snapshot is dropped, the run continues.
	ErrBufferOverrun = errors.New("buffer overrun")

	// ErrNoMembersFound means station discovery traversed the enumeration
	// root and found nothing to sample. Fatal at startup.
	ErrNoMembersFound = errors.New("no stations found")

	// ErrConfigInvalid means the run configuration cannot identify a source.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrChildProcess means the subprocess behind a pipe source failed to
	// start. Fatal at startup; mid-run pipe errors are not.
	ErrChildProcess = errors.New("child process failure")
)
