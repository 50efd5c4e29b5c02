// Package iterate implements isochronous snapshot sampling of files,
// subprocess pipes, and per-station wifi debug counters. Each tick of a
// precise repeating timer captures the current contents of the configured
// source and emits it as one timestamped, delimited snapshot.
package iterate

import (
	"log"
	"os"
	"time"
)

// BufferSize is the capacity of the per-tick working buffer.
const BufferSize = 1024 * 1024

// headerReserve is the headroom the working buffer must retain for the
// timestamp header and trailing separator. A snapshot whose payload leaves
// less than this is dropped with a warning rather than emitted truncated.
const headerReserve = 40

// BuildInfo can contain compile-time information about the build
type BuildInfo struct {
	Version string
	Githash string
	Date    string
}

// Build is a global holding compile-time information about the build
var Build = BuildInfo{
	Version: "0.3.1",
	Githash: "no git hash computed",
	Date:    "no build date computed",
}

// StartTime is a global holding the time init() was run
var StartTime time.Time

// ProblemLogger will log warning messages to a file. Diagnostics go here and
// only here: the snapshot stream must never carry them.
var ProblemLogger *log.Logger

func init() {
	StartTime = time.Now()

	// Driver programs will override this, but at least initialize with a sensible value
	ProblemLogger = log.New(os.Stderr, "", log.LstdFlags)
}
