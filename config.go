package iterate

import (
	"fmt"
	"math"
	"time"
)

// SourceKind selects which capture strategy a run uses.
type SourceKind int

// Names for the possible values of SourceKind
const (
	KindFile     SourceKind = iota // re-read one file each tick
	KindPipe                       // command a long-lived subprocess each tick
	KindStations                   // aggregate per-station debug counters each tick
)

func (k SourceKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindPipe:
		return "pipe"
	case KindStations:
		return "stations"
	}
	return fmt.Sprintf("SourceKind(%d)", int(k))
}

// SampleConfig is the immutable configuration for one sampling run. It is
// built once by the driver program and never mutated after Run begins.
type SampleConfig struct {
	Kind     SourceKind
	Interval float64 // sampling period in fractional seconds
	Count    int     // target number of elapsed ticks

	Filename string // KindFile: the file to re-read each tick
	Device   string // KindPipe, KindStations: network interface name
	Command  string // KindPipe: statistics family, e.g. "qdisc"
	DebugFS  string // KindStations: enumeration root; default wifi debugfs

	Buffer  bool // stage output in a scratch file, stream it after the run
	Publish int  // if > 0, also publish snapshots on this ZMQ PUB port
	Verbose bool
}

// DefaultDebugFS is where the kernel exposes per-station wifi counters.
const DefaultDebugFS = "/sys/kernel/debug/ieee80211"

// Period converts the fractional-seconds interval into a time.Duration,
// splitting it into whole seconds plus a nanosecond remainder the way the
// timer wants it.
func (c *SampleConfig) Period() time.Duration {
	sec := math.Floor(c.Interval)
	nsec := (c.Interval - sec) * float64(time.Second)
	return time.Duration(sec)*time.Second + time.Duration(nsec)
}

// Validate checks that the configuration identifies a usable source and a
// sane schedule. All failures here are fatal: they are reported before the
// sampling loop ever starts.
func (c *SampleConfig) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval %v must be positive", ErrConfigInvalid, c.Interval)
	}
	if c.Count <= 0 {
		return fmt.Errorf("%w: count %d must be positive", ErrConfigInvalid, c.Count)
	}
	switch c.Kind {
	case KindFile:
		if c.Filename == "" {
			return fmt.Errorf("%w: must specify filename", ErrConfigInvalid)
		}
	case KindPipe:
		if c.Device == "" {
			return fmt.Errorf("%w: must specify interface", ErrConfigInvalid)
		}
		if c.Command == "" {
			return fmt.Errorf("%w: must specify command", ErrConfigInvalid)
		}
	case KindStations:
		if c.Device == "" {
			return fmt.Errorf("%w: must specify wifi device", ErrConfigInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %d", ErrConfigInvalid, int(c.Kind))
	}
	return nil
}
