package iterate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
)

// streamCap bounds one read of one station stream. Hopefully big enough
// even for 802.11ac rate tables.
const streamCap = 8192

// maxStations bounds discovery so a pathological debugfs tree cannot blow
// up the working-buffer pre-allocation.
const maxStations = 256

// maxPhy is how many phy<N> entries discovery probes under the debugfs root.
const maxPhy = 10

// StationRecord is one discovered member of the station set: its link-layer
// address and the paths of its two candidate counter files. Only the paths
// persist across ticks; the handles are closed and reopened every capture.
type StationRecord struct {
	Addr        string
	AirtimeFile string
	RCStatsFile string

	airtime *os.File
	rcStats *os.File
}

// StationSource aggregates per-station wifi debug counters. Discovery runs
// once, at Prepare; the member set is fixed for the run. A station that
// vanishes mid-run just stops yielding stream data, it does not error.
type StationSource struct {
	root    string // debugfs enumeration root
	device  string
	verbose bool

	stations []StationRecord
}

// NewStationSource returns a source that samples every station found under
// root for the named wifi device.
func NewStationSource(root, device string, verbose bool) *StationSource {
	return &StationSource{root: root, device: device, verbose: verbose}
}

// Name identifies this source in diagnostics.
func (ss *StationSource) Name() string { return "stations" }

// stationsDir probes phy0..phy9 under the root for the one holding this
// device's netdev, returning the stations directory path.
func (ss *StationSource) stationsDir() (string, error) {
	for i := 0; i < maxPhy; i++ {
		dir := filepath.Join(ss.root, fmt.Sprintf("phy%d", i),
			"netdev:"+ss.device, "stations")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%w: no phy under %s has netdev:%s", ErrNoMembersFound, ss.root, ss.device)
}

// Prepare discovers the station set. Zero members is fatal: there is nothing
// to sample.
func (ss *StationSource) Prepare() error {
	dir, err := ss.stationsDir()
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrNoMembersFound, dir, err)
	}
	for _, entry := range entries {
		if len(ss.stations) >= maxStations {
			ProblemLogger.Printf("too many stations under %s; sampling the first %d", dir, maxStations)
			break
		}
		ss.stations = append(ss.stations, StationRecord{
			Addr:        entry.Name(),
			AirtimeFile: filepath.Join(dir, entry.Name(), "airtime"),
			RCStatsFile: filepath.Join(dir, entry.Name(), "rc_stats_csv"),
		})
	}
	if len(ss.stations) == 0 {
		return fmt.Errorf("%w: %s is empty", ErrNoMembersFound, dir)
	}
	if ss.verbose {
		ProblemLogger.Printf("discovered %d stations:\n%s", len(ss.stations), spew.Sdump(ss.stations))
	}
	return nil
}

// reset closes any handles left from the previous tick and reopens both
// streams of every station. The rc_stats counters do not reflect updates
// through a stale descriptor, so a fresh open per tick is required, not an
// optimization. Either file may legitimately be absent; that is "no data
// for this stream this tick", never an error.
func (ss *StationSource) reset() {
	for i := range ss.stations {
		st := &ss.stations[i]
		if st.airtime != nil {
			st.airtime.Close()
		}
		if st.rcStats != nil {
			st.rcStats.Close()
		}
		st.airtime, _ = os.Open(st.AirtimeFile)
		st.rcStats, _ = os.Open(st.RCStatsFile)
	}
}

// Capture reopens every station's streams and renders, in discovery order,
// a label line per station followed by the raw bytes of whichever streams
// are present. If the aggregate outgrows buf, later stations are silently
// truncated; the emitter's reserve check turns a full buffer into a warning
// rather than a corrupt record.
func (ss *StationSource) Capture(buf []byte) (int, error) {
	ss.reset()
	size := 0
	for i := range ss.stations {
		st := &ss.stations[i]
		size += copyLabel(buf[size:], "Station: "+st.Addr+"\n")
		if st.airtime != nil {
			size += copyLabel(buf[size:], "Airtime:\n")
			size += readStream(st.airtime, buf[size:])
		}
		if st.rcStats != nil {
			size += copyLabel(buf[size:], "RC stats:\n")
			size += readStream(st.rcStats, buf[size:])
		}
	}
	if size == 0 {
		return 0, fmt.Errorf("%w: no station yielded data", ErrSourceUnavailable)
	}
	return size, nil
}

func copyLabel(buf []byte, label string) int {
	return copy(buf, label)
}

// readStream reads one stream once, up to the per-stream cap or whatever
// room remains.
func readStream(f *os.File, buf []byte) int {
	limit := streamCap
	if limit > len(buf) {
		limit = len(buf)
	}
	n, _ := f.Read(buf[:limit])
	if n < 0 {
		return 0
	}
	return n
}

// BufferSize scales the working buffer with the discovered member count so
// one tick's worth of text for all stations fits.
func (ss *StationSource) BufferSize() int {
	size := 2 * len(ss.stations) * streamCap
	if size < 1<<16 {
		size = 1 << 16
	}
	return size
}

// Close releases whatever handles the last tick left open.
func (ss *StationSource) Close() error {
	for i := range ss.stations {
		st := &ss.stations[i]
		if st.airtime != nil {
			st.airtime.Close()
			st.airtime = nil
		}
		if st.rcStats != nil {
			st.rcStats.Close()
			st.rcStats = nil
		}
	}
	return nil
}

// Stations exposes the discovered records, for diagnostics.
func (ss *StationSource) Stations() []StationRecord { return ss.stations }
