package iterate

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

var timeLineRE = regexp.MustCompile(`^Time: (\d+)\.(\d{9})$`)

// parseRecords splits drained output into records and returns each record's
// timestamp (in nanoseconds) and body, failing on any malformed record.
func parseRecords(t *testing.T, out string) (stamps []int64, bodies []string) {
	t.Helper()
	if out == "" {
		return nil, nil
	}
	if !strings.HasSuffix(out, "---\n") {
		t.Fatalf("output does not end with a separator: %q", out)
	}
	for _, rec := range strings.Split(strings.TrimSuffix(out, "---\n"), "---\n") {
		line, body, found := strings.Cut(rec, "\n")
		if !found {
			t.Fatalf("record %q has no timestamp line", rec)
		}
		m := timeLineRE.FindStringSubmatch(line)
		if m == nil {
			t.Fatalf("malformed timestamp line %q", line)
		}
		sec, _ := strconv.ParseInt(m[1], 10, 64)
		nsec, _ := strconv.ParseInt(m[2], 10, 64)
		stamps = append(stamps, sec*1e9+nsec)
		bodies = append(bodies, body)
	}
	return stamps, bodies
}

func TestSampleStaticFileScenario(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "value")
	if err := os.WriteFile(fn, []byte("42\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &SampleConfig{Kind: KindFile, Interval: 0.02, Count: 5, Filename: fn}
	src := NewSource(cfg)
	if err := src.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	defer src.Close()
	sink, err := NewStagedSink("test")
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	sample(cfg, src, sink, nil)

	var out bytes.Buffer
	if err := sink.Drain(&out); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	stamps, bodies := parseRecords(t, out.String())
	if len(bodies) != 5 {
		t.Fatalf("emitted %d records, want 5", len(bodies))
	}
	for i, body := range bodies {
		if body != "42\n" {
			t.Errorf("record %d body = %q, want %q", i, body, "42\n")
		}
	}
	for i := 1; i < len(stamps); i++ {
		if stamps[i] <= stamps[i-1] {
			t.Errorf("timestamps not strictly increasing: record %d at %d, record %d at %d",
				i-1, stamps[i-1], i, stamps[i])
		}
	}
}

func TestSampleStationSetScenario(t *testing.T) {
	root := fakeDebugFS(t, "wlan0", map[string]map[string]string{
		"AA:BB": {"airtime": "X\n"},
		"CC:DD": {"airtime": "X\n"},
	})
	cfg := &SampleConfig{Kind: KindStations, Interval: 0.01, Count: 1,
		Device: "wlan0", DebugFS: root}
	src := NewSource(cfg)
	if err := src.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	defer src.Close()
	sink, err := NewStagedSink("test")
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	sample(cfg, src, sink, nil)

	var out bytes.Buffer
	if err := sink.Drain(&out); err != nil {
		t.Fatal(err)
	}
	_, bodies := parseRecords(t, out.String())
	if len(bodies) != 1 {
		t.Fatalf("emitted %d records, want 1", len(bodies))
	}
	want := "Station: AA:BB\nAirtime:\nX\nStation: CC:DD\nAirtime:\nX\n"
	if bodies[0] != want {
		t.Errorf("station payload = %q, want %q", bodies[0], want)
	}
}

// A source that vanishes mid-run must yield empty, still well-formed
// snapshots, never abort the run.
func TestSampleRecoversFromVanishedSource(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "value")
	if err := os.WriteFile(fn, []byte("42\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &SampleConfig{Kind: KindFile, Interval: 0.01, Count: 3, Filename: fn}
	src := NewSource(cfg)
	if err := src.Prepare(); err != nil {
		t.Fatal(err)
	}
	defer src.Close()
	if err := os.Remove(fn); err != nil {
		t.Fatal(err)
	}
	sink, err := NewStagedSink("test")
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	sample(cfg, src, sink, nil)

	var out bytes.Buffer
	if err := sink.Drain(&out); err != nil {
		t.Fatal(err)
	}
	stamps, bodies := parseRecords(t, out.String())
	if len(stamps) != 3 {
		t.Fatalf("emitted %d records, want 3", len(stamps))
	}
	for i, body := range bodies {
		if body != "" {
			t.Errorf("record %d body = %q, want empty", i, body)
		}
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cases := []*SampleConfig{
		{Kind: KindFile, Interval: 0.1, Count: 5},                      // no filename
		{Kind: KindFile, Interval: 0, Count: 5, Filename: "x"},        // no period
		{Kind: KindFile, Interval: 0.1, Count: 0, Filename: "x"},      // no ticks
		{Kind: KindPipe, Interval: 0.1, Count: 5, Command: "qdisc"},   // no interface
		{Kind: KindStations, Interval: 0.1, Count: 5},                 // no device
		{Kind: SourceKind(99), Interval: 0.1, Count: 5, Device: "e0"}, // unknown kind
	}
	for i, cfg := range cases {
		if err := Run(cfg); !errors.Is(err, ErrConfigInvalid) {
			t.Errorf("case %d: Run = %v, want ErrConfigInvalid", i, err)
		}
	}
}

func TestRunStationDiscoveryFailureIsFatal(t *testing.T) {
	cfg := &SampleConfig{Kind: KindStations, Interval: 0.1, Count: 5,
		Device: "wlan0", DebugFS: t.TempDir()}
	if err := Run(cfg); !errors.Is(err, ErrNoMembersFound) {
		t.Errorf("Run = %v, want ErrNoMembersFound", err)
	}
}
