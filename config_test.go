package iterate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodSplitsFractionalSeconds(t *testing.T) {
	cases := []struct {
		interval float64
		want     time.Duration
	}{
		{0.2, 200 * time.Millisecond},
		{1.0, time.Second},
		{1.5, 1500 * time.Millisecond},
		{0.000001, time.Microsecond},
	}
	for _, c := range cases {
		cfg := SampleConfig{Interval: c.interval}
		got := cfg.Period()
		// Float splitting may be off by a nanosecond; never more.
		if diff := got - c.want; diff < -time.Nanosecond || diff > time.Nanosecond {
			t.Errorf("Period(%v) = %v, want %v", c.interval, got, c.want)
		}
	}
}

func TestSourceKindString(t *testing.T) {
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "pipe", KindPipe.String())
	assert.Equal(t, "stations", KindStations.String())
}

func TestValidateAcceptsCompleteConfigs(t *testing.T) {
	cases := []SampleConfig{
		{Kind: KindFile, Interval: 0.2, Count: 10, Filename: "/proc/net/dev"},
		{Kind: KindPipe, Interval: 0.2, Count: 10, Device: "eth0", Command: "qdisc"},
		{Kind: KindStations, Interval: 0.2, Count: 10, Device: "wlan0"},
	}
	for i, cfg := range cases {
		if err := cfg.Validate(); err != nil {
			t.Errorf("case %d (%s): Validate = %v, want nil", i, cfg.Kind, err)
		}
	}
}
