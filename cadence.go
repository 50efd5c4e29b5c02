package iterate

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// cadenceLog records the gap between consecutive timer fires so the run can
// report how faithfully it held its period. The whole point of this tool is
// timing fidelity; the summary makes a degraded run visible in the
// diagnostic log instead of only in downstream analysis.
type cadenceLog struct {
	period   time.Duration
	last     time.Time
	gaps     []float64 // seconds between consecutive fires
	overruns int       // wakeups reporting more than one elapsed period
}

func newCadenceLog(period time.Duration) *cadenceLog {
	return &cadenceLog{period: period, last: time.Now()}
}

// mark records one wakeup that reported elapsed whole periods.
func (c *cadenceLog) mark(now time.Time, elapsed int) {
	c.gaps = append(c.gaps, now.Sub(c.last).Seconds())
	c.last = now
	if elapsed > 1 {
		c.overruns++
	}
}

// report summarizes the recorded gaps to the diagnostic log.
func (c *cadenceLog) report() {
	if len(c.gaps) < 2 {
		return
	}
	mean, std := stat.MeanStdDev(c.gaps, nil)
	worst := floats.Max(c.gaps)
	ProblemLogger.Printf("cadence: period=%v ticks=%d mean=%.6fs stddev=%.6fs worst=%.6fs overruns=%d",
		c.period, len(c.gaps), mean, std, worst, c.overruns)
}
