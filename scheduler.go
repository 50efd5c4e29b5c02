package iterate

import "time"

// TickScheduler produces fire events at a fixed period and reports how many
// whole periods each wakeup represents. A slow consumer does not make the
// schedule drift: the elapsed count is computed against the scheduler's own
// phase reference, so overruns are observable instead of silently absorbed.
type TickScheduler struct {
	period   time.Duration
	ticker   *time.Ticker
	deadline time.Time // when the next unaccounted period completes
}

// Arm establishes the repeating timer. The first tick completes one full
// period after Arm returns.
func (ts *TickScheduler) Arm(period time.Duration) {
	ts.period = period
	ts.deadline = time.Now().Add(period)
	ts.ticker = time.NewTicker(period)
}

// AwaitTick blocks until at least one period has elapsed since the last call
// (or since Arm) and returns the number of whole periods that have elapsed.
// Normally that is 1; more means the previous iteration overran its period,
// which is tolerated, not an error. A wakeup that arrives before any period
// has completed is malformed: it is logged and reported as 0 elapsed.
// Closing abort unblocks the call with ok == false.
func (ts *TickScheduler) AwaitTick(abort <-chan struct{}) (elapsed int, ok bool) {
	select {
	case <-abort:
		return 0, false
	case <-ts.ticker.C:
		// The runtime buffers one tick and drops the rest while a slow
		// receiver is away, so neither the wakeup count nor the tick's own
		// timestamp can be trusted. Count elapsed periods against the
		// phase reference instead.
		ahead := time.Since(ts.deadline)
		if ahead < -ts.period/2 {
			ProblemLogger.Printf("scheduler woke %v early; counting zero ticks", -ahead)
			return 0, true
		}
		elapsed = 1
		if ahead > 0 {
			elapsed += int(ahead / ts.period)
		}
		ts.deadline = ts.deadline.Add(time.Duration(elapsed) * ts.period)
		return elapsed, true
	}
}

// Stop releases the underlying timer. AwaitTick must not be called after.
func (ts *TickScheduler) Stop() {
	if ts.ticker != nil {
		ts.ticker.Stop()
	}
}
