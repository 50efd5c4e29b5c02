package iterate

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Run is the blocking entry point for one sampling run. It wires the source,
// sink, scheduler, and emitter together, drives the tick loop until the
// configured count of periods has elapsed, then drains staged output and
// tears everything down. Configuration, discovery, and spawn failures abort
// before the loop; every per-tick failure is logged and recovered so the
// isochronous cadence survives.
func Run(cfg *SampleConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	runID := NewRunID()

	sink := NewDirectSink()
	if cfg.Buffer {
		var err error
		if sink, err = NewStagedSink(runID); err != nil {
			return err
		}
	}
	defer sink.Close()

	src := NewSource(cfg)
	if err := src.Prepare(); err != nil {
		return err
	}
	defer src.Close()

	var pub *Publisher
	if cfg.Publish > 0 {
		var err error
		if pub, err = NewPublisher(cfg.Publish, runID); err != nil {
			// Egress is auxiliary: a port clash should not kill the run.
			ProblemLogger.Printf("snapshot publisher disabled: %v", err)
		} else {
			defer pub.Close()
		}
	}

	sample(cfg, src, sink, pub)

	if err := sink.Drain(os.Stdout); err != nil {
		return err
	}
	return nil
}

// sample drives the await/capture/emit loop on a single goroutine. All
// per-tick state (the working buffer, the station handle set) is owned here
// and never shared. A termination signal breaks the loop so Run's deferred
// teardown still reaps the child and releases the scratch file.
func sample(cfg *SampleConfig, src Source, sink *OutputSink, pub *Publisher) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	abort := make(chan struct{})
	go func() {
		if sig, ok := <-sigs; ok {
			ProblemLogger.Printf("caught %v; stopping after current tick", sig)
			close(abort)
		}
	}()

	buffer := make([]byte, src.BufferSize())
	emitter := NewEmitter(sink)
	emitter.pub = pub

	period := cfg.Period()
	sched := new(TickScheduler)
	sched.Arm(period)
	defer sched.Stop()
	cadence := newCadenceLog(period)

	ctr := 0
	for ctr < cfg.Count {
		elapsed, ok := sched.AwaitTick(abort)
		if !ok {
			break
		}
		cadence.mark(time.Now(), elapsed)
		// An overrun advances the counter by every period it covered but
		// still captures once; we do not emit catch-up placeholders.
		ctr += elapsed
		if elapsed == 0 {
			continue
		}

		size, err := src.Capture(buffer)
		if err != nil {
			ProblemLogger.Printf("%s capture: %v", src.Name(), err)
			size = 0
		}
		if err := emitter.Emit(buffer, size); err != nil && !errors.Is(err, ErrBufferOverrun) {
			// The sink is gone; no later snapshot can land either.
			ProblemLogger.Print(err)
			break
		}
	}
	signal.Stop(sigs)
	close(sigs)
	cadence.report()
}

// RunMain wraps Run for the driver programs: fatal errors become a
// diagnostic line and a non-zero exit status before any sampling output.
func RunMain(cfg *SampleConfig) int {
	if err := Run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
