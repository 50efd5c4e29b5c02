package iterate

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// separator closes every snapshot.
var separator = []byte("---\n")

// Emitter renders captured payloads into the wire snapshot format:
//
//	Time: <unix seconds>.<nanoseconds, 9 digits>
//	<payload bytes, verbatim>
//	---
//
// The timestamp is read at emission time; capture-to-emit skew is accepted.
// Two write strategies are supported: a vectored writev of the three
// segments (the default, no copy), and a contiguous render into one buffer
// followed by a single write.
type Emitter struct {
	sink *OutputSink
	pub  *Publisher // optional; receives a copy of every emitted snapshot

	// Contiguous selects the copy-and-single-write strategy.
	Contiguous bool

	scratch []byte // contiguous-mode assembly buffer, grown on demand
}

// NewEmitter returns an emitter bound to the given sink.
func NewEmitter(sink *OutputSink) *Emitter {
	return &Emitter{sink: sink}
}

// timestamp renders the header line for the current wall-clock instant.
func timestamp() []byte {
	now := time.Now()
	return fmt.Appendf(nil, "Time: %d.%09d\n", now.Unix(), now.Nanosecond())
}

// Emit writes one snapshot holding buf[:size]. buf is the working buffer the
// payload was captured into; unless its remaining headroom exceeds the
// header/footer reserve the snapshot is dropped with a "Buffer Overrun"
// warning instead of emitting a truncated or corrupted record. That and a
// failed write are the only errors, and neither stops the run.
func (e *Emitter) Emit(buf []byte, size int) error {
	if len(buf)-size <= headerReserve {
		ProblemLogger.Print("Buffer Overrun")
		return ErrBufferOverrun
	}
	header := timestamp()
	if e.Contiguous {
		e.scratch = e.scratch[:0]
		e.scratch = append(e.scratch, header...)
		e.scratch = append(e.scratch, buf[:size]...)
		e.scratch = append(e.scratch, separator...)
		if _, err := e.sink.File().Write(e.scratch); err != nil {
			return fmt.Errorf("write failed - out of disk?: %w", err)
		}
		e.publish(header, buf[:size])
		return nil
	}
	iov := [][]byte{header, buf[:size], separator}
	if _, err := unix.Writev(int(e.sink.File().Fd()), iov); err != nil {
		return fmt.Errorf("write failed - out of disk?: %w", err)
	}
	e.publish(header, buf[:size])
	return nil
}

func (e *Emitter) publish(header, payload []byte) {
	if e.pub != nil {
		e.pub.Publish(header, payload)
	}
}
