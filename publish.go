package iterate

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	zmq "github.com/pebbe/zmq4"
)

// Publisher mirrors every emitted snapshot onto a ZMQ PUB socket, so a live
// subscriber can watch the run without sitting between the sampler and its
// output sink. Subscribers filter on the run id topic frame; the remaining
// frames are the snapshot's header, payload, and separator. Publishing is
// best-effort: a slow or absent subscriber never perturbs the tick cadence.
type Publisher struct {
	socket *zmq.Socket
	topic  string
}

// NewRunID returns the identifier that names this run in publisher topics
// and scratch-file names.
func NewRunID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewPublisher binds a PUB socket on the given TCP port.
func NewPublisher(port int, runID string) (*Publisher, error) {
	socket, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return nil, err
	}
	if err = socket.Bind(fmt.Sprintf("tcp://*:%d", port)); err != nil {
		socket.Close()
		return nil, err
	}
	return &Publisher{socket: socket, topic: runID}, nil
}

// Publish sends one snapshot as a multipart message. Errors are logged and
// otherwise ignored; the sink, not the socket, is the record of truth.
func (p *Publisher) Publish(header, payload []byte) {
	if _, err := p.socket.SendMessageDontwait(p.topic, header, payload, separator); err != nil {
		ProblemLogger.Printf("publish failed: %v", err)
	}
}

// Close destroys the socket.
func (p *Publisher) Close() {
	p.socket.Close()
}
