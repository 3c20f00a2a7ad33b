package bus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/perceptia/perceptia/pkg/core"
)

var emittedSignals = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "perceptia_signals_emitted_total",
		Help: "Number of signals emitted on the bus, by signal kind.",
	},
	[]string{"signal"},
)

// Signaler is the registry connecting signal producers to event loops.
// Threads subscribe a receiver for the signal kinds they handle; Emit fans
// a package out to every receiver subscribed to that kind.
type Signaler struct {
	mu        sync.Mutex
	senders   map[core.SignalID]*Sender
	receivers map[*Receiver]struct{}
}

// NewSignaler constructs an empty signaler.
func NewSignaler() *Signaler {
	return &Signaler{
		senders:   make(map[core.SignalID]*Sender),
		receivers: make(map[*Receiver]struct{}),
	}
}

// Subscribe registers the receiver for the given signal kind.
func (s *Signaler) Subscribe(id core.SignalID, receiver *Receiver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sender, ok := s.senders[id]
	if !ok {
		sender = NewSender()
		s.senders[id] = sender
	}
	Connect(sender, receiver)
	s.receivers[receiver] = struct{}{}
}

// Emit delivers the payload to every receiver subscribed to the signal.
func (s *Signaler) Emit(id core.SignalID, payload any) {
	s.mu.Lock()
	sender := s.senders[id]
	s.mu.Unlock()

	emittedSignals.WithLabelValues(id.String()).Inc()
	if sender != nil {
		sender.Send(id, payload)
	}
}

// TerminateAll delivers the Terminate command to every receiver that ever
// subscribed, asking all event loops to exit.
func (s *Signaler) TerminateAll() {
	s.mu.Lock()
	receivers := make([]*Receiver, 0, len(s.receivers))
	for r := range s.receivers {
		receivers = append(receivers, r)
	}
	s.mu.Unlock()

	for _, r := range receivers {
		r.bridge.push(Package{Payload: Terminate})
	}
}
