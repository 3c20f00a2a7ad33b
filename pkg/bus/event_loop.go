package bus

import (
	logging "github.com/sirupsen/logrus"

	"github.com/perceptia/perceptia/pkg/core"
)

// Handler processes one package delivered to an event loop.
type Handler func(pkg Package)

// EventLoop is a goroutine owning one receiver and a set of per-signal
// handlers. Everything subscribed through the loop runs on its goroutine,
// so handlers never need locks of their own.
type EventLoop struct {
	name     string
	signaler *Signaler
	receiver *Receiver
	handlers map[core.SignalID]Handler
	log      *logging.Entry
	done     chan struct{}
}

// NewEventLoop constructs an event loop bound to the signaler.
func NewEventLoop(name string, signaler *Signaler) *EventLoop {
	return &EventLoop{
		name:     name,
		signaler: signaler,
		receiver: NewReceiver(),
		handlers: make(map[core.SignalID]Handler),
		log:      logging.WithField("thread", name),
		done:     make(chan struct{}),
	}
}

// Handle subscribes the loop to the signal kind and registers its handler.
// Must be called before Start.
func (l *EventLoop) Handle(id core.SignalID, handler Handler) {
	l.handlers[id] = handler
	l.signaler.Subscribe(id, l.receiver)
}

// Start runs the loop on its own goroutine until Terminate arrives.
func (l *EventLoop) Start() {
	go l.run()
}

// Join blocks until the loop has exited.
func (l *EventLoop) Join() {
	<-l.done
}

func (l *EventLoop) run() {
	defer close(l.done)
	l.log.Info("event loop started")
	for {
		pkg := l.receiver.Recv()
		if pkg.IsTerminate() {
			l.drain()
			l.log.Info("event loop terminated")
			return
		}
		l.dispatch(pkg)
	}
}

// drain processes packages queued before the Terminate command so no
// already-sent work is lost.
func (l *EventLoop) drain() {
	for {
		pkg, ok := l.receiver.TryRecv()
		if !ok {
			return
		}
		if pkg.IsTerminate() {
			continue
		}
		l.dispatch(pkg)
	}
}

func (l *EventLoop) dispatch(pkg Package) {
	handler, ok := l.handlers[pkg.ID]
	if !ok {
		l.log.Debugf("no handler for signal %s", pkg.ID)
		return
	}
	handler(pkg)
}
