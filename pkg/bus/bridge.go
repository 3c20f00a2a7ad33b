// Package bus implements the inter-thread signal fabric: single-producer /
// multi-consumer delivery of tagged packages between threads. Senders and
// receivers are connected freely; a sender pushes a copy of each package to
// every connected receiver in registration order.
package bus

import (
	"sync"
	"time"

	"github.com/perceptia/perceptia/pkg/core"
)

// SpecialCommand is an in-band control message understood by every event
// loop regardless of its handler set.
type SpecialCommand int

const (
	// Terminate asks the receiving thread to drain and exit.
	Terminate SpecialCommand = iota
)

// Package is the unit of transport: a signal tag, an optional name for
// custom payloads, and the payload itself.
type Package struct {
	ID      core.SignalID
	Name    string
	Payload any
}

// IsTerminate reports whether the package carries the Terminate command.
func (p Package) IsTerminate() bool {
	cmd, ok := p.Payload.(SpecialCommand)
	return ok && cmd == Terminate
}

// bridge is the queue shared by one receiver and all senders connected to
// it. Pushing never blocks; the queue grows as needed.
type bridge struct {
	mu    sync.Mutex
	fifo  []Package
	ready chan struct{}
}

func newBridge() *bridge {
	return &bridge{ready: make(chan struct{}, 1)}
}

func (b *bridge) push(pkg Package) {
	b.mu.Lock()
	b.fifo = append(b.fifo, pkg)
	b.mu.Unlock()
	b.signal()
}

func (b *bridge) signal() {
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

func (b *bridge) tryTake() (Package, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.fifo) == 0 {
		return Package{}, false
	}
	pkg := b.fifo[0]
	b.fifo = b.fifo[1:]
	if len(b.fifo) > 0 {
		b.signal()
	}
	return pkg, true
}

func (b *bridge) take() Package {
	for {
		if pkg, ok := b.tryTake(); ok {
			return pkg
		}
		<-b.ready
	}
}

func (b *bridge) takeTimeout(d time.Duration) (Package, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		if pkg, ok := b.tryTake(); ok {
			return pkg, true
		}
		select {
		case <-b.ready:
		case <-timer.C:
			return b.tryTake()
		}
	}
}

// Receiver is the output point of the fabric. Each receiver owns exactly
// one bridge; connecting it to a sender shares that bridge.
type Receiver struct {
	bridge *bridge
}

// NewReceiver constructs a receiver with an empty queue.
func NewReceiver() *Receiver {
	return &Receiver{bridge: newBridge()}
}

// TryRecv returns one queued package without blocking. The second result is
// false when the queue is empty.
func (r *Receiver) TryRecv() (Package, bool) {
	return r.bridge.tryTake()
}

// Recv blocks until a package is available and returns it.
func (r *Receiver) Recv() Package {
	return r.bridge.take()
}

// RecvTimeout blocks up to d for a package. The second result is false when
// the wait timed out.
func (r *Receiver) RecvTimeout(d time.Duration) (Package, bool) {
	return r.bridge.takeTimeout(d)
}

// Sender is the input point of the fabric. It fans each package out to all
// connected receivers in registration order.
type Sender struct {
	bridges []*bridge
}

// NewSender constructs a sender with no connections.
func NewSender() *Sender {
	return &Sender{}
}

// Send delivers a tagged package to every connected receiver.
func (s *Sender) Send(id core.SignalID, payload any) {
	s.sendPackage(Package{ID: id, Payload: payload})
}

// SendCustom delivers a named opaque payload to every connected receiver.
func (s *Sender) SendCustom(name string, payload any) {
	s.sendPackage(Package{Name: name, Payload: payload})
}

// SendSpecial delivers a control command to every connected receiver.
func (s *Sender) SendSpecial(cmd SpecialCommand) {
	s.sendPackage(Package{Payload: cmd})
}

func (s *Sender) sendPackage(pkg Package) {
	for _, b := range s.bridges {
		b.push(pkg)
	}
}

// DirectSender delivers to at most one receiver; a subsequent connect
// replaces the binding.
type DirectSender struct {
	bridge *bridge
}

// NewDirectSender constructs an unbound direct sender.
func NewDirectSender() *DirectSender {
	return &DirectSender{}
}

// Send delivers a tagged package to the bound receiver, if any.
func (s *DirectSender) Send(id core.SignalID, payload any) {
	if s.bridge != nil {
		s.bridge.push(Package{ID: id, Payload: payload})
	}
}

// SendSpecial delivers a control command to the bound receiver, if any.
func (s *DirectSender) SendSpecial(cmd SpecialCommand) {
	if s.bridge != nil {
		s.bridge.push(Package{Payload: cmd})
	}
}

// Connect attaches the receiver's bridge to the sender. A receiver may be
// connected to many senders and a sender to many receivers. Connecting
// while a send is in flight is not supported.
func Connect(sender *Sender, receiver *Receiver) {
	sender.bridges = append(sender.bridges, receiver.bridge)
}

// ConnectDirect binds the receiver to the direct sender, replacing any
// previous binding.
func ConnectDirect(sender *DirectSender, receiver *Receiver) {
	sender.bridge = receiver.bridge
}
