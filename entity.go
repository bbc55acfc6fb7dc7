package rowan

import (
	"errors"
	"sync"
)

// ErrEntityGone is returned by Entity.Send when the target node has been
// removed from the arena. This is a routine condition, not a fault: sends
// race with removal by design.
var ErrEntityGone = errors.New("rowan: entity no longer exists")

// mailboxCloser is asserted by the arena on removal so a component's
// embedded Mailbox is closed without the arena knowing the message type.
type mailboxCloser interface {
	closeMailbox()
}

// Mailbox is a per-node queue of typed messages. Components that accept
// messages embed one and drain it during their Update; the arena closes it
// automatically when the node is removed.
//
// Messages from a single sender are delivered in send order. Senders on
// different goroutines are serialized by the mailbox lock but carry no
// ordering guarantee relative to each other.
type Mailbox[M any] struct {
	mu     sync.Mutex
	queue  []M
	closed bool
}

// Bind returns an Entity handle that delivers messages of type M to this
// mailbox. Call it from the component's Attached hook, once the NodeID is
// known.
func (m *Mailbox[M]) Bind(id NodeID) Entity[M] {
	return Entity[M]{id: id, box: m}
}

// Drain removes and returns all queued messages in delivery order.
// It returns nil when the queue is empty.
func (m *Mailbox[M]) Drain() []M {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return nil
	}
	out := m.queue
	m.queue = nil
	return out
}

// closeMailbox marks the mailbox closed and drops any queued messages.
// Called by the arena during node removal.
func (m *Mailbox[M]) closeMailbox() {
	m.mu.Lock()
	m.queue = nil
	m.closed = true
	m.mu.Unlock()
}

func (m *Mailbox[M]) send(msg M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrEntityGone
	}
	m.queue = append(m.queue, msg)
	return nil
}

// Entity is a cheap, copyable handle to a node: its NodeID plus a message
// channel to the node's component. An Entity does not own the node — the
// arena does. Once the node is removed, ID lookups fail and Send returns
// ErrEntityGone permanently.
type Entity[M any] struct {
	id  NodeID
	box *Mailbox[M]
}

// ID returns the generational index of the referenced node.
func (e Entity[M]) ID() NodeID {
	return e.id
}

// Send enqueues msg for delivery to the node's component. It may be called
// from any goroutine. The error is ErrEntityGone when the node has been
// removed; callers that do not care may ignore it.
func (e Entity[M]) Send(msg M) error {
	if e.box == nil {
		return ErrEntityGone
	}
	return e.box.send(msg)
}

// Pending is the deferred-insertion builder for a component: it holds the
// fully configured component value before the node exists in the tree, then
// transitions one-way to an attached state on Insert.
//
// The transition happens exactly once. Inserting twice, or reading ID before
// any insert, is a caller contract violation and panics.
type Pending[C Component] struct {
	comp     C
	attached bool
	id       NodeID
	styles   *Style
}

// NewPending wraps a configured component for later insertion.
func NewPending[C Component](comp C) *Pending[C] {
	return &Pending[C]{comp: comp}
}

// WithStyle sets the style map the node will carry when inserted.
// Panics if the component is already attached.
func (p *Pending[C]) WithStyle(styles *Style) *Pending[C] {
	if p.attached {
		panic("rowan: cannot style a Pending component after insertion")
	}
	p.styles = styles
	return p
}

// Component returns the wrapped component value. Valid in both states.
func (p *Pending[C]) Component() C {
	return p.comp
}

// Insert attaches the component as a child of the context's addressed node
// and returns the new NodeID. After Insert the Pending value is permanently
// in the attached state; a second Insert panics.
func (p *Pending[C]) Insert(ctx *Context) NodeID {
	if p.attached {
		panic("rowan: Pending component inserted twice")
	}
	p.id = ctx.Arena().InsertStyled(ctx.ID(), p.comp, p.styles)
	p.attached = true
	return p.id
}

// InsertRoot attaches the component as a top-level node of the arena.
// Same one-shot contract as Insert.
func (p *Pending[C]) InsertRoot(arena *Arena) NodeID {
	if p.attached {
		panic("rowan: Pending component inserted twice")
	}
	p.id = arena.InsertStyled(NodeID{}, p.comp, p.styles)
	p.attached = true
	return p.id
}

// ID returns the NodeID assigned at insertion. Calling it before any
// insert panics: an unattached component has no identity yet.
func (p *Pending[C]) ID() NodeID {
	if !p.attached {
		panic("rowan: Pending component has not been inserted")
	}
	return p.id
}

// Attached reports whether Insert has happened.
func (p *Pending[C]) Attached() bool {
	return p.attached
}
