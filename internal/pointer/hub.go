// Package pointer is the process-wide pointer-press registry for the console.
// The root program publishes every mouse press it receives; components that
// need to react to presses outside their own bounds (dropdowns, popovers)
// subscribe while mounted and release the subscription on teardown.
package pointer

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// SubscriptionID identifies a live observer registration.
type SubscriptionID string

// Press is a single pointer press in terminal cell coordinates.
type Press struct {
	X, Y   int
	Button tea.MouseButton
}

// Observer receives presses synchronously, on the publishing goroutine.
type Observer func(Press)

type subscription struct {
	id       SubscriptionID
	observer Observer
}

// Hub fans presses out to registered observers in registration order.
// Delivery is synchronous: Publish returns after every observer ran.
type Hub struct {
	mu      sync.RWMutex
	subs    []subscription
	counter uint64
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

var (
	defaultHub     *Hub
	defaultHubOnce sync.Once
)

// Default returns the process-wide hub.
func Default() *Hub {
	defaultHubOnce.Do(func() {
		defaultHub = NewHub()
	})
	return defaultHub
}

// Subscribe registers an observer and returns its release function.
// Release is idempotent; calling it more than once is a no-op.
func (h *Hub) Subscribe(obs Observer) (SubscriptionID, func()) {
	h.mu.Lock()
	h.counter++
	id := SubscriptionID(fmt.Sprintf("press_%d", h.counter))
	h.subs = append(h.subs, subscription{id: id, observer: obs})
	h.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() { h.unsubscribe(id) })
	}
	return id, release
}

func (h *Hub) unsubscribe(id SubscriptionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, sub := range h.subs {
		if sub.id == id {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers a press to every observer registered at call time.
// Observers may release their own (or other) subscriptions while running.
func (h *Hub) Publish(p Press) {
	h.mu.RLock()
	snapshot := make([]subscription, len(h.subs))
	copy(snapshot, h.subs)
	h.mu.RUnlock()

	for _, sub := range snapshot {
		sub.observer(p)
	}
}

// PublishMouse publishes msg if it is a press; other mouse actions are ignored.
// It reports whether a press was published.
func (h *Hub) PublishMouse(msg tea.MouseMsg) bool {
	p, ok := FromMouse(msg)
	if !ok {
		return false
	}
	h.Publish(p)
	return true
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// FromMouse converts a Bubble Tea mouse event into a Press. Only button
// presses count; motion, release and wheel events do not.
func FromMouse(msg tea.MouseMsg) (Press, bool) {
	if msg.Action != tea.MouseActionPress {
		return Press{}, false
	}
	switch msg.Button {
	case tea.MouseButtonLeft, tea.MouseButtonRight, tea.MouseButtonMiddle:
		return Press{X: msg.X, Y: msg.Y, Button: msg.Button}, true
	}
	return Press{}, false
}
