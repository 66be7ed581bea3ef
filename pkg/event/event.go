// Package event provides a simple synchronous/async event dispatcher.
package event

import (
	"sync"

	"github.com/ndthang/techmart/pkg/logger"
)

// Event names fired by the application.
const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
	UserRegistered     = "user.registered"
	ProductChanged     = "product.changed"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently.
// It returns immediately without waiting for handlers to complete.
// A panicking handler is logged and does not take the process down.
func FireAsync(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h := h
		go func() {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("event handler panicked", "event", event, "panic", rec)
				}
			}()
			h(payload)
		}()
	}
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}
