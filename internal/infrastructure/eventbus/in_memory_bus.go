package eventbus

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"
)

type HandlerFunc func(event.Event) error

// InMemoryBus delivers payment events synchronously on the publisher's
// goroutine.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerFunc
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[event.Type][]HandlerFunc),
	}
}

func (b *InMemoryBus) Subscribe(eventType event.Type, handler HandlerFunc) {
	b.SubscribeAll(handler, eventType)
}

// SubscribeAll registers one handler for several event types.
func (b *InMemoryBus) SubscribeAll(handler HandlerFunc, eventTypes ...event.Type) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
}

// Publish runs every handler for the event type, even after one fails, and
// returns the joined errors. A panicking handler is reported as an error.
func (b *InMemoryBus) Publish(evt event.Event) error {
	b.mu.RLock()
	handlers := b.handlers[evt.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := call(handler, evt); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func call(handler HandlerFunc, evt event.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler for %s panicked: %v", evt.Type, r)
		}
	}()
	return handler(evt)
}
