// Package ports define the EventBus interface for event-driven communication.
// The event bus replaces ambient callback registration and enables loose
// coupling between the synchronizer, the overlay windows, and the shell.
package ports

import (
	"github.com/marshmansf/audio-edge-effects-sub000/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
// This is the broadcast mechanism of the engine: shared-configuration changes
// fan out to every active overlay window through it, and each window holds
// explicit subscription handles that it releases on destroy.
//
// Thread-safety: Implementations must be thread-safe as events may be
// published and subscribed from multiple goroutines simultaneously.
//
// Example usage:
//
//	// In the synchronizer: Publish a configuration change
//	bus.Publish(domain.NewSchemeChangedEvent(scheme))
//
//	// In a window binding: Subscribe to configuration changes
//	subID := bus.Subscribe(domain.EventSchemeChanged, func(event domain.Event) {
//	    e := event.(domain.SchemeChangedEvent)
//	    binding.applyScheme(e.Scheme)
//	})
//
//	// On destroy: Unsubscribe
//	bus.Unsubscribe(subID)
type EventBus interface {
	// Publish publishes an event to all subscribers of that event type.
	// The event is delivered to handlers synchronously in the order they
	// subscribed (for synchronous implementations) or asynchronously (for
	// async implementations).
	//
	// This method must not block for long periods. Handlers should process
	// events quickly or dispatch to a background goroutine if long processing
	// is needed.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type.
	// The handler will be called whenever an event of this type is published.
	//
	// The same handler can be registered multiple times, resulting in
	// multiple calls. Each subscription gets a unique SubscriptionID.
	//
	// Returns a SubscriptionID that can be used to unsubscribe later.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered event handler.
	// After unsubscribing, the handler will no longer receive events.
	//
	// If the subscription ID is invalid or already unsubscribed, this is a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives all events regardless of type.
	// This is useful for logging, debugging, or forwarding to a frontend.
	//
	// Returns a SubscriptionID that can be used to unsubscribe later.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers returns true if there are any active subscriptions for
	// the given event type. This can be used to avoid expensive event
	// construction if no one is listening.
	HasSubscribers(eventType domain.EventType) bool

	// Close shuts down the event bus and cleans up resources.
	// After calling Close, no more events should be published or subscribed.
	Close() error
}

// EventFilter is a function that determines if an event should be delivered
// to a subscriber. It returns true if the event should be delivered.
type EventFilter func(event domain.Event) bool

// FilteringEventBus extends EventBus with filtered subscriptions.
// This is optional and not all implementations need to support it.
type FilteringEventBus interface {
	EventBus

	// SubscribeFiltered registers a handler with a filter function.
	// The handler will only be called for events that pass the filter.
	//
	// Example: Only handle beats detected on one edge
	//	bus.SubscribeFiltered(domain.EventBeatDetected, func(e domain.Event) bool {
	//	    beat := e.(domain.BeatDetectedEvent)
	//	    return beat.Edge == domain.EdgeBottom
	//	}, handleBeat)
	SubscribeFiltered(eventType domain.EventType, filter EventFilter, handler domain.EventHandler) domain.SubscriptionID
}
