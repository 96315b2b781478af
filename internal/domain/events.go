// Package domain defines events for the event-driven architecture.
// Events replace ambient callback registration and enable loose coupling
// between the synchronizer, the overlay windows, and the application shell.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Edge lifecycle events
	EventEdgeActivated   EventType = "edge.activated"
	EventEdgeDeactivated EventType = "edge.deactivated"

	// Shared configuration events, fanned out to every active window
	EventModeChanged      EventType = "mode.changed"
	EventSchemeChanged    EventType = "scheme.changed"
	EventOpacityChanged   EventType = "opacity.changed"
	EventDensityChanged   EventType = "density.changed"
	EventThicknessChanged EventType = "thickness.changed"

	// Audio events
	EventBeatDetected EventType = "beat.detected"
	EventTrackChanged EventType = "track.changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// EdgeActivatedEvent is published when an edge gains an overlay window.
type EdgeActivatedEvent struct {
	baseEvent
	Edge        Edge
	ActiveEdges []Edge
}

// Type returns the event type.
func (e EdgeActivatedEvent) Type() EventType {
	return EventEdgeActivated
}

// NewEdgeActivatedEvent creates a new EdgeActivatedEvent.
func NewEdgeActivatedEvent(edge Edge, active []Edge) EdgeActivatedEvent {
	return EdgeActivatedEvent{
		baseEvent:   newBaseEvent(),
		Edge:        edge,
		ActiveEdges: active,
	}
}

// EdgeDeactivatedEvent is published when an edge's overlay window is destroyed.
type EdgeDeactivatedEvent struct {
	baseEvent
	Edge        Edge
	ActiveEdges []Edge
}

// Type returns the event type.
func (e EdgeDeactivatedEvent) Type() EventType {
	return EventEdgeDeactivated
}

// NewEdgeDeactivatedEvent creates a new EdgeDeactivatedEvent.
func NewEdgeDeactivatedEvent(edge Edge, active []Edge) EdgeDeactivatedEvent {
	return EdgeDeactivatedEvent{
		baseEvent:   newBaseEvent(),
		Edge:        edge,
		ActiveEdges: active,
	}
}

// ModeChangedEvent is published when the visualization mode changes.
type ModeChangedEvent struct {
	baseEvent
	Mode VisualizationMode
}

// Type returns the event type.
func (e ModeChangedEvent) Type() EventType {
	return EventModeChanged
}

// NewModeChangedEvent creates a new ModeChangedEvent.
func NewModeChangedEvent(mode VisualizationMode) ModeChangedEvent {
	return ModeChangedEvent{
		baseEvent: newBaseEvent(),
		Mode:      mode,
	}
}

// SchemeChangedEvent is published when the color scheme changes.
type SchemeChangedEvent struct {
	baseEvent
	Scheme ColorScheme
}

// Type returns the event type.
func (e SchemeChangedEvent) Type() EventType {
	return EventSchemeChanged
}

// NewSchemeChangedEvent creates a new SchemeChangedEvent.
func NewSchemeChangedEvent(scheme ColorScheme) SchemeChangedEvent {
	return SchemeChangedEvent{
		baseEvent: newBaseEvent(),
		Scheme:    scheme,
	}
}

// OpacityChangedEvent is published when the overlay opacity changes.
type OpacityChangedEvent struct {
	baseEvent
	Opacity float64 // 0.0 to 1.0
}

// Type returns the event type.
func (e OpacityChangedEvent) Type() EventType {
	return EventOpacityChanged
}

// NewOpacityChangedEvent creates a new OpacityChangedEvent.
func NewOpacityChangedEvent(opacity float64) OpacityChangedEvent {
	return OpacityChangedEvent{
		baseEvent: newBaseEvent(),
		Opacity:   opacity,
	}
}

// DensityChangedEvent is published when the base density changes.
type DensityChangedEvent struct {
	baseEvent
	Density int
}

// Type returns the event type.
func (e DensityChangedEvent) Type() EventType {
	return EventDensityChanged
}

// NewDensityChangedEvent creates a new DensityChangedEvent.
func NewDensityChangedEvent(density int) DensityChangedEvent {
	return DensityChangedEvent{
		baseEvent: newBaseEvent(),
		Density:   density,
	}
}

// ThicknessChangedEvent is published when one edge's strip depth changes.
type ThicknessChangedEvent struct {
	baseEvent
	Edge      Edge
	Thickness int
}

// Type returns the event type.
func (e ThicknessChangedEvent) Type() EventType {
	return EventThicknessChanged
}

// NewThicknessChangedEvent creates a new ThicknessChangedEvent.
func NewThicknessChangedEvent(edge Edge, thickness int) ThicknessChangedEvent {
	return ThicknessChangedEvent{
		baseEvent: newBaseEvent(),
		Edge:      edge,
		Thickness: thickness,
	}
}

// BeatDetectedEvent is published by a window's frame consumer on beat onset.
type BeatDetectedEvent struct {
	baseEvent
	Edge   Edge
	Energy float64
}

// Type returns the event type.
func (e BeatDetectedEvent) Type() EventType {
	return EventBeatDetected
}

// NewBeatDetectedEvent creates a new BeatDetectedEvent.
func NewBeatDetectedEvent(edge Edge, energy float64) BeatDetectedEvent {
	return BeatDetectedEvent{
		baseEvent: newBaseEvent(),
		Edge:      edge,
		Energy:    energy,
	}
}

// TrackChangedEvent is published when the audio source starts a new track.
type TrackChangedEvent struct {
	baseEvent
	Track TrackInfo
}

// Type returns the event type.
func (e TrackChangedEvent) Type() EventType {
	return EventTrackChanged
}

// NewTrackChangedEvent creates a new TrackChangedEvent.
func NewTrackChangedEvent(track TrackInfo) TrackChangedEvent {
	return TrackChangedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}
