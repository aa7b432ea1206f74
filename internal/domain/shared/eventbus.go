package shared

import "context"

// EventPublisher is what services depend on to announce integration events
// such as a finished catalog import or a placed order.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler consumes published events. EventTypes filters what it
// receives; an empty result subscribes the handler to every event type.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventSubscriber manages handler registration.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is a publisher with subscriptions and a lifecycle. Stop must
// drain in-flight dispatches before returning.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
