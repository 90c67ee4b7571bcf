package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. Each event
// type doubles as the topic name it is published to.
type EventType string

const (
	EventNotifyResult  EventType = "notify-result"
	EventDuelScheduled EventType = "duel-scheduled"
)
