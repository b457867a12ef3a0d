package kafka

import (
	"context"
	"time"
)

// Change event topics. One topic per entity and action.
const (
	TopicVenueCreated  = "fyyur.venue.created"
	TopicVenueUpdated  = "fyyur.venue.updated"
	TopicVenueDeleted  = "fyyur.venue.deleted"
	TopicArtistCreated = "fyyur.artist.created"
	TopicArtistUpdated = "fyyur.artist.updated"
	TopicArtistDeleted = "fyyur.artist.deleted"
	TopicShowCreated   = "fyyur.show.created"
)

var AllTopics = []string{
	TopicVenueCreated,
	TopicVenueUpdated,
	TopicVenueDeleted,
	TopicArtistCreated,
	TopicArtistUpdated,
	TopicArtistDeleted,
	TopicShowCreated,
}

// Event is the JSON body of every change event. The message key is the
// record id.
type Event struct {
	Topic      string      `json:"type"`
	ID         int64       `json:"id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data,omitempty"`
}

func NewEvent(topic string, id int64, data interface{}) Event {
	return Event{
		Topic:      topic,
		ID:         id,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher is used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
