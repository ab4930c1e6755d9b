package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-article-service/domain"
)

// Publisher relays events to every service instance through a redis channel.
type Publisher struct {
	client  *redis.Client
	channel string
}

var _ domain.EventBroadcaster = (*Publisher)(nil)

func NewPublisher(client *redis.Client, channel string) *Publisher {
	return &Publisher{client: client, channel: channel}
}

func (p *Publisher) Emit(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("event/Publish: marshal %s: %w", ev.Name, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("event/Publish: %w", err)
	}
	return nil
}

// Subscriber forwards every message of the channel to the local hub.
type Subscriber struct {
	client  *redis.Client
	channel string
	hub     *Hub
	log     logrus.FieldLogger
}

func NewSubscriber(client *redis.Client, channel string, hub *Hub, log logrus.FieldLogger) *Subscriber {
	return &Subscriber{
		client:  client,
		channel: channel,
		hub:     hub,
		log:     log.WithField("component", "event_subscriber"),
	}
}

// Start blocks until ctx is cancelled. go-redis reconnects the subscription
// on its own after transient errors.
func (s *Subscriber) Start(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("event/Subscribe %s: %w", s.channel, err)
	}
	s.log.WithField("channel", s.channel).Info("subscribed to event channel")

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("event/Subscribe %s: channel closed", s.channel)
			}
			s.hub.Broadcast([]byte(msg.Payload))
		}
	}
}
