package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
	redisclient "github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/clients/redis"
)

// subscriberBuffer is the per-subscriber backlog before events are dropped
const subscriberBuffer = 64

type channelSubscription struct {
	pubsub      *redis.PubSub
	subscribers map[chan *entities.QueueEvent]struct{}
}

// RedisEventBus fans QueueEvents out to SSE clients across API instances
// through Redis Pub/Sub. One Redis subscription is held per channel no
// matter how many local subscribers listen on it.
type RedisEventBus struct {
	client   *redisclient.Client
	channels map[string]*channelSubscription
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:   client,
		channels: make(map[string]*channelSubscription),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.QueueEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().Str("channel", channel).Str("event_id", event.ID).Str("event_type", string(event.EventType)).Msg("Published event")
	return nil
}

// Subscribe returns a channel that receives events until ctx is cancelled
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.QueueEvent, error) {
	if b.ctx.Err() != nil {
		return nil, errors.New("event bus is closed")
	}

	b.mu.Lock()
	sub, exists := b.channels[channel]
	if !exists {
		sub = &channelSubscription{
			pubsub:      b.client.Client().Subscribe(b.ctx, channel),
			subscribers: make(map[chan *entities.QueueEvent]struct{}),
		}
		b.channels[channel] = sub
		go b.receive(channel, sub)
	}

	eventChan := make(chan *entities.QueueEvent, subscriberBuffer)
	sub.subscribers[eventChan] = struct{}{}
	count := len(sub.subscribers)
	b.mu.Unlock()

	log.Debug().Str("channel", channel).Int("subscribers", count).Msg("Subscribed to channel")

	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *RedisEventBus) receive(channel string, sub *channelSubscription) {
	ch := sub.pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event entities.QueueEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("Failed to unmarshal event")
				continue
			}

			b.mu.RLock()
			for subscriber := range sub.subscribers {
				ev := event
				select {
				case subscriber <- &ev:
				default:
					log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("Subscriber backlog full, dropping event")
				}
			}
			b.mu.RUnlock()
		}
	}
}

func (b *RedisEventBus) removeSubscriber(channel string, eventChan chan *entities.QueueEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, exists := b.channels[channel]
	if !exists {
		return
	}
	if _, ok := sub.subscribers[eventChan]; !ok {
		return
	}

	delete(sub.subscribers, eventChan)
	close(eventChan)

	if len(sub.subscribers) == 0 {
		delete(b.channels, channel)
		if err := sub.pubsub.Close(); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("Failed to close subscription")
		}
	}
}

// Unsubscribe drops every local subscriber of a channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	sub, exists := b.channels[channel]
	if exists {
		delete(b.channels, channel)
		for subscriber := range sub.subscribers {
			delete(sub.subscribers, subscriber)
			close(subscriber)
		}
	}
	b.mu.Unlock()

	if !exists {
		return nil
	}
	if err := sub.pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription %s: %w", channel, err)
	}
	log.Debug().Str("channel", channel).Msg("Unsubscribed from channel")
	return nil
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.RLock()
	channels := make([]string, 0, len(b.channels))
	for channel := range b.channels {
		channels = append(channels, channel)
	}
	b.mu.RUnlock()

	var errs []error
	for _, channel := range channels {
		if err := b.Unsubscribe(context.Background(), channel); err != nil {
			errs = append(errs, err)
		}
	}

	log.Info().Msg("Event bus closed")
	return errors.Join(errs...)
}
