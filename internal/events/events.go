package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"towerdb/pkg/logger"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

// CHANNEL_PREFIX namespaces channels on the shared valkey instance.
const CHANNEL_PREFIX = "towerdb:"

const PUBLISH_TIMEOUT = 5 * time.Second

type Channel string

func (c Channel) String() string {
	return string(c)
}

func (c Channel) wire() string {
	return CHANNEL_PREFIX + string(c)
}

const (
	TOWER_CHANNEL  Channel = "tower"
	IMPORT_CHANNEL Channel = "import"
	CACHE_CHANNEL  Channel = "cache.invalidation"
)

type MessageType string

const (
	TOWER_CREATED      MessageType = "tower_created"
	TOWER_UPDATED      MessageType = "tower_updated"
	TOWER_DELETED      MessageType = "tower_deleted"
	IMPORT_COMPLETE    MessageType = "import_complete"
	IMPORT_FAILED      MessageType = "import_failed"
	CACHE_INVALIDATION MessageType = "cache_invalidation"
)

// Event is the envelope sent on every channel. Origin identifies the process
// that published it.
type Event struct {
	ID        string         `json:"id"`
	Type      MessageType    `json:"type"`
	Channel   Channel        `json:"channel"`
	Origin    string         `json:"origin"`
	Data      map[string]any `json:"data"`
	Timestamp time.Time      `json:"timestamp"`
}

type EventHandler func(event Event) error

// Publisher is the part of the bus services depend on.
type Publisher interface {
	Publish(channel Channel, event Event) error
}

// EventBus delivers events to handlers in every running instance through
// valkey pub/sub. With no valkey client, delivery stays in-process and is
// synchronous.
type EventBus struct {
	client valkey.Client
	origin string
	log    logger.Logger

	mu       sync.RWMutex
	handlers map[Channel][]EventHandler

	ctx       context.Context
	cancel    context.CancelFunc
	listeners sync.WaitGroup
}

func New(client valkey.Client) *EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBus{
		client:   client,
		origin:   uuid.NewString(),
		log:      logger.New("EventBus"),
		handlers: make(map[Channel][]EventHandler),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (eb *EventBus) Origin() string {
	return eb.origin
}

// Publish stamps the envelope and sends it. Through valkey the publishing
// process receives its own event on the subscription like every other
// instance, so handlers run exactly once per instance.
func (eb *EventBus) Publish(channel Channel, event Event) error {
	log := eb.log.Function("Publish")

	event = eb.stamp(channel, event)

	if eb.client == nil {
		eb.dispatch(channel, event)
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return log.Err("failed to encode event", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(eb.ctx, PUBLISH_TIMEOUT)
	defer cancel()

	cmd := eb.client.B().Publish().Channel(channel.wire()).Message(string(payload)).Build()
	if err := eb.client.Do(ctx, cmd).Error(); err != nil {
		return log.Err("failed to publish event", err, "channel", channel, "eventID", event.ID)
	}

	log.Debug("Event published", "channel", channel, "eventID", event.ID, "type", event.Type)
	return nil
}

func (eb *EventBus) stamp(channel Channel, event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Channel == "" {
		event.Channel = channel
	}
	if event.Origin == "" {
		event.Origin = eb.origin
	}
	return event
}

// Subscribe adds a handler for the channel. The first handler on a channel
// opens its valkey subscription.
func (eb *EventBus) Subscribe(channel Channel, handler EventHandler) error {
	if handler == nil {
		return errors.New("event handler is nil")
	}

	eb.mu.Lock()
	first := len(eb.handlers[channel]) == 0
	eb.handlers[channel] = append(eb.handlers[channel], handler)
	eb.mu.Unlock()

	if first && eb.client != nil {
		eb.listeners.Add(1)
		go eb.listen(channel)
	}

	eb.log.Function("Subscribe").Info("Handler subscribed", "channel", channel)
	return nil
}

// dispatch calls every handler for the channel in subscription order. A
// failing or panicking handler is logged and does not stop the rest.
func (eb *EventBus) dispatch(channel Channel, event Event) {
	log := eb.log.Function("dispatch")

	eb.mu.RLock()
	handlers := append([]EventHandler(nil), eb.handlers[channel]...)
	eb.mu.RUnlock()

	for i, handler := range handlers {
		if err := safeCall(handler, event); err != nil {
			log.Er("handler failed", err, "channel", channel, "eventID", event.ID, "handler", i)
		}
	}
}

func safeCall(handler EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return handler(event)
}

func (eb *EventBus) listen(channel Channel) {
	defer eb.listeners.Done()
	log := eb.log.Function("listen")

	log.Info("Listening", "channel", channel.wire())

	err := eb.client.Receive(
		eb.ctx,
		eb.client.B().Subscribe().Channel(channel.wire()).Build(),
		func(msg valkey.PubSubMessage) {
			var event Event
			if err := json.Unmarshal([]byte(msg.Message), &event); err != nil {
				log.Er("dropping undecodable event", err, "channel", msg.Channel)
				return
			}
			eb.dispatch(channel, event)
		},
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Er("subscription ended", err, "channel", channel.wire())
	}
}

// Close ends every subscription and waits for the listeners to return.
func (eb *EventBus) Close() error {
	eb.cancel()
	eb.listeners.Wait()
	eb.log.Function("Close").Info("EventBus closed")
	return nil
}

// TowerChanged is the event sent on TOWER_CHANNEL after a tower write.
func TowerChanged(messageType MessageType, towerID int) Event {
	return Event{
		Type: messageType,
		Data: map[string]any{"towerId": towerID},
	}
}

func (eb *EventBus) PublishCacheInvalidation(resourceType string, resourceID string) error {
	return eb.Publish(CACHE_CHANNEL, Event{
		Type: CACHE_INVALIDATION,
		Data: map[string]any{
			"resourceType": resourceType,
			"resourceId":   resourceID,
		},
	})
}
