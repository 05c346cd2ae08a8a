package broker

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Broker fans a published payload out to every subscriber. The Redis broker
// crosses server instances; the in-process hub covers single-instance and
// test setups.
type Broker interface {
	Publish(ctx context.Context, payload []byte) error
	// Subscribe returns a receive channel and a cancel func that releases
	// the subscription.
	Subscribe(ctx context.Context) (<-chan []byte, func(), error)
}

const redisChannel = "chat:global"

type redisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(rdb *redis.Client) Broker {
	return &redisBroker{rdb: rdb}
}

func (b *redisBroker) Publish(ctx context.Context, payload []byte) error {
	return b.rdb.Publish(ctx, redisChannel, payload).Err()
}

func (b *redisBroker) Subscribe(ctx context.Context) (<-chan []byte, func(), error) {
	pubsub := b.rdb.Subscribe(ctx, redisChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	out := make(chan []byte, 32)
	go forward(pubsub.Channel(), out)

	return out, func() { pubsub.Close() }, nil
}

// forward copies pubsub payloads into out without ever blocking, so closing
// the pubsub always lets the goroutine exit even when the receiver is gone
// with a full buffer. Dropped payloads follow the same slow-subscriber policy
// as the hub.
func forward(src <-chan *redis.Message, out chan<- []byte) {
	defer close(out)
	for msg := range src {
		select {
		case out <- []byte(msg.Payload):
		default:
		}
	}
}

// Hub is the in-process fallback broker.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan []byte
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan []byte)}
}

func (h *Hub) Publish(_ context.Context, payload []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- payload:
		default:
			// subscriber is not keeping up, drop the message for it
		}
	}
	return nil
}

func (h *Hub) Subscribe(_ context.Context) (<-chan []byte, func(), error) {
	id := uuid.NewString()
	ch := make(chan []byte, 32)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
	return ch, cancel, nil
}
