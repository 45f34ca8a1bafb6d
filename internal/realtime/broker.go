// Copyright (c) 2026 PrepDeck. All rights reserved.

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/prepdeck/prepdeck/internal/platform/constants"
)

// Broker is the fan-out seam between event producers and room delivery.
//
// The hub publishes every broadcastable event through its broker, and
// delivery to local members happens only when the broker hands the envelope
// back. That keeps single-process and multi-process deployments on the same
// code path: swapping [LocalBroker] for [RedisBroker] is the only change
// needed to serve one set of rooms from several server processes.
type Broker interface {
	// Publish submits env for delivery to every process serving members of
	// the event's room, including the publishing process.
	Publish(ctx context.Context, env Envelope) error

	// Close stops the broker and releases its resources.
	Close() error
}

// LocalBroker delivers envelopes directly within the process. It is the
// default for single-process deployments.
type LocalBroker struct {
	deliver func(Envelope)
}

// NewLocalBroker returns a broker that invokes deliver synchronously for
// every published envelope.
func NewLocalBroker(deliver func(Envelope)) *LocalBroker {
	return &LocalBroker{deliver: deliver}
}

// Publish hands env straight to the delivery callback.
func (b *LocalBroker) Publish(_ context.Context, env Envelope) error {
	b.deliver(env)
	return nil
}

// Close is a no-op for the local broker.
func (b *LocalBroker) Close() error { return nil }

// RedisBroker relays envelopes through a Redis pub/sub channel so that room
// members connected to other server processes receive them too.
//
// Every process publishes to and subscribes from the same channel; the
// sender's own envelope comes back through the subscription, and delivery
// excludes the sender connection by ID, so no member ever sees an event
// twice and the sender never sees its own.
type RedisBroker struct {
	client  *redis.Client
	pubsub  *redis.PubSub
	log     *slog.Logger
	done    chan struct{}
	deliver func(Envelope)
}

// NewRedisBroker subscribes to the room fan-out channel and starts the
// receive loop. Delivery runs on the subscription goroutine; deliver must not
// block.
func NewRedisBroker(ctx context.Context, client *redis.Client, log *slog.Logger, deliver func(Envelope)) *RedisBroker {
	b := &RedisBroker{
		client:  client,
		pubsub:  client.Subscribe(ctx, constants.RedisChannelRoomEvents),
		log:     log,
		done:    make(chan struct{}),
		deliver: deliver,
	}
	go b.receive()
	return b
}

// Publish marshals env and publishes it on the fan-out channel.
func (b *RedisBroker) Publish(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, constants.RedisChannelRoomEvents, data).Err()
}

// Close tears down the subscription and stops the receive loop.
func (b *RedisBroker) Close() error {
	close(b.done)
	return b.pubsub.Close()
}

func (b *RedisBroker) receive() {
	ch := b.pubsub.Channel()
	for {
		select {
		case <-b.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.log.Warn("realtime_broker_bad_envelope", "error", err)
				continue
			}
			b.deliver(env)
		}
	}
}
