// Package eventbus provides the Watermill publisher and subscriber shared by
// the portal modules.
package eventbus

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

const (
	// BackendNATS routes events through core NATS with queue groups.
	BackendNATS = "nats"
	// BackendInProcess keeps events inside the process.
	BackendInProcess = "gochannel"

	queueGroupPrefix = "golf-club-portal"
)

// Config selects the event bus backend.
type Config struct {
	// NATSURL enables the NATS backend. Empty keeps events in process.
	NATSURL string
	// NKeySeedFile holds a user nkey seed used to authenticate with NATS.
	NKeySeedFile string
}

// EventBus bundles a publisher and a subscriber over the same backend.
type EventBus struct {
	message.Publisher
	message.Subscriber

	backend string
	logger  *slog.Logger
	closers []func() error
}

// New connects the event bus.
func New(cfg Config, logger *slog.Logger) (*EventBus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	if cfg.NATSURL == "" {
		pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, wmLogger)
		logger.Info("Event bus running in process")
		return &EventBus{
			Publisher:  pubSub,
			Subscriber: pubSub,
			backend:    BackendInProcess,
			logger:     logger,
			closers:    []func() error{pubSub.Close},
		}, nil
	}

	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.MaxReconnects(-1),
		nc.ReconnectWait(2 * time.Second),
		nc.Name("golf-club-portal"),
	}
	if cfg.NKeySeedFile != "" {
		opt, publicKey, err := nkeyOption(cfg.NKeySeedFile)
		if err != nil {
			return nil, err
		}
		natsOptions = append(natsOptions, opt)
		logger.Info("NATS nkey authentication enabled", slog.String("public_key", publicKey))
	}
	marshaler := &nats.NATSMarshaler{}
	// Topics are dotted subjects, which JetStream auto-provisioning cannot
	// turn into stream names.
	jsConfig := nats.JetStreamConfig{Disabled: true}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.NATSURL,
			NatsOptions: natsOptions,
			Marshaler:   marshaler,
			JetStream:   jsConfig,
		},
		wmLogger,
	)
	if err != nil {
		logger.Error("Failed to create Watermill publisher", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              cfg.NATSURL,
			QueueGroupPrefix: queueGroupPrefix,
			SubscribersCount: 2,
			AckWaitTimeout:   30 * time.Second,
			CloseTimeout:     30 * time.Second,
			NatsOptions:      natsOptions,
			Unmarshaler:      marshaler,
			JetStream:        jsConfig,
		},
		wmLogger,
	)
	if err != nil {
		publisher.Close()
		logger.Error("Failed to create Watermill subscriber", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	logger.Info("Event bus connected to NATS", slog.String("url", cfg.NATSURL))
	return &EventBus{
		Publisher:  publisher,
		Subscriber: subscriber,
		backend:    BackendNATS,
		logger:     logger,
		closers:    []func() error{subscriber.Close, publisher.Close},
	}, nil
}

// nkeyOption loads a user seed and returns the option that signs the server
// nonce with it, along with the user's public key.
func nkeyOption(path string) (nc.Option, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read nkey seed: %w", err)
	}
	kp, err := nkeys.ParseDecoratedNKey(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse nkey seed: %w", err)
	}
	publicKey, err := kp.PublicKey()
	if err != nil {
		return nil, "", fmt.Errorf("failed to derive nkey public key: %w", err)
	}
	if !nkeys.IsValidPublicUserKey(publicKey) {
		return nil, "", fmt.Errorf("nkey seed in %s is not a user key", path)
	}
	return nc.Nkey(publicKey, kp.Sign), publicKey, nil
}

// Backend names the transport in use.
func (eb *EventBus) Backend() string {
	return eb.backend
}

// NewRouter creates a Watermill router logging through logger.
func NewRouter(logger *slog.Logger) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 30 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}
	return router, nil
}

// Close closes the subscriber and the publisher.
func (eb *EventBus) Close() error {
	var errs []error
	for _, closeFn := range eb.closers {
		if err := closeFn(); err != nil {
			eb.logger.Error("Error closing event bus", slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
