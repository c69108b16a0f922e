package main

import (
	"context"
	"fmt"
	"log/slog"

	"digitalidentity/internal/identity/models"
	"digitalidentity/internal/identity/notify"
	"digitalidentity/internal/identity/service"
	"digitalidentity/internal/identity/store"
	"digitalidentity/internal/identity/validation"
	"digitalidentity/internal/platform/config"
	"digitalidentity/internal/platform/postgres"
	"digitalidentity/internal/platform/redis"
)

// identityBackend is everything the commands need from a store implementation.
type identityBackend interface {
	service.Store
	validation.Gateway
	store.Expirer
	SaveCustomer(ctx context.Context, customer *models.Customer) error
	SaveContact(ctx context.Context, contact *models.Contact) error
	Ping(ctx context.Context) error
}

var (
	_ identityBackend = (*store.InMemoryStore)(nil)
	_ identityBackend = (*store.PostgresStore)(nil)
	_ identityBackend = (*store.RedisStore)(nil)
)

// openStore builds the configured backend. The returned func releases its
// connections.
func openStore(ctx context.Context, cfg config.Store) (identityBackend, func(), error) {
	switch cfg.Backend {
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL, cfg.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return store.NewPostgres(db), func() { _ = db.Close() }, nil
	case config.StoreRedis:
		client, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		if client == nil {
			return nil, nil, fmt.Errorf("redis store selected but REDIS_URL is empty")
		}
		return store.NewRedis(client.Client), func() { _ = client.Close() }, nil
	case config.StoreMemory:
		return store.NewInMemoryStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func openPublisher(ctx context.Context, cfg config.Notify, log *slog.Logger) (notify.Publisher, error) {
	switch cfg.Backend {
	case config.NotifyKafka:
		return notify.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
	case config.NotifyRabbitMQ:
		return notify.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
	case config.NotifyLog:
		return notify.NewLogPublisher(log), nil
	default:
		return nil, fmt.Errorf("unknown notify backend %q", cfg.Backend)
	}
}
