package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	notifcontracts "github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/notification/dispatcher"
	"github.com/light-bringer/rawsy-service/internal/app/notification/fanout"
	"github.com/light-bringer/rawsy-service/internal/app/notification/push"
	"github.com/light-bringer/rawsy-service/internal/app/notification/queries/list_notifications"
	notifrepo "github.com/light-bringer/rawsy-service/internal/app/notification/repo"
	"github.com/light-bringer/rawsy-service/internal/app/outbox/queries/list_events"
	"github.com/light-bringer/rawsy-service/internal/app/outbox/relay"
	outboxrepo "github.com/light-bringer/rawsy-service/internal/app/outbox/repo"
	productcontracts "github.com/light-bringer/rawsy-service/internal/app/product/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/product/observer"
	"github.com/light-bringer/rawsy-service/internal/app/product/queries/get_product"
	"github.com/light-bringer/rawsy-service/internal/app/product/queries/list_products"
	productrepo "github.com/light-bringer/rawsy-service/internal/app/product/repo"
	"github.com/light-bringer/rawsy-service/internal/app/product/usecases/create_product"
	"github.com/light-bringer/rawsy-service/internal/app/product/usecases/delete_product"
	"github.com/light-bringer/rawsy-service/internal/app/product/usecases/update_product"
	quotecontracts "github.com/light-bringer/rawsy-service/internal/app/quote/contracts"
	"github.com/light-bringer/rawsy-service/internal/app/quote/notify"
	"github.com/light-bringer/rawsy-service/internal/app/quote/queries/get_quote"
	"github.com/light-bringer/rawsy-service/internal/app/quote/queries/list_quotes"
	quoterepo "github.com/light-bringer/rawsy-service/internal/app/quote/repo"
	"github.com/light-bringer/rawsy-service/internal/app/quote/usecases/create_quote"
	"github.com/light-bringer/rawsy-service/internal/app/quote/usecases/transition_quote"
	"github.com/light-bringer/rawsy-service/internal/pkg/clock"
	"github.com/light-bringer/rawsy-service/internal/pkg/committer"
	"github.com/light-bringer/rawsy-service/internal/pkg/config"
	"github.com/light-bringer/rawsy-service/internal/pkg/metrics"
	"github.com/light-bringer/rawsy-service/internal/pkg/sideeffect"
	httptransport "github.com/light-bringer/rawsy-service/internal/transport/http"
)

// Runner is the side-effect runner owned by the container.
type Runner interface {
	sideeffect.Runner
	Close(ctx context.Context) error
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	RedisClient   *redis.Client
	Runner        Runner
	Metrics       *metrics.Metrics
	Handlers      httptransport.Handlers

	// Relay is nil unless relay.enabled is set.
	Relay *relay.Relay

	// Directory is exposed so tests and local tooling can seed users in
	// memory mode.
	Directory notifcontracts.UserDirectory
}

// stores is the persistence backend selected by configuration.
type stores struct {
	products      productcontracts.ProductRepository
	readModel     productcontracts.ReadModel
	quotes        quotecontracts.QuoteRepository
	notifications notifcontracts.NotificationRepository
	directory     notifcontracts.UserDirectory
	events        list_events.EventsReadModel
	relay         relay.Store
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, log *zap.Logger) (*ServiceOptions, error) {
	opts := &ServiceOptions{Metrics: metrics.New()}
	clk := clock.NewRealClock()

	// 1. Storage
	var st stores
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		st = memoryStores(clk)
	case config.StorageSpanner:
		client, err := spanner.NewClient(ctx, cfg.Storage.SpannerDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		opts.SpannerClient = client
		st = spannerStores(client, clk)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	opts.Directory = st.directory

	// 2. Product cache
	var cache productcontracts.ProductCache
	if cfg.Redis.Addr != "" {
		opts.RedisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := opts.RedisClient.Ping(ctx).Err(); err != nil {
			opts.Close(ctx)
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		cache = productrepo.NewRedisCache(opts.RedisClient, cfg.Redis.ProductTTL, log)
	}

	// 3. Push transport
	var transport notifcontracts.PushTransport
	switch cfg.Push.Driver {
	case config.PushFCM:
		fcmTransport, err := push.NewFCMTransport(ctx, push.FCMConfig{
			ProjectID:       cfg.Push.ProjectID,
			CredentialsFile: cfg.Push.CredentialsFile,
			RatePerSecond:   cfg.Push.RatePerSecond,
			Burst:           cfg.Push.Burst,
			Concurrency:     cfg.Push.Concurrency,
		}, log)
		if err != nil {
			opts.Close(ctx)
			return nil, err
		}
		transport = fcmTransport
	default:
		transport = push.NewLogTransport(log)
	}

	// 4. Side effects and notification delivery
	runner := sideeffect.NewAsyncRunner(sideeffect.AsyncConfig{
		Workers:     cfg.SideEffects.Workers,
		QueueSize:   cfg.SideEffects.QueueSize,
		TaskTimeout: cfg.SideEffects.TaskTimeout,
	}, log, opts.Metrics)
	opts.Runner = runner

	notifications := dispatcher.New(st.notifications, transport, clk, log, opts.Metrics)
	watchers := fanout.New(st.directory, notifications, log)
	quoteNotifier := notify.NewNotifier(st.directory, notifications, runner)

	// 5. Use cases and queries
	opts.Handlers = httptransport.Handlers{
		Products: httptransport.NewProductHandler(
			create_product.NewInteractor(st.products, clk),
			update_product.NewInteractor(st.products, observer.New(watchers, log), runner, cache, clk, log),
			delete_product.NewInteractor(st.products, cache, clk, log),
			get_product.NewQuery(st.readModel, cache, log),
			list_products.NewQuery(st.readModel),
		),
		Quotes: httptransport.NewQuoteHandler(
			create_quote.NewInteractor(st.products, st.quotes, quoteNotifier, clk),
			transition_quote.NewInteractor(st.quotes, quoteNotifier, clk, opts.Metrics, log),
			get_quote.NewQuery(st.quotes),
			list_quotes.NewQuery(st.quotes),
		),
		Notifications: httptransport.NewNotificationHandler(list_notifications.NewQuery(st.notifications)),
		Events:        httptransport.NewEventsHandler(list_events.NewQuery(st.events)),
	}

	// 6. Outbox relay
	if cfg.Relay.Enabled {
		var publisher relay.Publisher = relay.NewLogPublisher(log)
		if cfg.Relay.Stream != "" && opts.RedisClient != nil {
			publisher = relay.NewStreamPublisher(opts.RedisClient, cfg.Relay.Stream, cfg.Relay.StreamMaxLen)
		}
		opts.Relay = relay.New(st.relay, publisher, relay.Config{
			BatchSize:    cfg.Relay.BatchSize,
			PollInterval: cfg.Relay.PollInterval,
			MaxRetries:   cfg.Relay.MaxRetries,
		}, clk, log.Named("relay"), opts.Metrics)
	}

	return opts, nil
}

func spannerStores(client *spanner.Client, clk clock.Clock) stores {
	comm := committer.NewCommitter(client)
	return stores{
		products:      productrepo.NewProductRepo(client, comm, clk),
		readModel:     productrepo.NewReadModel(client, clk),
		quotes:        quoterepo.NewQuoteRepo(client, comm, clk),
		notifications: notifrepo.NewNotificationRepo(client, comm),
		directory:     notifrepo.NewUserDirectory(client),
		events:        outboxrepo.NewEventsReadModel(client),
		relay:         outboxrepo.NewRelayStore(client),
	}
}

func memoryStores(clk clock.Clock) stores {
	events := outboxrepo.NewMemoryLog()
	products := productrepo.NewMemoryStore(events, clk)
	return stores{
		products:      products,
		readModel:     products,
		quotes:        quoterepo.NewMemoryRepo(events, clk),
		notifications: notifrepo.NewMemoryNotificationRepo(),
		directory:     notifrepo.NewMemoryDirectory(),
		events:        events,
		relay:         events,
	}
}

// Close drains pending side effects and releases clients.
func (s *ServiceOptions) Close(ctx context.Context) {
	if s.Runner != nil {
		_ = s.Runner.Close(ctx)
	}
	if s.RedisClient != nil {
		_ = s.RedisClient.Close()
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
