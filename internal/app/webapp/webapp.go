package webapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/session-auth/internal/cache"
	"github.com/magabrotheeeer/session-auth/internal/config"
	"github.com/magabrotheeeer/session-auth/internal/http/view"
	"github.com/magabrotheeeer/session-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/session-auth/internal/lib/password"
	"github.com/magabrotheeeer/session-auth/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/session-auth/internal/lib/sl"
	"github.com/magabrotheeeer/session-auth/internal/metrics"
	"github.com/magabrotheeeer/session-auth/internal/models"
	services "github.com/magabrotheeeer/session-auth/internal/services/auth"
	"github.com/magabrotheeeer/session-auth/internal/session"
	"github.com/magabrotheeeer/session-auth/internal/storage/memory"
)

// Значения session.store в конфиге.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []io.Closer
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "webapp.New"

	a := &App{logger: logger}

	users := memory.New()
	hasher := password.NewHasher(cfg.BcryptCost)

	var publisher services.EventPublisher
	if cfg.RabbitMQ.Enabled {
		ch, err := a.connectRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = rabbitmq.NewUserEventPublisher(ch, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.RoutingKey)
	}

	authService, err := services.NewAuthService(ctx, users, hasher, publisher, logger)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := authService.SeedUsers(ctx, seedsFromConfig(cfg.SeedUsers)); err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store, err := a.sessionStore(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	manager := session.NewManager(
		store,
		jwt.NewJWTMaker(cfg.SecretKey, cfg.Session.TTL),
		session.Options{
			CookieName: cfg.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Secure,
		},
		logger,
	)

	pages, err := view.New()
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry, users.Count)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, manager, pages, m, registry)

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

// Handler возвращает корневой обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// Close освобождает внешние подключения (redis, RabbitMQ).
func (a *App) Close() {
	a.close()
}

func (a *App) sessionStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.StoreBackend {
	case "", StoreMemory:
		return session.NewMemoryStore(cfg.MemorySize, cfg.Session.TTL), nil
	case StoreRedis:
		cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("cache not initialized: %w", err)
		}
		a.closers = append(a.closers, cacheRedis)
		return session.NewRedisStore(cacheRedis, cfg.Session.TTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.StoreBackend)
	}
}

func (a *App) connectRabbitMQ(cfg config.RabbitMQ) (*amqp.Channel, error) {
	conn, err := rabbitmq.Connect(cfg.URL, cfg.Retries, cfg.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	a.closers = append(a.closers, conn)

	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
	if err != nil {
		return nil, fmt.Errorf("failed to setup RabbitMQ exchange: %w", err)
	}
	a.closers = append(a.closers, ch)
	return ch, nil
}

// close закрывает ресурсы в обратном порядке открытия.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("failed to close resource", sl.Op("webapp.close"), sl.Err(err))
		}
	}
	a.closers = nil
}

func seedsFromConfig(seeds []config.SeedUser) []services.Seed {
	result := make([]services.Seed, 0, len(seeds))
	for _, s := range seeds {
		result = append(result, services.Seed{
			Username: s.Username,
			Email:    s.Email,
			Password: s.Password,
			Role:     models.Role(s.Role),
		})
	}
	return result
}
