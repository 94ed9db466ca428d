// Package kenanganservice boots the kenangan backend: store, blob storage,
// push sender, auth verifier and image synthesizer per build target, plus the
// HTTP API and the chat-notification fanout worker.
package kenanganservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/rs/zerolog"

	"github.com/kenangan-app/kenangan-server/internal/api"
	"github.com/kenangan-app/kenangan-server/internal/auth"
	"github.com/kenangan-app/kenangan-server/internal/blob"
	"github.com/kenangan-app/kenangan-server/internal/config"
	"github.com/kenangan-app/kenangan-server/internal/events"
	"github.com/kenangan-app/kenangan-server/internal/factory"
	"github.com/kenangan-app/kenangan-server/internal/fanout"
	"github.com/kenangan-app/kenangan-server/internal/health"
	"github.com/kenangan-app/kenangan-server/internal/logger"
	"github.com/kenangan-app/kenangan-server/internal/push"
	"github.com/kenangan-app/kenangan-server/internal/scrapbook"
	"github.com/kenangan-app/kenangan-server/internal/services"
	"github.com/kenangan-app/kenangan-server/internal/store"
)

// Run starts the kenangan service and blocks until shutdown or error.
func Run() error {
	log := logger.New("kenangan-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("store_driver", cfg.StoreDriver).
		Str("blob_driver", cfg.BlobDriver).
		Str("push_driver", cfg.PushDriver).
		Str("auth_driver", cfg.AuthDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Kenangan service starting")

	// Cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	deps, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	// Start health checkers before serving traffic
	svcHealth := startHealthCheckers(ctx, cfg, log, deps)

	router := buildRouter(cfg, log, deps, svcHealth.IsHealthy)

	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	// Chat-notification fanout consumes the in-process event bus until shutdown.
	fan := fanout.NewHandler(deps.store, deps.sender, cfg.TokenBatchSize, log)
	go fan.Run(ctx, deps.bus)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// dependencies groups everything Run wires together.
type dependencies struct {
	store    store.Store
	blobs    blob.Store
	sender   push.Sender
	verifier auth.Verifier
	synth    scrapbook.Synthesizer
	bus      *events.Bus
}

// initDependencies constructs required components and enforces fail-fast on
// missing deps. A missing Gemini key is the one tolerated absence: the service
// runs with generation disabled.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*dependencies, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, err
	}

	blobs, err := factory.NewBlobStore(ctx, cfg)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Blob store unavailable")
		return nil, err
	}

	var app *firebase.App
	if cfg.PushDriver == "fcm" || cfg.AuthDriver == "firebase" {
		app, err = factory.NewFirebaseApp(ctx, cfg)
		if err != nil {
			log.Error().Stack().Err(err).Msg("Firebase app initialization failed")
			return nil, err
		}
	}

	sender, err := factory.NewPushSender(ctx, cfg, app, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Push sender unavailable")
		return nil, err
	}

	verifier, err := factory.NewVerifier(ctx, cfg, app)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Auth verifier unavailable")
		return nil, err
	}

	synth, err := factory.NewSynthesizer(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Image synthesizer initialization failed")
		return nil, err
	}

	return &dependencies{
		store:    st,
		blobs:    blobs,
		sender:   sender,
		verifier: verifier,
		synth:    synth,
		bus:      events.NewBus(cfg.EventBusBuffer),
	}, nil
}

// buildRouter wires HTTP routes to handlers.
func buildRouter(cfg *config.Config, log zerolog.Logger, deps *dependencies, isHealthy func() bool) http.Handler {
	gen := scrapbook.NewService(deps.store, scrapbook.NewHTTPFetcher(log), deps.synth, deps.blobs, log)

	return api.NewRouter(api.Deps{
		Generator:    gen,
		Credentialed: deps.synth != nil,
		GenTimeout:   time.Duration(cfg.GenerateTimeoutSeconds) * time.Second,
		Memories:     services.NewMemoryService(deps.store),
		Families:     services.NewFamilyService(deps.store),
		Chat:         services.NewChatService(deps.store, deps.bus, log),
		Devices:      services.NewDeviceService(deps.store),
		Verifier:     deps.verifier,
		IsHealthy:    isHealthy,
		Location:     time.Local,
		Log:          log,
	})
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, deps *dependencies) *health.ServiceHealthChecker {
	var checkers []health.HealthChecker
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	if p, ok := deps.store.(health.Pinger); ok {
		c := health.NewPingChecker("store", p, log, probeTimeout)
		go c.Start(ctx, interval)
		checkers = append(checkers, c)
	}
	if p, ok := deps.blobs.(health.Pinger); ok {
		c := health.NewPingChecker("blob", p, log, probeTimeout)
		go c.Start(ctx, interval)
		checkers = append(checkers, c)
	}

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second, // generation responses can be slow
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
