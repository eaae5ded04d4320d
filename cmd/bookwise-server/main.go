package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"google.golang.org/grpc"

	"bookwise/backend/internal/config"
	"bookwise/backend/internal/observability/metrics"
	"bookwise/backend/internal/service/providers"
	"bookwise/backend/internal/service/reviews"
	"bookwise/backend/internal/service/scheduling"
	"bookwise/backend/internal/store"
	"bookwise/backend/internal/store/filestore"
	"bookwise/backend/internal/store/postgres"
	"bookwise/backend/internal/store/redisstore"
	"bookwise/backend/internal/transport/admin"
	grpcTransport "bookwise/backend/internal/transport/grpc"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With(
		slog.String("service", "bookwise-server"),
	)
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "bookwise-server"),
	)
	slog.SetDefault(log)

	log.Info("starting",
		slog.String("grpc_addr", cfg.GRPCAddr),
		slog.String("admin_addr", cfg.AdminAddr),
		slog.String("store_driver", cfg.StoreDriver),
		slog.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("connecting to database", databaseLogArgs(cfg.DatabaseURL)...)
	db, err := postgres.Open(ctx, cfg.DatabaseURL, postgres.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		SlowQuery:       cfg.DBSlowQuery,
	}, log)
	if err != nil {
		args := append([]any{slog.Any("err", err)}, databaseLogArgs(cfg.DatabaseURL)...)
		log.Error("database connection failed", args...)
		os.Exit(1)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("database close failed", slog.Any("err", err))
		}
	}()

	checks := []admin.ReadyCheck{{Name: "postgres", Check: db.PingContext}}

	apptStore, closeStore, storeChecks, err := openAppointmentStore(cfg, db)
	if err != nil {
		log.Error("appointment store setup failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer closeStore()
	checks = append(checks, storeChecks...)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewSchedulingMetrics(reg)

	engine, err := scheduling.NewEngine(ctx, apptStore,
		scheduling.WithLogger(log),
		scheduling.WithRecorder(m),
	)
	if err != nil {
		log.Error("scheduling engine init failed", slog.Any("err", err))
		os.Exit(1)
	}

	providerRepo := postgres.NewProviderRepo(db)
	reviewSvc := reviews.NewService(postgres.NewReviewRepo(db), engine, log)
	providerSvc := providers.NewService(providerRepo, reviewSvc, log)

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpcTransport.RequestIDInterceptor(),
			grpcTransport.ObservabilityInterceptor(m, log),
			grpcTransport.RequestTimeoutInterceptor(cfg.GRPCRequestTimeout),
		),
	)
	grpcTransport.RegisterSchedulingServiceServer(grpcServer, grpcTransport.NewSchedulingServer(engine, providerSvc, providerRepo, log))
	grpcTransport.RegisterProviderServiceServer(grpcServer, grpcTransport.NewProviderServer(providerSvc, providerRepo, log))
	grpcTransport.RegisterReviewServiceServer(grpcServer, grpcTransport.NewReviewServer(reviewSvc, providerRepo, log))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Error("grpc listen failed", slog.Any("err", err), slog.String("grpc_addr", cfg.GRPCAddr))
		os.Exit(1)
	}

	adminServer := &http.Server{
		Addr: cfg.AdminAddr,
		Handler: admin.NewRouter(admin.Config{
			Appointments: engine,
			Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			Checks:       checks,
			Token:        cfg.AdminToken,
			Logger:       log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- grpcServer.Serve(lis)
	}()
	go func() {
		if err := adminServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("grpc server started", slog.String("grpc_addr", cfg.GRPCAddr))

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdown(log, grpcServer, adminServer, cfg.ShutdownTimeout)
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			log.Error("server stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// openAppointmentStore picks the persistence backend for the appointment collection.
func openAppointmentStore(cfg config.Config, db *bun.DB) (store.AppointmentStore, func(), []admin.ReadyCheck, error) {
	noop := func() {}
	switch cfg.StoreDriver {
	case config.StoreDriverFile:
		return filestore.New(cfg.StoreFilePath), noop, nil, nil
	case config.StoreDriverRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		s := redisstore.New(client, cfg.RedisKey)
		closeFn := func() { _ = client.Close() }
		return s, closeFn, []admin.ReadyCheck{{Name: "redis", Check: s.Ping}}, nil
	case config.StoreDriverPostgres:
		return postgres.NewAppointmentRepo(db), noop, nil, nil
	default:
		return nil, noop, nil, errors.New("unsupported store driver " + cfg.StoreDriver)
	}
}

func shutdown(log *slog.Logger, s *grpc.Server, h *http.Server, timeout time.Duration) {
	log.Info("shutting down servers", slog.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := h.Shutdown(ctx); err != nil {
		log.Warn("admin server shutdown failed", slog.Any("err", err))
	}

	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		log.Info("grpc server stopped")
	case <-ctx.Done():
		log.Warn("grpc graceful shutdown timed out; forcing stop")
		s.Stop()
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func databaseLogArgs(databaseURL string) []any {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return []any{slog.String("db_url", "invalid")}
	}
	name := strings.TrimPrefix(u.Path, "/")
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "default"
	}
	if host == "" {
		host = "unknown"
	}
	if name == "" {
		name = "unknown"
	}
	return []any{
		slog.String("db_host", host),
		slog.String("db_port", port),
		slog.String("db_name", name),
	}
}
