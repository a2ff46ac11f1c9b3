package main

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskchat/api/handler"
	apiMCP "github.com/fastygo/taskchat/api/mcp"
	"github.com/fastygo/taskchat/internal/config"
	"github.com/fastygo/taskchat/internal/infrastructure/monitor"
	redisInfra "github.com/fastygo/taskchat/internal/infrastructure/redis"
	"github.com/fastygo/taskchat/internal/metrics"
	"github.com/fastygo/taskchat/internal/middleware"
	"github.com/fastygo/taskchat/internal/router"
	"github.com/fastygo/taskchat/internal/services/lifecycle"
	"github.com/fastygo/taskchat/internal/storage"
	"github.com/fastygo/taskchat/pkg/httpcontext"
	"github.com/fastygo/taskchat/pkg/logger"
	"github.com/fastygo/taskchat/repository"
	redisRepo "github.com/fastygo/taskchat/repository/redis"
	"github.com/fastygo/taskchat/usecase"
	"github.com/fastygo/taskchat/usecase/access"
	authUC "github.com/fastygo/taskchat/usecase/auth"
	chatUC "github.com/fastygo/taskchat/usecase/chat"
	profileUC "github.com/fastygo/taskchat/usecase/profile"
	taskUC "github.com/fastygo/taskchat/usecase/task"
	"github.com/fastygo/taskchat/usecase/tools"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Service:     cfg.AppName,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, stop := manager.SignalContext(context.Background())
	defer stop()

	store, err := storage.Open(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	manager.RegisterCloser(store.Driver, store.Close)

	mon := monitor.New(10*time.Second, zapLogger)
	mon.AddProbe(store.Driver, 2*time.Second, store.Ping)

	var sessions repository.SessionRepository
	if cfg.Redis.Enabled {
		redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.RegisterCloser("redis", redisClient.Close)
		mon.AddProbe("redis", 2*time.Second, func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		sessions = redisRepo.NewSessionRepository(redisClient, cfg.JWT.TTL)
	} else {
		zapLogger.Info("redis disabled, tokens cannot be revoked")
	}

	mon.Start()
	manager.RegisterCloser("monitor", func() error {
		mon.Stop()
		return nil
	})

	var (
		recorder    usecase.Recorder = usecase.NopRecorder{}
		instrument  func(string, fasthttp.RequestHandler) fasthttp.RequestHandler
		metricsHTTP fasthttp.RequestHandler
	)
	if cfg.HTTP.EnableMetrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector := metrics.NewCollector(registry)
		recorder = collector
		instrument = collector.Instrument
		metricsHTTP = metrics.Handler(registry)
	}

	guard := access.NewGuard(zapLogger)
	taskUseCase := taskUC.New(store.Tasks, store.Users, recorder, zapLogger)
	chatUseCase := chatUC.New(
		chatUC.NewRouter(taskUseCase, zapLogger),
		store.Users,
		store.Conversations,
		store.Messages,
		recorder,
		zapLogger,
	)
	dispatcher := tools.NewDispatcher(guard, recorder, zapLogger)
	tools.RegisterTaskTools(dispatcher, taskUseCase)

	authUseCase := authUC.New(store.Users, sessions, authUC.Config{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	}, zapLogger)
	profileUseCase := profileUC.New(store.Users, store.Tasks, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.TTL),
		Profile: apiHandler.NewProfileHandler(profileUseCase, guard, ctxAdapter, zapLogger),
		Task:    apiHandler.NewTaskHandler(taskUseCase, guard, ctxAdapter, zapLogger),
		Chat:    apiHandler.NewChatHandler(chatUseCase, guard, ctxAdapter, zapLogger),
		Tools:   apiHandler.NewToolsHandler(dispatcher, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, cfg.AppName, ctxAdapter, zapLogger),
		Metrics: metricsHTTP,
	}
	if cfg.MCP.Enabled {
		handlers.MCP = apiMCP.NewServer(cfg.AppName, version, cfg.MCP.Path, dispatcher, zapLogger).Handler()
	}

	authMiddleware := middleware.JWTAuth(authUseCase, ctxAdapter, zapLogger)
	r := router.New(handlers, router.Options{
		MCPPath:    cfg.MCP.Path,
		DevLogin:   cfg.JWT.DevLogin,
		Instrument: instrument,
	}, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", store.Driver),
			zap.Bool("mcp", cfg.MCP.Enabled),
			zap.Bool("dev_login", cfg.JWT.DevLogin),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
