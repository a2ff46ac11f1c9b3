// Command diagnose checks that the configured store accepts a user and a task
// round trip through the same facade the API uses.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskchat/domain"
	"github.com/fastygo/taskchat/internal/config"
	"github.com/fastygo/taskchat/internal/storage"
	"github.com/fastygo/taskchat/pkg/logger"
	"github.com/fastygo/taskchat/repository"
	taskUC "github.com/fastygo/taskchat/usecase/task"
)

const diagnosticUser = "diag-user-123"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    "console",
		Service:     cfg.AppName + "-diagnose",
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := storage.Open(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Error("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	if err := run(ctx, store, zapLogger); err != nil {
		zapLogger.Error("diagnosis failed", zap.Error(err))
		os.Exit(1)
	}
	zapLogger.Info("diagnosis passed", zap.String("driver", store.Driver))
}

func run(ctx context.Context, store *repository.Store, zapLogger *zap.Logger) error {
	if err := store.Ping(ctx); err != nil {
		return err
	}
	zapLogger.Info("store reachable", zap.String("driver", store.Driver))

	user, err := store.Users.Ensure(ctx, domain.NewUser(diagnosticUser))
	if err != nil {
		return err
	}
	zapLogger.Info("user ready", zap.String("user_id", user.ID))

	tasks := taskUC.New(store.Tasks, store.Users, nil, zapLogger)

	created, err := tasks.AddTask(ctx, diagnosticUser, taskUC.CreateRequest{
		Title:       "Diagnostic Task",
		Description: "Created by the diagnose command",
	})
	if err != nil {
		return err
	}
	zapLogger.Info("task created", zap.Int64("task_id", created.ID), zap.String("status", created.Status))

	listed, err := tasks.ListTasks(ctx, diagnosticUser, domain.TaskStatusAll)
	if err != nil {
		return err
	}
	zapLogger.Info("tasks listed", zap.Int("count", len(listed)))

	deleted, err := tasks.DeleteTask(ctx, diagnosticUser, created.ID)
	if err != nil {
		return err
	}
	zapLogger.Info("task removed", zap.Int64("task_id", deleted.ID), zap.String("status", deleted.Status))
	return nil
}
