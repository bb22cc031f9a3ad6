package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	fluentlogger "github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/fluent_logger"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/postgres"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/rabbitmq/rabbitmq_common"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/rabbitmq/rabbitmq_producer"
	logger_adapter "github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/adapters/logger"
	postgres_adapter "github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/adapters/postgres"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/adapters/rabbitmq"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/adapters/rest"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/configs"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/constants"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/usecase"
)

type App struct {
	config    *configs.AppConfig
	dbPool    *pgxpool.Pool
	apiServer *rest.Server
	producer  *rabbitmq_producer.Publisher

	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Debug("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", err, nil)
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	appLogger.Debug("Successfully connected to PostgreSQL pool!", nil)

	pkgLogger := rabbitmq.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, pkgLogger)
	if err != nil {
		appLogger.Error("Failed to create RabbitMQ connection manager", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create rabbitmq connection manager: %w", err)
	}

	producer, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.TaskEventsExchange,
		ExchangeType:             "topic",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   pkgLogger,
	}, connManager)
	if err != nil {
		appLogger.Error("Failed to create RabbitMQ publisher", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create rabbitmq publisher: %w", err)
	}

	taskRepository, err := postgres_adapter.NewPostgresTaskRepository(dbPool)
	if err != nil {
		appLogger.Error("Failed to create postgres task repository", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create postgres task repository: %w", err)
	}
	commentRepository, err := postgres_adapter.NewPostgresCommentRepository(dbPool)
	if err != nil {
		appLogger.Error("Failed to create postgres comment repository", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create postgres comment repository: %w", err)
	}

	eventPublisher, err := rabbitmq.NewRabbitMQEventPublisher(producer)
	if err != nil {
		appLogger.Error("Failed to create event publisher adapter", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create event publisher adapter: %w", err)
	}
	appLogger.Debug("All persistence and messaging adapters initialized.", nil)

	createTaskUC := usecase.NewCreateTaskUseCase(taskRepository, eventPublisher)
	updateTaskUC := usecase.NewUpdateTaskUseCase(taskRepository, eventPublisher)
	deleteTaskUC := usecase.NewDeleteTaskUseCase(taskRepository)
	getTaskUC := usecase.NewGetTaskByIdUseCase(taskRepository)
	getTasksUC := usecase.NewGetTasksListUseCase(taskRepository)
	createCommentUC := usecase.NewCreateCommentUseCase(taskRepository, commentRepository, eventPublisher)
	getCommentsUC := usecase.NewGetCommentsUseCase(taskRepository, commentRepository)
	appLogger.Debug("All use cases initialized.", nil)

	apiHandlers := rest.NewTaskHandler(createTaskUC, updateTaskUC, deleteTaskUC, getTaskUC, getTasksUC, createCommentUC, getCommentsUC)
	apiServer := rest.NewServer(appConfig.Rest.PORT, apiHandlers, baseLogger)
	appLogger.Debug("REST API server configured.", nil)

	return &App{
		config:    appConfig,
		dbPool:    dbPool,
		apiServer: apiServer,
		producer:  producer,

		fluentClient: fluentClient,
		logger:       appLogger,
	}, nil
}

// Run starts all application components and manages their lifecycle.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Debug("Shutdown sequence initiated...", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ publisher", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Debug("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	serverErrors := make(chan error, 1)
	go func() {
		a.logger.Debug("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Debug("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
	case err := <-serverErrors:
		a.logger.Error("Server failed to start, shutting down", err, nil)
	}

	cancelApp()

	return nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
