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
	"sync"
	"syscall"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	fluentlogger "github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/fluent_logger"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/postgres"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/rabbitmq/rabbitmq_common"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/rabbitmq/rabbitmq_consumer"
	logger_adapter "github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/adapters/logger"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/adapters/notifier"
	postgres_adapter "github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/adapters/postgres"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/adapters/rabbitmq"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/adapters/rest"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/configs"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/constants"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/usecase"
)

type App struct {
	config             *configs.AppConfig
	dbPool             *pgxpool.Pool
	apiServer          *rest.Server
	taskEventsListener port.EventListenerPort

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

	notificationRepository := postgres_adapter.NewNotificationRepository(dbPool)
	presence := notifier.NewInMemoryPresence(baseLogger)
	pushNotifier := notifier.NewChannelPushNotifier(presence)
	appLogger.Debug("Persistence and presence adapters initialized.", nil)

	processEventUC := usecase.NewProcessEventUseCase(notificationRepository, pushNotifier)
	getNotificationsUC := usecase.NewGetNotificationsUseCase(notificationRepository)
	markAsReadUC := usecase.NewMarkAsReadUseCase(notificationRepository)
	markAllAsReadUC := usecase.NewMarkAllAsReadUseCase(notificationRepository)
	appLogger.Debug("All use cases initialized.", nil)

	taskEventsListener, err := rabbitmq.NewTaskEventsConsumerAdapter(rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:              constants.NotificationsQueue,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.TaskEventsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    "topic",
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.TaskEventsBindingKey,
		PrefetchCount:          appConfig.RabbitMQ.PrefetchCount,
		ConsumerTag:            appConfig.AppName,
	}, processEventUC, baseLogger, connManager)
	if err != nil {
		appLogger.Error("Failed to create task events listener", err, nil)
		dbPool.Close()
		return nil, fmt.Errorf("failed to create task events listener: %w", err)
	}
	appLogger.Debug("Task events listener initialized.", nil)

	apiHandlers := rest.NewNotificationHandler(getNotificationsUC, markAsReadUC, markAllAsReadUC, presence)
	apiServer := rest.NewServer(appConfig.Rest.PORT, apiHandlers, baseLogger)
	appLogger.Debug("REST API server configured.", nil)

	return &App{
		config:             appConfig,
		dbPool:             dbPool,
		apiServer:          apiServer,
		taskEventsListener: taskEventsListener,

		fluentClient: fluentClient,
		logger:       appLogger,
	}, nil
}

// Run starts all application components and manages their lifecycle.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	var wg sync.WaitGroup

	defer func() {
		a.logger.Debug("Shutdown sequence initiated...", nil)

		a.logger.Debug("Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Debug("All background processes finished.", nil)

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("Error during API server shutdown", err, nil)
			}
		}

		if a.taskEventsListener != nil {
			if err := a.taskEventsListener.Close(); err != nil {
				a.logger.Error("Error closing task events listener", err, nil)
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

	errorsCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Task Events Listener"})
		listenerLogger.Info("Starting listener...", nil)

		if err := a.taskEventsListener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			errorsCh <- fmt.Errorf("task events listener error: %w", err)
		} else {
			listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
		}
	}()

	go func() {
		a.logger.Debug("Starting HTTP server...", port.Fields{"port": a.config.Rest.PORT})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Debug("Application running. Waiting for signals or server error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-errorsCh:
		a.logger.Error("A critical component failed, shutting down", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("Context was cancelled unexpectedly, shutting down...", nil)
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
