package app

import (
	"context"
	"net/http"
	"time"

	"github.com/iwtcode/chathubService/internal/adapters/handlers"
	"github.com/iwtcode/chathubService/internal/adapters/repositories/file"
	"github.com/iwtcode/chathubService/internal/adapters/sdkbridge"
	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
	"github.com/iwtcode/chathubService/internal/middleware/swagger"
	"github.com/iwtcode/chathubService/internal/services/chat_service"
	"github.com/iwtcode/chathubService/internal/services/kafka"
	"github.com/iwtcode/chathubService/internal/services/notifier"
	"github.com/iwtcode/chathubService/internal/services/webhook"
	"github.com/iwtcode/chathubService/internal/usecases"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		ConfigModule,
		LoggingModule,
		StoreModule,
		ProducerModule,
		NotifierModule,
		SdkModule,
		ServiceModule,
		UsecaseModule,
		HttpServerModule,
		// Invoke-функции для запуска фоновых задач и хуков жизненного цикла
		fx.Invoke(InvokeRestoreSessions),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	return logging.NewLogger(loggerCfg, "ChatHubApp")
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

var StoreModule = fx.Module("store_module",
	fx.Provide(
		file.NewCredentialStore,
		file.NewProxyStore,
		file.NewWebhookConfigRepository,
	),
)

var ProducerModule = fx.Module("producer_module",
	fx.Provide(kafka.NewEventProducer),
)

var NotifierModule = fx.Module("notifier_module",
	fx.Provide(
		notifier.NewStatusNotifier,
		webhook.NewWebhookSender,
	),
)

var SdkModule = fx.Module("sdk_module",
	fx.Provide(sdkbridge.NewClientFactory),
)

var ServiceModule = fx.Module("service_module",
	fx.Provide(chat_service.NewChatService),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

func NewSwaggerConfig() *swagger.Config {
	return &swagger.Config{
		Enabled: true,
		Path:    "/swagger",
	}
}

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		NewSwaggerConfig,
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokeRestoreSessions восстанавливает сессии аккаунтов при старте.
func InvokeRestoreSessions(lc fx.Lifecycle, uc interfaces.Usecases, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Restoring sessions from saved credentials...")
			// Не фатально: аккаунты с неудачным восстановлением остаются
			// неактивными до следующего входа.
			go uc.RestoreSessions(context.Background())
			return nil
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
