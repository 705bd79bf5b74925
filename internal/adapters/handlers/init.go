package handlers

import (
	"net/http"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
	"github.com/iwtcode/chathubService/internal/middleware/swagger"

	"github.com/gin-gonic/gin"
)

// Handler - структура для обработчиков HTTP-запросов
type Handler struct {
	usecase interfaces.Usecases
	logger  *logging.Logger
}

// NewHandler создает новый экземпляр Handler
func NewHandler(usecase interfaces.Usecases, logger *logging.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger.WithPrefix("HANDLER"),
	}
}

// ProvideRouter настраивает и возвращает HTTP-роутер
func ProvideRouter(h *Handler, cfg *config.AppConfig, swagCfg *swagger.Config) http.Handler {
	gin.SetMode(cfg.GinMode)

	router := gin.Default()

	// Swagger
	swagger.Setup(router, swagCfg)

	// Logger Middleware
	router.Use(LoggingMiddleware(h.logger))

	// Группа API v1
	v1 := router.Group("/api/v1")
	{
		v1.POST("/login", h.Login)
		v1.GET("/accounts", h.GetAccounts)
		v1.POST("/message", h.SendMessage)

		proxies := v1.Group("/proxies")
		{
			proxies.GET("", h.GetProxies)
			proxies.POST("", h.RegisterProxy)
		}

		v1.GET("/account-webhooks", h.GetAllWebhookConfigs)
		v1.GET("/account-webhook/:ownId", h.GetWebhookConfig)
		v1.POST("/account-webhook", h.SetWebhookConfig)
		v1.DELETE("/account-webhook/:ownId", h.DeleteWebhookConfig)
	}

	return router
}
