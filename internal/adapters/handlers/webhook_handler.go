package handlers

import (
	"net/http"

	"github.com/iwtcode/chathubService/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GetAllWebhookConfigs возвращает конфигурации вебхуков всех аккаунтов.
// @Summary Все конфигурации вебхуков
// @Tags Webhook
// @Produce json
// @Success 200 {object} models.MessageResponse "Конфигурации по аккаунтам"
// @Router /account-webhooks [get]
func (h *Handler) GetAllWebhookConfigs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": h.usecase.GetAllWebhookConfigs()})
}

// GetWebhookConfig возвращает конфигурацию вебхуков одного аккаунта.
// @Summary Конфигурация вебхуков аккаунта
// @Tags Webhook
// @Produce json
// @Param ownId path string true "Идентификатор аккаунта"
// @Success 200 {object} models.WebhookConfigResponse "Конфигурация аккаунта"
// @Failure 400 {object} models.ErrorResponse "ownId не указан"
// @Router /account-webhook/{ownId} [get]
func (h *Handler) GetWebhookConfig(c *gin.Context) {
	ownID := c.Param("ownId")
	if ownID == "" {
		h.BadRequest(c, nil, "ownId is required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"own_id": ownID,
		"config": h.usecase.GetWebhookConfig(ownID),
	})
}

// SetWebhookConfig обновляет адреса вебхуков аккаунта.
// @Summary Настроить вебхуки аккаунта
// @Description Частичное обновление: отсутствующие в запросе поля не изменяются.
// @Tags Webhook
// @Accept json
// @Produce json
// @Param input body models.WebhookConfigRequest true "Адреса вебхуков"
// @Success 200 {object} models.MessageResponse "Конфигурация обновлена"
// @Failure 400 {object} models.ErrorResponse "Неверный формат запроса"
// @Failure 500 {object} models.ErrorResponse "Ошибка сохранения"
// @Router /account-webhook [post]
func (h *Handler) SetWebhookConfig(c *gin.Context) {
	var req models.WebhookConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	if err := h.usecase.SetWebhookConfig(req); err != nil {
		h.InternalError(c, err)
		return
	}

	h.logger.Info("Webhook configuration updated", "accountID", req.OwnID)
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Webhook configuration updated"})
}

// DeleteWebhookConfig удаляет конфигурацию вебхуков аккаунта.
// @Summary Удалить конфигурацию вебхуков
// @Tags Webhook
// @Produce json
// @Param ownId path string true "Идентификатор аккаунта"
// @Success 200 {object} models.MessageResponse "Конфигурация удалена"
// @Failure 404 {object} models.ErrorResponse "Конфигурация не найдена"
// @Router /account-webhook/{ownId} [delete]
func (h *Handler) DeleteWebhookConfig(c *gin.Context) {
	ownID := c.Param("ownId")
	if ownID == "" {
		h.BadRequest(c, nil, "ownId is required")
		return
	}

	if err := h.usecase.DeleteWebhookConfig(ownID); err != nil {
		h.NotFound(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Webhook configuration removed"})
}
