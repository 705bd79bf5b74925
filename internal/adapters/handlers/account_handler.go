package handlers

import (
	"errors"
	"net/http"

	"github.com/iwtcode/chathubService/internal/domain/models"
	apperrors "github.com/iwtcode/chathubService/pkg/errors"

	"github.com/gin-gonic/gin"
)

// GetAccounts возвращает снимок реестра сессий.
// @Summary Список аккаунтов
// @Description Возвращает все известные аккаунты с их статусом подключения.
// @Tags Account
// @Produce json
// @Success 200 {object} models.AccountsResponse "Список аккаунтов"
// @Router /accounts [get]
func (h *Handler) GetAccounts(c *gin.Context) {
	accounts := h.usecase.Accounts()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"count":    len(accounts),
		"accounts": accounts,
	})
}

// SendMessage отправляет сообщение от имени аккаунта.
// @Summary Отправить сообщение
// @Description Отправляет текстовое сообщение в диалог или группу через живую сессию аккаунта.
// @Tags Account
// @Accept json
// @Produce json
// @Param input body models.SendMessageRequest true "Данные сообщения"
// @Success 200 {object} models.MessageResponse "Результат отправки"
// @Failure 400 {object} models.ErrorResponse "Неверный формат запроса или аккаунт недоступен"
// @Failure 500 {object} models.ErrorResponse "Ошибка отправки"
// @Router /message [post]
func (h *Handler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	result, err := h.usecase.SendMessage(c.Request.Context(), req.OwnID, req.ThreadID, req.Type, req.Message)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) || errors.Is(err, apperrors.ErrAccountInactive) {
			h.BadRequest(c, err, "Account unavailable")
			return
		}
		h.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": result})
}
