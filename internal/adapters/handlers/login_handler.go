package handlers

import (
	"errors"
	"net/http"

	"github.com/iwtcode/chathubService/internal/domain/models"
	apperrors "github.com/iwtcode/chathubService/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Login выполняет вход в аккаунт мессенджера.
// @Summary Вход в аккаунт
// @Description Выполняет вход по сохраненным учетным данным (account_id) или по QR-коду. Ответ содержит либо data URI картинки QR-кода, либо признак завершенного входа.
// @Tags Login
// @Accept json
// @Produce json
// @Param input body models.LoginRequest true "Необязательные proxy и account_id"
// @Success 200 {object} models.LoginResponse "QR-код или признак успешного входа"
// @Failure 400 {object} models.ErrorResponse "Неверный формат запроса"
// @Failure 409 {object} models.ErrorResponse "Вход для аккаунта уже выполняется"
// @Failure 500 {object} models.ErrorResponse "Вход не удался"
// @Router /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Invalid request payload")
		return
	}

	h.logger.Info("Login requested", "accountID", req.AccountID, "customProxy", req.Proxy != "")

	result, err := h.usecase.Login(c.Request.Context(), req.Proxy, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrLoginInFlight) {
			h.ErrorResponse(c, err, http.StatusConflict, "Login already in progress", true)
			return
		}
		h.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "result": result})
}

// GetProxies возвращает текущее состояние пула прокси.
// @Summary Список прокси
// @Description Возвращает пул прокси с количеством закрепленных аккаунтов.
// @Tags Proxy
// @Produce json
// @Success 200 {object} models.ProxiesResponse "Пул прокси"
// @Router /proxies [get]
func (h *Handler) GetProxies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "proxies": h.usecase.Proxies()})
}

// RegisterProxy добавляет прокси в пул.
// @Summary Зарегистрировать прокси
// @Description Проверяет адрес и добавляет его в пул. Повторная регистрация известного адреса не изменяет пул.
// @Tags Proxy
// @Accept json
// @Produce json
// @Param input body models.ProxyRequest true "Адрес прокси"
// @Success 200 {object} models.MessageResponse "Прокси зарегистрирован"
// @Failure 400 {object} models.ErrorResponse "Некорректный адрес"
// @Router /proxies [post]
func (h *Handler) RegisterProxy(c *gin.Context) {
	var req models.ProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err, "Missing or invalid proxy_url")
		return
	}

	if err := h.usecase.RegisterProxy(req.ProxyURL); err != nil {
		h.BadRequest(c, err, "Invalid proxy address")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Proxy registered"})
}
