package models

import "github.com/iwtcode/chathubService/internal/domain/entities"

// ErrorResponse представляет стандартный ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  struct {
		Code    int    `json:"code" example:"404"`
		Message string `json:"message" example:"Аккаунт не найден"`
	} `json:"error"`
}

// MessageResponse представляет стандартный успешный ответ с сообщением.
type MessageResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"Webhook configuration updated"`
}

// LoginResponse представляет ответ на запрос входа.
type LoginResponse struct {
	Status string       `json:"status" example:"ok"`
	Result *LoginResult `json:"result"`
}

// AccountsResponse представляет ответ со списком аккаунтов.
type AccountsResponse struct {
	Status   string        `json:"status" example:"ok"`
	Count    int           `json:"count" example:"2"`
	Accounts []AccountInfo `json:"accounts"`
}

// ProxiesResponse представляет ответ с текущим состоянием пула прокси.
type ProxiesResponse struct {
	Status  string                 `json:"status" example:"ok"`
	Proxies []*entities.ProxyEntry `json:"proxies"`
}

// WebhookConfigResponse представляет ответ с конфигурацией вебхуков аккаунта.
type WebhookConfigResponse struct {
	Status string                  `json:"status" example:"ok"`
	OwnID  string                  `json:"own_id"`
	Config *entities.WebhookConfig `json:"config"`
}
