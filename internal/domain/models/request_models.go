package models

// LoginRequest определяет структуру запроса на вход.
// Оба поля необязательны: без account_id выполняется вход по QR-коду,
// без proxy адрес выбирается из пула автоматически.
type LoginRequest struct {
	Proxy     string `json:"proxy"`
	AccountID string `json:"account_id"`
}

// ProxyRequest определяет структуру запроса на регистрацию прокси.
type ProxyRequest struct {
	ProxyURL string `json:"proxy_url" binding:"required"`
}

// SendMessageRequest определяет структуру запроса на отправку сообщения.
type SendMessageRequest struct {
	OwnID    string `json:"own_id" binding:"required"`
	ThreadID string `json:"thread_id" binding:"required"`
	Type     int    `json:"type"` // 0 - личный диалог, 1 - группа
	Message  string `json:"message" binding:"required"`
}

// WebhookConfigRequest определяет структуру запроса на настройку вебхуков.
// Nil-поля не изменяют текущую конфигурацию, пустая строка очищает адрес.
type WebhookConfigRequest struct {
	OwnID                string  `json:"own_id" binding:"required"`
	MessageWebhookURL    *string `json:"message_webhook_url"`
	GroupEventWebhookURL *string `json:"group_event_webhook_url"`
	ReactionWebhookURL   *string `json:"reaction_webhook_url"`
}
