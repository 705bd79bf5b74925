package entities

// Виды событий, доставляемых слушателем сессии.
const (
	EventMessage    = "message"
	EventGroupEvent = "group_event"
	EventReaction   = "reaction"
)

// WebhookConfig - адреса вебхуков одного аккаунта по видам событий.
// Пустой адрес означает, что события этого вида никуда не отправляются.
type WebhookConfig struct {
	MessageWebhookURL    string `json:"messageWebhookUrl"`
	GroupEventWebhookURL string `json:"groupEventWebhookUrl"`
	ReactionWebhookURL   string `json:"reactionWebhookUrl"`
}

// URLFor возвращает адрес вебхука для указанного вида события.
func (c *WebhookConfig) URLFor(event string) string {
	if c == nil {
		return ""
	}
	switch event {
	case EventMessage:
		return c.MessageWebhookURL
	case EventGroupEvent:
		return c.GroupEventWebhookURL
	case EventReaction:
		return c.ReactionWebhookURL
	}
	return ""
}
