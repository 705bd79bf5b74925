package interfaces

import (
	"context"
	"encoding/json"

	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
)

// Usecases - это агрегирующий интерфейс для всех use cases
type Usecases interface {
	Login(ctx context.Context, customProxy, accountID string) (*models.LoginResult, error)
	RestoreSessions(ctx context.Context)
	Accounts() []models.AccountInfo

	RegisterProxy(proxyURL string) error
	Proxies() []*entities.ProxyEntry

	SendMessage(ctx context.Context, ownID, threadID string, threadType int, message string) (json.RawMessage, error)

	GetWebhookConfig(ownID string) *entities.WebhookConfig
	GetAllWebhookConfigs() map[string]*entities.WebhookConfig
	SetWebhookConfig(req models.WebhookConfigRequest) error
	DeleteWebhookConfig(ownID string) error
}
