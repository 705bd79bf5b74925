package interfaces

import (
	"context"
	"encoding/json"

	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
)

// ChatService - это агрегирующий интерфейс для всей бизнес-логики сессий.
type ChatService interface {
	// Login выполняет один вход: с account_id - по сохраненным учетным данным
	// (с откатом на QR при отказе), без него - сразу по QR. customProxy,
	// если задан и корректен, используется вместо прокси из пула.
	Login(ctx context.Context, customProxy, accountID string) (*models.LoginResult, error)

	// RestoreSessions заново входит во все аккаунты с сохраненными
	// учетными данными. Ошибки отдельных аккаунтов логируются и не прерывают
	// восстановление остальных.
	RestoreSessions(ctx context.Context)

	Accounts() []models.AccountInfo
	RegisterProxy(proxyURL string) error
	Proxies() []*entities.ProxyEntry

	SendMessage(ctx context.Context, ownID, threadID string, threadType int, message string) (json.RawMessage, error)
}
