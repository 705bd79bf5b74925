package interfaces

import (
	"context"

	"github.com/iwtcode/chathubService/internal/domain/models"
)

// StatusNotifier определяет контракт для внешних уведомлений о статусе аккаунта.
// Доставка best-effort: реализация сама логирует и глотает свои ошибки.
type StatusNotifier interface {
	NotifyLogin(accountID, attemptID string, info models.AccountInfo)
	NotifyDisconnect(accountID string, info models.AccountInfo)
}

// WebhookSender определяет контракт доставки одного вебхука.
type WebhookSender interface {
	Deliver(ctx context.Context, url string, payload []byte) error
}
