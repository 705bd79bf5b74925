package interfaces

import (
	"github.com/iwtcode/chathubService/internal/domain/entities"
)

// CredentialStore определяет контракт хранилища учетных данных аккаунтов.
type CredentialStore interface {
	// Save сохраняет запись, только если для аккаунта ее еще нет.
	// Повторная запись молча пропускается (created=false).
	Save(ownID string, cred *entities.Credential) (created bool, err error)
	// Load возвращает errors.ErrCredentialNotFound, если записи нет.
	Load(ownID string) (*entities.Credential, error)
	Exists(ownID string) bool
	// List возвращает ownId всех аккаунтов с сохраненными записями.
	List() ([]string, error)
}

// ProxyStore определяет контракт хранилища списка прокси-адресов.
type ProxyStore interface {
	Load() ([]string, error)
	Save(urls []string) error
}

// WebhookConfigRepository определяет контракт хранилища настроек вебхуков.
type WebhookConfigRepository interface {
	Get(ownID string) (*entities.WebhookConfig, bool)
	GetAll() map[string]*entities.WebhookConfig
	Set(ownID string, cfg *entities.WebhookConfig) error
	Delete(ownID string) error
}
