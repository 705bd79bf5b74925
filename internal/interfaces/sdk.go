package interfaces

import (
	"context"
	"encoding/json"

	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
)

// ClientFactory определяет контракт для создания SDK-клиентов платформы.
// Пустой proxyURL означает подключение без прокси.
type ClientFactory interface {
	NewClient(proxyURL string) (Client, error)
}

// Client определяет контракт одного неавторизованного SDK-клиента.
type Client interface {
	// LoginWithCredential выполняет вход по сохраненным учетным данным.
	LoginWithCredential(ctx context.Context, cred *entities.Credential) (Session, error)

	// LoginWithQR запрашивает QR-вход. onQR вызывается не более одного раза,
	// как только доступна картинка (base64 PNG data URI), независимо от того,
	// чем завершится сам вход. Вызов блокируется до подтверждения сканирования
	// человеком либо до ошибки.
	LoginWithQR(ctx context.Context, onQR func(imageDataURI string)) (Session, error)
}

// Session определяет контракт живой авторизованной сессии.
type Session interface {
	OwnID() string
	FetchProfile(ctx context.Context) (*models.Profile, error)

	// Credential возвращает учетные данные текущей сессии для сохранения
	// (imei, cookie, userAgent).
	Credential(ctx context.Context) (*entities.Credential, error)

	// On регистрирует обработчик входящих событий указанного вида
	// (entities.EventMessage и т.д.). Обработчики одной сессии вызываются
	// последовательно, в порядке поступления событий от платформы.
	On(event string, handler func(payload json.RawMessage))

	OnConnected(handler func())
	OnClosed(handler func())
	OnError(handler func(err error))

	// Start запускает слушатель событий. Обработчики должны быть
	// зарегистрированы до вызова.
	Start() error
	Close() error

	SendMessage(ctx context.Context, threadID string, threadType int, message string) (json.RawMessage, error)
}
