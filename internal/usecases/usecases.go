package usecases

import (
	"context"
	"encoding/json"

	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
	"github.com/iwtcode/chathubService/internal/interfaces"
)

type Usecase struct {
	chatSvc     interfaces.ChatService
	webhookRepo interfaces.WebhookConfigRepository
}

func NewUsecase(chatSvc interfaces.ChatService, webhookRepo interfaces.WebhookConfigRepository) interfaces.Usecases {
	return &Usecase{
		chatSvc:     chatSvc,
		webhookRepo: webhookRepo,
	}
}

func (u *Usecase) Login(ctx context.Context, customProxy, accountID string) (*models.LoginResult, error) {
	return u.chatSvc.Login(ctx, customProxy, accountID)
}

func (u *Usecase) RestoreSessions(ctx context.Context) {
	u.chatSvc.RestoreSessions(ctx)
}

func (u *Usecase) Accounts() []models.AccountInfo {
	return u.chatSvc.Accounts()
}

func (u *Usecase) RegisterProxy(proxyURL string) error {
	return u.chatSvc.RegisterProxy(proxyURL)
}

func (u *Usecase) Proxies() []*entities.ProxyEntry {
	return u.chatSvc.Proxies()
}

func (u *Usecase) SendMessage(ctx context.Context, ownID, threadID string, threadType int, message string) (json.RawMessage, error) {
	return u.chatSvc.SendMessage(ctx, ownID, threadID, threadType, message)
}

// GetWebhookConfig возвращает конфигурацию вебхуков аккаунта. Для аккаунта
// без конфигурации возвращается пустая запись.
func (u *Usecase) GetWebhookConfig(ownID string) *entities.WebhookConfig {
	if cfg, ok := u.webhookRepo.Get(ownID); ok {
		return cfg
	}
	return &entities.WebhookConfig{}
}

func (u *Usecase) GetAllWebhookConfigs() map[string]*entities.WebhookConfig {
	return u.webhookRepo.GetAll()
}

// SetWebhookConfig применяет частичное обновление: nil-поля запроса сохраняют
// текущие адреса.
func (u *Usecase) SetWebhookConfig(req models.WebhookConfigRequest) error {
	current := u.GetWebhookConfig(req.OwnID)

	if req.MessageWebhookURL != nil {
		current.MessageWebhookURL = *req.MessageWebhookURL
	}
	if req.GroupEventWebhookURL != nil {
		current.GroupEventWebhookURL = *req.GroupEventWebhookURL
	}
	if req.ReactionWebhookURL != nil {
		current.ReactionWebhookURL = *req.ReactionWebhookURL
	}

	return u.webhookRepo.Set(req.OwnID, current)
}

func (u *Usecase) DeleteWebhookConfig(ownID string) error {
	return u.webhookRepo.Delete(ownID)
}
