package usecases

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
	"github.com/stretchr/testify/require"
)

type stubChatService struct{}

func (stubChatService) Login(context.Context, string, string) (*models.LoginResult, error) {
	return &models.LoginResult{LoggedIn: true}, nil
}
func (stubChatService) RestoreSessions(context.Context)      {}
func (stubChatService) Accounts() []models.AccountInfo       { return nil }
func (stubChatService) RegisterProxy(string) error           { return nil }
func (stubChatService) Proxies() []*entities.ProxyEntry      { return nil }
func (stubChatService) SendMessage(context.Context, string, string, int, string) (json.RawMessage, error) {
	return nil, nil
}

type memoryWebhookRepo struct {
	configs map[string]*entities.WebhookConfig
}

func newMemoryWebhookRepo() *memoryWebhookRepo {
	return &memoryWebhookRepo{configs: make(map[string]*entities.WebhookConfig)}
}

func (r *memoryWebhookRepo) Get(ownID string) (*entities.WebhookConfig, bool) {
	cfg, ok := r.configs[ownID]
	if !ok {
		return nil, false
	}
	clone := *cfg
	return &clone, true
}

func (r *memoryWebhookRepo) GetAll() map[string]*entities.WebhookConfig { return r.configs }

func (r *memoryWebhookRepo) Set(ownID string, cfg *entities.WebhookConfig) error {
	clone := *cfg
	r.configs[ownID] = &clone
	return nil
}

func (r *memoryWebhookRepo) Delete(ownID string) error {
	delete(r.configs, ownID)
	return nil
}

func strPtr(s string) *string { return &s }

func TestSetWebhookConfigPartialUpdate(t *testing.T) {
	repo := newMemoryWebhookRepo()
	uc := NewUsecase(stubChatService{}, repo)

	require.NoError(t, uc.SetWebhookConfig(models.WebhookConfigRequest{
		OwnID:                "acc1",
		MessageWebhookURL:    strPtr("http://hooks.local/msg"),
		GroupEventWebhookURL: strPtr("http://hooks.local/group"),
	}))

	// Обновляется только явно переданное поле, остальные сохраняются.
	require.NoError(t, uc.SetWebhookConfig(models.WebhookConfigRequest{
		OwnID:             "acc1",
		MessageWebhookURL: strPtr("http://hooks.local/msg2"),
	}))

	cfg := uc.GetWebhookConfig("acc1")
	require.Equal(t, "http://hooks.local/msg2", cfg.MessageWebhookURL)
	require.Equal(t, "http://hooks.local/group", cfg.GroupEventWebhookURL)
	require.Empty(t, cfg.ReactionWebhookURL)
}

func TestSetWebhookConfigClearsWithEmptyString(t *testing.T) {
	repo := newMemoryWebhookRepo()
	uc := NewUsecase(stubChatService{}, repo)

	require.NoError(t, uc.SetWebhookConfig(models.WebhookConfigRequest{
		OwnID:             "acc1",
		MessageWebhookURL: strPtr("http://hooks.local/msg"),
	}))
	require.NoError(t, uc.SetWebhookConfig(models.WebhookConfigRequest{
		OwnID:             "acc1",
		MessageWebhookURL: strPtr(""),
	}))

	cfg := uc.GetWebhookConfig("acc1")
	require.Empty(t, cfg.MessageWebhookURL, "Пустая строка должна явно очищать адрес")
}

func TestGetWebhookConfigUnknownAccount(t *testing.T) {
	uc := NewUsecase(stubChatService{}, newMemoryWebhookRepo())

	cfg := uc.GetWebhookConfig("ghost")
	require.NotNil(t, cfg, "Для неизвестного аккаунта возвращается пустая конфигурация")
	require.Empty(t, cfg.MessageWebhookURL)
}
