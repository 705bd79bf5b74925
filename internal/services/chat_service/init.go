package chat_service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
	apperrors "github.com/iwtcode/chathubService/pkg/errors"
)

type chatService struct {
	allocator  *ProxyAllocator
	registry   *SessionRegistry
	dispatcher *EventDispatcher
	loginMgr   *LoginManager
	reconnect  *ReconnectManager
	creds      interfaces.CredentialStore
	logger     *logging.Logger
}

func NewChatService(
	factory interfaces.ClientFactory,
	credStore interfaces.CredentialStore,
	proxyStore interfaces.ProxyStore,
	webhookRepo interfaces.WebhookConfigRepository,
	producer interfaces.EventProducer,
	notifier interfaces.StatusNotifier,
	sender interfaces.WebhookSender,
	cfg *config.AppConfig,
	logger *logging.Logger,
) (interfaces.ChatService, error) {
	allocator, err := NewProxyAllocator(proxyStore, cfg, logger)
	if err != nil {
		return nil, err
	}

	registry := NewSessionRegistry()
	dispatcher := NewEventDispatcher(registry, webhookRepo, sender, producer, notifier, logger)
	loginMgr := NewLoginManager(factory, allocator, registry, credStore, dispatcher, logger)
	reconnect := NewReconnectManager(registry, credStore, loginMgr, logger)
	dispatcher.BindRelogin(reconnect)

	return &chatService{
		allocator:  allocator,
		registry:   registry,
		dispatcher: dispatcher,
		loginMgr:   loginMgr,
		reconnect:  reconnect,
		creds:      credStore,
		logger:     logger.WithPrefix("CHAT"),
	}, nil
}

// --- Реализация методов интерфейса ChatService ---

func (s *chatService) Login(ctx context.Context, customProxy, accountID string) (*models.LoginResult, error) {
	return s.loginMgr.Login(ctx, customProxy, accountID)
}

// RestoreSessions заново входит во все аккаунты с сохраненными учетными
// данными. Выполняется при старте процесса; прокси подбираются из пула,
// откат на QR не используется.
func (s *chatService) RestoreSessions(ctx context.Context) {
	ids, err := s.creds.List()
	if err != nil {
		s.logger.Error("Failed to list stored credentials", "error", err)
		return
	}
	if len(ids) == 0 {
		s.logger.Info("No stored credentials found to restore")
		return
	}

	s.logger.Info("Restoring sessions from stored credentials", "count", len(ids))
	for _, ownID := range ids {
		cred, err := s.creds.Load(ownID)
		if err != nil {
			s.logger.Warn("Skipping account, credential unreadable", "accountID", ownID, "error", err)
			continue
		}
		if err := s.loginMgr.Relogin(ctx, ownID, "", cred); err != nil {
			s.logger.Warn("Failed to restore session", "accountID", ownID, "error", err)
			continue
		}
		s.logger.Info("Session restored", "accountID", ownID)
	}
}

func (s *chatService) Accounts() []models.AccountInfo {
	return s.registry.Snapshot()
}

func (s *chatService) RegisterProxy(proxyURL string) error {
	return s.allocator.RegisterCustom(proxyURL)
}

func (s *chatService) Proxies() []*entities.ProxyEntry {
	return s.allocator.Snapshot()
}

func (s *chatService) SendMessage(ctx context.Context, ownID, threadID string, threadType int, message string) (json.RawMessage, error) {
	info, session, found := s.registry.Get(ownID)
	if !found {
		return nil, fmt.Errorf("%w: '%s'", apperrors.ErrAccountNotFound, ownID)
	}
	if !info.IsActive {
		return nil, fmt.Errorf("%w: '%s'", apperrors.ErrAccountInactive, ownID)
	}
	return session.SendMessage(ctx, threadID, threadType, message)
}
