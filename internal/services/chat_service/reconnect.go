package chat_service

import (
	"context"
	"sync"
	"time"

	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
)

// reloginCooldown - минимальный интервал между автоматическими попытками
// переподключения одного аккаунта.
const reloginCooldown = 5 * time.Minute

// reloginRunner определяет ту часть LoginManager, которая нужна контроллеру
// переподключения.
type reloginRunner interface {
	Relogin(ctx context.Context, accountID, proxyURL string, cred *entities.Credential) error
}

// ReconnectManager реагирует на закрытие сессии: проверяет кулдаун и заново
// входит по последнему известному прокси и сохраненным учетным данным.
// Карта кулдаунов живет только в памяти, после рестарта процесса попытка
// разрешена сразу.
type ReconnectManager struct {
	mu          sync.Mutex
	lastAttempt map[string]time.Time
	registry    *SessionRegistry
	creds       interfaces.CredentialStore
	runner      reloginRunner
	logger      *logging.Logger
	now         func() time.Time
}

func NewReconnectManager(registry *SessionRegistry, creds interfaces.CredentialStore, runner reloginRunner, logger *logging.Logger) *ReconnectManager {
	return &ReconnectManager{
		lastAttempt: make(map[string]time.Time),
		registry:    registry,
		creds:       creds,
		runner:      runner,
		logger:      logger.WithPrefix("RECONNECT"),
		now:         time.Now,
	}
}

// HandleClosed выполняет один цикл переподключения. Неудача цикла терминальна:
// следующая попытка случится только после очередного события closed, и снова
// через кулдаун.
func (rm *ReconnectManager) HandleClosed(ownID string) {
	if ownID == "" {
		rm.logger.Error("Cannot reconnect: account id is unknown")
		return
	}

	// Метка времени ставится до попытки, чтобы быстрый провал не открывал
	// дорогу немедленному повтору.
	rm.mu.Lock()
	now := rm.now()
	if last, ok := rm.lastAttempt[ownID]; ok && now.Sub(last) < reloginCooldown {
		rm.mu.Unlock()
		rm.logger.Info("Skipping reconnect, cooldown window active", "accountID", ownID,
			"sinceLastAttempt", now.Sub(last).Round(time.Second))
		return
	}
	rm.lastAttempt[ownID] = now
	rm.mu.Unlock()

	proxyURL := ""
	if info, _, found := rm.registry.Get(ownID); found {
		proxyURL = info.Proxy
	}

	cred, err := rm.creds.Load(ownID)
	if err != nil {
		rm.logger.Error("Cannot reconnect without stored credential", "accountID", ownID, "error", err)
		return
	}

	rm.logger.Info("Reconnecting account", "accountID", ownID, "proxy", proxyURL)
	if err := rm.runner.Relogin(context.Background(), ownID, proxyURL, cred); err != nil {
		rm.logger.Error("Reconnect attempt failed", "accountID", ownID, "error", err)
		return
	}
	rm.logger.Info("Account reconnected", "accountID", ownID)
}
