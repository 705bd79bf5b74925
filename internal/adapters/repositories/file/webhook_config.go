package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
)

const webhookConfigFileName = "webhookConfig.json"

type WebhookConfigRepository struct {
	mu      sync.RWMutex
	path    string
	configs map[string]*entities.WebhookConfig
	logger  *logging.Logger
}

func NewWebhookConfigRepository(cfg *config.AppConfig, logger *logging.Logger) (interfaces.WebhookConfigRepository, error) {
	if err := ensureDir(cfg.DataDir); err != nil {
		return nil, err
	}

	repo := &WebhookConfigRepository{
		path:    filepath.Join(cfg.DataDir, webhookConfigFileName),
		configs: make(map[string]*entities.WebhookConfig),
		logger:  logger.WithPrefix("WEBHOOK_CONFIG"),
	}

	if err := readJSONFile(repo.path, &repo.configs); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("не удалось прочитать '%s': %w", repo.path, err)
		}
		repo.logger.Info("Webhook config file not found, starting with an empty configuration")
	}

	return repo, nil
}

func (r *WebhookConfigRepository) Get(ownID string) (*entities.WebhookConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[ownID]
	if !ok {
		return nil, false
	}
	clone := *cfg
	return &clone, true
}

func (r *WebhookConfigRepository) GetAll() map[string]*entities.WebhookConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make(map[string]*entities.WebhookConfig, len(r.configs))
	for id, cfg := range r.configs {
		clone := *cfg
		all[id] = &clone
	}
	return all
}

func (r *WebhookConfigRepository) Set(ownID string, cfg *entities.WebhookConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *cfg
	r.configs[ownID] = &clone
	return writeFileAtomic(r.path, r.configs)
}

func (r *WebhookConfigRepository) Delete(ownID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.configs[ownID]; !ok {
		return fmt.Errorf("конфигурация вебхуков для аккаунта '%s' не найдена", ownID)
	}
	delete(r.configs, ownID)
	return writeFileAtomic(r.path, r.configs)
}
