package chat_service

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
)

// ProxyAllocator владеет пулом прокси и их счетчиками занятости. Все мутации
// проходят через методы с блокировкой, записи наружу не отдаются.
type ProxyAllocator struct {
	mu          sync.Mutex
	entries     []*entities.ProxyEntry
	maxPerProxy int
	store       interfaces.ProxyStore
	logger      *logging.Logger
}

func NewProxyAllocator(store interfaces.ProxyStore, cfg *config.AppConfig, logger *logging.Logger) (*ProxyAllocator, error) {
	urls, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить пул прокси: %w", err)
	}

	entries := make([]*entities.ProxyEntry, 0, len(urls))
	for _, u := range urls {
		entries = append(entries, &entities.ProxyEntry{URL: u})
	}

	allocator := &ProxyAllocator{
		entries:     entries,
		maxPerProxy: cfg.Proxy.MaxAccountsPerProxy,
		store:       store,
		logger:      logger.WithPrefix("PROXY"),
	}
	allocator.logger.Info("Proxy pool loaded", "size", len(entries), "maxPerProxy", allocator.maxPerProxy)
	return allocator, nil
}

// Select возвращает первый адрес с незаполненной вместимостью. Исчерпание
// пула не ошибка: возвращается ("", false), и вызывающий входит без прокси.
func (a *ProxyAllocator) Select() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, entry := range a.entries {
		if entry.UsedCount < a.maxPerProxy {
			return entry.URL, true
		}
	}
	return "", false
}

// RegisterCustom проверяет адрес и добавляет его в пул, если он еще не известен.
// Повторная регистрация не сбрасывает счетчики существующей записи.
func (a *ProxyAllocator) RegisterCustom(proxyURL string) error {
	if err := validateProxyURL(proxyURL); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, entry := range a.entries {
		if entry.URL == proxyURL {
			a.logger.Debug("Proxy already present in pool", "proxy", proxyURL)
			return nil
		}
	}

	a.entries = append(a.entries, &entities.ProxyEntry{URL: proxyURL})
	if err := a.persistUnsafe(); err != nil {
		return err
	}
	a.logger.Info("Custom proxy added to pool", "proxy", proxyURL)
	return nil
}

// RecordAssignment закрепляет аккаунт за прокси. Вызывается только после
// успешного входа, никогда авансом.
func (a *ProxyAllocator) RecordAssignment(proxyURL, ownID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, entry := range a.entries {
		if entry.URL == proxyURL {
			entry.UsedCount++
			entry.Accounts = append(entry.Accounts, ownID)
			a.logger.Info("Proxy assignment recorded", "proxy", proxyURL, "accountID", ownID, "usedCount", entry.UsedCount)
			return
		}
	}
	a.logger.Warn("Assignment for unknown proxy ignored", "proxy", proxyURL, "accountID", ownID)
}

// Snapshot возвращает копию пула для чтения.
func (a *ProxyAllocator) Snapshot() []*entities.ProxyEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries := make([]*entities.ProxyEntry, 0, len(a.entries))
	for _, entry := range a.entries {
		clone := *entry
		clone.Accounts = append([]string(nil), entry.Accounts...)
		entries = append(entries, &clone)
	}
	return entries
}

func (a *ProxyAllocator) persistUnsafe() error {
	urls := make([]string, 0, len(a.entries))
	for _, entry := range a.entries {
		urls = append(urls, entry.URL)
	}
	if err := a.store.Save(urls); err != nil {
		return fmt.Errorf("не удалось сохранить пул прокси: %w", err)
	}
	return nil
}

func validateProxyURL(proxyURL string) error {
	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return fmt.Errorf("некорректный адрес прокси '%s': %w", proxyURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("некорректный адрес прокси '%s': требуется схема и хост", proxyURL)
	}
	return nil
}
