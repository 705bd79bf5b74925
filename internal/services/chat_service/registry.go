package chat_service

import (
	"sort"
	"sync"

	"github.com/iwtcode/chathubService/internal/domain/models"
	"github.com/iwtcode/chathubService/internal/interfaces"
	apperrors "github.com/iwtcode/chathubService/pkg/errors"
)

type sessionRecord struct {
	info    models.AccountInfo
	session interfaces.Session
}

// SessionRegistry - единственный источник истины о живых сессиях. Ровно одна
// запись на ownId; повторный вход заменяет запись целиком. Дополнительно
// реестр хранит маркеры выполняющихся входов, чтобы два параллельных входа
// одного аккаунта не гонялись за слотом.
type SessionRegistry struct {
	mu       sync.RWMutex
	records  map[string]*sessionRecord
	inflight map[string]struct{}
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		records:  make(map[string]*sessionRecord),
		inflight: make(map[string]struct{}),
	}
}

// BeginLogin ставит маркер выполняющегося входа. Второй параллельный вход
// для того же аккаунта отклоняется с ErrLoginInFlight.
func (r *SessionRegistry) BeginLogin(ownID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.inflight[ownID]; busy {
		return apperrors.ErrLoginInFlight
	}
	r.inflight[ownID] = struct{}{}
	return nil
}

func (r *SessionRegistry) EndLogin(ownID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, ownID)
}

// Upsert атомарно заменяет запись аккаунта. Прежняя сессия, если была,
// возвращается вызывающему для закрытия.
func (r *SessionRegistry) Upsert(info models.AccountInfo, session interfaces.Session) interfaces.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var previous interfaces.Session
	if old, ok := r.records[info.OwnID]; ok && old.session != session {
		previous = old.session
	}
	r.records[info.OwnID] = &sessionRecord{info: info, session: session}
	return previous
}

// SetActive переключает флаг активности записи. Возвращает false, если
// аккаунт не зарегистрирован.
func (r *SessionRegistry) SetActive(ownID string, active bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[ownID]
	if !ok {
		return false
	}
	record.info.IsActive = active
	return true
}

func (r *SessionRegistry) Get(ownID string) (models.AccountInfo, interfaces.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[ownID]
	if !ok {
		return models.AccountInfo{}, nil, false
	}
	return record.info, record.session, true
}

// Snapshot возвращает записи реестра, отсортированные по ownId.
func (r *SessionRegistry) Snapshot() []models.AccountInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]models.AccountInfo, 0, len(r.records))
	for _, record := range r.records {
		infos = append(infos, record.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].OwnID < infos[j].OwnID })
	return infos
}
