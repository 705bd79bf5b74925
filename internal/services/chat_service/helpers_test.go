package chat_service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
	apperrors "github.com/iwtcode/chathubService/pkg/errors"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Enabled: false, Level: "ERROR"}, "TEST")
}

func testConfig(maxPerProxy int) *config.AppConfig {
	return &config.AppConfig{Proxy: config.ProxyConfig{MaxAccountsPerProxy: maxPerProxy}}
}

// --- Хранилища ---

type fakeProxyStore struct {
	mu    sync.Mutex
	urls  []string
	saves int
}

func (s *fakeProxyStore) Load() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.urls...), nil
}

func (s *fakeProxyStore) Save(urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append([]string(nil), urls...)
	s.saves++
	return nil
}

type fakeCredStore struct {
	mu    sync.Mutex
	creds map[string]*entities.Credential
}

func newFakeCredStore() *fakeCredStore {
	return &fakeCredStore{creds: make(map[string]*entities.Credential)}
}

func (s *fakeCredStore) Save(ownID string, cred *entities.Credential) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creds[ownID]; ok {
		return false, nil
	}
	s.creds[ownID] = cred
	return true, nil
}

func (s *fakeCredStore) Load(ownID string) (*entities.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[ownID]
	if !ok {
		return nil, apperrors.ErrCredentialNotFound
	}
	return cred, nil
}

func (s *fakeCredStore) Exists(ownID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.creds[ownID]
	return ok
}

func (s *fakeCredStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.creds))
	for id := range s.creds {
		ids = append(ids, id)
	}
	return ids, nil
}

type fakeWebhookRepo struct {
	mu      sync.Mutex
	configs map[string]*entities.WebhookConfig
}

func newFakeWebhookRepo() *fakeWebhookRepo {
	return &fakeWebhookRepo{configs: make(map[string]*entities.WebhookConfig)}
}

func (r *fakeWebhookRepo) Get(ownID string) (*entities.WebhookConfig, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[ownID]
	return cfg, ok
}

func (r *fakeWebhookRepo) GetAll() map[string]*entities.WebhookConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configs
}

func (r *fakeWebhookRepo) Set(ownID string, cfg *entities.WebhookConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[ownID] = cfg
	return nil
}

func (r *fakeWebhookRepo) Delete(ownID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.configs, ownID)
	return nil
}

// --- Доставка и уведомления ---

type delivery struct {
	url     string
	payload []byte
}

type fakeSender struct {
	deliveries chan delivery
}

func newFakeSender() *fakeSender {
	return &fakeSender{deliveries: make(chan delivery, 32)}
}

func (s *fakeSender) Deliver(_ context.Context, url string, payload []byte) error {
	s.deliveries <- delivery{url: url, payload: payload}
	return nil
}

type fakeProducer struct {
	messages chan []byte
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{messages: make(chan []byte, 32)}
}

func (p *fakeProducer) Produce(_ context.Context, _, value []byte) error {
	p.messages <- value
	return nil
}

func (p *fakeProducer) Close() error { return nil }

type fakeNotifier struct {
	logins      chan string
	disconnects chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{
		logins:      make(chan string, 8),
		disconnects: make(chan string, 8),
	}
}

func (n *fakeNotifier) NotifyLogin(accountID, _ string, _ models.AccountInfo) {
	n.logins <- accountID
}

func (n *fakeNotifier) NotifyDisconnect(accountID string, _ models.AccountInfo) {
	n.disconnects <- accountID
}

// --- SDK ---

// fakeSession - управляемая из теста сессия: события запускаются явными
// вызовами fire-методов.
type fakeSession struct {
	mu          sync.Mutex
	ownID       string
	profile     *models.Profile
	profileErr  error
	cred        *entities.Credential
	handlers    map[string]func(json.RawMessage)
	onConnected []func()
	onClosed    []func()
	onError     []func(error)
	started     bool
	closed      bool
}

func newFakeSession(ownID string) *fakeSession {
	return &fakeSession{
		ownID:    ownID,
		profile:  &models.Profile{UserID: ownID, DisplayName: "User " + ownID, PhoneNumber: "+79990000000"},
		cred:     &entities.Credential{Imei: "imei-" + ownID, UserAgent: "ua", Cookie: json.RawMessage(`{}`)},
		handlers: make(map[string]func(json.RawMessage)),
	}
}

func (s *fakeSession) OwnID() string { return s.ownID }

func (s *fakeSession) FetchProfile(context.Context) (*models.Profile, error) {
	return s.profile, s.profileErr
}

func (s *fakeSession) Credential(context.Context) (*entities.Credential, error) {
	return s.cred, nil
}

func (s *fakeSession) On(event string, handler func(json.RawMessage)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = handler
}

func (s *fakeSession) OnConnected(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConnected = append(s.onConnected, handler)
}

func (s *fakeSession) OnClosed(handler func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClosed = append(s.onClosed, handler)
}

func (s *fakeSession) OnError(handler func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = append(s.onError, handler)
}

func (s *fakeSession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSession) SendMessage(context.Context, string, int, string) (json.RawMessage, error) {
	return json.RawMessage(`{"sent":true}`), nil
}

func (s *fakeSession) fireEvent(event string, payload json.RawMessage) {
	s.mu.Lock()
	handler := s.handlers[event]
	s.mu.Unlock()
	if handler != nil {
		handler(payload)
	}
}

func (s *fakeSession) fireConnected() {
	s.mu.Lock()
	handlers := append([]func(){}, s.onConnected...)
	s.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

func (s *fakeSession) fireClosed() {
	s.mu.Lock()
	handlers := append([]func(){}, s.onClosed...)
	s.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

func (s *fakeSession) isStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeClient разыгрывает сценарий входа: ошибка входа по учетным данным,
// картинка QR-кода и канал, удерживающий QR-вход до отмашки теста.
type fakeClient struct {
	session   *fakeSession
	credErr   error
	qrImage   string
	qrErr     error
	qrRelease chan struct{}
}

func (c *fakeClient) LoginWithCredential(_ context.Context, _ *entities.Credential) (interfaces.Session, error) {
	if c.credErr != nil {
		return nil, c.credErr
	}
	return c.session, nil
}

func (c *fakeClient) LoginWithQR(_ context.Context, onQR func(string)) (interfaces.Session, error) {
	if c.qrImage != "" {
		onQR(c.qrImage)
	}
	if c.qrRelease != nil {
		<-c.qrRelease
	}
	if c.qrErr != nil {
		return nil, c.qrErr
	}
	return c.session, nil
}

type fakeFactory struct {
	mu      sync.Mutex
	client  *fakeClient
	proxies []string
}

func (f *fakeFactory) NewClient(proxyURL string) (interfaces.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.proxies = append(f.proxies, proxyURL)
	return f.client, nil
}
