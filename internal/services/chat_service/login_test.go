package chat_service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
	apperrors "github.com/iwtcode/chathubService/pkg/errors"
	"github.com/stretchr/testify/require"
)

type loginFixture struct {
	manager   *LoginManager
	allocator *ProxyAllocator
	registry  *SessionRegistry
	creds     *fakeCredStore
	factory   *fakeFactory
	notifier  *fakeNotifier
}

func newLoginFixture(t *testing.T, client *fakeClient, proxies []string, maxPerProxy int) *loginFixture {
	t.Helper()
	logger := testLogger()

	allocator, err := NewProxyAllocator(&fakeProxyStore{urls: proxies}, testConfig(maxPerProxy), logger)
	require.NoError(t, err)

	registry := NewSessionRegistry()
	creds := newFakeCredStore()
	notifier := newFakeNotifier()
	dispatcher := NewEventDispatcher(registry, newFakeWebhookRepo(), newFakeSender(), newFakeProducer(), notifier, logger)
	factory := &fakeFactory{client: client}
	manager := NewLoginManager(factory, allocator, registry, creds, dispatcher, logger)

	return &loginFixture{
		manager:   manager,
		allocator: allocator,
		registry:  registry,
		creds:     creds,
		factory:   factory,
		notifier:  notifier,
	}
}

func TestLoginWithStoredCredential(t *testing.T) {
	session := newFakeSession("acc1")
	fx := newLoginFixture(t, &fakeClient{session: session}, []string{"http://p1:8080"}, 3)
	_, err := fx.creds.Save("acc1", &entities.Credential{Imei: "imei-acc1"})
	require.NoError(t, err)

	result, err := fx.manager.Login(context.Background(), "", "acc1")
	require.NoError(t, err)
	require.True(t, result.LoggedIn)
	require.Equal(t, "acc1", result.OwnID)
	require.Empty(t, result.QRCode, "При входе по учетным данным QR-код не выдается")

	info, _, found := fx.registry.Get("acc1")
	require.True(t, found, "Успешный вход должен регистрировать сессию")
	require.True(t, info.IsActive)
	require.Equal(t, "http://p1:8080", info.Proxy)
	require.True(t, session.isStarted(), "Слушатель сессии должен быть запущен")

	entries := fx.allocator.Snapshot()
	require.Equal(t, 1, entries[0].UsedCount, "Прокси из пула закрепляется после успешного входа")
	require.Equal(t, []string{"acc1"}, entries[0].Accounts)
}

func TestLoginQRReturnsImageBeforeCompletion(t *testing.T) {
	session := newFakeSession("acc7")
	release := make(chan struct{})
	client := &fakeClient{
		session:   session,
		qrImage:   "data:image/png;base64,iVBORw0KGgo=",
		qrRelease: release,
	}
	fx := newLoginFixture(t, client, []string{"http://p1:8080"}, 3)

	result, err := fx.manager.Login(context.Background(), "", "")
	require.NoError(t, err)
	require.False(t, result.LoggedIn)
	require.Equal(t, client.qrImage, result.QRCode, "Ответ должен содержать картинку QR-кода")

	// Пока человек не отсканировал код, вход не завершен: реестр пуст,
	// прокси не закреплен, учетные данные не сохранены.
	_, _, found := fx.registry.Get("acc7")
	require.False(t, found)
	require.Zero(t, fx.allocator.Snapshot()[0].UsedCount, "Прокси не закрепляется авансом")
	require.False(t, fx.creds.Exists("acc7"))

	close(release)

	require.Eventually(t, func() bool {
		info, _, ok := fx.registry.Get("acc7")
		return ok && info.IsActive
	}, 2*time.Second, 10*time.Millisecond, "После сканирования вход должен завершиться в фоне")

	require.Eventually(t, func() bool {
		return fx.allocator.Snapshot()[0].UsedCount == 1
	}, 2*time.Second, 10*time.Millisecond, "Прокси закрепляется при завершении входа")

	require.Eventually(t, func() bool {
		return fx.creds.Exists("acc7")
	}, 2*time.Second, 10*time.Millisecond, "Учетные данные сохраняются при завершении входа")
}

func TestLoginCredentialRejectedFallsBackToQR(t *testing.T) {
	session := newFakeSession("acc1")
	client := &fakeClient{
		session: session,
		credErr: errors.New("credential expired"),
		qrImage: "data:image/png;base64,AAAA",
	}
	fx := newLoginFixture(t, client, nil, 3)
	_, err := fx.creds.Save("acc1", &entities.Credential{Imei: "imei-acc1"})
	require.NoError(t, err)

	result, err := fx.manager.Login(context.Background(), "", "acc1")
	require.NoError(t, err)
	require.False(t, result.LoggedIn)
	require.NotEmpty(t, result.QRCode, "Отказ учетных данных должен приводить к QR-входу")
}

func TestLoginMissingCredentialFallsBackToQR(t *testing.T) {
	session := newFakeSession("acc1")
	client := &fakeClient{session: session, qrImage: "data:image/png;base64,BBBB"}
	fx := newLoginFixture(t, client, nil, 3)

	result, err := fx.manager.Login(context.Background(), "", "acc1")
	require.NoError(t, err)
	require.NotEmpty(t, result.QRCode)
}

func TestLoginRejectsParallelAttempt(t *testing.T) {
	session := newFakeSession("acc1")
	fx := newLoginFixture(t, &fakeClient{session: session}, nil, 3)
	require.NoError(t, fx.registry.BeginLogin("acc1"))

	_, err := fx.manager.Login(context.Background(), "", "acc1")
	require.ErrorIs(t, err, apperrors.ErrLoginInFlight)
}

func TestLoginQRFailureReturnsError(t *testing.T) {
	client := &fakeClient{qrErr: errors.New("qr channel refused")}
	fx := newLoginFixture(t, client, nil, 3)

	_, err := fx.manager.Login(context.Background(), "", "")
	require.Error(t, err)
}

func TestLoginCustomProxyUsedDirectly(t *testing.T) {
	session := newFakeSession("acc1")
	fx := newLoginFixture(t, &fakeClient{session: session}, []string{"http://pool:8080"}, 3)
	_, err := fx.creds.Save("acc1", &entities.Credential{Imei: "imei-acc1"})
	require.NoError(t, err)

	result, err := fx.manager.Login(context.Background(), "http://custom:9090", "acc1")
	require.NoError(t, err)
	require.True(t, result.LoggedIn)

	require.Equal(t, []string{"http://custom:9090"}, fx.factory.proxies,
		"Пользовательский прокси должен использоваться напрямую")

	for _, entry := range fx.allocator.Snapshot() {
		require.Zero(t, entry.UsedCount, "Пользовательский прокси не участвует в учете вместимости")
	}
}

func TestLoginFailsWithoutProfile(t *testing.T) {
	session := newFakeSession("acc1")
	session.profile = nil
	fx := newLoginFixture(t, &fakeClient{session: session}, nil, 3)
	_, err := fx.creds.Save("acc1", &entities.Credential{Imei: "imei-acc1"})
	require.NoError(t, err)

	_, err = fx.manager.Login(context.Background(), "", "acc1")
	require.Error(t, err, "Подключение без профиля должно считаться провалом")
	require.True(t, session.isClosed(), "Сессия без профиля должна закрываться")
	require.Empty(t, fx.registry.Snapshot())
}

func TestLoginReplacesPreviousSession(t *testing.T) {
	old := newFakeSession("acc1")
	fresh := newFakeSession("acc1")
	fx := newLoginFixture(t, &fakeClient{session: fresh}, nil, 3)
	fx.registry.Upsert(models.AccountInfo{OwnID: "acc1", IsActive: true}, old)
	_, err := fx.creds.Save("acc1", &entities.Credential{Imei: "imei-acc1"})
	require.NoError(t, err)

	result, err := fx.manager.Login(context.Background(), "", "acc1")
	require.NoError(t, err)
	require.True(t, result.LoggedIn)

	require.True(t, old.isClosed(), "Прежняя сессия должна закрываться при замене")
	_, session, _ := fx.registry.Get("acc1")
	require.Equal(t, fresh, session)
}

func TestReloginDoesNotFallBackToQR(t *testing.T) {
	client := &fakeClient{
		session: newFakeSession("acc1"),
		credErr: errors.New("credential expired"),
		qrImage: "data:image/png;base64,CCCC",
	}
	fx := newLoginFixture(t, client, nil, 3)

	err := fx.manager.Relogin(context.Background(), "acc1", "", &entities.Credential{Imei: "imei-acc1"})
	require.Error(t, err, "Служебный вход не должен откатываться на QR")
	require.Empty(t, fx.registry.Snapshot())
}

func TestReloginWithExplicitProxy(t *testing.T) {
	session := newFakeSession("acc1")
	fx := newLoginFixture(t, &fakeClient{session: session}, nil, 3)

	err := fx.manager.Relogin(context.Background(), "acc1", "http://last:8080", &entities.Credential{Imei: "imei-acc1"})
	require.NoError(t, err)
	require.Equal(t, []string{"http://last:8080"}, fx.factory.proxies)

	info, _, found := fx.registry.Get("acc1")
	require.True(t, found)
	require.True(t, info.IsActive)
}
