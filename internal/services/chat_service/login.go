package chat_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
	apperrors "github.com/iwtcode/chathubService/pkg/errors"
)

// LoginManager проводит один вход от начала до конца: выбор прокси, вызов SDK
// (по учетным данным или QR), обновление реестра, учет прокси и сохранение
// учетных данных.
type LoginManager struct {
	factory    interfaces.ClientFactory
	allocator  *ProxyAllocator
	registry   *SessionRegistry
	creds      interfaces.CredentialStore
	dispatcher *EventDispatcher
	logger     *logging.Logger
}

func NewLoginManager(
	factory interfaces.ClientFactory,
	allocator *ProxyAllocator,
	registry *SessionRegistry,
	creds interfaces.CredentialStore,
	dispatcher *EventDispatcher,
	logger *logging.Logger,
) *LoginManager {
	return &LoginManager{
		factory:    factory,
		allocator:  allocator,
		registry:   registry,
		creds:      creds,
		dispatcher: dispatcher,
		logger:     logger.WithPrefix("LOGIN"),
	}
}

// Login - публичный вход. С accountID подбираются сохраненные учетные данные
// (с откатом на QR при их отказе), без него выполняется вход по QR.
func (lm *LoginManager) Login(ctx context.Context, customProxy, accountID string) (*models.LoginResult, error) {
	attemptID := uuid.New().String()

	var cred *entities.Credential
	if accountID != "" {
		if err := lm.registry.BeginLogin(accountID); err != nil {
			return nil, err
		}
		defer lm.registry.EndLogin(accountID)

		loaded, err := lm.creds.Load(accountID)
		switch {
		case err == nil:
			cred = loaded
		case errors.Is(err, apperrors.ErrCredentialNotFound):
			lm.logger.Warn("No stored credential for account, falling back to QR login", "accountID", accountID, "attemptID", attemptID)
		default:
			return nil, err
		}
	}

	lm.logger.Info("Login attempt started", "attemptID", attemptID, "accountID", accountID,
		"customProxy", customProxy != "", "credential", cred != nil)

	proxyURL, fromPool := lm.resolveProxy(attemptID, customProxy)
	client, err := lm.factory.NewClient(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать SDK-клиент: %w", err)
	}

	if cred != nil {
		session, err := client.LoginWithCredential(ctx, cred)
		if err == nil {
			ownID, err := lm.finalize(ctx, attemptID, session, proxyURL, fromPool)
			if err != nil {
				return nil, err
			}
			return &models.LoginResult{LoggedIn: true, OwnID: ownID}, nil
		}
		lm.logger.Warn("Credential login rejected, falling back to QR login", "attemptID", attemptID, "accountID", accountID, "error", err)
	}

	return lm.loginWithQR(ctx, attemptID, client, proxyURL, fromPool)
}

// Relogin - служебный вход без отката на QR: либо сохраненные учетные данные
// принимаются, либо попытка считается неудавшейся. Пустой proxyURL означает
// выбор прокси из пула.
func (lm *LoginManager) Relogin(ctx context.Context, accountID, proxyURL string, cred *entities.Credential) error {
	attemptID := uuid.New().String()

	if err := lm.registry.BeginLogin(accountID); err != nil {
		return err
	}
	defer lm.registry.EndLogin(accountID)

	lm.logger.Info("Relogin attempt started", "attemptID", attemptID, "accountID", accountID, "proxy", proxyURL)

	resolvedProxy, fromPool := lm.resolveProxy(attemptID, proxyURL)
	client, err := lm.factory.NewClient(resolvedProxy)
	if err != nil {
		return fmt.Errorf("не удалось создать SDK-клиент: %w", err)
	}

	session, err := client.LoginWithCredential(ctx, cred)
	if err != nil {
		return fmt.Errorf("вход по сохраненным учетным данным не удался: %w", err)
	}

	_, err = lm.finalize(ctx, attemptID, session, resolvedProxy, fromPool)
	return err
}

// resolveProxy реализует политику выбора: корректный пользовательский адрес
// используется напрямую (и регистрируется в пуле вне учета вместимости),
// иначе адрес берется из пула, а при исчерпании пула вход идет без прокси.
func (lm *LoginManager) resolveProxy(attemptID, customProxy string) (proxyURL string, fromPool bool) {
	if customProxy != "" {
		if err := lm.allocator.RegisterCustom(customProxy); err != nil {
			lm.logger.Warn("Ignoring invalid custom proxy", "attemptID", attemptID, "proxy", customProxy, "error", err)
		} else {
			return customProxy, false
		}
	}

	if url, ok := lm.allocator.Select(); ok {
		lm.logger.Info("Proxy selected from pool", "attemptID", attemptID, "proxy", url)
		return url, true
	}

	lm.logger.Info("Proxy pool exhausted or empty, proceeding without proxy", "attemptID", attemptID)
	return "", false
}

// loginWithQR возвращает результат, как только SDK отдал картинку. Сам вход
// продолжается в фоне и завершается через событие connected у диспетчера,
// а не через результат этого вызова.
func (lm *LoginManager) loginWithQR(ctx context.Context, attemptID string, client interfaces.Client, proxyURL string, fromPool bool) (*models.LoginResult, error) {
	qrCh := make(chan string, 1)
	errCh := make(chan error, 1)

	go func() {
		session, err := client.LoginWithQR(context.Background(), func(imageDataURI string) {
			select {
			case qrCh <- imageDataURI:
			default:
			}
		})
		if err != nil {
			errCh <- err
			return
		}
		if _, err := lm.finalize(context.Background(), attemptID, session, proxyURL, fromPool); err != nil {
			lm.logger.Error("QR login finalization failed", "attemptID", attemptID, "error", err)
		}
	}()

	select {
	case image := <-qrCh:
		if image == "" {
			return nil, fmt.Errorf("SDK вернул пустую картинку QR-кода")
		}
		lm.logger.Info("QR code issued", "attemptID", attemptID, "imageLength", len(image))
		return &models.LoginResult{QRCode: image}, nil
	case err := <-errCh:
		return nil, fmt.Errorf("вход по QR не удался: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// finalize выполняет общий хвост любого успешного подключения: профиль,
// слушатели, запись в реестр, учет прокси и write-once сохранение учетных
// данных. Отсутствие профиля считается провалом входа, даже если транспорт
// подключился.
func (lm *LoginManager) finalize(ctx context.Context, attemptID string, session interfaces.Session, proxyURL string, fromPool bool) (string, error) {
	profile, err := session.FetchProfile(ctx)
	if err != nil || profile == nil || profile.UserID == "" {
		_ = session.Close()
		if err == nil {
			err = apperrors.ErrProfileUnavailable
		}
		return "", fmt.Errorf("не удалось получить профиль аккаунта: %w", err)
	}

	ownID := profile.UserID
	info := models.AccountInfo{
		OwnID:       ownID,
		DisplayName: profile.DisplayName,
		PhoneNumber: profile.PhoneNumber,
		Proxy:       proxyURL,
		IsActive:    true,
	}

	lm.dispatcher.Attach(session, info, attemptID)
	if err := session.Start(); err != nil {
		_ = session.Close()
		return "", fmt.Errorf("не удалось запустить слушатель сессии: %w", err)
	}

	if previous := lm.registry.Upsert(info, session); previous != nil {
		lm.logger.Info("Replacing existing session for account", "attemptID", attemptID, "accountID", ownID)
		_ = previous.Close()
	}

	if fromPool {
		lm.allocator.RecordAssignment(proxyURL, ownID)
	}

	lm.persistCredential(ctx, attemptID, ownID, session)

	lm.logger.Info("Login finalized", "attemptID", attemptID, "accountID", ownID,
		"phone", profile.PhoneNumber, "proxy", proxyURL)
	return ownID, nil
}

func (lm *LoginManager) persistCredential(ctx context.Context, attemptID, ownID string, session interfaces.Session) {
	cred, err := session.Credential(ctx)
	if err != nil {
		lm.logger.Warn("Failed to extract session credential", "attemptID", attemptID, "accountID", ownID, "error", err)
		return
	}

	created, err := lm.creds.Save(ownID, cred)
	if err != nil {
		lm.logger.Error("Failed to persist credential", "attemptID", attemptID, "accountID", ownID, "error", err)
		return
	}
	if created {
		lm.logger.Info("Credential persisted", "attemptID", attemptID, "accountID", ownID)
	} else {
		lm.logger.Debug("Credential file already exists, keeping the original", "accountID", ownID)
	}
}
