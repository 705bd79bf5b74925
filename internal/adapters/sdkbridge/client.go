package sdkbridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
)

// Пакет sdkbridge реализует SDK-контракты поверх локального bridge-процесса
// платформы (HTTP/JSON). Сам протокол платформы живет внутри bridge, здесь
// только перекладывание JSON.

const qrLoginPollInterval = 2 * time.Second

// Factory создает SDK-клиентов через bridge-процесс.
type Factory struct {
	baseURL string
	http    *http.Client
	logger  *logging.Logger
}

func NewClientFactory(cfg *config.AppConfig, logger *logging.Logger) interfaces.ClientFactory {
	return &Factory{
		baseURL: cfg.SdkBridgeURL,
		// Нулевой таймаут: запросы входа и long-poll событий держатся
		// открытыми дольше любого разумного фиксированного лимита,
		// сроки задаются контекстами вызовов.
		http:   &http.Client{},
		logger: logger.WithPrefix("SDK"),
	}
}

func (f *Factory) NewClient(proxyURL string) (interfaces.Client, error) {
	var resp struct {
		ClientID string `json:"client_id"`
	}
	body := map[string]string{"proxy": proxyURL}
	if err := f.doJSON(context.Background(), http.MethodPost, "/api/clients", body, &resp); err != nil {
		return nil, fmt.Errorf("bridge не создал клиента: %w", err)
	}
	f.logger.Debug("Bridge client created", "clientID", resp.ClientID, "proxy", proxyURL)
	return &bridgeClient{factory: f, id: resp.ClientID}, nil
}

func (f *Factory) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		var bridgeErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &bridgeErr) == nil && bridgeErr.Error != "" {
			return fmt.Errorf("bridge ответил %d: %s", resp.StatusCode, bridgeErr.Error)
		}
		return fmt.Errorf("bridge ответил %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

type bridgeClient struct {
	factory *Factory
	id      string
}

func (c *bridgeClient) LoginWithCredential(ctx context.Context, cred *entities.Credential) (interfaces.Session, error) {
	var resp struct {
		SessionID string `json:"session_id"`
		OwnID     string `json:"own_id"`
	}
	path := "/api/clients/" + c.id + "/login-credential"
	if err := c.factory.doJSON(ctx, http.MethodPost, path, cred, &resp); err != nil {
		return nil, err
	}
	return newBridgeSession(c.factory, resp.SessionID, resp.OwnID), nil
}

// LoginWithQR запрашивает у bridge QR-код, отдает его в onQR и ждет
// завершения входа опросом, пока человек не отсканирует код либо он
// не истечет.
func (c *bridgeClient) LoginWithQR(ctx context.Context, onQR func(imageDataURI string)) (interfaces.Session, error) {
	var issued struct {
		LoginID string `json:"login_id"`
		QRImage string `json:"qr_image"`
	}
	path := "/api/clients/" + c.id + "/login-qr"
	if err := c.factory.doJSON(ctx, http.MethodPost, path, nil, &issued); err != nil {
		return nil, err
	}
	if onQR != nil {
		onQR(issued.QRImage)
	}

	ticker := time.NewTicker(qrLoginPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		var state struct {
			Status    string `json:"status"`
			SessionID string `json:"session_id"`
			OwnID     string `json:"own_id"`
			Error     string `json:"error"`
		}
		if err := c.factory.doJSON(ctx, http.MethodGet, "/api/logins/"+issued.LoginID, nil, &state); err != nil {
			return nil, err
		}

		switch state.Status {
		case "connected":
			return newBridgeSession(c.factory, state.SessionID, state.OwnID), nil
		case "failed", "expired":
			if state.Error == "" {
				state.Error = state.Status
			}
			return nil, fmt.Errorf("QR-вход не завершился: %s", state.Error)
		}
	}
}
