package notifier

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/domain/models"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
)

const (
	statusLoginSuccess = "login_success"
	statusDisconnected = "disconnected"
)

// statusPayload - тело уведомления о смене статуса аккаунта.
type statusPayload struct {
	AccountID   string             `json:"account_id"`
	Status      string             `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
	AttemptID   string             `json:"attempt_id,omitempty"`
	AccountInfo models.AccountInfo `json:"account_info"`
}

// HttpNotifier отправляет best-effort уведомления на фиксированные адреса.
// Любая ошибка доставки логируется и глотается: уведомления никогда не влияют
// на операцию, которая их породила.
type HttpNotifier struct {
	loginURL  string
	logoutURL string
	client    *http.Client
	logger    *logging.Logger
}

func NewStatusNotifier(cfg *config.AppConfig, logger *logging.Logger) interfaces.StatusNotifier {
	return &HttpNotifier{
		loginURL:  cfg.Notify.LoginURL,
		logoutURL: cfg.Notify.LogoutURL,
		client:    &http.Client{Timeout: 10 * time.Second},
		logger:    logger.WithPrefix("NOTIFIER"),
	}
}

func (n *HttpNotifier) NotifyLogin(accountID, attemptID string, info models.AccountInfo) {
	n.post(n.loginURL, statusPayload{
		AccountID:   accountID,
		Status:      statusLoginSuccess,
		Timestamp:   time.Now().UTC(),
		AttemptID:   attemptID,
		AccountInfo: info,
	})
}

func (n *HttpNotifier) NotifyDisconnect(accountID string, info models.AccountInfo) {
	n.post(n.logoutURL, statusPayload{
		AccountID:   accountID,
		Status:      statusDisconnected,
		Timestamp:   time.Now().UTC(),
		AccountInfo: info,
	})
}

func (n *HttpNotifier) post(url string, payload statusPayload) {
	if url == "" {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("Failed to serialize status notification", "accountID", payload.AccountID, "error", err)
		return
	}

	resp, err := n.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		n.logger.Error("Failed to deliver status notification", "accountID", payload.AccountID, "status", payload.Status, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Warn("Status notification rejected by endpoint", "accountID", payload.AccountID, "status", payload.Status, "httpStatus", resp.StatusCode)
		return
	}
	n.logger.Info("Status notification delivered", "accountID", payload.AccountID, "status", payload.Status)
}
