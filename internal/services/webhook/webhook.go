package webhook

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
)

// HttpSender выполняет один POST вебхука. Политика повторов и порядок доставки
// находятся на стороне диспетчера событий, здесь только транспорт.
type HttpSender struct {
	client *http.Client
	logger *logging.Logger
}

func NewWebhookSender(logger *logging.Logger) interfaces.WebhookSender {
	return &HttpSender{
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger.WithPrefix("WEBHOOK"),
	}
}

func (s *HttpSender) Deliver(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("не удалось сформировать запрос вебхука: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("не удалось доставить вебхук на '%s': %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("вебхук '%s' отклонен со статусом %d", url, resp.StatusCode)
	}

	s.logger.Debug("Webhook delivered", "url", url, "bytes", len(payload))
	return nil
}
