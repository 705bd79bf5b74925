package sdkbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
	"github.com/iwtcode/chathubService/internal/interfaces"
)

const (
	eventPollWaitSeconds = 25
	eventPollRetryDelay  = 3 * time.Second
	// После стольких подряд неудачных опросов сессия считается оборванной.
	maxConsecutivePollFailures = 5
)

type bridgeEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// bridgeSession - живая сессия на стороне bridge. Обработчики регистрируются
// до Start; цикл опроса доставляет события последовательно, сохраняя порядок
// их поступления от платформы.
type bridgeSession struct {
	factory *Factory
	id      string
	ownID   string

	handlers    map[string][]func(json.RawMessage)
	onConnected []func()
	onClosed    []func()
	onError     []func(error)

	stop chan struct{}
}

func newBridgeSession(f *Factory, sessionID, ownID string) interfaces.Session {
	return &bridgeSession{
		factory:  f,
		id:       sessionID,
		ownID:    ownID,
		handlers: make(map[string][]func(json.RawMessage)),
		stop:     make(chan struct{}),
	}
}

func (s *bridgeSession) OwnID() string { return s.ownID }

func (s *bridgeSession) FetchProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := s.factory.doJSON(ctx, http.MethodGet, "/api/sessions/"+s.id+"/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *bridgeSession) Credential(ctx context.Context) (*entities.Credential, error) {
	var cred entities.Credential
	if err := s.factory.doJSON(ctx, http.MethodGet, "/api/sessions/"+s.id+"/context", nil, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

func (s *bridgeSession) On(event string, handler func(json.RawMessage)) {
	s.handlers[event] = append(s.handlers[event], handler)
}

func (s *bridgeSession) OnConnected(handler func()) { s.onConnected = append(s.onConnected, handler) }
func (s *bridgeSession) OnClosed(handler func())    { s.onClosed = append(s.onClosed, handler) }
func (s *bridgeSession) OnError(handler func(err error)) {
	s.onError = append(s.onError, handler)
}

func (s *bridgeSession) Start() error {
	go s.pollLoop()
	return nil
}

func (s *bridgeSession) Close() error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.factory.doJSON(ctx, http.MethodDelete, "/api/sessions/"+s.id, nil, nil)
}

func (s *bridgeSession) SendMessage(ctx context.Context, threadID string, threadType int, message string) (json.RawMessage, error) {
	body := map[string]interface{}{
		"thread_id": threadID,
		"type":      threadType,
		"message":   message,
	}
	var result json.RawMessage
	if err := s.factory.doJSON(ctx, http.MethodPost, "/api/sessions/"+s.id+"/message", body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// pollLoop - long-poll цикл событий. Затяжная недоступность bridge трактуется
// как обрыв транспорта: доставляется closed, цикл останавливается.
func (s *bridgeSession) pollLoop() {
	failures := 0
	path := fmt.Sprintf("/api/sessions/%s/events?wait=%d", s.id, eventPollWaitSeconds)

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		var resp struct {
			Events []bridgeEvent `json:"events"`
		}
		ctx, cancel := context.WithTimeout(context.Background(), (eventPollWaitSeconds+10)*time.Second)
		err := s.factory.doJSON(ctx, http.MethodGet, path, nil, &resp)
		cancel()

		if err != nil {
			failures++
			s.factory.logger.Warn("Event poll failed", "sessionID", s.id, "failures", failures, "error", err)
			if failures >= maxConsecutivePollFailures {
				s.factory.logger.Error("Bridge unreachable, treating session as closed", "sessionID", s.id)
				s.fireClosed()
				return
			}
			select {
			case <-s.stop:
				return
			case <-time.After(eventPollRetryDelay):
			}
			continue
		}
		failures = 0

		for _, event := range resp.Events {
			if stopped := s.dispatch(event); stopped {
				return
			}
		}
	}
}

func (s *bridgeSession) dispatch(event bridgeEvent) (stopped bool) {
	switch event.Type {
	case "connected":
		for _, h := range s.onConnected {
			h()
		}
	case "closed":
		s.fireClosed()
		return true
	case "error":
		var msg struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(event.Payload, &msg)
		for _, h := range s.onError {
			h(errors.New(msg.Error))
		}
	default:
		for _, h := range s.handlers[event.Type] {
			h(event.Payload)
		}
	}
	return false
}

func (s *bridgeSession) fireClosed() {
	for _, h := range s.onClosed {
		h()
	}
}
