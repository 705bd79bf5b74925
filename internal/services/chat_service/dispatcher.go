package chat_service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/domain/models"
	"github.com/iwtcode/chathubService/internal/interfaces"
	"github.com/iwtcode/chathubService/internal/middleware/logging"
)

const accountIDField = "_accountId"

// ReloginHandler определяет реакцию на закрытие сессии. Вынесен в интерфейс,
// чтобы разорвать цикл диспетчер -> контроллер переподключения -> вход.
type ReloginHandler interface {
	HandleClosed(ownID string)
}

type deliveryJob struct {
	event   string
	url     string
	payload []byte
}

// EventDispatcher привязывает пять наблюдаемых событий сессии к доставке
// вебхуков, зеркалу Kafka и внешним уведомлениям. Доставка по одному аккаунту
// идет в порядке поступления событий через выделенную очередь; очереди разных
// аккаунтов независимы. Ошибки доставки логируются и не распространяются.
type EventDispatcher struct {
	mu       sync.Mutex
	queues   map[string]chan deliveryJob
	registry *SessionRegistry
	webhooks interfaces.WebhookConfigRepository
	sender   interfaces.WebhookSender
	producer interfaces.EventProducer
	notifier interfaces.StatusNotifier
	relogin  ReloginHandler
	logger   *logging.Logger
}

const deliveryQueueSize = 256

func NewEventDispatcher(
	registry *SessionRegistry,
	webhooks interfaces.WebhookConfigRepository,
	sender interfaces.WebhookSender,
	producer interfaces.EventProducer,
	notifier interfaces.StatusNotifier,
	logger *logging.Logger,
) *EventDispatcher {
	return &EventDispatcher{
		queues:   make(map[string]chan deliveryJob),
		registry: registry,
		webhooks: webhooks,
		sender:   sender,
		producer: producer,
		notifier: notifier,
		logger:   logger.WithPrefix("DISPATCHER"),
	}
}

// BindRelogin подключает контроллер переподключения. Вызывается один раз
// при сборке сервиса, до первой привязки сессии.
func (d *EventDispatcher) BindRelogin(h ReloginHandler) {
	d.relogin = h
}

// Attach регистрирует обработчики всех пяти событий живой сессии.
// Вызывается до session.Start().
func (d *EventDispatcher) Attach(session interfaces.Session, info models.AccountInfo, attemptID string) {
	ownID := info.OwnID

	for _, event := range []string{entities.EventMessage, entities.EventGroupEvent, entities.EventReaction} {
		event := event
		session.On(event, func(payload json.RawMessage) {
			d.enqueue(ownID, event, payload)
		})
	}

	session.OnConnected(func() {
		d.logger.Info("Account connected", "accountID", ownID, "attemptID", attemptID)
		d.registry.SetActive(ownID, true)
		d.notifier.NotifyLogin(ownID, attemptID, d.accountSummary(ownID, info))
	})

	session.OnClosed(func() {
		d.logger.Warn("Account session closed", "accountID", ownID)
		d.registry.SetActive(ownID, false)
		d.notifier.NotifyDisconnect(ownID, d.accountSummary(ownID, info))
		if d.relogin != nil {
			go d.relogin.HandleClosed(ownID)
		}
	})

	session.OnError(func(err error) {
		// Только лог: перевод в неактивные и переподключение - зона
		// ответственности события closed.
		d.logger.Error("Session listener error", "accountID", ownID, "error", err)
	})
}

// enqueue не блокирует колбэк SDK: при переполненной очереди событие
// отбрасывается с логом вместо остановки слушателя.
func (d *EventDispatcher) enqueue(ownID, event string, payload json.RawMessage) {
	body := tagPayload(ownID, payload)

	url := ""
	if cfg, ok := d.webhooks.Get(ownID); ok {
		url = cfg.URLFor(event)
	}
	if url == "" {
		d.logger.Debug("No webhook configured for event", "accountID", ownID, "event", event)
	}

	select {
	case d.queueFor(ownID) <- deliveryJob{event: event, url: url, payload: body}:
	default:
		d.logger.Error("Delivery queue overflow, event dropped", "accountID", ownID, "event", event)
	}
}

func (d *EventDispatcher) queueFor(ownID string) chan deliveryJob {
	d.mu.Lock()
	defer d.mu.Unlock()

	queue, ok := d.queues[ownID]
	if !ok {
		queue = make(chan deliveryJob, deliveryQueueSize)
		d.queues[ownID] = queue
		go d.deliveryLoop(ownID, queue)
	}
	return queue
}

func (d *EventDispatcher) deliveryLoop(ownID string, queue chan deliveryJob) {
	for job := range queue {
		d.mirror(ownID, job)

		if job.url == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		if err := d.sender.Deliver(ctx, job.url, job.payload); err != nil {
			d.logger.Error("Webhook delivery failed", "accountID", ownID, "event", job.event, "error", err)
		}
		cancel()
	}
}

type mirrorEnvelope struct {
	AccountID string          `json:"account_id"`
	Event     string          `json:"event"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

func (d *EventDispatcher) mirror(ownID string, job deliveryJob) {
	value, err := json.Marshal(mirrorEnvelope{
		AccountID: ownID,
		Event:     job.event,
		Timestamp: time.Now().UTC(),
		Payload:   job.payload,
	})
	if err != nil {
		d.logger.Error("Failed to serialize event for mirror", "accountID", ownID, "event", job.event, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := d.producer.Produce(ctx, []byte(ownID), value); err != nil {
		d.logger.Error("Failed to mirror event to broker", "accountID", ownID, "event", job.event, "error", err)
	}
}

// accountSummary отдает безопасную сводку аккаунта для уведомлений: только
// базовые поля из реестра, без хэндла сессии.
func (d *EventDispatcher) accountSummary(ownID string, fallback models.AccountInfo) models.AccountInfo {
	if info, _, found := d.registry.Get(ownID); found {
		return info
	}
	return fallback
}

// tagPayload добавляет в тело события идентификатор аккаунта, чтобы получатель
// вебхука знал, от какой сессии оно пришло.
func tagPayload(ownID string, payload json.RawMessage) []byte {
	var fields map[string]interface{}
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		// Не-объектные события заворачиваются целиком.
		wrapped, _ := json.Marshal(map[string]interface{}{
			accountIDField: ownID,
			"payload":      payload,
		})
		return wrapped
	}

	fields[accountIDField] = ownID
	tagged, err := json.Marshal(fields)
	if err != nil {
		return payload
	}
	return tagged
}
