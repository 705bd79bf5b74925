package usecases

import "github.com/iwtcode/chathubService/internal/interfaces"

// UseCases - агрегатор всех use case интерфейсов
type UseCases struct {
	interfaces.Usecases
}

// NewUsecases - конструктор для UseCases
func NewUsecases(
	chatSvc interfaces.ChatService,
	webhookRepo interfaces.WebhookConfigRepository,
) interfaces.Usecases {
	return NewUsecase(chatSvc, webhookRepo)
}
