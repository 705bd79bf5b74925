package errors

import (
	"errors"
	"fmt"
)

const (
	InternalServerError = "internal server error"
	BadRequest          = "bad request"
	NotFound            = "not_found"
)

// AppError представляет собой стандартизированную структуру ошибки для API.
type AppError struct {
	Code         int    `json:"code"`    // HTTP статус код
	Message      string `json:"message"` // Сообщение для клиента
	Err          error  `json:"-"`       // Внутренняя ошибка, не для клиента
	IsUserFacing bool   `json:"-"`       // Флаг, указывающий, можно ли показывать `Err`
}

func (a *AppError) Error() string {
	if a == nil {
		return ""
	}
	if a.Err != nil {
		return fmt.Sprintf("%s (code: %d): %v", a.Message, a.Code, a.Err)
	}
	return fmt.Sprintf("%s (code: %d)", a.Message, a.Code)
}

// NewAppError создает новый экземпляр AppError.
func NewAppError(httpCode int, message string, err error, isUserFacing bool) *AppError {
	return &AppError{
		Code:         httpCode,
		Message:      message,
		Err:          err,
		IsUserFacing: isUserFacing,
	}
}

var (
	// ErrAccountNotFound - аккаунт с указанным ownId не зарегистрирован.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountInactive - сессия аккаунта существует, но сейчас не подключена.
	ErrAccountInactive = errors.New("account session is not active")
	// ErrLoginInFlight - для этого аккаунта уже выполняется вход.
	ErrLoginInFlight = errors.New("login already in flight for this account")
	// ErrCredentialNotFound - на диске нет сохраненных учетных данных.
	ErrCredentialNotFound = errors.New("credential record not found")
	// ErrProfileUnavailable - транспорт подключился, но профиль аккаунта не получен.
	ErrProfileUnavailable = errors.New("account profile unavailable after connect")
)
