package models

// Profile содержит данные профиля аккаунта, полученные после подключения.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PhoneNumber string `json:"phoneNumber"`
}

// AccountInfo представляет аккаунт в реестре сессий.
type AccountInfo struct {
	OwnID       string `json:"own_id"`
	DisplayName string `json:"display_name"`
	PhoneNumber string `json:"phone_number"`
	Proxy       string `json:"proxy,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// LoginResult - немедленный исход вызова Login. Ровно одно из полей заполнено:
// QRCode содержит data URI картинки для сканирования, либо LoggedIn=true,
// если вход по учетным данным завершился в рамках вызова.
type LoginResult struct {
	LoggedIn bool   `json:"logged_in,omitempty"`
	QRCode   string `json:"qr_code,omitempty"`
	OwnID    string `json:"own_id,omitempty"`
}
