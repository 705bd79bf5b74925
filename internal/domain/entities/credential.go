package entities

import "encoding/json"

// Credential - сохраненные учетные данные сессии для одного аккаунта.
// Записываются один раз при первом успешном входе и больше не перезаписываются.
type Credential struct {
	Imei      string          `json:"imei"`
	Cookie    json.RawMessage `json:"cookie"`
	UserAgent string          `json:"userAgent"`
}
