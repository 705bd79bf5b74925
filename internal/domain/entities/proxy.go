package entities

// ProxyEntry - запись пула прокси. В файл сохраняются только адреса,
// счетчики живут в памяти процесса.
type ProxyEntry struct {
	URL       string   `json:"url"`
	UsedCount int      `json:"used_count"`
	Accounts  []string `json:"accounts"` // ownId аккаунтов, закрепленных за прокси
}
