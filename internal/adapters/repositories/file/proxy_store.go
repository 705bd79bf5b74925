package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/interfaces"
)

const proxiesFileName = "proxies.json"

type ProxyStore struct {
	path string
}

func NewProxyStore(cfg *config.AppConfig) (interfaces.ProxyStore, error) {
	if err := ensureDir(cfg.DataDir); err != nil {
		return nil, err
	}
	return &ProxyStore{path: filepath.Join(cfg.DataDir, proxiesFileName)}, nil
}

// Load читает список адресов. Отсутствующий файл не ошибка: создается пустой
// список, как это делал бы оператор при первом запуске.
func (s *ProxyStore) Load() ([]string, error) {
	var urls []string
	if err := readJSONFile(s.path, &urls); err != nil {
		if os.IsNotExist(err) {
			if werr := writeFileAtomic(s.path, []string{}); werr != nil {
				return nil, werr
			}
			return []string{}, nil
		}
		return nil, fmt.Errorf("не удалось прочитать '%s': %w", s.path, err)
	}
	return urls, nil
}

func (s *ProxyStore) Save(urls []string) error {
	return writeFileAtomic(s.path, urls)
}
