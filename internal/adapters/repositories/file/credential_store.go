package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/iwtcode/chathubService/internal/domain/entities"
	"github.com/iwtcode/chathubService/internal/interfaces"
	apperrors "github.com/iwtcode/chathubService/pkg/errors"
)

const (
	credentialsDirName = "cookies"
	credentialPrefix   = "cred_"
	credentialSuffix   = ".json"
)

type CredentialStore struct {
	dir string
}

func NewCredentialStore(cfg *config.AppConfig) (interfaces.CredentialStore, error) {
	dir := filepath.Join(cfg.DataDir, credentialsDirName)
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &CredentialStore{dir: dir}, nil
}

func (s *CredentialStore) path(ownID string) string {
	return filepath.Join(s.dir, credentialPrefix+ownID+credentialSuffix)
}

// Save создает запись атомарно через O_EXCL: проверка существования и запись
// не разделяются, поэтому параллельные входы одного аккаунта не перетирают
// первую сохраненную запись.
func (s *CredentialStore) Save(ownID string, cred *entities.Credential) (bool, error) {
	f, err := os.OpenFile(s.path(ownID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("не удалось создать файл учетных данных для '%s': %w", ownID, err)
	}
	defer f.Close()

	data, err := json.MarshalIndent(cred, "", "    ")
	if err != nil {
		return false, fmt.Errorf("не удалось сериализовать учетные данные для '%s': %w", ownID, err)
	}
	if _, err := f.Write(data); err != nil {
		return false, fmt.Errorf("не удалось записать учетные данные для '%s': %w", ownID, err)
	}
	return true, nil
}

func (s *CredentialStore) Load(ownID string) (*entities.Credential, error) {
	var cred entities.Credential
	if err := readJSONFile(s.path(ownID), &cred); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("не удалось прочитать учетные данные для '%s': %w", ownID, err)
	}
	return &cred, nil
}

func (s *CredentialStore) Exists(ownID string) bool {
	_, err := os.Stat(s.path(ownID))
	return err == nil
}

func (s *CredentialStore) List() ([]string, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать каталог учетных данных: %w", err)
	}

	var ids []string
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasPrefix(name, credentialPrefix) || !strings.HasSuffix(name, credentialSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, credentialPrefix), credentialSuffix))
	}
	return ids, nil
}
