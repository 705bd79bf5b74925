package file

import (
	"testing"

	"github.com/iwtcode/chathubService/internal/config"
	"github.com/stretchr/testify/require"
)

func TestProxyStoreFirstLoadCreatesEmptyList(t *testing.T) {
	store, err := NewProxyStore(&config.AppConfig{DataDir: t.TempDir()})
	require.NoError(t, err)

	urls, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, urls, "Первый запуск должен начинаться с пустого списка")

	// Повторная загрузка читает уже созданный файл.
	urls, err = store.Load()
	require.NoError(t, err)
	require.Empty(t, urls)
}

func TestProxyStoreRoundTrip(t *testing.T) {
	cfg := &config.AppConfig{DataDir: t.TempDir()}
	store, err := NewProxyStore(cfg)
	require.NoError(t, err)

	saved := []string{"http://p1:8080", "socks5://p2:1080"}
	require.NoError(t, store.Save(saved))

	// Новый экземпляр поверх того же каталога видит сохраненный список.
	reopened, err := NewProxyStore(cfg)
	require.NoError(t, err)

	urls, err := reopened.Load()
	require.NoError(t, err)
	require.Equal(t, saved, urls)
}
