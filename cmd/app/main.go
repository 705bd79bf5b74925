// @title Chat Hub Service API
// @version 1.0.0
// @description API для управления пулом аккаунтов мессенджера: вход, прокси, вебхуки и отправка сообщений.
// @host localhost:8081
// @BasePath /api/v1
package main

import "github.com/iwtcode/chathubService/internal/app"

func main() {
	// Создаем и запускаем новый экземпляр приложения fx
	app.New().Run()
}
