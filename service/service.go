package service

import (
	"github.com/kirsrus/medical/server/model"
)

// AlertSvc отправка тревожных сообщений. Отправка односторонняя: результат
// отправки вызывающему не возвращается, ошибки доставки - забота реализации
//go:generate mockery --dir . --name AlertSvc --output ./mocks
type AlertSvc interface {
	// Отправляет тревожное сообщение
	Send(message string)
}

// MonitorSvc репозиторий работы с прикроватным монитором. Держит постоянное подключение к монитору.
//go:generate mockery --dir . --name MonitorSvc --output ./mocks
type MonitorSvc interface {
	// Ожидает очередной замер от монитора и возвращает его. При завершении работы возвращает ошибку контекста
	EmmitObservation() (*model.Observation, error)
}

// WebSvc сервис общения с WEB интерфейсом
//go:generate mockery --dir . --name WebSvc --output ./mocks
type WebSvc interface {
	// Хэндлеры работы со списком пациентов
	PatientApi(string)
	// Хэндлеры ручной проверки показателей пациента
	MedicalApi(string)
	// Запуск HTTP-сервера. Блокирует до завершения контекста
	Serve() error
}
