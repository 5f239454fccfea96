package store

import (
	"github.com/kirsrus/medical/server/model"
)

// PatientGetter получение данных пациента по идентификатору
//go:generate mockery --dir . --name PatientGetter --output ./mocks
type PatientGetter interface {
	// Проверяет, что ошибка err обозначает, что записи не найдены
	IsNotFound(err error) bool

	// Получает пациента по id. Отсутствие пациента проверяется через IsNotFound
	GetByID(id string) (*model.PatientInfo, error)
}

// PatientStore репозиторий пациентов
//go:generate mockery --dir . --name PatientStore --output ./mocks
type PatientStore interface {
	PatientGetter

	// Добавляет пациента и возвращает его идентификатор. Если ID пустой, он будет сгенерирован.
	// Занятый ID возвращается как errors.AlreadyExists
	Add(model.PatientInfo) (string, error)

	// Обновляет данные существующего пациента. Отсутствие пациента проверяется через IsNotFound
	Update(model.PatientInfo) error

	// Удаляет пациента. Отсутствие пациента проверяется через IsNotFound
	Remove(id string) error

	// Список всех пациентов
	List() ([]model.PatientInfo, error)
}
