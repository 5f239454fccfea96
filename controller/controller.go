package controller

import (
	"github.com/kirsrus/medical/server/model"

	"github.com/shopspring/decimal"
)

// MedicalCtl контроллер оценки показателей пациента относительно его нормы.
// Если показатель не в норме, отправляется тревога
//go:generate mockery --dir . --name MedicalCtl --output ./mocks
type MedicalCtl interface {
	// Проверяет давление пациента с patientID. Ошибка поиска пациента возвращается вызывающему
	CheckBloodPressure(patientID string, pressure model.BloodPressure) error

	// Проверяет температуру пациента с patientID. Ошибка поиска пациента возвращается вызывающему
	CheckTemperature(patientID string, temperature decimal.Decimal) error
}
