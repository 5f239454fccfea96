package db

import (
	"time"

	"github.com/kirsrus/medical/server/model"

	"github.com/shopspring/decimal"
)

type (
	// Patient описывает пациента и его норму показателей
	Patient struct {
		// В качестве ID используется uuid
		ID        string `gorm:"primaryKey"`
		CreatedAt time.Time
		UpdatedAt time.Time
		Name      string
		Surname   string
		Birthday  time.Time
		// Температура хранится строкой, чтобы не терять точность
		NormalTemperature string
		HighPressure      int
		LowPressure       int
	}
)

// TableName имя таблицы
func (Patient) TableName() string {
	return "patients"
}

// ToPatientInfo маппинг данных в структуру PatientInfo
func (m Patient) ToPatientInfo() (model.PatientInfo, error) {
	temperature, err := decimal.NewFromString(m.NormalTemperature)
	if err != nil {
		return model.PatientInfo{}, err
	}
	return model.PatientInfo{
		ID:       m.ID,
		Name:     m.Name,
		Surname:  m.Surname,
		Birthday: m.Birthday,
		HealthInfo: model.HealthInfo{
			NormalTemperature: temperature,
			BloodPressure:     model.NewBloodPressure(m.HighPressure, m.LowPressure),
		},
	}, nil
}

// FromPatientInfo заполняет текущую структуру из структуры model.PatientInfo
func (m *Patient) FromPatientInfo(patient model.PatientInfo) {
	*m = Patient{
		ID:                patient.ID,
		Name:              patient.Name,
		Surname:           patient.Surname,
		Birthday:          patient.Birthday,
		NormalTemperature: patient.HealthInfo.NormalTemperature.StringFixed(1),
		HighPressure:      patient.HealthInfo.BloodPressure.High,
		LowPressure:       patient.HealthInfo.BloodPressure.Low,
	}
}
