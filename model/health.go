package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// HealthInfo индивидуальная норма показателей пациента
type HealthInfo struct {
	// Нормальная температура тела. Клиническая точность - один знак после запятой
	NormalTemperature decimal.Decimal
	BloodPressure     BloodPressure
}

// BloodPressure давление: верхнее (систолическое) и нижнее (диастолическое)
type BloodPressure struct {
	High int `json:"systolic" validate:"gt=0"`
	Low  int `json:"diastolic" validate:"gt=0"`
}

// NewBloodPressure конструктор BloodPressure
func NewBloodPressure(high, low int) BloodPressure {
	return BloodPressure{High: high, Low: low}
}

// Equal давление совпадает по обоим показателям
func (m BloodPressure) Equal(other BloodPressure) bool {
	return m.High == other.High && m.Low == other.Low
}

// String давление в привычной записи 120/80
func (m BloodPressure) String() string {
	return fmt.Sprintf("%d/%d", m.High, m.Low)
}
