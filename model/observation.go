package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObservationKind вид замера
type ObservationKind string

const (
	ObservationPressure    ObservationKind = "pressure"
	ObservationTemperature ObservationKind = "temperature"
)

// Observation текущий замер показателя пациента. Заполнено либо BloodPressure, либо
// Temperature, в зависимости от Kind
type Observation struct {
	CreateAt      time.Time
	PatientID     string
	Kind          ObservationKind
	BloodPressure BloodPressure
	Temperature   decimal.Decimal
	// Идентификатор монитора, с которого пришёл замер
	MonitorID uint
}

// MonitorInfo описывает технические данные прикроватного монитора
type MonitorInfo struct {
	ID   uint   `validate:"required"`
	URL  string `conform:"trim" validate:"required,websocket"`
	Name string `conform:"trim"`
}
