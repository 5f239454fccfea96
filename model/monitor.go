package model

import (
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

// MonitorMessage сообщение в WebSocket канале прикроватного монитора
type MonitorMessage struct {
	PatientID string `json:"patient_id" conform:"trim"`
	// Тип замера: pressure или temperature
	Type      string `json:"type" conform:"trim,lower"`
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	// Температура в формате "36.6"
	Temperature string `json:"temperature" conform:"trim"`
	// Время замера в формате RFC3339. Если не задано, берётся время получения
	Timestamp string `json:"timestamp" conform:"trim"`
}

// Validate валидация
func (m MonitorMessage) Validate() error {
	if m.PatientID == "" {
		return errors.New("не задан параметр patient_id")
	}
	switch ObservationKind(m.Type) {
	case ObservationPressure:
		if m.Systolic <= 0 || m.Diastolic <= 0 {
			return errors.Errorf("некорректное давление %d/%d", m.Systolic, m.Diastolic)
		}
	case ObservationTemperature:
		if m.Temperature == "" {
			return errors.New("не задан параметр temperature")
		}
	default:
		return errors.Errorf("неизвестный тип замера \"%s\"", m.Type)
	}
	return nil
}

// Observation преобразует сообщение монитора в замер. now используется, если в
// сообщении не указано время
func (m MonitorMessage) Observation(monitorID uint, now time.Time) (*Observation, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	res := Observation{
		CreateAt:  now,
		PatientID: m.PatientID,
		Kind:      ObservationKind(m.Type),
		MonitorID: monitorID,
	}
	if m.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, m.Timestamp)
		if err != nil {
			return nil, errors.Errorf("некорректный формат времени \"%s\"", m.Timestamp)
		}
		res.CreateAt = t
	}
	switch res.Kind {
	case ObservationPressure:
		res.BloodPressure = NewBloodPressure(m.Systolic, m.Diastolic)
	case ObservationTemperature:
		temp, err := decimal.NewFromString(m.Temperature)
		if err != nil {
			return nil, errors.Errorf("не удалось распознать температуру \"%s\"", m.Temperature)
		}
		res.Temperature = temp
	}
	return &res, nil
}
