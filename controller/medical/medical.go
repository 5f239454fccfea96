package medical

import (
	"fmt"

	"github.com/kirsrus/medical/server/controller"
	"github.com/kirsrus/medical/server/model"
	"github.com/kirsrus/medical/server/pkg/logger"
	"github.com/kirsrus/medical/server/service"
	"github.com/kirsrus/medical/server/store"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	// Шаблон тревожного сообщения, подставляется идентификатор пациента
	AlertTemplate = "Warning, patient with id: %s, need help"
)

// Насколько градусов температура может опуститься ниже нормы пациента
var maxTemperatureDrop = decimal.New(15, -1)

// Medical оценка показателей пациента. Инициируется через NewMedical.
// Состояния между вызовами не хранит, пациент запрашивается при каждой проверке заново
type Medical struct {
	log *logrus.Entry

	patients store.PatientGetter
	alert    service.AlertSvc

	maxTemperatureDrop decimal.Decimal
}

// ConfigMedical конфигурация Medical
type ConfigMedical struct {
	Log *logrus.Logger
	// Допустимое снижение температуры относительно нормы. Нулевое значение означает 1.5
	MaxTemperatureDrop decimal.Decimal
}

// NewMedical конструктор Medical
func NewMedical(patients store.PatientGetter, alert service.AlertSvc, config *ConfigMedical) (controller.MedicalCtl, error) {
	if config == nil {
		return nil, errors.New("не установлен config")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	if patients == nil {
		return nil, errors.New("не указано хранилище пациентов")
	}
	if alert == nil {
		return nil, errors.New("не указана служба отправки тревог")
	}
	if config.MaxTemperatureDrop.IsNegative() {
		return nil, errors.Errorf("некорректное допустимое снижение температуры %s", config.MaxTemperatureDrop)
	}

	medical := Medical{
		log: config.Log.WithFields(map[string]interface{}{
			"module": "medical",
			"scope":  "controller",
		}),
		patients: patients,
		alert:    alert,

		maxTemperatureDrop: maxTemperatureDrop,
	}
	if config.MaxTemperatureDrop.IsPositive() {
		medical.maxTemperatureDrop = config.MaxTemperatureDrop
	}

	return &medical, nil
}

// CheckBloodPressure давление не в норме, если отличается от нормы пациента хотя бы одним показателем
func (m Medical) CheckBloodPressure(patientID string, pressure model.BloodPressure) error {
	patient, err := m.patients.GetByID(patientID)
	if err != nil {
		return errors.Trace(err)
	}
	normal := patient.HealthInfo.BloodPressure
	if !normal.Equal(pressure) {
		m.log.Debugf("давление %s пациента %s не в норме (%s)", pressure, patientID, normal)
		m.sendAlert(patientID)
		return nil
	}
	m.log.Debugf("давление %s пациента %s в норме", pressure, patientID)
	return nil
}

// CheckTemperature температура не в норме, если опустилась ниже нормы пациента больше
// чем на maxTemperatureDrop. Повышенная температура этим правилом не отслеживается
func (m Medical) CheckTemperature(patientID string, temperature decimal.Decimal) error {
	patient, err := m.patients.GetByID(patientID)
	if err != nil {
		return errors.Trace(err)
	}
	normal := patient.HealthInfo.NormalTemperature
	if normal.Sub(temperature).GreaterThan(m.maxTemperatureDrop) {
		m.log.Debugf("температура %s пациента %s ниже нормы (%s)", temperature, patientID, normal)
		m.sendAlert(patientID)
		return nil
	}
	m.log.Debugf("температура %s пациента %s в норме", temperature, patientID)
	return nil
}

// Отправка тревоги по пациенту
func (m Medical) sendAlert(patientID string) {
	m.alert.Send(fmt.Sprintf(AlertTemplate, patientID))
}
