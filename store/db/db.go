package db

import (
	"context"

	"github.com/kirsrus/medical/server/model"
	"github.com/kirsrus/medical/server/pkg/logger"
	"github.com/kirsrus/medical/server/pkg/tool"
	"github.com/kirsrus/medical/server/pkg/validator"
	"github.com/kirsrus/medical/server/store"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Db обращение к базе данных. Инициируется через NewDb
type Db struct {
	ctx       context.Context
	log       *logrus.Entry
	db        *gorm.DB
	validator *validator.Validator
}

// ConfigDb конфигурация класса NewDb
type ConfigDb struct {
	Log    *logrus.Logger
	DbFile string
}

// NewDb конструктор класса Db
func NewDb(ctx context.Context, config *ConfigDb) (store.PatientStore, error) {
	if config == nil {
		return nil, errors.New("не указана конфигурация")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	if config.DbFile == "" {
		return nil, errors.New("в конфигурации не указан файл базы данных")
	}

	// Подключаемся к БД и запускаем миграции
	conn, err := gorm.Open(sqlite.Open(config.DbFile), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, errors.Annotate(err, "ошибка подключения к файлу БД")
	}
	err = conn.AutoMigrate(Patient{})
	if err != nil {
		return nil, errors.Annotate(err, "ошибка миграции БД")
	}

	db := Db{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module": "db",
			"scope":  "store",
		}),
		validator: validator.Get(),
		db:        conn,
	}

	return &db, nil
}

// IsNotFound проверяет, что ошибка err обозначает, что записи не найдены
func (m Db) IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.IsNotFound(err) || errors.Cause(err) == gorm.ErrRecordNotFound
}

// Получает запись пациента. Отсутствие записи возвращается как errors.NotFound
func (m Db) take(id string) (*Patient, error) {
	var patient Patient
	err := m.db.WithContext(m.ctx).Where("id = ?", id).Take(&patient).Error
	if err != nil {
		if err.Error() == gorm.ErrRecordNotFound.Error() {
			return nil, errors.NotFoundf("пациент с id %s", id)
		}
		return nil, errors.Trace(err)
	}
	return &patient, nil
}

// GetByID получает пациента по id. Отсутствие пациента проверяется через IsNotFound
func (m Db) GetByID(id string) (*model.PatientInfo, error) {
	if id == "" {
		return nil, errors.New("передан пустой идентификатор пациента")
	}
	patient, err := m.take(id)
	if err != nil {
		return nil, err
	}
	res, err := patient.ToPatientInfo()
	if err != nil {
		return nil, errors.Annotatef(err, "некорректная норма температуры у пациента %s", id)
	}
	return &res, nil
}

// Add добавляет пациента и возвращает его идентификатор. Если ID пустой, он будет сгенерирован
func (m Db) Add(patient model.PatientInfo) (string, error) {
	if err := m.validator.ValidateWithConform(&patient); err != nil {
		return "", errors.NewNotValid(err, "ошибка валидации")
	}
	if patient.ID == "" {
		patient.ID = uuid.New().String()
	} else if _, err := m.take(patient.ID); err == nil {
		return "", errors.AlreadyExistsf("пациент с id %s", patient.ID)
	} else if !errors.IsNotFound(err) {
		return "", errors.Trace(err)
	}
	patient.Birthday = tool.RoundToDate(patient.Birthday)

	var row Patient
	row.FromPatientInfo(patient)
	if err := m.db.WithContext(m.ctx).Create(&row).Error; err != nil {
		return "", errors.Annotate(err, "ошибка добавления в БД")
	}
	m.log.Debugf("добавлен пациент %s", patient)
	return row.ID, nil
}

// Update обновляет данные существующего пациента
func (m Db) Update(patient model.PatientInfo) error {
	if err := m.validator.ValidateWithConform(&patient); err != nil {
		return errors.NewNotValid(err, "ошибка валидации")
	}
	exist, err := m.take(patient.ID)
	if err != nil {
		return err
	}
	patient.Birthday = tool.RoundToDate(patient.Birthday)

	var row Patient
	row.FromPatientInfo(patient)
	row.CreatedAt = exist.CreatedAt
	if err := m.db.WithContext(m.ctx).Save(&row).Error; err != nil {
		return errors.Annotate(err, "ошибка обновления записи")
	}
	m.log.Debugf("обновлён пациент %s", patient)
	return nil
}

// Remove удаляет пациента
func (m Db) Remove(id string) error {
	res := m.db.WithContext(m.ctx).Where("id = ?", id).Delete(&Patient{})
	if res.Error != nil {
		return errors.Trace(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NotFoundf("пациент с id %s", id)
	}
	m.log.Debugf("удалён пациент %s", id)
	return nil
}

// List список всех пациентов, упорядоченный по фамилии и имени
func (m Db) List() ([]model.PatientInfo, error) {
	rows := make([]Patient, 0)
	if err := m.db.WithContext(m.ctx).Order("surname, name").Find(&rows).Error; err != nil {
		return nil, errors.Trace(err)
	}
	result := make([]model.PatientInfo, 0, len(rows))
	for _, row := range rows {
		patient, err := row.ToPatientInfo()
		if err != nil {
			m.log.Warnf("пропущен пациент %s с некорректной нормой температуры: %v", row.ID, err)
			continue
		}
		result = append(result, patient)
	}
	return result, nil
}
