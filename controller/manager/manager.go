package manager

import (
	"context"

	"github.com/kirsrus/medical/server/controller"
	"github.com/kirsrus/medical/server/model"
	"github.com/kirsrus/medical/server/pkg/logger"
	"github.com/kirsrus/medical/server/service"
	"github.com/kirsrus/medical/server/store"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// Величина очереди замеров от мониторов
	observationCapacity = 10
	// Количество одновременных проверок замеров
	workers = 4
)

// ConfigManager конфигурация Manager
type ConfigManager struct {
	Log *logrus.Logger

	MedicalCtl controller.MedicalCtl
	Monitors   []service.MonitorSvc
	// Используется только для распознавания ошибки отсутствия пациента
	Patients store.PatientGetter

	ObservationCapacity uint
	Workers             uint
}

// Manager основной менеджер: получает замеры со всех мониторов и передаёт их на оценку.
// Инициируется через NewManager
type Manager struct {
	ctx context.Context
	log *logrus.Entry

	medicalCtl controller.MedicalCtl
	monitors   []service.MonitorSvc
	patients   store.PatientGetter

	observationCapacity uint
	workers             uint
}

// NewManager конструктор Manager
func NewManager(ctx context.Context, config *ConfigManager) (*Manager, error) {
	if config == nil {
		return nil, errors.New("не передана конфигурация")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	if config.MedicalCtl == nil {
		return nil, errors.New("не передан контроллер оценки показателей")
	}
	if config.Patients == nil {
		return nil, errors.New("не передано хранилище пациентов")
	}

	manager := Manager{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module": "manager",
			"scope":  "controller",
		}),
		medicalCtl: config.MedicalCtl,
		monitors:   config.Monitors,
		patients:   config.Patients,

		observationCapacity: observationCapacity,
		workers:             workers,
	}
	if config.ObservationCapacity != 0 {
		manager.observationCapacity = config.ObservationCapacity
	}
	if config.Workers != 0 {
		manager.workers = config.Workers
	}

	manager.log.Debugf("мониторов: %d", len(manager.monitors))
	manager.log.Debugf("observationCapacity: %d", manager.observationCapacity)
	manager.log.Debugf("workers: %d", manager.workers)

	return &manager, nil
}

// Serve начало процесса обработки поступающих замеров. Замеры с мониторов складываются
// в ограниченную очередь, переполнение очереди отбрасывает замер с предупреждением.
// Очередь разбирают workers обработчиков, поэтому одновременно выполняется не больше
// workers проверок. Возвращает ошибку первого сломавшегося монитора или nil при отмене контекста
func (m Manager) Serve() error {
	failed := make(chan error, 1)
	observations := make(chan *model.Observation, m.observationCapacity)

	// ctx отменяется при завершении работы или при первой ошибке монитора
	g, ctx := errgroup.WithContext(m.ctx)

	// Запуск получения данных с каждого монитора
	for _, monitor := range m.monitors {
		monitor := monitor
		g.Go(func() error {
			for {
				observation, err := monitor.EmmitObservation()
				if err != nil {
					// Монитор штатно завершил работу
					if err.Error() == context.Canceled.Error() {
						return nil
					}
					select {
					case failed <- err:
					default:
					}
					return err
				}
				select {
				case <-ctx.Done():
					return nil
				case observations <- observation:
				default:
					m.log.Warn("очередь observations переполнена")
				}
			}
		})
	}

	// Обработчики очереди замеров
	for i := uint(0); i < m.workers; i++ {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case observation := <-observations:
					m.Check(observation)
				}
			}
		}()
	}

	go func() {
		if err := g.Wait(); err != nil {
			m.log.Debugf("получение замеров завершено: %v", err)
		}
	}()

	select {
	case err := <-failed:
		return errors.Annotate(err, "ошибка получения замеров с монитора")
	case <-m.ctx.Done():
		return nil
	}
}

// Check передаёт замер на оценку соответствующей проверке. Ошибки только логируются
func (m Manager) Check(observation *model.Observation) {
	var err error
	switch observation.Kind {
	case model.ObservationPressure:
		err = m.medicalCtl.CheckBloodPressure(observation.PatientID, observation.BloodPressure)
	case model.ObservationTemperature:
		err = m.medicalCtl.CheckTemperature(observation.PatientID, observation.Temperature)
	default:
		m.log.Warnf("неизвестный тип замера \"%s\" от монитора %d", observation.Kind, observation.MonitorID)
		return
	}
	if err != nil {
		if m.patients.IsNotFound(err) {
			m.log.Warnf("монитор %d прислал замер неизвестного пациента %s", observation.MonitorID, observation.PatientID)
			return
		}
		m.log.Error(errors.ErrorStack(err))
	}
}
