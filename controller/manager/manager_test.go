package manager

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kirsrus/medical/server/controller/mocks"
	"github.com/kirsrus/medical/server/model"
	"github.com/kirsrus/medical/server/service"
	serviceMocks "github.com/kirsrus/medical/server/service/mocks"
	storeMocks "github.com/kirsrus/medical/server/store/mocks"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Монитор, отдающий замеры из канала
type chanMonitor struct {
	ctx          context.Context
	observations chan *model.Observation
}

func (m chanMonitor) EmmitObservation() (*model.Observation, error) {
	select {
	case <-m.ctx.Done():
		return nil, m.ctx.Err()
	case o := <-m.observations:
		return o, nil
	}
}

func TestNewManager(t *testing.T) {
	tests := []struct {
		name    string
		config  *ConfigManager
		wantErr bool
	}{
		{name: "корректный", config: &ConfigManager{MedicalCtl: new(mocks.MedicalCtl), Patients: new(storeMocks.PatientGetter)}},
		{name: "без конфигурации", config: nil, wantErr: true},
		{name: "без контроллера", config: &ConfigManager{Patients: new(storeMocks.PatientGetter)}, wantErr: true},
		{name: "без хранилища", config: &ConfigManager{MedicalCtl: new(mocks.MedicalCtl)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager(context.Background(), tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewManager() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestManager_Check(t *testing.T) {
	notFound := errors.NotFoundf("пациент с id %s", "nope")
	ctl := new(mocks.MedicalCtl)
	ctl.On("CheckBloodPressure", "p1", model.NewBloodPressure(150, 95)).Return(nil).Once()
	ctl.On("CheckTemperature", "p1", mock.AnythingOfType("decimal.Decimal")).Return(nil).Once()
	ctl.On("CheckBloodPressure", "nope", mock.Anything).Return(errors.Trace(notFound)).Once()
	patients := new(storeMocks.PatientGetter)
	patients.On("IsNotFound", mock.Anything).Return(func(err error) bool { return errors.IsNotFound(err) })

	manager, err := NewManager(context.Background(), &ConfigManager{MedicalCtl: ctl, Patients: patients})
	if err != nil {
		t.Fatal(errors.ErrorStack(err))
	}

	manager.Check(&model.Observation{PatientID: "p1", Kind: model.ObservationPressure, BloodPressure: model.NewBloodPressure(150, 95)})
	manager.Check(&model.Observation{PatientID: "p1", Kind: model.ObservationTemperature, Temperature: decimal.RequireFromString("35.2")})
	manager.Check(&model.Observation{PatientID: "nope", Kind: model.ObservationPressure, BloodPressure: model.NewBloodPressure(120, 80)})
	manager.Check(&model.Observation{PatientID: "p1", Kind: "pulse"})

	ctl.AssertExpectations(t)
	patients.AssertNumberOfCalls(t, "IsNotFound", 1)
}

func TestManager_Serve(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checked := make(chan string, 10)
	ctl := new(mocks.MedicalCtl)
	ctl.On("CheckBloodPressure", mock.Anything, mock.Anything).Return(nil).
		Run(func(args mock.Arguments) { checked <- args.String(0) })
	ctl.On("CheckTemperature", mock.Anything, mock.Anything).Return(nil).
		Run(func(args mock.Arguments) { checked <- args.String(0) })

	first := chanMonitor{ctx: ctx, observations: make(chan *model.Observation, 1)}
	second := chanMonitor{ctx: ctx, observations: make(chan *model.Observation, 1)}

	manager, err := NewManager(ctx, &ConfigManager{
		MedicalCtl: ctl,
		Monitors:   []service.MonitorSvc{first, second},
		Patients:   new(storeMocks.PatientGetter),
	})
	if err != nil {
		t.Fatal(errors.ErrorStack(err))
	}

	served := make(chan error, 1)
	go func() { served <- manager.Serve() }()

	first.observations <- &model.Observation{PatientID: "p1", Kind: model.ObservationPressure, BloodPressure: model.NewBloodPressure(120, 80)}
	second.observations <- &model.Observation{PatientID: "p2", Kind: model.ObservationTemperature, Temperature: decimal.RequireFromString("36.6")}

	got := map[string]bool{}
	for len(got) < 2 {
		select {
		case id := <-checked:
			got[id] = true
		case <-time.After(5 * time.Second):
			t.Fatalf("проверено %d замеров из 2", len(got))
		}
	}
	if !got["p1"] || !got["p2"] {
		t.Errorf("проверены пациенты %v", got)
	}

	cancel()
	select {
	case err := <-served:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() не завершился после отмены контекста")
	}
}

func TestManager_ServeMonitorError(t *testing.T) {
	monitor := new(serviceMocks.MonitorSvc)
	monitor.On("EmmitObservation").Return(nil, errors.New("монитор сломался"))

	manager, err := NewManager(context.Background(), &ConfigManager{
		MedicalCtl: new(mocks.MedicalCtl),
		Monitors:   []service.MonitorSvc{monitor},
		Patients:   new(storeMocks.PatientGetter),
	})
	if err != nil {
		t.Fatal(errors.ErrorStack(err))
	}
	if err = manager.Serve(); err == nil {
		t.Error("ожидалась ошибка монитора")
	}
}

func TestManager_ServeBrokenMonitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broken := new(serviceMocks.MonitorSvc)
	broken.On("EmmitObservation").Return(nil, errors.New("монитор сломался"))
	healthy := chanMonitor{ctx: ctx, observations: make(chan *model.Observation)}

	manager, err := NewManager(ctx, &ConfigManager{
		MedicalCtl: new(mocks.MedicalCtl),
		Monitors:   []service.MonitorSvc{healthy, broken},
		Patients:   new(storeMocks.PatientGetter),
	})
	if err != nil {
		t.Fatal(errors.ErrorStack(err))
	}

	served := make(chan error, 1)
	go func() { served <- manager.Serve() }()

	// Рабочий монитор продолжает ждать замеров, ошибка сломанного должна вернуться сразу
	select {
	case err := <-served:
		if err == nil {
			t.Error("ожидалась ошибка монитора")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() не вернул ошибку сломанного монитора")
	}
}

func TestManager_ServeWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan string, 10)
	release := make(chan struct{})
	ctl := new(mocks.MedicalCtl)
	ctl.On("CheckBloodPressure", mock.Anything, mock.Anything).Return(nil).
		Run(func(args mock.Arguments) {
			started <- args.String(0)
			<-release
		})

	monitor := chanMonitor{ctx: ctx, observations: make(chan *model.Observation, 5)}
	manager, err := NewManager(ctx, &ConfigManager{
		MedicalCtl: ctl,
		Monitors:   []service.MonitorSvc{monitor},
		Patients:   new(storeMocks.PatientGetter),
		Workers:    2,
	})
	if err != nil {
		t.Fatal(errors.ErrorStack(err))
	}
	go func() { _ = manager.Serve() }()

	for i := 0; i < 5; i++ {
		monitor.observations <- &model.Observation{
			PatientID:     fmt.Sprintf("p%d", i),
			Kind:          model.ObservationPressure,
			BloodPressure: model.NewBloodPressure(120, 80),
		}
	}

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatalf("начато %d проверок из 2", i)
		}
	}
	// Оба обработчика заняты, третья проверка ждёт
	select {
	case id := <-started:
		t.Fatalf("начата лишняя проверка %s при двух обработчиках", id)
	case <-time.After(200 * time.Millisecond):
	}

	close(release)
	for i := 0; i < 3; i++ {
		select {
		case <-started:
		case <-time.After(5 * time.Second):
			t.Fatalf("после освобождения начато %d проверок из 3", i)
		}
	}
}
