package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kirsrus/medical/server/controller"
	"github.com/kirsrus/medical/server/model"
	"github.com/kirsrus/medical/server/pkg/logger"
	"github.com/kirsrus/medical/server/pkg/validator"
	"github.com/kirsrus/medical/server/service"
	"github.com/kirsrus/medical/server/store"

	"github.com/juju/errors"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	waitRestartStartServer = 10 * time.Second
	webPort                = 8080
	dateLayout             = "2006-01-02"
)

// ConfigWeb конфигурация структуры Web
type ConfigWeb struct {
	Log *logrus.Logger

	WebPort uint
}

// Web служба WEB-сервисов. Инициализируется через NewWeb
type Web struct {
	ctx       context.Context
	log       *logrus.Entry
	validator *validator.Validator
	e         *echo.Echo

	patients   store.PatientStore
	medicalCtl controller.MedicalCtl

	webPort uint
}

// NewWeb конструктор структуры Web
func NewWeb(ctx context.Context, patients store.PatientStore, medicalCtl controller.MedicalCtl, config *ConfigWeb) (service.WebSvc, error) {
	if config == nil {
		return nil, errors.New("не установлена конфигурация")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	if patients == nil {
		return nil, errors.New("не передано хранилище пациентов")
	}
	if medicalCtl == nil {
		return nil, errors.New("не передан контроллер оценки показателей")
	}
	web := Web{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module": "web",
			"scope":  "service",
		}),
		validator: validator.Get(),
		e:         echo.New(),

		patients:   patients,
		medicalCtl: medicalCtl,

		webPort: webPort,
	}
	if config.WebPort != 0 {
		web.webPort = config.WebPort
	}

	web.e.HideBanner = true
	web.e.HidePort = true
	web.e.Use(middleware.Recover())
	web.e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	return &web, nil
}

// Serve запускает HTTP-сервер и перезапускает его при неожиданном завершении.
// Возвращает nil после завершения контекста
func (m Web) Serve() error {
	go func() {
		<-m.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = m.e.Shutdown(ctx)
	}()
	for {
		m.log.Infof("старт HTTP-сервера на порту :%d", m.webPort)
		err := m.e.Start(fmt.Sprintf(":%d", m.webPort))
		if m.ctx.Err() != nil {
			m.log.Info("HTTP-сервер остановлен")
			return nil
		}
		m.log.Errorf("сервер неожиданно завершил работу: %v", err)
		select {
		case <-m.ctx.Done():
			return nil
		case <-time.After(waitRestartStartServer):
		}
	}
}

// Ответ с сообщением об ошибке. NotFound превращается в 404, AlreadyExists в 409,
// ошибки валидации в 400
func (m Web) errorResponse(c echo.Context, err error) error {
	switch {
	case m.patients.IsNotFound(err):
		return c.JSON(http.StatusNotFound, map[string]string{"message": err.Error()})
	case errors.IsAlreadyExists(err):
		return c.JSON(http.StatusConflict, map[string]string{"message": err.Error()})
	case errors.IsNotValid(err):
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	default:
		m.log.Error(errors.ErrorStack(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "ошибка: " + err.Error()})
	}
}

// patientRequest тело запроса на добавление или изменение пациента
type patientRequest struct {
	ID                string `json:"id" conform:"trim"`
	Name              string `json:"name" conform:"trim" validate:"required"`
	Surname           string `json:"surname" conform:"trim" validate:"required"`
	Birthday          string `json:"birthday" conform:"trim"`
	NormalTemperature string `json:"normal_temperature" conform:"trim" validate:"required"`
	Systolic          int    `json:"systolic" validate:"gt=0"`
	Diastolic         int    `json:"diastolic" validate:"gt=0"`
}

// patientResponse описание пациента в ответе
type patientResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Surname           string `json:"surname"`
	Birthday          string `json:"birthday"`
	NormalTemperature string `json:"normal_temperature"`
	Systolic          int    `json:"systolic"`
	Diastolic         int    `json:"diastolic"`
}

// Преобразование запроса в PatientInfo
func (m Web) toPatientInfo(req patientRequest) (model.PatientInfo, error) {
	if err := m.validator.ValidateWithConform(&req); err != nil {
		return model.PatientInfo{}, errors.NewNotValid(err, "некорректные данные пациента")
	}
	temperature, err := decimal.NewFromString(req.NormalTemperature)
	if err != nil {
		return model.PatientInfo{}, errors.NotValidf("температура \"%s\"", req.NormalTemperature)
	}
	if !temperature.IsPositive() {
		return model.PatientInfo{}, errors.NotValidf("неположительная температура \"%s\"", req.NormalTemperature)
	}
	var birthday time.Time
	if req.Birthday != "" {
		if birthday, err = time.Parse(dateLayout, req.Birthday); err != nil {
			return model.PatientInfo{}, errors.NotValidf("дата рождения \"%s\"", req.Birthday)
		}
	}
	return model.PatientInfo{
		ID:       req.ID,
		Name:     req.Name,
		Surname:  req.Surname,
		Birthday: birthday,
		HealthInfo: model.HealthInfo{
			NormalTemperature: temperature,
			BloodPressure:     model.NewBloodPressure(req.Systolic, req.Diastolic),
		},
	}, nil
}

func toPatientResponse(patient model.PatientInfo) patientResponse {
	res := patientResponse{
		ID:                patient.ID,
		Name:              patient.Name,
		Surname:           patient.Surname,
		NormalTemperature: patient.HealthInfo.NormalTemperature.StringFixed(1),
		Systolic:          patient.HealthInfo.BloodPressure.High,
		Diastolic:         patient.HealthInfo.BloodPressure.Low,
	}
	if !patient.Birthday.IsZero() {
		res.Birthday = patient.Birthday.Format(dateLayout)
	}
	return res
}

// PatientApi хэндлеры работы со списком пациентов
func (m Web) PatientApi(path string) {
	m.e.GET(path, func(c echo.Context) error {
		patients, err := m.patients.List()
		if err != nil {
			return m.errorResponse(c, err)
		}
		res := make([]patientResponse, 0, len(patients))
		for _, p := range patients {
			res = append(res, toPatientResponse(p))
		}
		return c.JSON(http.StatusOK, res)
	})

	m.e.GET(path+"/:id", func(c echo.Context) error {
		patient, err := m.patients.GetByID(c.Param("id"))
		if err != nil {
			return m.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, toPatientResponse(*patient))
	})

	m.e.POST(path, func(c echo.Context) error {
		var req patientRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "некорректный JSON"})
		}
		patient, err := m.toPatientInfo(req)
		if err != nil {
			return m.errorResponse(c, err)
		}
		id, err := m.patients.Add(patient)
		if err != nil {
			return m.errorResponse(c, err)
		}
		return c.JSON(http.StatusCreated, map[string]string{"id": id})
	})

	m.e.PUT(path+"/:id", func(c echo.Context) error {
		var req patientRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "некорректный JSON"})
		}
		req.ID = c.Param("id")
		patient, err := m.toPatientInfo(req)
		if err != nil {
			return m.errorResponse(c, err)
		}
		if err = m.patients.Update(patient); err != nil {
			return m.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "ok"})
	})

	m.e.DELETE(path+"/:id", func(c echo.Context) error {
		if err := m.patients.Remove(c.Param("id")); err != nil {
			return m.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "ok"})
	})
}

// temperatureRequest тело запроса проверки температуры
type temperatureRequest struct {
	Temperature string `json:"temperature" conform:"trim" validate:"required"`
}

// MedicalApi хэндлеры ручной проверки показателей пациента
func (m Web) MedicalApi(path string) {
	m.e.POST(path+"/:id/pressure", func(c echo.Context) error {
		var req model.BloodPressure
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "некорректный JSON"})
		}
		if err := m.validator.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "некорректное давление: " + err.Error()})
		}
		if err := m.medicalCtl.CheckBloodPressure(c.Param("id"), req); err != nil {
			return m.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "ok"})
	})

	m.e.POST(path+"/:id/temperature", func(c echo.Context) error {
		var req temperatureRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "некорректный JSON"})
		}
		if err := m.validator.ValidateWithConform(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "не передана температура"})
		}
		temperature, err := decimal.NewFromString(req.Temperature)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("некорректная температура: %s", req.Temperature)})
		}
		if err = m.medicalCtl.CheckTemperature(c.Param("id"), temperature); err != nil {
			return m.errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "ok"})
	})
}
