package monitor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kirsrus/medical/server/model"
	"github.com/kirsrus/medical/server/pkg/logger"
	"github.com/kirsrus/medical/server/pkg/validator"
	"github.com/kirsrus/medical/server/service"

	"github.com/gorilla/websocket"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

const (
	MaximumResultChan = 20
	ReconnectTimeout  = 5 * time.Second
)

// Тип текущего состояния подключения к монитору
type connectType int

const (
	connectUnknown = iota
	connectSuccess
	connectFailed
)

// Websocket имплементация подключения к прикроватному монитору по WebSocket. Инициируется
// через NewWebsocket. Постоянно держит соединение, пока не завершён контекст.
type Websocket struct {
	monitorInfo      model.MonitorInfo
	ctx              context.Context
	log              *logrus.Entry
	validator        *validator.Validator
	reconnectTimeout time.Duration
	// Канал передачи результата
	resultChan    chan model.Observation
	connectedFlag connectType
}

// ConfigWebsocket конфигурация Websocket
type ConfigWebsocket struct {
	Log              *logrus.Logger
	MonitorInfo      model.MonitorInfo
	ReconnectTimeout time.Duration
}

// NewWebsocket конструктор структуры Websocket
func NewWebsocket(ctx context.Context, config *ConfigWebsocket) (service.MonitorSvc, error) {
	valid := validator.Get()
	if config == nil {
		return nil, errors.New("не задана конфигурация config")
	}
	if err := valid.ValidateWithConform(&config.MonitorInfo); err != nil {
		return nil, errors.Annotate(err, "некорректное описание монитора")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}

	res := &Websocket{
		monitorInfo: config.MonitorInfo,
		ctx:         ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module":  "monitor",
			"scope":   "service",
			"id":      config.MonitorInfo.ID,
			"address": config.MonitorInfo.URL,
		}),
		validator:        valid,
		reconnectTimeout: ReconnectTimeout,
		resultChan:       make(chan model.Observation, MaximumResultChan),
		connectedFlag:    connectUnknown,
	}
	if config.ReconnectTimeout != 0 {
		res.reconnectTimeout = config.ReconnectTimeout
	}

	// Запускаем бесконечный цикл переподключения к монитору.
	go res.loop()

	return res, nil
}

// Бесконечный цикл обращения к WebSocket монитора. При завершении работы через context.Cancel просто
// завершаем его обработку
func (m *Websocket) loop() {
	m.log.Info("старт работы модуля")

	for {
		select {
		case <-m.ctx.Done():
			m.log.Info("завершение работы модуля")
			return
		default:
		}

		err := m.connect()

		if err != nil && err.Error() != context.Canceled.Error() {
			select {
			case <-m.ctx.Done():
			case <-time.After(m.reconnectTimeout):
			}
		}
	}
}

// Подключение по WebSocket к монитору
func (m *Websocket) connect() error {
	read := make(chan []byte, 10)
	done := make(chan error, 1)

	conn, _, err := websocket.DefaultDialer.DialContext(m.ctx, m.monitorInfo.URL, nil)
	if err != nil {
		if m.connectedFlag == connectUnknown || m.connectedFlag == connectSuccess {
			m.log.Warnf("ошибка подключения: %v", err)
		}
		m.connectedFlag = connectFailed
		return errors.Trace(err)
	}
	defer func() { _ = conn.Close() }()
	if m.connectedFlag == connectUnknown || m.connectedFlag == connectFailed {
		m.log.Infof("подключение установлено")
		m.connectedFlag = connectSuccess
	}

	// Бесконечно читаем из канала WebSocket
	go func() {
		for {
			tpe, message, err := conn.ReadMessage()
			if err != nil {
				if m.ctx.Err() == nil {
					m.log.Warnf("ошибка чтения из WebSocket: %v", err)
				}
				done <- errors.Trace(err)
				return
			}
			if tpe != websocket.TextMessage {
				m.log.Warnf("пропущено нетиповое послание типа %d, размера %d", tpe, len(message))
				continue
			}

			select {
			case <-m.ctx.Done():
				return
			case read <- message:
			default:
				m.log.Warnf("очередь read переполнена")
			}
		}
	}()

	// Обрабатываем результат чтения
	for {
		select {
		case <-m.ctx.Done():
			return m.ctx.Err()
		case err := <-done:
			return err
		case message := <-read:
			msg := model.MonitorMessage{}
			if err = json.Unmarshal(message, &msg); err != nil {
				m.log.Warnf("пришёл некорректный json \"%s\" с ошибкой: %s", string(message), err.Error())
				continue
			}
			if err = m.validator.ValidateWithConform(&msg); err != nil {
				m.log.Warnf("ошибка нормализации полученного json: %v", err)
				continue
			}
			observation, err := msg.Observation(m.monitorInfo.ID, time.Now())
			if err != nil {
				m.log.Warnf("ошибка валидации полученного json: %v", err)
				continue
			}

			select {
			case m.resultChan <- *observation:
			default:
				m.log.Warnf("канал resultChan переполнен")
			}
		}
	}
}

// EmmitObservation ожидает замер от монитора и возвращает его.
// В случае штатного завершения работы, возвращается ошибка context.Canceled
func (m *Websocket) EmmitObservation() (*model.Observation, error) {
	select {
	case result := <-m.resultChan:
		return &result, nil
	case <-m.ctx.Done():
		return nil, m.ctx.Err()
	}
}
