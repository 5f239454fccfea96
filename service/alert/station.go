package alert

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kirsrus/medical/server/pkg/logger"
	"github.com/kirsrus/medical/server/pkg/validator"
	"github.com/kirsrus/medical/server/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/juju/errors"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	writeChanCapacity    = 20
	ackExpiration        = time.Minute      // Сколько ждём подтверждения тревоги от поста
	cacheCleanupInterval = 10 * time.Second // Интервал очистки неподтверждённых тревог
	reconnectTimeout     = 10 * time.Second
)

// Тип текущего состояния подключения к посту
type connectType int

const (
	connectUnknown = iota
	connectSuccess
	connectFailed
)

// StationAlert тревога, отправляемая на пост
type StationAlert struct {
	UidAlert  string    `json:"uid_alert"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// StationAck подтверждение получения тревоги от поста
type StationAck struct {
	UidAlert string `json:"uid_alert" conform:"trim" validate:"required"`
}

// Station отправка тревог на пост дежурной медсестры по WebSocket. Имплементирует
// интерфейс AlertSvc. Инициируется конструктором NewStation
type Station struct {
	ctx              context.Context
	log              *logrus.Entry
	stationUrl       string
	reconnectTimeout time.Duration
	connectedFlag    connectType
	writeChan        chan []byte // Канал отправки данных на пост
	// Отправленные, но ещё не подтверждённые постом тревоги
	pending   *cache.Cache
	validator *validator.Validator
}

// ConfigStation конфигурация конструктора NewStation
type ConfigStation struct {
	Log              *logrus.Logger
	StationUrl       string `conform:"trim" validate:"required,websocket"`
	ReconnectTimeout time.Duration
	AckExpiration    time.Duration
}

// NewStation конструктор Station
func NewStation(ctx context.Context, config *ConfigStation) (service.AlertSvc, error) {
	if config == nil {
		return nil, errors.New("не задана конфигурация config")
	} else if err := validator.Get().ValidateWithConform(config); err != nil {
		return nil, errors.Annotate(err, "ошибка в конфигурации")
	}
	if config.Log == nil {
		config.Log = logger.Discard()
	}
	ackExp := ackExpiration
	if config.AckExpiration != 0 {
		ackExp = config.AckExpiration
	}

	station := &Station{
		ctx: ctx,
		log: config.Log.WithFields(map[string]interface{}{
			"module":  "station",
			"scope":   "service",
			"address": config.StationUrl,
		}),
		stationUrl:       config.StationUrl,
		reconnectTimeout: reconnectTimeout,
		connectedFlag:    connectUnknown,
		writeChan:        make(chan []byte, writeChanCapacity),
		pending:          cache.New(ackExp, cacheCleanupInterval),
		validator:        validator.Get(),
	}
	if config.ReconnectTimeout != 0 {
		station.reconnectTimeout = config.ReconnectTimeout
	}
	station.pending.OnEvicted(func(uid string, value interface{}) {
		if alert, ok := value.(StationAlert); ok && time.Since(alert.CreatedAt) >= ackExp {
			station.log.Warnf("пост не подтвердил тревогу %s: %s", uid, alert.Message)
		}
	})

	go station.loop()

	return station, nil
}

// Кольцевое обращение к посту
func (m *Station) loop() {
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

// Подключение по WebSocket к посту
func (m *Station) connect() error {
	conn, _, err := websocket.DefaultDialer.DialContext(m.ctx, m.stationUrl, nil)
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

	g, ctx := errgroup.WithContext(m.ctx)

	// Закрываем соединение при завершении работы, чтобы разблокировать чтение
	g.Go(func() error {
		<-ctx.Done()
		_ = conn.Close()
		return nil
	})

	// Чтение подтверждений из канала
	g.Go(func() error {
		for {
			tpe, message, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				m.log.Warnf("ошибка чтения из WebSocket: %v", err)
				return errors.Trace(err)
			}
			if tpe != websocket.TextMessage {
				m.log.Warnf("пропущено нетиповое послание типа %d, размера %d", tpe, len(message))
				continue
			}
			var ack StationAck
			if err = json.Unmarshal(message, &ack); err != nil {
				m.log.Errorf("не удалось распаковать JSON от поста: %v", err)
				continue
			}
			if err = m.validator.ValidateWithConform(&ack); err != nil {
				m.log.Errorf("ошибка валидации подтверждения от поста: %v", err)
				continue
			}
			if _, found := m.pending.Get(ack.UidAlert); found {
				m.log.Debugf("пост подтвердил тревогу %s", ack.UidAlert)
				m.pending.Delete(ack.UidAlert)
			}
		}
	})

	// Запись в канал
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case write := <-m.writeChan:
				if err := conn.WriteMessage(websocket.TextMessage, write); err != nil {
					m.log.Warnf("ошибка записи в WebSocket: %v", err)
					return errors.Trace(err)
				}
			}
		}
	})

	err = g.Wait()
	return errors.Trace(err)
}

// Send ставит тревогу в очередь отправки на пост. При переполненной очереди тревога
// пропускается с предупреждением в логе
func (m *Station) Send(message string) {
	alert := StationAlert{
		UidAlert:  uuid.New().String(),
		Message:   message,
		CreatedAt: time.Now(),
	}
	msg, err := json.Marshal(&alert)
	if err != nil {
		m.log.Errorf("ошибка создания JSON: %v", err)
		return
	}

	m.pending.SetDefault(alert.UidAlert, alert)
	select {
	case m.writeChan <- msg:
		m.log.Debugf("тревога %s поставлена в очередь: %s", alert.UidAlert, message)
	default:
		m.pending.Delete(alert.UidAlert)
		m.log.Warnf("канал writeChan переполнен, тревога пропущена: %s", message)
	}
}

// Pending количество отправленных, но не подтверждённых постом тревог
func (m *Station) Pending() int {
	return m.pending.ItemCount()
}
