package alert

import (
	"github.com/kirsrus/medical/server/pkg/logger"
	"github.com/kirsrus/medical/server/service"

	"github.com/sirupsen/logrus"
)

// Log отправка тревог в лог программы. Имплементирует интерфейс AlertSvc
type Log struct {
	log *logrus.Entry
}

// NewLog конструктор Log
func NewLog(log *logrus.Logger) service.AlertSvc {
	if log == nil {
		log = logger.Discard()
	}
	return &Log{
		log: log.WithFields(map[string]interface{}{
			"module": "alert",
			"scope":  "service",
		}),
	}
}

// Send записывает тревожное сообщение в лог
func (m Log) Send(message string) {
	m.log.Warn(message)
}

// Multi рассылка тревоги сразу по нескольким службам
type Multi []service.AlertSvc

// NewMulti конструктор Multi. Пустые службы пропускаются
func NewMulti(senders ...service.AlertSvc) service.AlertSvc {
	multi := make(Multi, 0, len(senders))
	for _, s := range senders {
		if s != nil {
			multi = append(multi, s)
		}
	}
	return multi
}

// Send отправляет сообщение по очереди во все службы
func (m Multi) Send(message string) {
	for _, s := range m {
		s.Send(message)
	}
}
