package logger

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Сколько кадров стека пропускать, чтобы выйти за пределы logrus
const maxCallerDepth = 15

// LogrusContextHook добавляет в запись лога поле source с файлом и строкой вызова
type LogrusContextHook struct{}

// Levels уровни, на которых срабатывает хук
func (hook LogrusContextHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire добавление поля source
func (hook LogrusContextHook) Fire(entry *logrus.Entry) error {
	pc := make([]uintptr, maxCallerDepth)
	n := runtime.Callers(4, pc)
	frames := runtime.CallersFrames(pc[:n])
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "sirupsen/logrus") {
			entry.Data["source"] = fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
			break
		}
		if !more {
			break
		}
	}
	return nil
}
