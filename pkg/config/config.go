package config

import (
	"log"
	"os"
	"sync"

	"github.com/jinzhu/configor"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

var (
	config Config
	once   sync.Once
)

const FileName = "config.yaml"

// Get единажды читает и возвращает конфигурацию
func Get() *Config {
	return GetWithPath(FileName)
}

// GetWithPath единожды читает и возвращает конфигурацию
func GetWithPath(filepath string) *Config {
	once.Do(func() {
		cfg, err := Load(filepath)
		if err != nil {
			log.Fatalf("ошибка чтения файла конфигурации %s: %s", filepath, err)
		}
		config = *cfg
	})
	return &config
}

// Load читает конфигурацию из файла без кэширования
func Load(filepath string) (*Config, error) {
	if _, err := os.Stat(filepath); err != nil {
		return nil, errors.Annotate(err, "файл конфигурации недоступен")
	}
	var cfg Config
	if err := configor.Load(&cfg, filepath); err != nil {
		return nil, errors.Trace(err)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &cfg, nil
}

// Проверка значений, которые не выразить тегами configor
func (m Config) validate() error {
	drop, err := decimal.NewFromString(m.Medical.MaxTemperatureDrop)
	if err != nil {
		return errors.NotValidf("medical.maxtemperaturedrop \"%s\"", m.Medical.MaxTemperatureDrop)
	}
	if !drop.IsPositive() {
		return errors.NotValidf("medical.maxtemperaturedrop \"%s\" должно быть больше нуля", m.Medical.MaxTemperatureDrop)
	}
	return nil
}
