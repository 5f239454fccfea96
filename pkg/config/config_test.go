package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "full.yaml")
	content := `
log:
  level: debug
  console: true
db:
  filename: test.sqlite
http:
  port: 9090
medical:
  maxtemperaturedrop: "2.0"
alert:
  address: ws://127.0.0.1:8000/alert
monitor:
  info:
    - id: 1
      address: ws://127.0.0.1:8001/feed
      name: палата 1
`
	if err := ioutil.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.yaml")
	if err := ioutil.WriteFile(empty, []byte("log:\n  console: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("полная конфигурация", func(t *testing.T) {
		cfg, err := Load(full)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Log.Level != "debug" || !cfg.Log.Console {
			t.Errorf("некорректный Log: %+v", cfg.Log)
		}
		if cfg.Http.Port != 9090 {
			t.Errorf("Http.Port = %d", cfg.Http.Port)
		}
		if cfg.Medical.MaxTemperatureDrop != "2.0" {
			t.Errorf("Medical.MaxTemperatureDrop = %s", cfg.Medical.MaxTemperatureDrop)
		}
		if len(cfg.Monitor.Info) != 1 || cfg.Monitor.Info[0].Address != "ws://127.0.0.1:8001/feed" {
			t.Errorf("некорректный Monitor: %+v", cfg.Monitor)
		}
	})

	t.Run("значения по умолчанию", func(t *testing.T) {
		cfg, err := Load(empty)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Log.Filename != "medical.log" {
			t.Errorf("Log.Filename = %s", cfg.Log.Filename)
		}
		if cfg.Db.Filename != "medical.sqlite" {
			t.Errorf("Db.Filename = %s", cfg.Db.Filename)
		}
		if cfg.Http.Port != 8080 {
			t.Errorf("Http.Port = %d", cfg.Http.Port)
		}
		if cfg.Medical.MaxTemperatureDrop != "1.5" {
			t.Errorf("Medical.MaxTemperatureDrop = %s", cfg.Medical.MaxTemperatureDrop)
		}
	})

	t.Run("нет файла", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("ожидалась ошибка")
		}
	})
}

func TestLoad_MaxTemperatureDrop(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "дробное", value: "0.5"},
		{name: "целое", value: "2"},
		{name: "ноль", value: "0", wantErr: true},
		{name: "отрицательное", value: "-1.5", wantErr: true},
		{name: "не число", value: "полтора", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "config.yaml")
			content := "medical:\n  maxtemperaturedrop: \"" + tt.value + "\"\n"
			if err := ioutil.WriteFile(file, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(file)
			if tt.wantErr {
				if !errors.IsNotValid(err) {
					t.Errorf("Load() error = %v, ожидалась ошибка валидации", err)
				}
				return
			}
			if err != nil {
				t.Fatal(errors.ErrorStack(err))
			}
			if cfg.Medical.MaxTemperatureDrop != tt.value {
				t.Errorf("Medical.MaxTemperatureDrop = %s, want %s", cfg.Medical.MaxTemperatureDrop, tt.value)
			}
		})
	}
}
