package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/kirsrus/medical/server/controller/manager"
	medicalCtlMod "github.com/kirsrus/medical/server/controller/medical"
	"github.com/kirsrus/medical/server/model"
	"github.com/kirsrus/medical/server/pkg/config"
	"github.com/kirsrus/medical/server/pkg/logger"
	"github.com/kirsrus/medical/server/service"
	alertSvcMod "github.com/kirsrus/medical/server/service/alert"
	monitorSvcMod "github.com/kirsrus/medical/server/service/monitor"
	webSvcMod "github.com/kirsrus/medical/server/service/web"
	dbStoreMod "github.com/kirsrus/medical/server/store/db"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	cfg *config.Config
	log *logrus.Logger
)

func init() {
	cfg = config.Get()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	log = logger.GetWithConfig(logger.Config{
		Path:    cfg.Log.Path,
		File:    cfg.Log.Filename,
		Level:   level,
		Console: cfg.Log.Console,
	})
}

func main() {

	err := run()
	if err != nil {
		fmt.Printf("ОШИБКА: в процессе работы произошла ошибка: %v\n", err)
		fmt.Printf("Для подробностей смотри лог: %s\n", filepath.Join(cfg.Log.Path, cfg.Log.Filename))
		log.Fatal(errors.ErrorStack(err))
	}
}

func run() error {
	// Отлавливаем сигнал завершения работы программы
	chanInterrupt := make(chan os.Signal, 1)
	signal.Notify(chanInterrupt, os.Interrupt)

	done := make(chan error, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// region Настройка БД

	if cfg.Db.Type != "sqlite" {
		return errors.Errorf("неподдерживаемый тип базы данных: %s", cfg.Db.Type)
	}
	dbStore, err := dbStoreMod.NewDb(ctx, &dbStoreMod.ConfigDb{
		Log:    log,
		DbFile: cfg.Db.Filename,
	})
	if err != nil {
		return errors.Trace(err)
	}

	// endregion
	// region Отправка тревог
	// Тревоги всегда пишутся в лог, а при заданном адресе поста - ещё и на пост

	alertSvc := alertSvcMod.NewLog(log)
	if cfg.Alert.Address != "" {
		stationSvc, err := alertSvcMod.NewStation(ctx, &alertSvcMod.ConfigStation{
			Log:        log,
			StationUrl: cfg.Alert.Address,
		})
		if err != nil {
			return errors.Trace(err)
		}
		alertSvc = alertSvcMod.NewMulti(alertSvc, stationSvc)
	}

	// endregion
	// region Оценка показателей

	maxTemperatureDrop, err := decimal.NewFromString(cfg.Medical.MaxTemperatureDrop)
	if err != nil {
		return errors.Annotatef(err, "некорректное значение medical.maxtemperaturedrop \"%s\"", cfg.Medical.MaxTemperatureDrop)
	}
	medicalCtl, err := medicalCtlMod.NewMedical(dbStore, alertSvc, &medicalCtlMod.ConfigMedical{
		Log:                log,
		MaxTemperatureDrop: maxTemperatureDrop,
	})
	if err != nil {
		return errors.Trace(err)
	}

	// endregion
	// region Инициализация мониторов

	monitors := make([]service.MonitorSvc, 0)
	for _, i := range cfg.Monitor.Info {
		monitorSvc, err := monitorSvcMod.NewWebsocket(ctx, &monitorSvcMod.ConfigWebsocket{
			Log: log,
			MonitorInfo: model.MonitorInfo{
				ID:   i.ID,
				URL:  i.Address,
				Name: i.Name,
			},
		})
		if err != nil {
			return errors.Trace(err)
		}
		monitors = append(monitors, monitorSvc)
	}

	// endregion
	// region Контроллер WEB

	webSvc, err := webSvcMod.NewWeb(ctx, dbStore, medicalCtl, &webSvcMod.ConfigWeb{
		Log:     log,
		WebPort: cfg.Http.Port,
	})
	if err != nil {
		return errors.Trace(err)
	}

	webSvc.PatientApi("/api/patient")
	webSvc.MedicalApi("/api/patient")

	// endregion
	// region Менеджер управления всеми

	managerCtl, err := manager.NewManager(ctx, &manager.ConfigManager{
		Log:        log,
		MedicalCtl: medicalCtl,
		Monitors:   monitors,
		Patients:   dbStore,
	})
	if err != nil {
		return errors.Trace(err)
	}

	go func() { done <- errors.Trace(managerCtl.Serve()) }()
	go func() { done <- errors.Trace(webSvc.Serve()) }()

	// endregion

	// Процесс завершения работы
	select {
	case err := <-done:
		return errors.Trace(err)
	case <-chanInterrupt:
		log.Info("получена по каналу interrupt команда на завершение работы программы")
		cancel()
		time.Sleep(time.Second)
		return nil
	}
}
