package config

type (

	// Config конфигурация программы
	Config struct {

		// Описание логирования
		Log struct {

			// Путь к директории лога
			Path string

			// Имя файла логирования
			Filename string `required:"true" default:"medical.log"`

			// Уровень логирования
			Level string `required:"true" default:"warning"`

			// Выводить лог только на консоль
			Console bool `default:"false"`
		}

		// Описываем подключение к базе данных
		Db struct {

			// Тип базы данных (пока поддерживается только sqlite)
			Type string `default:"sqlite"`

			// Имя файла базы данных
			Filename string `required:"true" default:"medical.sqlite"`
		}

		// Обслуживание WEB-сервера
		Http struct {

			// Порт WEB-сервера
			Port uint `required:"true" default:"8080"`
		}

		// Правила оценки показателей пациента
		Medical struct {

			// Насколько градусов температура может опуститься ниже нормы пациента,
			// прежде чем будет отправлена тревога. Строка в десятичном формате, например "1.5".
			// Должно быть больше нуля, иначе Load вернёт ошибку
			MaxTemperatureDrop string `default:"1.5"`
		}

		// Пост приёма тревог
		Alert struct {

			// Адрес WebSocket канала поста, например ws://127.0.0.1:8000/alert.
			// Если не задан, тревоги пишутся только в лог
			Address string
		}

		// Описание прикроватных мониторов
		Monitor struct {

			// Адреса мониторов
			Info []struct {

				// Идентификатор монитора
				ID uint `required:"true"`

				// Адрес WebSocket монитора, например ws://192.168.36.3:8000/feed
				Address string `required:"true" default:""`

				// Имя монитора
				Name string
			}
		}
	}
)
