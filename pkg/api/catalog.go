package api

import "time"

// IconRequest представляет запрос на создание или обновление иконки
type IconRequest struct {
	URL            string `json:"url"`             // основной URL
	AlternativeURL string `json:"alternative_url"` // запасной URL
}

// OperatingSystemRequest представляет запрос на создание или обновление ОС
type OperatingSystemRequest struct {
	Name string `json:"name"` // название операционной системы
}

// SoftwareRequest представляет запрос на создание или обновление приложения
type SoftwareRequest struct {
	Name              string    `json:"name"`                // название
	ShortDescription  string    `json:"short_description"`   // краткое описание
	FullDescription   string    `json:"full_description"`    // полное описание
	Version           string    `json:"version"`             // версия
	SourceURL         string    `json:"source_url"`          // URL источника
	ReleaseDate       time.Time `json:"release_date"`        // дата релиза
	IconID            int64     `json:"icon_id"`             // FK на иконку
	OperatingSystemID int64     `json:"operating_system_id"` // FK на ОС
}

// SoftwareListRequest представляет запрос на создание пользовательского списка
type SoftwareListRequest struct {
	Name string `json:"name"` // название списка
}

// ErrorResponse представляет ответ с ошибкой для catalog endpoints
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
