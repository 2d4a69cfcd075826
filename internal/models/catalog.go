package models

import "time"

// Icon представляет иконку приложения
type Icon struct {
	ID             int64  `json:"id"`              // ID иконки
	URL            string `json:"url"`             // основной URL иконки
	AlternativeURL string `json:"alternative_url"` // запасной URL иконки
}

// OperatingSystem представляет поддерживаемую операционную систему
type OperatingSystem struct {
	ID   int64  `json:"id"`   // ID операционной системы
	Name string `json:"name"` // название ("Linux", "Windows", ...)
}

// Software представляет запись каталога приложений
type Software struct {
	ID                int64     `json:"id"`                  // ID приложения
	Name              string    `json:"name"`                // название
	ShortDescription  string    `json:"short_description"`   // краткое описание
	FullDescription   string    `json:"full_description"`    // полное описание
	Version           string    `json:"version"`             // версия
	SourceURL         string    `json:"source_url"`          // URL источника
	ReleaseDate       time.Time `json:"release_date"`        // дата релиза
	IconID            int64     `json:"icon_id"`             // FK на Icon
	OperatingSystemID int64     `json:"operating_system_id"` // FK на OperatingSystem
}

// SoftwareList представляет пользовательский список приложений
type SoftwareList struct {
	ID          int64   `json:"id"`           // ID списка
	Name        string  `json:"name"`         // название списка
	UserID      string  `json:"user_id"`      // владелец списка
	SoftwareIDs []int64 `json:"software_ids"` // приложения в списке (m2m)
}
