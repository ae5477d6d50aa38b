package create_appointment

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	SalonID   int64                    // ID салона
	ClientID  int64                    // ID клиента
	ServiceID int64                    // ID услуги
	Date      time.Time                // Дата записи (без времени)
	StartTime types.TimeString         // Время начала слота (например, "10:00")
	Origin    domain.AppointmentOrigin // Кто создает запись: клиент или персонал
	Notes     *string                  // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	SalonID         int64            // ID салона
	ClientID        int64            // ID клиента
	ServiceID       int64            // ID услуги
	Date            time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	EndTime         types.TimeString // Время окончания (заморожено при создании)
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус записи (pending или confirmed)
	Origin          string           // Происхождение записи

	// Денормализованные данные
	ServiceName  string  // Название услуги
	ServicePrice float64 // Цена услуги
	ClientName   *string // Имя клиента
	ClientPhone  *string // Телефон клиента
	Notes        *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
