package get_available_slots

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	SalonID   int64     // ID салона
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time     // Дата, на которую запрашивались слоты
	SalonID   int64         // ID салона
	ServiceID int64         // ID услуги
	Slots     []domain.Slot // Доступные слоты по возрастанию времени начала
}
