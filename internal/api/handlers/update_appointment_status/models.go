package update_appointment_status

import (
	"github.com/m04kA/SLN-BookingService/internal/service/appointments/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(caller models.Caller) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		Caller: caller,
		Status: r.Status,
	}
}
