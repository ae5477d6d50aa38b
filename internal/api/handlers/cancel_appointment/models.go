package cancel_appointment

import (
	"github.com/m04kA/SLN-BookingService/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model
type CancelAppointmentRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest(caller models.Caller) *models.CancelAppointmentRequest {
	return &models.CancelAppointmentRequest{
		Caller:             caller,
		CancellationReason: r.CancellationReason,
	}
}
