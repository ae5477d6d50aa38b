package create_appointment

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	createAppointment "github.com/m04kA/SLN-BookingService/internal/usecase/create_appointment"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
// ClientID указывается только при записи сотрудником от имени клиента,
// для самозаписи берется ID аутентифицированного пользователя
type CreateAppointmentRequest struct {
	SalonID   int64   `json:"salonId"`
	ClientID  *int64  `json:"clientId,omitempty"`
	ServiceID int64   `json:"serviceId"`
	Date      string  `json:"date"`      // "2026-03-02"
	StartTime string  `json:"startTime"` // "10:00"
	Notes     *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	SalonID         int64   `json:"salonId"`
	ClientID        int64   `json:"clientId"`
	ServiceID       int64   `json:"serviceId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	Origin          string  `json:"origin"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	ClientName      *string `json:"clientName,omitempty"`
	ClientPhone     *string `json:"clientPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Запись от сотрудника (указан clientId) получает origin staff
func (r *CreateAppointmentRequest) ToUseCaseRequest(callerID int64, isStaff bool) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	clientID := callerID
	origin := domain.OriginClient
	if isStaff && r.ClientID != nil {
		clientID = *r.ClientID
		origin = domain.OriginStaff
	}

	return &createAppointment.Request{
		SalonID:   r.SalonID,
		ClientID:  clientID,
		ServiceID: r.ServiceID,
		Date:      date,
		StartTime: startTime,
		Origin:    origin,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		SalonID:         resp.SalonID,
		ClientID:        resp.ClientID,
		ServiceID:       resp.ServiceID,
		Date:            resp.Date.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		Origin:          resp.Origin,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		ClientName:      resp.ClientName,
		ClientPhone:     resp.ClientPhone,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
