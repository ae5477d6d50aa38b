package models

import (
	"time"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/infra/cache/schedulecache"
)

// Request модели

// Caller идентификация вызывающего, прокинутая из middleware
type Caller struct {
	UserID  int64
	IsStaff bool
}

// DayInput рабочее окно одного дня недели
type DayInput struct {
	Weekday  int    `json:"weekday"`  // 0 = Sunday ... 6 = Saturday
	OpensAt  string `json:"opensAt"`  // "09:00"
	ClosesAt string `json:"closesAt"` // "18:00", допускается "24:00"
	IsActive bool   `json:"isActive"`
}

// ClosedDayInput дата полного закрытия салона
type ClosedDayInput struct {
	Date   string  `json:"date"` // "2026-03-08"
	Reason *string `json:"reason,omitempty"`
}

// ConfigInput настройки бронирования салона
type ConfigInput struct {
	SlotGranularityMinutes int  `json:"slotGranularityMinutes"`
	AutoConfirm            bool `json:"autoConfirm"`
}

// UpdateScheduleRequest запрос на обновление календарных правил
// Все секции опциональны - обновляются только переданные
type UpdateScheduleRequest struct {
	Caller           Caller           `json:"-"`
	SalonID          int64            `json:"-"`
	Days             []DayInput       `json:"days,omitempty"`
	AddClosedDays    []ClosedDayInput `json:"addClosedDays,omitempty"`
	RemoveClosedDays []string         `json:"removeClosedDays,omitempty"`
	Config           *ConfigInput     `json:"config,omitempty"`
}

// Response модели

// DayResponse рабочее окно одного дня недели
type DayResponse struct {
	Weekday  int    `json:"weekday"`
	OpensAt  string `json:"opensAt"`
	ClosesAt string `json:"closesAt"`
	IsActive bool   `json:"isActive"`
}

// ClosedDayResponse дата полного закрытия салона
type ClosedDayResponse struct {
	Date   string  `json:"date"`
	Reason *string `json:"reason,omitempty"`
}

// ConfigResponse настройки бронирования салона
type ConfigResponse struct {
	SlotGranularityMinutes int  `json:"slotGranularityMinutes"`
	AutoConfirm            bool `json:"autoConfirm"`
}

// ScheduleResponse полный снимок календарных правил салона
type ScheduleResponse struct {
	SalonID    int64               `json:"salonId"`
	Days       []DayResponse       `json:"days"`
	ClosedDays []ClosedDayResponse `json:"closedDays"`
	Config     ConfigResponse      `json:"config"`
}

// Методы конвертации

// FromSnapshot конвертирует кэшируемый снапшот в DTO
func FromSnapshot(snap *schedulecache.Snapshot) *ScheduleResponse {
	if snap == nil {
		return nil
	}

	resp := &ScheduleResponse{
		SalonID:    snap.SalonID,
		Days:       make([]DayResponse, 0, len(snap.Days)),
		ClosedDays: make([]ClosedDayResponse, 0, len(snap.ClosedDays)),
	}

	for _, day := range snap.Days {
		resp.Days = append(resp.Days, DayResponse{
			Weekday:  int(day.Weekday),
			OpensAt:  day.OpensAt.String(),
			ClosesAt: day.ClosesAt.String(),
			IsActive: day.IsActive,
		})
	}

	for _, closed := range snap.ClosedDays {
		resp.ClosedDays = append(resp.ClosedDays, ClosedDayResponse{
			Date:   closed.Date.Format(domain.DateFormat),
			Reason: closed.Reason,
		})
	}

	if snap.Config != nil {
		resp.Config = ConfigResponse{
			SlotGranularityMinutes: snap.Config.SlotGranularityMinutes,
			AutoConfirm:            snap.Config.AutoConfirm,
		}
	}

	return resp
}

// ParseClosedDate разбирает дату закрытия из строки запроса
func ParseClosedDate(raw string) (time.Time, error) {
	return time.Parse(domain.DateFormat, raw)
}
