package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SLN-BookingService/internal/api/handlers"
	"github.com/m04kA/SLN-BookingService/internal/api/middleware"
	scheduleService "github.com/m04kA/SLN-BookingService/internal/service/schedule"
	"github.com/m04kA/SLN-BookingService/internal/service/schedule/models"
)

const (
	msgInvalidSalonID     = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidSchedule    = "некорректные данные расписания"
	msgClosedDayExists    = "дата закрытия уже добавлена"
	msgClosedDayNotFound  = "дата закрытия не найдена"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/salons/{salonId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	salonIDStr := vars["salonId"]

	salonID, err := strconv.ParseInt(salonIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /salons/{id}/schedule - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /salons/{id}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /salons/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	req.SalonID = salonID
	req.Caller = models.Caller{UserID: userID, IsStaff: middleware.IsStaff(r.Context())}

	result, err := h.service.UpdateSchedule(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, scheduleService.ErrAccessDenied):
			h.logger.Warn("PUT /salons/{id}/schedule - Access denied: salon_id=%d, user_id=%d", salonID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, scheduleService.ErrInvalidWeekday),
			errors.Is(err, scheduleService.ErrInvalidTimeRange),
			errors.Is(err, scheduleService.ErrInvalidGranularity),
			errors.Is(err, scheduleService.ErrInvalidInput):
			h.logger.Warn("PUT /salons/{id}/schedule - Invalid schedule data: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidSchedule)

		case errors.Is(err, scheduleService.ErrClosedDayExists):
			h.logger.Warn("PUT /salons/{id}/schedule - Closed day exists: salon_id=%d, error=%v", salonID, err)
			handlers.RespondError(w, http.StatusConflict, msgClosedDayExists)

		case errors.Is(err, scheduleService.ErrClosedDayNotFound):
			h.logger.Warn("PUT /salons/{id}/schedule - Closed day not found: salon_id=%d, error=%v", salonID, err)
			handlers.RespondNotFound(w, msgClosedDayNotFound)

		default:
			h.logger.Error("PUT /salons/{id}/schedule - Failed to update schedule: salon_id=%d, error=%v",
				salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /salons/{id}/schedule - Schedule updated successfully: salon_id=%d, user_id=%d",
		salonID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
