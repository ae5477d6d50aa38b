package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/events"
	appointmentRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/appointment"
	"github.com/m04kA/SLN-BookingService/internal/service/appointments/models"
	"github.com/m04kA/SLN-BookingService/pkg/ptr"
)

// --- Тестовые дублеры ---

type fakeRepo struct {
	byID         map[int64]*domain.Appointment
	byClient     []*domain.Appointment
	bySalon      []*domain.Appointment
	updateCalls  []domain.AppointmentStatus
	cancelCalls  []int64
	cancelReason string
	lastFilter   domain.SalonAppointmentsFilter
	lastStatus   *domain.AppointmentStatus
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := r.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (r *fakeRepo) GetByClientID(_ context.Context, _ int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	r.lastStatus = status
	return r.byClient, nil
}

func (r *fakeRepo) GetBySalonWithFilter(_ context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	r.lastFilter = filter
	return r.bySalon, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	if _, ok := r.byID[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	r.updateCalls = append(r.updateCalls, status)
	r.byID[id].Status = status
	return nil
}

func (r *fakeRepo) Cancel(_ context.Context, id int64, reason string) error {
	if _, ok := r.byID[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	r.cancelCalls = append(r.cancelCalls, id)
	r.cancelReason = reason
	r.byID[id].Status = domain.StatusCancelled
	return nil
}

type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(event events.Event) {
	p.events = append(p.events, event)
}

type captureMetrics struct {
	transitions []string // from->to
}

func (m *captureMetrics) RecordStatusTransition(from, to string) {
	m.transitions = append(m.transitions, from+"->"+to)
}

type nopLogger struct{}

func (l *nopLogger) Info(string, ...interface{})  {}
func (l *nopLogger) Warn(string, ...interface{})  {}
func (l *nopLogger) Error(string, ...interface{}) {}

func newAppointment(id, clientID int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:        id,
		SalonID:   1,
		ClientID:  clientID,
		ServiceID: 10,
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "11:00",
		Status:    status,
	}
}

type testEnv struct {
	repo      *fakeRepo
	publisher *capturePublisher
	metrics   *captureMetrics
	service   *Service
}

func newTestEnv(appts ...*domain.Appointment) *testEnv {
	repo := &fakeRepo{byID: make(map[int64]*domain.Appointment)}
	for _, appt := range appts {
		repo.byID[appt.ID] = appt
	}
	publisher := &capturePublisher{}
	metrics := &captureMetrics{}
	return &testEnv{
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		service:   NewService(repo, publisher, metrics, &nopLogger{}),
	}
}

var (
	client = models.Caller{UserID: 100, IsStaff: false}
	other  = models.Caller{UserID: 200, IsStaff: false}
	staff  = models.Caller{UserID: 1, IsStaff: true}
)

// --- GetByID ---

func TestGetByID(t *testing.T) {
	t.Run("owner sees own appointment", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusPending))

		resp, err := env.service.GetByID(context.Background(), 1, client)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
		assert.Equal(t, "pending", resp.Status)
	})

	t.Run("staff sees any appointment", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusPending))

		_, err := env.service.GetByID(context.Background(), 1, staff)
		assert.NoError(t, err)
	})

	t.Run("other client is denied", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusPending))

		_, err := env.service.GetByID(context.Background(), 1, other)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing appointment", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.service.GetByID(context.Background(), 42, staff)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

// --- История клиента ---

func TestGetClientAppointments(t *testing.T) {
	t.Run("client reads own history", func(t *testing.T) {
		env := newTestEnv()
		env.repo.byClient = []*domain.Appointment{
			newAppointment(1, 100, domain.StatusCompleted),
			newAppointment(2, 100, domain.StatusPending),
		}

		resp, err := env.service.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
			Caller:   client,
			ClientID: 100,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 2)
	})

	t.Run("foreign history requires staff", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.service.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
			Caller:   other,
			ClientID: 100,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)

		_, err = env.service.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
			Caller:   staff,
			ClientID: 100,
		})
		assert.NoError(t, err)
	})

	t.Run("status filter passed to repository", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.service.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
			Caller:   client,
			ClientID: 100,
			Status:   ptr.Ptr("completed"),
		})
		require.NoError(t, err)
		require.NotNil(t, env.repo.lastStatus)
		assert.Equal(t, domain.StatusCompleted, *env.repo.lastStatus)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.service.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
			Caller:   client,
			ClientID: 100,
			Status:   ptr.Ptr("archived"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

// --- Записи салона ---

func TestGetSalonAppointments(t *testing.T) {
	t.Run("staff only", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.service.GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
			Caller:  client,
			SalonID: 1,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("filter forwarded to repository", func(t *testing.T) {
		env := newTestEnv()
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)

		_, err := env.service.GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
			Caller:          staff,
			SalonID:         1,
			StartDate:       &start,
			EndDate:         &end,
			Status:          ptr.Ptr("confirmed"),
			IncludeInactive: true,
		})
		require.NoError(t, err)

		filter := env.repo.lastFilter
		assert.Equal(t, int64(1), filter.SalonID)
		require.NotNil(t, filter.StartDate)
		assert.Equal(t, start, *filter.StartDate)
		require.NotNil(t, filter.Status)
		assert.Equal(t, domain.StatusConfirmed, *filter.Status)
		assert.True(t, filter.IncludeInactive)
	})

	t.Run("invalid status filter rejected", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.service.GetSalonAppointments(context.Background(), &models.GetSalonAppointmentsRequest{
			Caller:  staff,
			SalonID: 1,
			Status:  ptr.Ptr("archived"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

// --- Отмена ---

func TestCancel(t *testing.T) {
	reason := "клиент заболел"

	t.Run("owner cancels pending appointment", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusPending))

		err := env.service.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{
			Caller:             client,
			CancellationReason: reason,
		})
		require.NoError(t, err)

		assert.Equal(t, []int64{1}, env.repo.cancelCalls)
		assert.Equal(t, reason, env.repo.cancelReason)

		require.Len(t, env.publisher.events, 1)
		assert.Equal(t, events.TypeAppointmentCancelled, env.publisher.events[0].Type)
		assert.Equal(t, "cancelled", env.publisher.events[0].Status)

		assert.Equal(t, []string{"pending->cancelled"}, env.metrics.transitions)
	})

	t.Run("staff cancels confirmed appointment of any client", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusConfirmed))

		err := env.service.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{Caller: staff})
		require.NoError(t, err)
		assert.Equal(t, []string{"confirmed->cancelled"}, env.metrics.transitions)
	})

	t.Run("other client is denied", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusPending))

		err := env.service.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{Caller: other})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Empty(t, env.repo.cancelCalls)
	})

	t.Run("terminal statuses cannot be cancelled", func(t *testing.T) {
		for _, status := range []domain.AppointmentStatus{
			domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow,
		} {
			env := newTestEnv(newAppointment(1, 100, status))

			err := env.service.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{Caller: staff})
			assert.ErrorIs(t, err, ErrCannotCancel, "status=%s", status)
			assert.Empty(t, env.publisher.events)
		}
	})

	t.Run("missing appointment", func(t *testing.T) {
		env := newTestEnv()

		err := env.service.Cancel(context.Background(), 42, &models.CancelAppointmentRequest{Caller: staff})
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

// --- Переходы статусов ---

func TestUpdateStatus(t *testing.T) {
	t.Run("staff confirms pending appointment", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusPending))

		err := env.service.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Caller: staff,
			Status: "confirmed",
		})
		require.NoError(t, err)

		assert.Equal(t, []domain.AppointmentStatus{domain.StatusConfirmed}, env.repo.updateCalls)
		require.Len(t, env.publisher.events, 1)
		assert.Equal(t, events.TypeAppointmentConfirmed, env.publisher.events[0].Type)
		assert.Equal(t, []string{"pending->confirmed"}, env.metrics.transitions)
	})

	t.Run("client cannot drive transitions", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusPending))

		err := env.service.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Caller: client,
			Status: "confirmed",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown status rejected before transition check", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusPending))

		err := env.service.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Caller: staff,
			Status: "archived",
		})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("invalid transitions rejected by state machine", func(t *testing.T) {
		tests := []struct {
			from domain.AppointmentStatus
			to   string
		}{
			{domain.StatusPending, "completed"},
			{domain.StatusPending, "no_show"},
			{domain.StatusCompleted, "confirmed"},
			{domain.StatusCancelled, "confirmed"},
			{domain.StatusNoShow, "completed"},
		}

		for _, tt := range tests {
			env := newTestEnv(newAppointment(1, 100, tt.from))

			err := env.service.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
				Caller: staff,
				Status: tt.to,
			})
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
			assert.Empty(t, env.repo.updateCalls)
			assert.Empty(t, env.publisher.events)
		}
	})

	t.Run("full lifecycle pending to completed", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusPending))

		require.NoError(t, env.service.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Caller: staff,
			Status: "confirmed",
		}))
		require.NoError(t, env.service.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Caller: staff,
			Status: "completed",
		}))

		assert.Equal(t, []string{"pending->confirmed", "confirmed->completed"}, env.metrics.transitions)

		types := []string{env.publisher.events[0].Type, env.publisher.events[1].Type}
		assert.Equal(t, []string{events.TypeAppointmentConfirmed, events.TypeAppointmentCompleted}, types)
	})

	t.Run("no_show publishes event", func(t *testing.T) {
		env := newTestEnv(newAppointment(1, 100, domain.StatusConfirmed))

		err := env.service.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{
			Caller: staff,
			Status: "no_show",
		})
		require.NoError(t, err)
		require.Len(t, env.publisher.events, 1)
		assert.Equal(t, events.TypeAppointmentNoShow, env.publisher.events[0].Type)
	})
}
