package create_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SLN-BookingService/internal/domain"
	"github.com/m04kA/SLN-BookingService/internal/events"
	appointmentRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/schedule"
	configRepo "github.com/m04kA/SLN-BookingService/internal/infra/storage/tenantconfig"
	clientClient "github.com/m04kA/SLN-BookingService/internal/integrations/clientservice"
	"github.com/m04kA/SLN-BookingService/pkg/types"
)

// --- Тестовые дублеры ---

// fakeAppointmentRepo in-memory репозиторий, воспроизводящий exclusion
// constraint: Create под мьютексом отклоняет пересекающиеся интервалы
type fakeAppointmentRepo struct {
	mu         sync.Mutex
	stored     []*domain.Appointment
	nextID     int64
	createErrs []error // очередь ошибок для Create, до проверки пересечений
	listErr    error
}

func (r *fakeAppointmentRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}

	candidate := domain.Interval{Start: appt.StartTime, End: appt.EndTime}
	for _, existing := range r.stored {
		if !existing.IsActive() || !existing.Date.Equal(appt.Date) {
			continue
		}
		busy := domain.Interval{Start: existing.StartTime, End: existing.EndTime}
		if candidate.Overlaps(busy) {
			return nil, appointmentRepo.ErrSlotTaken
		}
	}

	r.nextID++
	created := *appt
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	r.stored = append(r.stored, &created)
	return &created, nil
}

func (r *fakeAppointmentRepo) GetBySalonWithFilter(_ context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}

	result := make([]*domain.Appointment, 0, len(r.stored))
	for _, appt := range r.stored {
		if appt.SalonID != filter.SalonID {
			continue
		}
		if !filter.IncludeInactive && !appt.IsActive() {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
}

type fakeScheduleRepo struct {
	hours    *domain.OpeningHours
	hoursErr error
	closed   bool
}

func (r *fakeScheduleRepo) GetOpeningHours(_ context.Context, _ int64, _ time.Weekday) (*domain.OpeningHours, error) {
	if r.hoursErr != nil {
		return nil, r.hoursErr
	}
	return r.hours, nil
}

func (r *fakeScheduleRepo) IsClosedDay(_ context.Context, _ int64, _ time.Time) (bool, error) {
	return r.closed, nil
}

type fakeCatalogRepo struct {
	service *domain.Service
	err     error
}

func (r *fakeCatalogRepo) GetByID(_ context.Context, _, _ int64) (*domain.Service, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.service, nil
}

type fakeConfigRepo struct {
	config *domain.SalonBookingConfig
	err    error
}

func (r *fakeConfigRepo) GetBySalon(_ context.Context, _ int64) (*domain.SalonBookingConfig, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.config, nil
}

type fakeClientService struct {
	profile *clientClient.Profile
	err     error
}

func (c *fakeClientService) GetProfileWithGracefulDegradation(_ context.Context, _ int64) (*clientClient.Profile, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.profile, nil
}

// passthroughTxManager исполняет функцию без реальной транзакции
type passthroughTxManager struct{}

func (m *passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]string, len(p.events))
	for i, e := range p.events {
		result[i] = e.Type
	}
	return result
}

type captureMetrics struct {
	mu        sync.Mutex
	created   []string // status:origin
	conflicts []string
}

func (m *captureMetrics) RecordAppointmentCreated(status, origin string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, status+":"+origin)
}

func (m *captureMetrics) RecordSlotConflict(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts = append(m.conflicts, reason)
}

type stubTimeProvider struct {
	now time.Time
}

func (p *stubTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (l *nopLogger) Info(string, ...interface{})  {}
func (l *nopLogger) Warn(string, ...interface{})  {}
func (l *nopLogger) Error(string, ...interface{}) {}

// --- Сборка окружения ---

type testEnv struct {
	appointments *fakeAppointmentRepo
	schedule     *fakeScheduleRepo
	catalog      *fakeCatalogRepo
	config       *fakeConfigRepo
	client       *fakeClientService
	publisher    *capturePublisher
	metrics      *captureMetrics
	now          time.Time
}

// newTestEnv собирает окружение с рабочим понедельником 09:00-18:00,
// активной услугой на 60 минут и конфигурацией по умолчанию (pending)
func newTestEnv() *testEnv {
	return &testEnv{
		appointments: &fakeAppointmentRepo{},
		schedule: &fakeScheduleRepo{
			hours: &domain.OpeningHours{
				SalonID:  1,
				Weekday:  time.Monday,
				OpensAt:  "09:00",
				ClosesAt: "18:00",
				IsActive: true,
			},
		},
		catalog: &fakeCatalogRepo{
			service: &domain.Service{
				ID:              10,
				SalonID:         1,
				Name:            "Стрижка",
				DurationMinutes: 60,
				Price:           1500,
				IsActive:        true,
			},
		},
		config: &fakeConfigRepo{err: configRepo.ErrConfigNotFound},
		client: &fakeClientService{
			profile: &clientClient.Profile{Name: "Анна", Phone: "+79991234567"},
		},
		publisher: &capturePublisher{},
		metrics:   &captureMetrics{},
		now:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) build() *UseCase {
	uc := NewUseCase(
		e.appointments,
		e.schedule,
		e.catalog,
		e.config,
		e.client,
		&passthroughTxManager{},
		e.publisher,
		e.metrics,
		&nopLogger{},
	)
	uc.timeProvider = &stubTimeProvider{now: e.now}
	return uc
}

func validRequest() *Request {
	return &Request{
		SalonID:   1,
		ClientID:  100,
		ServiceID: 10,
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), // понедельник
		StartTime: "10:00",
		Origin:    domain.OriginClient,
	}
}

// --- Тесты ---

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	env := newTestEnv()
	uc := env.build()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, string(domain.OriginClient), resp.Origin)
	assert.Equal(t, "10:00", resp.StartTime.String())
	assert.Equal(t, "11:00", resp.EndTime.String())
	assert.Equal(t, 60, resp.DurationMinutes)

	// Денормализация: снимок услуги и профиля на момент создания
	assert.Equal(t, "Стрижка", resp.ServiceName)
	assert.Equal(t, 1500.0, resp.ServicePrice)
	require.NotNil(t, resp.ClientName)
	assert.Equal(t, "Анна", *resp.ClientName)
	require.NotNil(t, resp.ClientPhone)
	assert.Equal(t, "+79991234567", *resp.ClientPhone)

	assert.Equal(t, []string{events.TypeAppointmentCreated}, env.publisher.types())
	assert.Equal(t, []string{"pending:client"}, env.metrics.created)
}

func TestExecute_AutoConfirmPublishesBothEvents(t *testing.T) {
	env := newTestEnv()
	env.config = &fakeConfigRepo{config: &domain.SalonBookingConfig{
		SalonID:                1,
		SlotGranularityMinutes: 30,
		AutoConfirm:            true,
	}}
	uc := env.build()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t,
		[]string{events.TypeAppointmentCreated, events.TypeAppointmentConfirmed},
		env.publisher.types())
}

func TestExecute_ValidationErrors(t *testing.T) {
	longNotes := make([]byte, domain.MaxNotesLength+1)
	for i := range longNotes {
		longNotes[i] = 'a'
	}
	tooLong := string(longNotes)

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"zero salon id", func(req *Request) { req.SalonID = 0 }},
		{"negative client id", func(req *Request) { req.ClientID = -1 }},
		{"zero service id", func(req *Request) { req.ServiceID = 0 }},
		{"zero date", func(req *Request) { req.Date = time.Time{} }},
		{"empty start time", func(req *Request) { req.StartTime = "" }},
		{"malformed start time", func(req *Request) { req.StartTime = "25:99" }},
		{"unknown origin", func(req *Request) { req.Origin = "robot" }},
		{"notes too long", func(req *Request) { req.Notes = &tooLong }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			uc := env.build()

			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, env.publisher.types())
		})
	}
}

func TestExecute_ServiceErrors(t *testing.T) {
	t.Run("service not found", func(t *testing.T) {
		env := newTestEnv()
		env.catalog = &fakeCatalogRepo{err: catalogRepo.ErrServiceNotFound}
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("inactive service", func(t *testing.T) {
		env := newTestEnv()
		env.catalog.service.IsActive = false
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceInactive)
	})

	t.Run("zero duration service", func(t *testing.T) {
		env := newTestEnv()
		env.catalog.service.DurationMinutes = 0
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrServiceInactive)
	})
}

func TestExecute_ClientProfileDegradation(t *testing.T) {
	t.Run("profile not found books without snapshot", func(t *testing.T) {
		env := newTestEnv()
		env.client = &fakeClientService{err: clientClient.ErrProfileNotFound}
		uc := env.build()

		resp, err := uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Nil(t, resp.ClientName)
		assert.Nil(t, resp.ClientPhone)
	})

	t.Run("degraded client service does not block booking", func(t *testing.T) {
		env := newTestEnv()
		env.client = &fakeClientService{err: clientClient.ErrServiceDegraded}
		uc := env.build()

		resp, err := uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.Nil(t, resp.ClientName)
	})

	t.Run("unexpected client error is internal", func(t *testing.T) {
		env := newTestEnv()
		env.client = &fakeClientService{err: errors.New("boom")}
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestExecute_SalonClosed(t *testing.T) {
	t.Run("closed day overrides weekly schedule", func(t *testing.T) {
		env := newTestEnv()
		env.schedule.closed = true
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSalonClosed)
	})

	t.Run("no opening hours for weekday", func(t *testing.T) {
		env := newTestEnv()
		env.schedule = &fakeScheduleRepo{hoursErr: scheduleRepo.ErrOpeningHoursNotFound}
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSalonClosed)
	})

	t.Run("inactive weekday", func(t *testing.T) {
		env := newTestEnv()
		env.schedule.hours.IsActive = false
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSalonClosed)
	})
}

func TestExecute_ScheduleMisconfigured(t *testing.T) {
	env := newTestEnv()
	env.schedule = &fakeScheduleRepo{hoursErr: scheduleRepo.ErrDuplicateOpeningHours}
	uc := env.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrScheduleMisconfigured)
}

func TestExecute_SlotInPast(t *testing.T) {
	t.Run("past date", func(t *testing.T) {
		env := newTestEnv()
		uc := env.build()

		req := validRequest()
		req.Date = time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrSlotInPast)
	})

	t.Run("earlier time today", func(t *testing.T) {
		env := newTestEnv()
		env.now = time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotInPast)
	})
}

func TestExecute_OutsideOpeningHours(t *testing.T) {
	t.Run("starts before opening", func(t *testing.T) {
		env := newTestEnv()
		uc := env.build()

		req := validRequest()
		req.StartTime = "08:30"

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideOpeningHours)
	})

	t.Run("ends after closing", func(t *testing.T) {
		env := newTestEnv()
		uc := env.build()

		req := validRequest()
		req.StartTime = "17:30" // 60 минут не помещаются до 18:00

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrOutsideOpeningHours)
	})
}

func TestExecute_SlotNotAvailable(t *testing.T) {
	existing := func(status domain.AppointmentStatus, start, end types.TimeString) *domain.Appointment {
		return &domain.Appointment{
			ID:        99,
			SalonID:   1,
			ClientID:  200,
			ServiceID: 10,
			Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			StartTime: start,
			EndTime:   end,
			Status:    status,
		}
	}

	t.Run("overlap with active appointment", func(t *testing.T) {
		env := newTestEnv()
		env.appointments.stored = []*domain.Appointment{
			existing(domain.StatusConfirmed, "10:30", "11:30"),
		}
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Equal(t, []string{"overlap"}, env.metrics.conflicts)
		assert.Empty(t, env.publisher.types())
	})

	t.Run("cancelled appointment does not block", func(t *testing.T) {
		env := newTestEnv()
		env.appointments.stored = []*domain.Appointment{
			existing(domain.StatusCancelled, "10:00", "11:00"),
		}
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.NoError(t, err)
	})

	t.Run("touching boundaries do not conflict", func(t *testing.T) {
		env := newTestEnv()
		env.appointments.stored = []*domain.Appointment{
			existing(domain.StatusConfirmed, "09:00", "10:00"),
			existing(domain.StatusConfirmed, "11:00", "12:00"),
		}
		uc := env.build()

		// [10:00, 11:00) граничит с обеими записями, но не пересекается
		_, err := uc.Execute(context.Background(), validRequest())
		assert.NoError(t, err)
	})

	t.Run("exclusion constraint race maps to slot not available", func(t *testing.T) {
		env := newTestEnv()
		env.appointments.createErrs = []error{appointmentRepo.ErrSlotTaken}
		uc := env.build()

		_, err := uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Equal(t, []string{"exclusion_constraint"}, env.metrics.conflicts)
	})
}

func TestExecute_RetriesSerializationFailure(t *testing.T) {
	env := newTestEnv()
	env.appointments.createErrs = []error{appointmentRepo.ErrSerialization}
	uc := env.build()

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)

	// Событие публикуется один раз, несмотря на повтор
	assert.Equal(t, []string{events.TypeAppointmentCreated}, env.publisher.types())
}

func TestExecute_GivesUpAfterMaxAttempts(t *testing.T) {
	env := newTestEnv()
	env.appointments.createErrs = []error{
		appointmentRepo.ErrSerialization,
		appointmentRepo.ErrSerialization,
		appointmentRepo.ErrSerialization,
	}
	uc := env.build()

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, env.publisher.types())
	assert.Empty(t, env.metrics.created)
}

func TestExecute_ConcurrentBookingsSameSlot(t *testing.T) {
	// 50 конкурентных бронирований одного слота: фиксируется ровно одно,
	// остальные получают ErrSlotNotAvailable
	env := newTestEnv()
	uc := env.build()

	const workers = 50

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			req := validRequest()
			req.ClientID = int64(100 + idx)
			_, errs[idx] = uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	var succeeded, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotNotAvailable):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicted)

	env.appointments.mu.Lock()
	assert.Len(t, env.appointments.stored, 1)
	env.appointments.mu.Unlock()
}
