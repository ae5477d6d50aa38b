package metrics

// Методы-обёртки для бизнес-метрик
// Usecase-слой зависит от узких потребительских интерфейсов с этими
// методами, а не от prometheus напрямую
//
// Nil-receiver безопасен: при выключенных метриках в сервисы
// передается nil *Metrics, и запись превращается в no-op

// RecordAppointmentCreated учитывает созданную запись
func (m *Metrics) RecordAppointmentCreated(status, origin string) {
	if m == nil {
		return
	}
	m.AppointmentsCreatedTotal.WithLabelValues(status, origin).Inc()
}

// RecordSlotConflict учитывает отказ из-за занятого слота
func (m *Metrics) RecordSlotConflict(reason string) {
	if m == nil {
		return
	}
	m.SlotConflictsTotal.WithLabelValues(reason).Inc()
}

// RecordStatusTransition учитывает переход статуса записи
func (m *Metrics) RecordStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitionsTotal.WithLabelValues(from, to).Inc()
}
