package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SLN-BookingService/pkg/metrics"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher асинхронный издатель доменных событий в Kafka
// Publish никогда не блокирует вызывающего: события копятся в буфере
// и пишутся фоновой горутиной; при переполнении буфера событие
// отбрасывается с логом и метрикой, но бронирование не страдает
type Publisher struct {
	writer  *kafka.Writer
	buffer  chan Event
	logger  Logger
	metrics *metrics.Metrics
	done    chan struct{}
}

const defaultBufferSize = 256

// NewPublisher создает издателя и запускает фоновую запись
// brokers - список адресов через запятую; пустой список отключает публикацию
func NewPublisher(brokers string, logger Logger, m *metrics.Metrics) *Publisher {
	p := &Publisher{
		buffer:  make(chan Event, defaultBufferSize),
		logger:  logger,
		metrics: m,
		done:    make(chan struct{}),
	}

	brokerList := splitBrokers(brokers)
	if len(brokerList) == 0 {
		logger.Warn("events: publisher disabled (no kafka brokers configured)")
		close(p.done)
		return p
	}

	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(brokerList...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}

	go p.run()

	return p
}

// Publish ставит событие в очередь на отправку
func (p *Publisher) Publish(event Event) {
	if p.writer == nil {
		return
	}

	select {
	case p.buffer <- event:
	default:
		// Буфер полон - нотификации вторичны по отношению к бронированию
		p.logger.Warn("events: buffer full, dropping event type=%s appointment=%d",
			event.Type, event.AppointmentID)
		p.countDropped(event.Type)
	}
}

// Close останавливает фоновую запись и дописывает накопленные события
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}

	close(p.buffer)
	<-p.done

	return p.writer.Close()
}

func (p *Publisher) run() {
	defer close(p.done)

	for event := range p.buffer {
		if err := p.write(event); err != nil {
			p.logger.Error("events: publish failed type=%s appointment=%d: %v",
				event.Type, event.AppointmentID, err)
			p.countDropped(event.Type)
			continue
		}
		p.countPublished(event.Type)
	}
}

func (p *Publisher) write(event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ключ - салон: события одного салона попадают в одну партицию
	// и сохраняют порядок для потребителя
	msg := kafka.Message{
		Topic: event.Type,
		Key:   []byte(strconv.FormatInt(event.SalonID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) countPublished(eventType string) {
	if p.metrics != nil {
		p.metrics.EventsPublishedTotal.WithLabelValues(eventType).Inc()
	}
}

func (p *Publisher) countDropped(eventType string) {
	if p.metrics != nil {
		p.metrics.EventsDroppedTotal.WithLabelValues(eventType).Inc()
	}
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
