package notifier

import (
	"context"
	"fmt"
	"odonto-service/internal/app/contracts"
	"odonto-service/internal/pkg/constvars"
	"odonto-service/internal/pkg/exceptions"
	"sync"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type rabbitPublisher struct {
	ch       *amqp.Channel
	log      *zap.Logger
	confirms chan amqp.Confirmation
	declared map[string]bool
	mu       sync.Mutex
}

// NewRabbitMQPublisher opens a confirm-mode channel on conn. A nil conn
// yields a publisher that only logs, so turno flows keep working without a
// broker.
func NewRabbitMQPublisher(conn *amqp.Connection, log *zap.Logger) (contracts.EventPublisher, error) {
	if conn == nil {
		return NewLogPublisher(log), nil
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	// Publisher confirms so Publish only returns once the broker has the message
	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &rabbitPublisher{
		ch:       ch,
		log:      log,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		declared: make(map[string]bool),
	}, nil
}

func (p *rabbitPublisher) Publish(ctx context.Context, queueName string, payload interface{}) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.log.Info("rabbitPublisher.Publish called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, queueName),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.declared[queueName] {
		if _, err := p.ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
			return exceptions.ErrRabbitMQPublishMessage(err, queueName)
		}
		p.declared[queueName] = true
	}

	msg := amqp.Publishing{
		ContentType:   constvars.MIMEApplicationJSON,
		Body:          body,
		DeliveryMode:  amqp.Persistent,
		CorrelationId: requestID,
	}
	if err := p.ch.PublishWithContext(ctx, "", queueName, false, false, msg); err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, queueName)
	}

	select {
	case confirmed := <-p.confirms:
		if !confirmed.Ack {
			return exceptions.ErrRabbitMQPublishMessage(fmt.Errorf("message not confirmed"), queueName)
		}
	case <-ctx.Done():
		return exceptions.ErrRabbitMQPublishMessage(ctx.Err(), queueName)
	}

	p.log.Info("rabbitPublisher.Publish succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, queueName),
	)
	return nil
}

type logPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) contracts.EventPublisher {
	return &logPublisher{log: log}
}

func (p *logPublisher) Publish(ctx context.Context, queueName string, payload interface{}) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	p.log.Info("logPublisher.Publish message dropped, no broker configured",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingQueueNameKey, queueName),
		zap.Any(constvars.LoggingRequestKey, payload),
	)
	return nil
}
