package service

import (
	"context"
	"time"

	"querynotes-be/internal/pkg/logger"
	"querynotes-be/pkg/events"
	pktNats "querynotes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
)

const auditDurableName = "querynotes-audit"

// IConsumerService writes every domain event to the audit log.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	auditLog   logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, topicName string, auditLog logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		auditLog:   auditLog,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.auditLog.Error("EVENTS", "Dropping malformed event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Redelivery cannot fix a malformed payload.
		msg.Ack()
		return
	}

	recordEvent(cs.auditLog, event)
	msg.Ack()
}

type natsConsumerService struct {
	subscriber *pktNats.Subscriber
	auditLog   logger.ILogger
}

// NewNatsConsumerService reads the audit stream from JetStream instead of the
// in-process bus.
func NewNatsConsumerService(subscriber *pktNats.Subscriber, auditLog logger.ILogger) IConsumerService {
	return &natsConsumerService{
		subscriber: subscriber,
		auditLog:   auditLog,
	}
}

func (cs *natsConsumerService) Consume(ctx context.Context) error {
	return cs.subscriber.Subscribe(ctx, pktNats.SubjectAll, auditDurableName, func(_ context.Context, event events.Event) error {
		recordEvent(cs.auditLog, event)
		return nil
	})
}

func recordEvent(auditLog logger.ILogger, event events.Event) {
	details := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["occurred_at"] = event.Timestamp().Format(time.RFC3339Nano)

	auditLog.Info("EVENTS", event.EventType(), details)
}
