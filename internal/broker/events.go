package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes ledger domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishSaleCompleted publishes SaleCompleted after a settlement commits
func (ep *EventPublisher) PublishSaleCompleted(ctx context.Context, event *models.SaleCompletedEvent) error {
	return ep.producer.PublishEvent(ctx, event.EventID, event)
}

// PublishDebtRecorded publishes DebtRecorded after a debt settlement commits
func (ep *EventPublisher) PublishDebtRecorded(ctx context.Context, event *models.DebtRecordedEvent) error {
	key := fmt.Sprintf("customer-%d", event.CustomerID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishDebtPaid publishes DebtPaid after a repayment
func (ep *EventPublisher) PublishDebtPaid(ctx context.Context, event *models.DebtPaidEvent) error {
	key := fmt.Sprintf("customer-%d", event.CustomerID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes incoming ledger events to registered handlers
type EventHandler struct {
	logger         *zap.Logger
	onDebtRecorded func(context.Context, *models.DebtRecordedEvent) error
	onDebtPaid     func(context.Context, *models.DebtPaidEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnDebtRecorded registers a handler for DebtRecorded events
func (eh *EventHandler) OnDebtRecorded(handler func(context.Context, *models.DebtRecordedEvent) error) {
	eh.onDebtRecorded = handler
}

// OnDebtPaid registers a handler for DebtPaid events
func (eh *EventHandler) OnDebtPaid(handler func(context.Context, *models.DebtPaidEvent) error) {
	eh.onDebtPaid = handler
}

// HandleMessage routes messages to the appropriate handler
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeDebtRecorded:
		if eh.onDebtRecorded != nil {
			var event models.DebtRecordedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DebtRecorded event: %w", err)
			}
			return eh.onDebtRecorded(ctx, &event)
		}

	case models.EventTypeDebtPaid:
		if eh.onDebtPaid != nil {
			var event models.DebtPaidEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DebtPaid event: %w", err)
			}
			return eh.onDebtPaid(ctx, &event)
		}

	case models.EventTypeSaleCompleted:
		// Read-side consumers other than the score refresher (forecast feed)
		// subscribe with their own group; nothing to do here.

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
