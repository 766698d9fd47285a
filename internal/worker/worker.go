package worker

import (
	"context"
	"fmt"

	"pos-service/internal/broker"
	"pos-service/internal/models"
	"pos-service/internal/service"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// ProcessedEventStore tracks which feed events were already handled
type ProcessedEventStore interface {
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// ScoreWorker consumes the ledger event feed and keeps cached reliability
// classifications in step with debt changes. Read-only over the ledger.
type ScoreWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	reliability  *service.ReliabilityService
	events       ProcessedEventStore
	logger       *zap.Logger
}

// NewScoreWorker creates a new score worker
func NewScoreWorker(
	consumer *broker.Consumer,
	reliability *service.ReliabilityService,
	events ProcessedEventStore,
) *ScoreWorker {
	w := &ScoreWorker{
		consumer:    consumer,
		reliability: reliability,
		events:      events,
		logger:      util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnDebtRecorded(func(ctx context.Context, e *models.DebtRecordedEvent) error {
		return w.refresh(ctx, e.EventID, e.EventType, e.CustomerID)
	})
	eventHandler.OnDebtPaid(func(ctx context.Context, e *models.DebtPaidEvent) error {
		return w.refresh(ctx, e.EventID, e.EventType, e.CustomerID)
	})
	w.eventHandler = eventHandler

	return w
}

func (w *ScoreWorker) refresh(ctx context.Context, eventID, eventType string, customerID int64) error {
	processed, err := w.events.IsEventProcessed(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		w.logger.Debug("Event already processed", zap.String("event_id", eventID))
		return nil
	}

	classification, err := w.reliability.Refresh(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to refresh score for customer %d: %w", customerID, err)
	}

	w.logger.Info("Reliability score refreshed",
		zap.Int64("customer_id", customerID),
		zap.String("classification", classification))

	if err := w.events.MarkEventProcessed(ctx, eventID, eventType); err != nil {
		w.logger.Error("Failed to mark event processed", zap.Error(err))
	}
	return nil
}

// Start starts the worker
func (w *ScoreWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting score worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ScoreWorker) Stop() error {
	w.logger.Info("Stopping score worker")
	return w.consumer.Close()
}
