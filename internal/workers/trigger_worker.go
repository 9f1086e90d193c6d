package workers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"poalerts/internal/rabbitmq"
	"poalerts/models"
)

type queueConsumer interface {
	ConsumeQueue(ctx context.Context, queueName string, handler func(context.Context, []byte) error) error
}

// TriggerWorker runs the report on demand when a TriggerEvent arrives
type TriggerWorker struct {
	consumer  queueConsumer
	runner    Runner
	queueName string
}

func NewTriggerWorker(consumer queueConsumer, runner Runner, queueName string) *TriggerWorker {
	return &TriggerWorker{
		consumer:  consumer,
		runner:    runner,
		queueName: queueName,
	}
}

func (w *TriggerWorker) Start(ctx context.Context) error {
	log.Printf("🚀 Starting Trigger Worker for queue: %s", w.queueName)
	return w.consumer.ConsumeQueue(ctx, w.queueName, w.handleMessage)
}

func (w *TriggerWorker) handleMessage(ctx context.Context, body []byte) error {
	var evt models.TriggerEvent
	if err := rabbitmq.ParseJSON(body, &evt); err != nil {
		return fmt.Errorf("failed to unmarshal trigger event: %w", err)
	}

	log.Printf("📦 Processing trigger: requested_by=%q reason=%q", evt.RequestedBy, evt.Reason)

	res, err := w.runner.Run(ctx)
	if errors.Is(err, ErrRunInProgress) {
		log.Printf("Trigger from %q skipped: run already in progress", evt.RequestedBy)
		return nil
	}
	if err != nil {
		return fmt.Errorf("triggered run failed: %w", err)
	}

	log.Printf("✓ Trigger processed: run=%s sent=%t", res.RunID, res.Sent)
	return nil
}
