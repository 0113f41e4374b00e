package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Eursukkul/classpass-service/internal/dto"
	"github.com/Eursukkul/classpass-service/internal/models"
	"github.com/Eursukkul/classpass-service/internal/repository"
	"github.com/Eursukkul/classpass-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
)

// LowClassesThreshold is the remaining-class count at or below which a
// check-in triggers a reminder.
const LowClassesThreshold = 2

type PassEventConsumer struct {
	store repository.ActivityRepository
	log   *logger.Logger
}

func NewPassEventConsumer(store repository.ActivityRepository, log *logger.Logger) *PassEventConsumer {
	return &PassEventConsumer{store: store, log: log}
}

// Start processes deliveries in a goroutine until msgs is closed. The
// returned channel is closed once the last delivery has been handled.
func (pc *PassEventConsumer) Start(ctx context.Context, msgs <-chan amqp.Delivery) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			pc.handleMessage(ctx, msg)
		}
		pc.log.Info("delivery channel closed, stopping consumer")
	}()
	return done
}

func (pc *PassEventConsumer) handleMessage(ctx context.Context, msg amqp.Delivery) {
	var event dto.PassEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.PassID == "" {
		pc.log.Warn("dropping malformed pass event", "routing_key", msg.RoutingKey, "error", err)
		_ = msg.Nack(false, false)
		return
	}
	if event.Type == "" {
		event.Type = msg.RoutingKey
	}

	if err := pc.apply(ctx, event); err != nil {
		pc.log.Error("failed to apply pass event", "pass_id", event.PassID, "type", event.Type, "error", err)
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}

func (pc *PassEventConsumer) apply(ctx context.Context, event dto.PassEvent) error {
	if event.Type == dto.PassDeleted {
		if err := pc.store.Delete(ctx, event.PassID); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}
		pc.log.Info("pass removed", "pass_id", event.PassID, "studio", event.StudioName)
		return nil
	}

	applied, err := pc.store.Upsert(ctx, &models.PassActivity{
		PassID:           event.PassID,
		StudioName:       event.StudioName,
		LastEvent:        event.Type,
		RemainingClasses: event.RemainingClasses,
		TotalClasses:     event.TotalClasses,
		ExpirationDate:   event.ExpirationDate,
		OccurredAt:       event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("upsert activity: %w", err)
	}
	if !applied {
		pc.log.Debug("ignoring stale pass event", "pass_id", event.PassID, "type", event.Type)
		return nil
	}

	if reminder, ok := Reminder(event); ok {
		pc.log.Info(reminder,
			"pass_id", event.PassID,
			"studio", event.StudioName,
			"remaining_classes", event.RemainingClasses,
			"expiration_date", event.ExpirationDate,
		)
	}
	return nil
}

// Reminder returns the message to send the pass holder for event, if any.
func Reminder(event dto.PassEvent) (string, bool) {
	switch {
	case event.Type == dto.PassExpiring:
		return "pass expiring soon", true
	case event.Type == dto.PassCheckedIn && event.RemainingClasses == 0:
		return "pass used up", true
	case event.Type == dto.PassCheckedIn && event.RemainingClasses <= LowClassesThreshold:
		return "few classes left on pass", true
	default:
		return "", false
	}
}
