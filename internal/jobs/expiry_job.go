package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Eursukkul/classpass-service/internal/dto"
	"github.com/Eursukkul/classpass-service/internal/lifecycle"
	"github.com/Eursukkul/classpass-service/internal/models"
	"github.com/Eursukkul/classpass-service/internal/repository"
	"github.com/Eursukkul/classpass-service/internal/service"
	"github.com/Eursukkul/classpass-service/pkg/logger"
	"github.com/robfig/cron/v3"
)

const sweepTimeout = time.Minute

// ExpiryJob announces usable passes whose expiration falls within the
// configured window. It never modifies passes.
type ExpiryJob struct {
	passes     repository.PassRepository
	publisher  service.EventPublisher
	windowDays int
	log        *logger.Logger
	now        func() time.Time
}

func NewExpiryJob(passes repository.PassRepository, publisher service.EventPublisher, windowDays int, log *logger.Logger) *ExpiryJob {
	if windowDays < 0 {
		windowDays = lifecycle.ExpiringSoonDays
	}
	return &ExpiryJob{
		passes:     passes,
		publisher:  publisher,
		windowDays: windowDays,
		log:        log,
		now:        time.Now,
	}
}

// Schedule registers the sweep on c with a cron schedule such as "@hourly".
func (j *ExpiryJob) Schedule(c *cron.Cron, schedule string) (cron.EntryID, error) {
	id, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := j.Run(ctx); err != nil {
			j.log.Error("expiry sweep failed", "error", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule expiry sweep %q: %w", schedule, err)
	}
	return id, nil
}

// Run publishes one pass.expiring event per matching pass and returns how
// many were published.
func (j *ExpiryJob) Run(ctx context.Context) (int, error) {
	j.log.Debug("running expiry sweep", "window_days", j.windowDays)

	passes, err := j.passes.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list class passes: %w", err)
	}

	now := j.now().UTC()
	published := 0
	for i := range passes {
		p := &passes[i]
		if !j.due(*p, now) {
			continue
		}
		if err := j.publisher.Publish(dto.PassExpiring, dto.NewPassEvent(dto.PassExpiring, p, dto.EventTime(p, now))); err != nil {
			j.log.Warn("failed to publish expiring pass", "pass_id", p.ID, "error", err)
			continue
		}
		published++
	}

	j.log.Info("expiry sweep finished", "passes", len(passes), "published", published)
	return published, nil
}

func (j *ExpiryJob) due(p models.ClassPass, now time.Time) bool {
	if p.RemainingClasses <= 0 {
		return false
	}
	days := lifecycle.DaysUntilExpiry(p, now)
	return days != nil && *days >= 0 && *days <= j.windowDays
}
