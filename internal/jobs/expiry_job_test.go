package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Eursukkul/classpass-service/internal/dto"
	"github.com/Eursukkul/classpass-service/internal/models"
	"github.com/Eursukkul/classpass-service/internal/repository"
	"github.com/Eursukkul/classpass-service/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock PassRepository ---

type mockPassRepo struct {
	passes  []models.ClassPass
	findErr error
}

func (m *mockPassRepo) Create(ctx context.Context, pass *models.ClassPass) error { return nil }
func (m *mockPassRepo) FindByID(ctx context.Context, id string) (*models.ClassPass, error) {
	return nil, repository.ErrNotFound
}
func (m *mockPassRepo) FindAll(ctx context.Context) ([]models.ClassPass, error) {
	return m.passes, m.findErr
}
func (m *mockPassRepo) Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*models.ClassPass, error) {
	return nil, errors.New("sweep must not mutate passes")
}
func (m *mockPassRepo) MutateWithBooking(ctx context.Context, id string, fn repository.MutateFunc, b *models.ClassBooking) (*models.ClassPass, error) {
	return nil, errors.New("sweep must not mutate passes")
}
func (m *mockPassRepo) Delete(ctx context.Context, id string) (bool, error) {
	return false, errors.New("sweep must not delete passes")
}

// --- Mock Publisher ---

type mockPublisher struct {
	keys   []string
	events []dto.PassEvent
	failID string
}

func (m *mockPublisher) Publish(routingKey string, payload any) error {
	ev := payload.(dto.PassEvent)
	if ev.PassID == m.failID {
		return errors.New("broker unavailable")
	}
	m.keys = append(m.keys, routingKey)
	m.events = append(m.events, ev)
	return nil
}

var sweepNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func pass(id string, remaining int, expiresInDays *int) models.ClassPass {
	p := models.ClassPass{ID: id, StudioName: "Studio " + id, TotalClasses: 10, RemainingClasses: remaining, PurchaseDate: sweepNow.AddDate(0, -1, 0)}
	if expiresInDays != nil {
		t := sweepNow.AddDate(0, 0, *expiresInDays)
		p.ExpirationDate = &t
	}
	return p
}

func days(n int) *int { return &n }

func newJob(repo *mockPassRepo, pub *mockPublisher, window int) *ExpiryJob {
	log := logger.New(logger.Config{Output: &bytes.Buffer{}})
	j := NewExpiryJob(repo, pub, window, log)
	j.now = func() time.Time { return sweepNow }
	return j
}

func TestRun_PublishesPassesInsideWindow(t *testing.T) {
	repo := &mockPassRepo{passes: []models.ClassPass{
		pass("today", 3, days(0)),
		pass("soon", 3, days(5)),
		pass("edge", 3, days(7)),
		pass("later", 3, days(8)),
		pass("expired", 3, days(-1)),
		pass("empty", 0, days(2)),
		pass("open", 3, nil),
	}}
	pub := &mockPublisher{}

	n, err := newJob(repo, pub, 7).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	ids := make([]string, len(pub.events))
	for i, ev := range pub.events {
		ids[i] = ev.PassID
		assert.Equal(t, dto.PassExpiring, ev.Type)
		assert.Equal(t, sweepNow, ev.OccurredAt)
	}
	assert.Equal(t, []string{"today", "soon", "edge"}, ids)
	assert.Equal(t, []string{dto.PassExpiring, dto.PassExpiring, dto.PassExpiring}, pub.keys)
}

func TestRun_StampsEventsWithLastWrite(t *testing.T) {
	written := sweepNow.Add(-3 * time.Hour)
	p := pass("soon", 3, days(2))
	p.UpdatedAt = written
	pub := &mockPublisher{}

	_, err := newJob(&mockPassRepo{passes: []models.ClassPass{p}}, pub, 7).Run(context.Background())

	require.NoError(t, err)
	require.Len(t, pub.events, 1)
	assert.Equal(t, written, pub.events[0].OccurredAt)
}

func TestRun_WindowIsConfigurable(t *testing.T) {
	repo := &mockPassRepo{passes: []models.ClassPass{pass("soon", 3, days(5)), pass("later", 3, days(12))}}
	pub := &mockPublisher{}

	n, err := newJob(repo, pub, 14).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRun_PublishFailureDoesNotStopSweep(t *testing.T) {
	repo := &mockPassRepo{passes: []models.ClassPass{pass("a", 3, days(1)), pass("b", 3, days(2))}}
	pub := &mockPublisher{failID: "a"}

	n, err := newJob(repo, pub, 7).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "b", pub.events[0].PassID)
}

func TestRun_RepositoryFailure(t *testing.T) {
	repo := &mockPassRepo{findErr: errors.New("db down")}

	n, err := newJob(repo, &mockPublisher{}, 7).Run(context.Background())

	assert.Error(t, err)
	assert.Zero(t, n)
}

func TestSchedule(t *testing.T) {
	c := cron.New()
	job := newJob(&mockPassRepo{}, &mockPublisher{}, 7)

	id, err := job.Schedule(c, "@every 1h")
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, c.Entries(), 1)

	_, err = job.Schedule(c, "not a schedule")
	assert.Error(t, err)
}
