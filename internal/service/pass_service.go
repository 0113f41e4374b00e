package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Eursukkul/classpass-service/internal/dto"
	"github.com/Eursukkul/classpass-service/internal/lifecycle"
	"github.com/Eursukkul/classpass-service/internal/models"
	"github.com/Eursukkul/classpass-service/internal/repository"
	"github.com/Eursukkul/classpass-service/internal/validation"
)

var (
	ErrPassNotFound = errors.New("class pass not found")
	ErrPassExpired  = errors.New("pass has expired")
)

// EventPublisher is satisfied by *rabbitmq.Publisher.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

type PassService interface {
	CreatePass(ctx context.Context, draft models.PassDraft) (*models.ClassPass, error)
	GetPass(ctx context.Context, id string) (*models.ClassPass, error)
	ListPasses(ctx context.Context, search string, filter lifecycle.StatusFilter) ([]models.ClassPass, error)
	UpdatePass(ctx context.Context, id string, update models.PassUpdate) (*models.ClassPass, error)
	DeletePass(ctx context.Context, id string) error
	CheckIn(ctx context.Context, id string, booking *models.BookingDraft) (*models.ClassPass, error)
	ExtendPass(ctx context.Context, id string, additionalClasses int, additionalCost int64) (*models.ClassPass, error)
	ListBookings(ctx context.Context, passID string) ([]models.ClassBooking, error)
	Spending(ctx context.Context) (lifecycle.Spending, error)
}

type Option func(*passService)

// WithMaxClasses caps totalClasses on create and additionalClasses on extend.
// Zero disables the cap.
func WithMaxClasses(n int) Option {
	return func(s *passService) { s.maxClasses = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *passService) { s.now = now }
}

type passService struct {
	passRepo    repository.PassRepository
	bookingRepo repository.BookingRepository
	publisher   EventPublisher
	maxClasses  int
	now         func() time.Time
}

// NewPassService accepts a nil publisher, in which case no events are sent.
func NewPassService(passRepo repository.PassRepository, bookingRepo repository.BookingRepository, publisher EventPublisher, opts ...Option) PassService {
	s := &passService{
		passRepo:    passRepo,
		bookingRepo: bookingRepo,
		publisher:   publisher,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *passService) CreatePass(ctx context.Context, draft models.PassDraft) (*models.ClassPass, error) {
	if s.maxClasses > 0 && draft.TotalClasses > s.maxClasses {
		return nil, validation.Field("totalClasses", fmt.Sprintf("must be at most %d", s.maxClasses))
	}

	pass := models.NewClassPass(draft, s.now().UTC())
	if err := s.passRepo.Create(ctx, &pass); err != nil {
		return nil, fmt.Errorf("create class pass: %w", err)
	}

	s.publish(dto.PassCreated, &pass, s.stamp(&pass))
	return &pass, nil
}

func (s *passService) GetPass(ctx context.Context, id string) (*models.ClassPass, error) {
	pass, err := s.passRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return pass, nil
}

func (s *passService) ListPasses(ctx context.Context, search string, filter lifecycle.StatusFilter) ([]models.ClassPass, error) {
	passes, err := s.passRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list class passes: %w", err)
	}
	return lifecycle.FilterPasses(passes, search, filter, s.now()), nil
}

func (s *passService) UpdatePass(ctx context.Context, id string, update models.PassUpdate) (*models.ClassPass, error) {
	pass, err := s.passRepo.Mutate(ctx, id, func(p *models.ClassPass) error {
		update.Apply(p)
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}

	s.publish(dto.PassUpdated, pass, s.stamp(pass))
	return pass, nil
}

func (s *passService) DeletePass(ctx context.Context, id string) error {
	pass, err := s.passRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err)
	}

	deleted, err := s.passRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete class pass: %w", err)
	}
	if !deleted {
		return ErrPassNotFound
	}

	s.publish(dto.PassDeleted, pass, s.now().UTC())
	return nil
}

// CheckIn consumes one class and, when booking is set, records the class in
// the same transaction. The remaining-classes rule is checked before
// expiration so an empty pass always reports lifecycle.ErrNoRemainingClasses.
func (s *passService) CheckIn(ctx context.Context, id string, booking *models.BookingDraft) (*models.ClassPass, error) {
	now := s.now().UTC()

	var record *models.ClassBooking
	if booking != nil {
		b := models.NewClassBooking(id, *booking, now)
		record = &b
	}

	pass, err := s.passRepo.MutateWithBooking(ctx, id, func(p *models.ClassPass) error {
		if p.RemainingClasses > 0 && !lifecycle.CanCheckIn(*p, now) {
			return ErrPassExpired
		}
		next, err := lifecycle.CheckIn(*p)
		if err != nil {
			return err
		}
		*p = next
		return nil
	}, record)
	if err != nil {
		return nil, notFound(err)
	}

	s.publish(dto.PassCheckedIn, pass, s.stamp(pass))
	return pass, nil
}

func (s *passService) ExtendPass(ctx context.Context, id string, additionalClasses int, additionalCost int64) (*models.ClassPass, error) {
	if s.maxClasses > 0 && additionalClasses > s.maxClasses {
		return nil, validation.Field("additionalClasses", fmt.Sprintf("must be at most %d", s.maxClasses))
	}
	if additionalCost < 0 {
		return nil, validation.Field("additionalCost", "must be at least 0")
	}

	pass, err := s.passRepo.Mutate(ctx, id, func(p *models.ClassPass) error {
		if p.Cost > math.MaxInt64-additionalCost {
			return validation.Field("additionalCost", "would overflow the pass cost")
		}
		if additionalClasses > 0 && (p.TotalClasses > math.MaxInt32-additionalClasses ||
			p.RemainingClasses > math.MaxInt32-additionalClasses) {
			return validation.Field("additionalClasses", "would overflow the class count")
		}
		next, err := lifecycle.Extend(*p, additionalClasses, additionalCost)
		if err != nil {
			return err
		}
		*p = next
		return nil
	})
	if err != nil {
		return nil, notFound(err)
	}

	s.publish(dto.PassExtended, pass, s.stamp(pass))
	return pass, nil
}

func (s *passService) ListBookings(ctx context.Context, passID string) ([]models.ClassBooking, error) {
	if _, err := s.passRepo.FindByID(ctx, passID); err != nil {
		return nil, notFound(err)
	}
	return s.bookingRepo.FindByPassID(ctx, passID)
}

func (s *passService) Spending(ctx context.Context) (lifecycle.Spending, error) {
	passes, err := s.passRepo.FindAll(ctx)
	if err != nil {
		return lifecycle.Spending{}, fmt.Errorf("list class passes: %w", err)
	}
	return lifecycle.AggregateSpending(passes), nil
}

func (s *passService) publish(routingKey string, pass *models.ClassPass, at time.Time) {
	if s.publisher == nil {
		return
	}
	// best effort: the pass is already stored
	_ = s.publisher.Publish(routingKey, dto.NewPassEvent(routingKey, pass, at))
}

// stamp is the time the stored write happened, taken under the row lock, so
// events for one pass are ordered like its commits.
func (s *passService) stamp(p *models.ClassPass) time.Time {
	return dto.EventTime(p, s.now())
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPassNotFound
	}
	return err
}
