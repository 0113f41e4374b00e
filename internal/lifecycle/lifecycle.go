// Package lifecycle derives pass state from stored fields and the current
// time. Nothing here is persisted; callers recompute on every read.
package lifecycle

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/Eursukkul/classpass-service/internal/models"
)

type Status string

const (
	StatusNoExpiration Status = "no_expiration"
	StatusExpired      Status = "expired"
	StatusExpiringSoon Status = "expiring_soon"
	StatusActive       Status = "active"
)

// ExpiringSoonDays is the inclusive upper bound of the expiring-soon window.
const ExpiringSoonDays = 7

var (
	ErrNoRemainingClasses = errors.New("no remaining classes")
	ErrInvalidExtension   = errors.New("additional classes must be at least 1")
	ErrUnknownFilter      = errors.New("unknown status filter")
)

// DaysUntilExpiry returns nil for passes that never expire, otherwise the
// ceiling of the remaining time in days.
func DaysUntilExpiry(p models.ClassPass, now time.Time) *int {
	if p.ExpirationDate == nil {
		return nil
	}
	days := int(math.Ceil(float64(p.ExpirationDate.Sub(now)) / float64(24*time.Hour)))
	return &days
}

func StatusOf(p models.ClassPass, now time.Time) Status {
	days := DaysUntilExpiry(p, now)
	switch {
	case days == nil:
		return StatusNoExpiration
	case *days <= 0 || p.RemainingClasses == 0:
		return StatusExpired
	case *days <= ExpiringSoonDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// UsageRatio is the consumed share of the pass in [0,1].
func UsageRatio(p models.ClassPass) float64 {
	if p.TotalClasses < 1 {
		return 0
	}
	return float64(p.TotalClasses-p.RemainingClasses) / float64(p.TotalClasses)
}

func CanCheckIn(p models.ClassPass, now time.Time) bool {
	if p.RemainingClasses <= 0 {
		return false
	}
	days := DaysUntilExpiry(p, now)
	return days == nil || *days >= 0
}

// CheckIn consumes one class. Expiration is not considered here; see CanCheckIn.
func CheckIn(p models.ClassPass) (models.ClassPass, error) {
	if p.RemainingClasses <= 0 {
		return p, ErrNoRemainingClasses
	}
	p.RemainingClasses--
	return p, nil
}

// Extend adds classes to both counters and the cost to the running total.
func Extend(p models.ClassPass, additionalClasses int, additionalCost int64) (models.ClassPass, error) {
	if additionalClasses < 1 {
		return p, ErrInvalidExtension
	}
	p.TotalClasses += additionalClasses
	p.RemainingClasses += additionalClasses
	p.Cost += additionalCost
	return p, nil
}

type StatusFilter string

const (
	FilterAll      StatusFilter = "all"
	FilterActive   StatusFilter = "active"
	FilterExpiring StatusFilter = "expiring"
	FilterExpired  StatusFilter = "expired"
)

// ParseStatusFilter treats an empty value as FilterAll.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterExpiring, FilterExpired:
		return f, nil
	default:
		return "", ErrUnknownFilter
	}
}

func (f StatusFilter) matches(p models.ClassPass, now time.Time) bool {
	st := StatusOf(p, now)
	switch f {
	case FilterActive:
		// passes without an expiration stay usable while classes remain
		return st == StatusActive || st == StatusExpiringSoon ||
			(st == StatusNoExpiration && p.RemainingClasses > 0)
	case FilterExpiring:
		return st == StatusExpiringSoon
	case FilterExpired:
		return st == StatusExpired
	default:
		return true
	}
}

// FilterPasses keeps passes whose studio name or notes contain searchTerm
// (case-insensitive) and whose status satisfies filter. Input order is kept.
func FilterPasses(passes []models.ClassPass, searchTerm string, filter StatusFilter, now time.Time) []models.ClassPass {
	term := strings.ToLower(strings.TrimSpace(searchTerm))
	out := make([]models.ClassPass, 0, len(passes))
	for _, p := range passes {
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		if !filter.matches(p, now) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p models.ClassPass, term string) bool {
	if strings.Contains(strings.ToLower(p.StudioName), term) {
		return true
	}
	return p.Notes != nil && strings.Contains(strings.ToLower(*p.Notes), term)
}

// Spending amounts are in minor currency units.
type Spending struct {
	Total    int64            `json:"total"`
	ByStudio map[string]int64 `json:"byStudio"`
}

func AggregateSpending(passes []models.ClassPass) Spending {
	s := Spending{ByStudio: make(map[string]int64)}
	for _, p := range passes {
		s.Total += p.Cost
		s.ByStudio[p.StudioName] += p.Cost
	}
	return s
}
