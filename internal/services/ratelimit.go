package services

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/pkg/models"
)

// RateLimitService is an in-process fixed-window counter keyed by client
// address. Counters live in memory only; a restart resets them, which is
// acceptable for abuse mitigation. Each policy (auth, general) gets its own
// instance with its own map, so exhausting one never affects the other.
type RateLimitService struct {
	name   string
	limit  int
	window time.Duration
	logger *logrus.Logger

	// now is swappable so tests can drive the window boundary.
	now func() time.Time

	mu      sync.Mutex
	records map[string]*rateLimitRecord

	idleExpiry    time.Duration
	sweepInterval time.Duration
	stop          chan struct{}
	stopOnce      sync.Once
}

type rateLimitRecord struct {
	count   int
	resetAt time.Time
}

func NewRateLimitService(name string, limit int, window time.Duration, logger *logrus.Logger) *RateLimitService {
	return &RateLimitService{
		name:    name,
		limit:   limit,
		window:  window,
		logger:  logger,
		now:     time.Now,
		records: make(map[string]*rateLimitRecord),
		stop:    make(chan struct{}),
	}
}

// StartSweeper evicts records whose window ended more than idleExpiry ago,
// bounding memory growth from long-idle clients.
func (s *RateLimitService) StartSweeper(interval, idleExpiry time.Duration) {
	if interval <= 0 {
		return
	}
	s.sweepInterval = interval
	s.idleExpiry = idleExpiry

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *RateLimitService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Check records one request for key and reports whether it is within the
// window's budget. The increment-and-compare is atomic under the mutex so
// concurrent requests from the same key never undercount. Remaining is
// clamped at zero, so a rejected request observably reports remaining=0.
func (s *RateLimitService) Check(key string) (bool, models.RateLimitInfo) {
	now := s.now()

	s.mu.Lock()
	rec, ok := s.records[key]
	if !ok || now.After(rec.resetAt) {
		rec = &rateLimitRecord{resetAt: now.Add(s.window)}
		s.records[key] = rec
	}
	rec.count++
	count := rec.count
	resetAt := rec.resetAt
	s.mu.Unlock()

	remaining := s.limit - count
	if remaining < 0 {
		remaining = 0
	}

	info := models.RateLimitInfo{
		Limit:     s.limit,
		Remaining: remaining,
		Reset:     resetAt.Unix(),
	}

	return count <= s.limit, info
}

func (s *RateLimitService) sweep() {
	cutoff := s.now().Add(-s.idleExpiry)

	s.mu.Lock()
	removed := 0
	for key, rec := range s.records {
		if rec.resetAt.Before(cutoff) {
			delete(s.records, key)
			removed++
		}
	}
	size := len(s.records)
	s.mu.Unlock()

	if removed > 0 {
		s.logger.WithFields(logrus.Fields{
			"policy":  s.name,
			"removed": removed,
			"active":  size,
		}).Debug("Swept idle rate limit records")
	}
}
