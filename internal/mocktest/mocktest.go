// Package mocktest runs shuffled multiple-choice chapter tests and scores them.
package mocktest

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soumil/jeeprep/internal/domain"
)

var (
	// ErrAttemptNotFound is returned for unknown, expired, or already graded attempts.
	ErrAttemptNotFound = errors.New("attempt not found")

	// ErrChapterMismatch is returned when an attempt is graded for another chapter.
	ErrChapterMismatch = errors.New("attempt belongs to a different chapter")

	// ErrEmptyBank is returned when the service has no questions to ask.
	ErrEmptyBank = errors.New("question bank is empty")
)

// Attempt is one in-flight test. Questions are in presentation order.
type Attempt struct {
	ID          string            `json:"attempt_id"`
	ChapterCode string            `json:"chapter"`
	Questions   []domain.Question `json:"questions"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// Result is a graded attempt.
type Result struct {
	AttemptID string `json:"attempt_id"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Score     int    `json:"score"`
}

// Score returns round(100 * correct / total), rounding halves up.
// A zero-question test scores 0.
func Score(correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	if correct > total {
		correct = total
	}
	return (200*correct + total) / (2 * total)
}

// Service issues and grades attempts.
type Service struct {
	mu       sync.Mutex
	bank     []domain.Question
	rng      *rand.Rand
	ttl      time.Duration
	now      func() time.Time
	attempts map[string]*Attempt
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the shuffle source.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) { s.rng = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service over bank. Attempts expire after ttl.
func NewService(bank []domain.Question, ttl time.Duration, opts ...Option) *Service {
	b := make([]domain.Question, len(bank))
	copy(b, bank)

	s := &Service{
		bank:     b,
		ttl:      ttl,
		now:      time.Now,
		attempts: make(map[string]*Attempt),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Start creates an attempt for chapterCode with the bank in random order.
func (s *Service) Start(chapterCode string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.bank) == 0 {
		return nil, ErrEmptyBank
	}

	qs := make([]domain.Question, len(s.bank))
	copy(qs, s.bank)
	s.rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })

	a := &Attempt{
		ID:          uuid.NewString(),
		ChapterCode: chapterCode,
		Questions:   qs,
		ExpiresAt:   s.now().Add(s.ttl),
	}
	s.attempts[a.ID] = a
	return a, nil
}

// Grade scores answers (question id to option key) and consumes the attempt.
func (s *Service) Grade(attemptID, chapterCode string, answers map[string]string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.attempts[attemptID]
	if !ok || s.now().After(a.ExpiresAt) {
		delete(s.attempts, attemptID)
		return Result{}, ErrAttemptNotFound
	}
	if a.ChapterCode != chapterCode {
		return Result{}, fmt.Errorf("grade %s: %w", attemptID, ErrChapterMismatch)
	}
	delete(s.attempts, attemptID)

	correct := 0
	for _, q := range a.Questions {
		if q.IsCorrect(answers[q.ID]) {
			correct++
		}
	}

	total := len(a.Questions)
	return Result{
		AttemptID: attemptID,
		Correct:   correct,
		Total:     total,
		Score:     Score(correct, total),
	}, nil
}

// Evict drops attempts that expired more than ttl ago and returns how many were removed.
func (s *Service) Evict(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	threshold := s.now().Add(-ttl)
	evicted := 0
	for id, a := range s.attempts {
		if a.ExpiresAt.Before(threshold) {
			delete(s.attempts, id)
			evicted++
		}
	}
	return evicted
}

// Pending returns the number of outstanding attempts.
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}
