// Package family is the orchestrator over the FamilyState aggregate. It
// composes the chore, job and template engines, applies balance and
// ledger side effects, and emits fire-and-forget events for the caller's
// notification collaborators. All operations are synchronous and applied
// in invocation order under one mutex; domain failures surface as
// Result reasons, never as errors or panics.
package family

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/model"
)

// Result is the outcome of a domain operation. A false OK carries a
// human-readable reason for the caller to display.
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func ok() Result                  { return Result{OK: true} }
func denied(reason string) Result { return Result{Reason: reason} }

// Event is a fire-and-forget notification of a state change. The service
// never depends on what listeners do with it.
type Event struct {
	Entity string
	Action string
	ID     uuid.UUID
	UserID *uuid.UUID
	Amount int64
}

// EventFunc receives events after the mutation that produced them has
// been applied.
type EventFunc func(Event)

// Service owns a FamilyState and serializes all access to it.
type Service struct {
	mu     sync.Mutex
	state  *model.FamilyState
	now    func() time.Time
	emit   EventFunc
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithEvents registers the event listener.
func WithEvents(fn EventFunc) Option {
	return func(s *Service) { s.emit = fn }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a Service around the given state. A nil state starts a
// fresh family.
func New(state *model.FamilyState, opts ...Option) *Service {
	if state == nil {
		state = model.NewFamilyState()
	}
	state.Normalize()
	s := &Service{
		state:  state,
		now:    time.Now,
		emit:   func(Event) {},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) notify(entity, action string, id uuid.UUID, userID *uuid.UUID, amount int64) {
	s.emit(Event{Entity: entity, Action: action, ID: id, UserID: userID, Amount: amount})
}

// Settings returns the current family settings.
func (s *Service) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// UpdateSettings replaces the family settings. An out-of-range weekly
// reset day is coerced to Sunday.
func (s *Service) UpdateSettings(settings model.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings.WeeklyResetDay < 0 || settings.WeeklyResetDay > 6 {
		settings.WeeklyResetDay = 0
	}
	s.state.Settings = settings
	s.refreshLocksLocked(s.now())
}

// SecretHash returns the stored pattern-gate secret hash, empty when no
// secret has been set.
func (s *Service) SecretHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ParentSecretHash
}

// SetSecretHash stores a new pattern-gate secret hash.
func (s *Service) SetSecretHash(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ParentSecretHash = hash
}

// ClearSecret removes the pattern-gate secret, e.g. after email recovery.
func (s *Service) ClearSecret() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ParentSecretHash = ""
}

func (s *Service) resetDay() time.Weekday {
	return time.Weekday(s.state.Settings.WeeklyResetDay)
}
