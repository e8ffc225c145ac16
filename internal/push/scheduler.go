package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dglass/copperpot/internal/model"
	"github.com/dglass/copperpot/internal/store"
)

// familySource is the slice of the family service the scheduler reads.
type familySource interface {
	Chores() []model.Chore
	Jobs() []model.Job
	Members() []model.User
}

// Scheduler periodically reminds parents about completions that are
// still waiting for approval.
type Scheduler struct {
	mu       sync.RWMutex
	service  *Service
	subs     *store.PushStore
	family   familySource
	logger   *slog.Logger
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}

	lastReminder string // date key of the last reminder sent
}

// NewScheduler creates an approval-reminder scheduler.
func NewScheduler(svc *Service, subs *store.PushStore, family familySource, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:  svc,
		subs:     subs,
		family:   family,
		logger:   logger.With("component", "push_scheduler"),
		interval: time.Hour,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(time.Now())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// tick sends at most one reminder per day, and only when something is
// actually waiting.
func (s *Scheduler) tick(now time.Time) {
	dateKey := now.Format("2006-01-02")

	s.mu.Lock()
	already := s.lastReminder == dateKey
	s.mu.Unlock()
	if already {
		return
	}

	pendingChores, pendingJobs := s.pendingCounts()
	if pendingChores == 0 && pendingJobs == 0 {
		return
	}

	payload := Payload{
		Title: "Approvals Waiting",
		Body:  reminderBody(pendingChores, pendingJobs),
		URL:   "/approvals",
		Tag:   "approval-reminder",
	}
	s.NotifyParents(payload)

	s.mu.Lock()
	s.lastReminder = dateKey
	s.mu.Unlock()
}

func (s *Scheduler) pendingCounts() (chores, jobs int) {
	for _, c := range s.family.Chores() {
		if c.PendingApproval {
			chores++
		}
	}
	for _, j := range s.family.Jobs() {
		for _, e := range j.Completions {
			if e.Status == model.CompletionPending {
				jobs++
			}
		}
	}
	return chores, jobs
}

func reminderBody(chores, jobs int) string {
	switch {
	case jobs == 0:
		return fmt.Sprintf("%d chore(s) waiting for approval", chores)
	case chores == 0:
		return fmt.Sprintf("%d job completion(s) waiting for approval", jobs)
	default:
		return fmt.Sprintf("%d chore(s) and %d job completion(s) waiting for approval", chores, jobs)
	}
}

// NotifyParents sends a payload to every subscription registered by a
// parent. Expired subscriptions are dropped.
func (s *Scheduler) NotifyParents(payload Payload) {
	if !s.service.Configured() {
		return
	}

	parents := make(map[string]bool)
	for _, u := range s.family.Members() {
		if u.IsParent() {
			parents[u.ID.String()] = true
		}
	}

	subs, err := s.subs.List()
	if err != nil {
		s.logger.Error("list subscriptions", "error", err)
		return
	}

	for _, sub := range subs {
		if !parents[sub.UserID] {
			continue
		}
		if err := s.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if derr := s.subs.DeleteByEndpoint(sub.Endpoint); derr != nil {
					s.logger.Error("drop expired subscription", "error", derr)
				}
			} else {
				s.logger.Error("send notification", "error", err)
			}
		}
	}
}

// NotifyApprovalRequested tells parents a completion just arrived.
// Called from the server when a pending completion event fires.
func (s *Scheduler) NotifyApprovalRequested(memberName, itemTitle string) {
	s.NotifyParents(Payload{
		Title: "Approval Needed",
		Body:  fmt.Sprintf("%s finished %q", memberName, itemTitle),
		URL:   "/approvals",
		Tag:   "approval-request",
	})
}
