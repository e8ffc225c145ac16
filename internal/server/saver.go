package server

import (
	"sync"
	"time"
)

// saver debounces snapshot writes. Mutations arrive in bursts (a
// template fan-out, a child tapping through chores), so each request
// restarts a short timer and the write happens once things settle.
type saver struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	save  func()
}

func newSaver(delay time.Duration, save func()) *saver {
	return &saver{delay: delay, save: save}
}

// Request schedules a save after the debounce delay, replacing any
// save already scheduled.
func (s *saver) Request() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.save)
}

// Flush cancels any pending timer and saves immediately.
func (s *saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.save()
}
