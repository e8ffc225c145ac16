package family

import (
	"encoding/json"
	"fmt"

	"github.com/dglass/copperpot/internal/model"
)

// Snapshot serializes the aggregate for the persistence collaborator.
// Timestamps marshal as ISO-8601 and money as integer cents.
func (s *Service) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.state)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// Restore replaces the aggregate with a previously saved snapshot. A
// missing, non-object, or unparseable payload falls back to a fresh
// default state rather than failing; missing collections are coerced to
// empty. The caller should run Maintenance afterwards.
func (s *Service) Restore(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := model.NewFamilyState()
	if len(data) > 0 {
		var loaded model.FamilyState
		if err := json.Unmarshal(data, &loaded); err != nil {
			s.logger.Warn("snapshot unreadable, starting fresh", "error", err)
		} else {
			state = &loaded
		}
	}
	state.Normalize()
	s.state = state
}
