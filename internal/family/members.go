package family

import (
	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/model"
)

// AddMember creates a family member.
func (s *Service) AddMember(name, avatar string, role model.Role) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if role != model.RoleParent {
		role = model.RoleChild
	}
	u := model.User{
		ID:        uuid.New(),
		Name:      name,
		Avatar:    avatar,
		Role:      role,
		CreatedAt: s.now(),
	}
	s.state.Users = append(s.state.Users, u)
	s.notify("member", "created", u.ID, nil, 0)
	return u
}

// UpdateMember renames a member or changes their avatar. Returns nil when
// the id is unknown.
func (s *Service) UpdateMember(id uuid.UUID, name, avatar string) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.state.FindUser(id)
	if u == nil {
		return nil
	}
	u.Name = name
	u.Avatar = avatar
	updated := *u
	s.notify("member", "updated", id, nil, 0)
	return &updated
}

// RemoveMember deletes a member and cascades to everything they own:
// chores, jobs and ledger entries. Returns false when the id is unknown.
func (s *Service) RemoveMember(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	users := s.state.Users[:0]
	for _, u := range s.state.Users {
		if u.ID == id {
			found = true
			continue
		}
		users = append(users, u)
	}
	if !found {
		return false
	}
	s.state.Users = users

	chores := s.state.Chores[:0]
	for _, c := range s.state.Chores {
		if c.OwnedBy(id) {
			continue
		}
		chores = append(chores, c)
	}
	s.state.Chores = chores

	jobs := s.state.Jobs[:0]
	for _, j := range s.state.Jobs {
		if j.OwnedBy(id) {
			continue
		}
		jobs = append(jobs, j)
	}
	s.state.Jobs = jobs

	txs := s.state.Transactions[:0]
	for _, tx := range s.state.Transactions {
		if tx.UserID == id {
			continue
		}
		txs = append(txs, tx)
	}
	s.state.Transactions = txs

	if s.state.ActiveUserID != nil && *s.state.ActiveUserID == id {
		s.state.ActiveUserID = nil
	}

	s.notify("member", "deleted", id, nil, 0)
	return true
}

// SwitchUser sets the active user. Unknown ids are a silent no-op; the
// UI routinely races against deletions.
func (s *Service) SwitchUser(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.FindUser(id) == nil {
		return
	}
	uid := id
	s.state.ActiveUserID = &uid
	s.notify("member", "switched", id, nil, 0)
}

// ActiveUser returns a copy of the active user, or nil when none is set.
func (s *Service) ActiveUser() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ActiveUserID == nil {
		return nil
	}
	u := s.state.FindUser(*s.state.ActiveUserID)
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

// Member returns a copy of the member with the given id, or nil.
func (s *Service) Member(id uuid.UUID) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.state.FindUser(id)
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

// Members returns a copy of all family members.
func (s *Service) Members() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]model.User, len(s.state.Users))
	copy(users, s.state.Users)
	return users
}

// touchUser applies fn to the user if present. Callers hold the lock.
func (s *Service) touchUser(id uuid.UUID, fn func(*model.User)) bool {
	u := s.state.FindUser(id)
	if u == nil {
		return false
	}
	fn(u)
	return true
}
