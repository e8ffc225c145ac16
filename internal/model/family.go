package model

import "github.com/google/uuid"

// Settings holds family-wide configuration. WeeklyResetDay follows
// time.Weekday numbering: 0=Sunday through 6=Saturday.
type Settings struct {
	WeeklyResetDay           int  `json:"weekly_reset_day"`
	RequireApprovalForJobs   bool `json:"require_approval_for_jobs"`
	RequireApprovalForChores bool `json:"require_approval_for_chores"`
}

// FamilyState is the aggregate root. Every domain operation reads and
// mutates this one structure; it is also the persistence snapshot shape.
type FamilyState struct {
	Users            []User          `json:"users"`
	Chores           []Chore         `json:"chores"`
	Jobs             []Job           `json:"jobs"`
	ChoreTemplates   []ChoreTemplate `json:"chore_templates"`
	JobTemplates     []JobTemplate   `json:"job_templates"`
	Transactions     []Transaction   `json:"transactions"`
	Settings         Settings        `json:"settings"`
	ParentSecretHash string          `json:"parent_secret_hash,omitempty"`
	ActiveUserID     *uuid.UUID      `json:"active_user_id,omitempty"`
}

// NewFamilyState returns an empty state with default settings.
func NewFamilyState() *FamilyState {
	return &FamilyState{
		Users:          []User{},
		Chores:         []Chore{},
		Jobs:           []Job{},
		ChoreTemplates: []ChoreTemplate{},
		JobTemplates:   []JobTemplate{},
		Transactions:   []Transaction{},
		Settings: Settings{
			WeeklyResetDay:           0,
			RequireApprovalForJobs:   true,
			RequireApprovalForChores: false,
		},
	}
}

// Normalize coerces nil collections to empty slices and clamps the weekly
// reset day into range. Called after deserializing a snapshot so the rest
// of the engine never sees nil slices.
func (s *FamilyState) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Chores == nil {
		s.Chores = []Chore{}
	}
	if s.Jobs == nil {
		s.Jobs = []Job{}
	}
	if s.ChoreTemplates == nil {
		s.ChoreTemplates = []ChoreTemplate{}
	}
	if s.JobTemplates == nil {
		s.JobTemplates = []JobTemplate{}
	}
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	for i := range s.Jobs {
		if s.Jobs[i].Completions == nil {
			s.Jobs[i].Completions = []CompletionEvent{}
		}
	}
	if s.Settings.WeeklyResetDay < 0 || s.Settings.WeeklyResetDay > 6 {
		s.Settings.WeeklyResetDay = 0
	}
}

// FindUser returns a pointer into Users, or nil if the id is unknown.
func (s *FamilyState) FindUser(id uuid.UUID) *User {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return &s.Users[i]
		}
	}
	return nil
}

// FindChore returns a pointer into Chores, or nil if the id is unknown.
func (s *FamilyState) FindChore(id uuid.UUID) *Chore {
	for i := range s.Chores {
		if s.Chores[i].ID == id {
			return &s.Chores[i]
		}
	}
	return nil
}

// FindJob returns a pointer into Jobs, or nil if the id is unknown.
func (s *FamilyState) FindJob(id uuid.UUID) *Job {
	for i := range s.Jobs {
		if s.Jobs[i].ID == id {
			return &s.Jobs[i]
		}
	}
	return nil
}
