package family

import (
	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/job"
	"github.com/dglass/copperpot/internal/model"
	"github.com/dglass/copperpot/internal/template"
)

// AddChoreTemplate stores a chore prototype.
func (s *Service) AddChoreTemplate(name, icon string, points int, recurrence model.Recurrence) model.ChoreTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl := template.NewChoreTemplate(name, icon, points, recurrence, s.now())
	s.state.ChoreTemplates = append(s.state.ChoreTemplates, tpl)
	s.notify("chore_template", "created", tpl.ID, nil, 0)
	return tpl
}

// AddJobTemplate stores a job prototype.
func (s *Service) AddJobTemplate(p job.Params) model.JobTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpl := template.NewJobTemplate(p, s.now())
	s.state.JobTemplates = append(s.state.JobTemplates, tpl)
	s.notify("job_template", "created", tpl.ID, nil, 0)
	return tpl
}

// DeleteChoreTemplate removes a prototype. Instances already created
// keep their back-reference and are untouched.
func (s *Service) DeleteChoreTemplate(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpls := s.state.ChoreTemplates[:0]
	for _, tpl := range s.state.ChoreTemplates {
		if tpl.ID == id {
			continue
		}
		tpls = append(tpls, tpl)
	}
	s.state.ChoreTemplates = tpls
}

// DeleteJobTemplate removes a prototype without touching instances.
func (s *Service) DeleteJobTemplate(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpls := s.state.JobTemplates[:0]
	for _, tpl := range s.state.JobTemplates {
		if tpl.ID == id {
			continue
		}
		tpls = append(tpls, tpl)
	}
	s.state.JobTemplates = tpls
}

// ApplyChoreTemplate fans a template out to the given users and adds the
// instances to the family. Unknown user ids are skipped; an unknown
// template returns nil.
func (s *Service) ApplyChoreTemplate(templateID uuid.UUID, userIDs []uuid.UUID) []model.Chore {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tpl *model.ChoreTemplate
	for i := range s.state.ChoreTemplates {
		if s.state.ChoreTemplates[i].ID == templateID {
			tpl = &s.state.ChoreTemplates[i]
			break
		}
	}
	if tpl == nil {
		return nil
	}

	targets := s.knownUsersLocked(userIDs)
	created := template.ApplyChoreTemplate(*tpl, targets, s.now())
	s.state.Chores = append(s.state.Chores, created...)
	s.refreshLocksLocked(s.now())
	s.notify("chore_template", "applied", templateID, nil, 0)
	return created
}

// ApplyJobTemplate fans a job template out to the given users.
func (s *Service) ApplyJobTemplate(templateID uuid.UUID, userIDs []uuid.UUID, createdBy uuid.UUID) []model.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tpl *model.JobTemplate
	for i := range s.state.JobTemplates {
		if s.state.JobTemplates[i].ID == templateID {
			tpl = &s.state.JobTemplates[i]
			break
		}
	}
	if tpl == nil {
		return nil
	}

	targets := s.knownUsersLocked(userIDs)
	created := template.ApplyJobTemplate(*tpl, targets, createdBy, s.state.Chores, s.resetDay(), s.now())
	s.state.Jobs = append(s.state.Jobs, created...)
	s.notify("job_template", "applied", templateID, nil, 0)
	return created
}

// ChoreTemplates returns a copy of the chore prototypes.
func (s *Service) ChoreTemplates() []model.ChoreTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpls := make([]model.ChoreTemplate, len(s.state.ChoreTemplates))
	copy(tpls, s.state.ChoreTemplates)
	return tpls
}

// JobTemplates returns a copy of the job prototypes.
func (s *Service) JobTemplates() []model.JobTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	tpls := make([]model.JobTemplate, len(s.state.JobTemplates))
	copy(tpls, s.state.JobTemplates)
	return tpls
}

func (s *Service) knownUsersLocked(userIDs []uuid.UUID) []uuid.UUID {
	targets := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		if s.state.FindUser(id) != nil {
			targets = append(targets, id)
		}
	}
	return targets
}
