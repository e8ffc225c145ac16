// Package template manages chore and job prototypes and their fan-out
// into per-user instances. Application is a one-way copy: instances carry
// a template back-reference but later template edits never touch them.
package template

import (
	"time"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/chore"
	"github.com/dglass/copperpot/internal/job"
	"github.com/dglass/copperpot/internal/model"
)

// NewChoreTemplate creates a chore prototype.
func NewChoreTemplate(name, icon string, points int, recurrence model.Recurrence, now time.Time) model.ChoreTemplate {
	return model.ChoreTemplate{
		ID:         uuid.New(),
		Name:       name,
		Icon:       icon,
		Points:     points,
		Recurrence: recurrence,
		CreatedAt:  now,
	}
}

// NewJobTemplate creates a job prototype from job creation params. The
// UserID and CreatedBy fields of the params are ignored.
func NewJobTemplate(p job.Params, now time.Time) model.JobTemplate {
	return model.JobTemplate{
		ID:                      uuid.New(),
		Title:                   p.Title,
		Description:             p.Description,
		Icon:                    p.Icon,
		Value:                   p.Value,
		Recurrence:              p.Recurrence,
		UnlockConditions:        p.UnlockConditions,
		AllowMultipleCompletion: p.AllowMultipleCompletion,
		MaxCompletionsPerPeriod: p.MaxCompletionsPerPeriod,
		RequiresApproval:        p.RequiresApproval,
		CreatedAt:               now,
	}
}

// ApplyChoreTemplate fans a chore template out to one independent chore
// per target user.
func ApplyChoreTemplate(tpl model.ChoreTemplate, userIDs []uuid.UUID, now time.Time) []model.Chore {
	chores := make([]model.Chore, 0, len(userIDs))
	for _, userID := range userIDs {
		uid := userID
		c := chore.New(tpl.Name, tpl.Icon, tpl.Points, tpl.Recurrence, &uid, now)
		tplID := tpl.ID
		c.TemplateID = &tplID
		chores = append(chores, c)
	}
	return chores
}

// ApplyJobTemplate fans a job template out to one independent job per
// target user. Lock status is computed against the current chores so new
// instances start with a correct cache.
func ApplyJobTemplate(tpl model.JobTemplate, userIDs []uuid.UUID, createdBy uuid.UUID, chores []model.Chore, resetDay time.Weekday, now time.Time) []model.Job {
	jobs := make([]model.Job, 0, len(userIDs))
	for _, userID := range userIDs {
		uid := userID
		by := createdBy
		var maxPer *int
		if tpl.MaxCompletionsPerPeriod != nil {
			m := *tpl.MaxCompletionsPerPeriod
			maxPer = &m
		}
		j := job.New(job.Params{
			Title:                   tpl.Title,
			Description:             tpl.Description,
			Icon:                    tpl.Icon,
			Value:                   tpl.Value,
			UserID:                  &uid,
			Recurrence:              tpl.Recurrence,
			UnlockConditions:        tpl.UnlockConditions,
			AllowMultipleCompletion: tpl.AllowMultipleCompletion,
			MaxCompletionsPerPeriod: maxPer,
			RequiresApproval:        tpl.RequiresApproval,
			CreatedBy:               &by,
		}, now)
		tplID := tpl.ID
		j.TemplateID = &tplID
		j = job.RefreshLock(j, chores, resetDay, now)
		jobs = append(jobs, j)
	}
	return jobs
}
