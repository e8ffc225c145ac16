package template

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dglass/copperpot/internal/job"
	"github.com/dglass/copperpot/internal/model"
)

var noon = time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

func TestApplyChoreTemplateFanOut(t *testing.T) {
	tpl := NewChoreTemplate("Dishes", "🍽️", 5, model.RecurrenceDaily, noon)
	userA := uuid.New()
	userB := uuid.New()

	chores := ApplyChoreTemplate(tpl, []uuid.UUID{userA, userB}, noon)
	if len(chores) != 2 {
		t.Fatalf("chores = %d, want 2", len(chores))
	}

	if chores[0].UserID == nil || *chores[0].UserID != userA {
		t.Error("first instance should belong to user A")
	}
	if chores[1].UserID == nil || *chores[1].UserID != userB {
		t.Error("second instance should belong to user B")
	}
	for i, c := range chores {
		if c.Name != "Dishes" || c.Points != 5 || c.Recurrence != model.RecurrenceDaily {
			t.Errorf("instance %d did not copy template fields: %+v", i, c)
		}
		if c.TemplateID == nil || *c.TemplateID != tpl.ID {
			t.Errorf("instance %d missing template back-reference", i)
		}
		if c.Completed {
			t.Errorf("instance %d should start incomplete", i)
		}
	}
	if chores[0].ID == chores[1].ID {
		t.Error("instances must have distinct ids")
	}
}

func TestApplyChoreTemplateInstancesIndependent(t *testing.T) {
	tpl := NewChoreTemplate("Dishes", "🍽️", 5, model.RecurrenceDaily, noon)
	chores := ApplyChoreTemplate(tpl, []uuid.UUID{uuid.New(), uuid.New()}, noon)

	chores[0].Completed = true
	chores[0].Name = "renamed"

	if chores[1].Completed || chores[1].Name != "Dishes" {
		t.Error("mutating one instance must not affect the other")
	}
	if tpl.Name != "Dishes" {
		t.Error("mutating an instance must not affect the template")
	}
}

func TestApplyJobTemplateComputesLock(t *testing.T) {
	parent := uuid.New()
	userA := uuid.New()
	max := 2
	tpl := NewJobTemplate(job.Params{
		Title:                   "Mow the lawn",
		Value:                   750,
		Recurrence:              model.RecurrenceWeekly,
		UnlockConditions:        model.UnlockConditions{DailyChores: 1},
		AllowMultipleCompletion: true,
		MaxCompletionsPerPeriod: &max,
		RequiresApproval:        true,
	}, noon)

	jobs := ApplyJobTemplate(tpl, []uuid.UUID{userA}, parent, nil, time.Sunday, noon)
	if len(jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(jobs))
	}
	j := jobs[0]
	if !j.IsLocked {
		t.Error("job should start locked with no qualifying chores")
	}
	if j.Value != 750 || !j.RequiresApproval || !j.AllowMultipleCompletion {
		t.Errorf("template fields not copied: %+v", j)
	}
	if j.MaxCompletionsPerPeriod == nil || *j.MaxCompletionsPerPeriod != 2 {
		t.Error("max completions not copied")
	}
	if j.CreatedBy == nil || *j.CreatedBy != parent {
		t.Error("createdBy not stamped")
	}
	if j.TemplateID == nil || *j.TemplateID != tpl.ID {
		t.Error("missing template back-reference")
	}
}

func TestApplyJobTemplateMaxCompletionsNotShared(t *testing.T) {
	max := 2
	tpl := NewJobTemplate(job.Params{
		Title:                   "Mow the lawn",
		Value:                   750,
		Recurrence:              model.RecurrenceWeekly,
		MaxCompletionsPerPeriod: &max,
	}, noon)

	jobs := ApplyJobTemplate(tpl, []uuid.UUID{uuid.New(), uuid.New()}, uuid.New(), nil, time.Sunday, noon)
	*jobs[0].MaxCompletionsPerPeriod = 99
	if *jobs[1].MaxCompletionsPerPeriod != 2 {
		t.Error("instances must not share the max-completions pointer")
	}
	if max != 2 {
		t.Error("template value must not change")
	}
}
