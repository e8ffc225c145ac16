package chore

import (
	"testing"
	"time"

	"github.com/dglass/copperpot/internal/model"
)

var noon = time.Date(2026, 2, 5, 12, 0, 0, 0, time.UTC)

func TestCompleteSetsState(t *testing.T) {
	c := New("Dishes", "🍽️", 5, model.RecurrenceDaily, nil, noon.Add(-time.Hour))

	c, ok := Complete(c, true, noon)
	if !ok {
		t.Fatal("complete should succeed")
	}
	if !c.Completed || !c.PendingApproval {
		t.Errorf("completed = %v, pendingApproval = %v, want both true", c.Completed, c.PendingApproval)
	}
	if c.CompletedAt == nil || !c.CompletedAt.Equal(noon) {
		t.Errorf("completedAt = %v, want %v", c.CompletedAt, noon)
	}
}

func TestCompleteTwiceIsNoOp(t *testing.T) {
	c := New("Dishes", "🍽️", 5, model.RecurrenceDaily, nil, noon)
	c, _ = Complete(c, false, noon)

	again, ok := Complete(c, false, noon.Add(time.Hour))
	if ok {
		t.Error("second complete should be a no-op")
	}
	if !again.CompletedAt.Equal(*c.CompletedAt) {
		t.Error("no-op must not touch completedAt")
	}
}

func TestCompleteWithoutApproval(t *testing.T) {
	c := New("Sweep", "🧹", 3, model.RecurrenceDaily, nil, noon)
	c, _ = Complete(c, false, noon)
	if c.PendingApproval {
		t.Error("pendingApproval should be false when approval is not required")
	}
}

func TestApprove(t *testing.T) {
	c := New("Dishes", "🍽️", 5, model.RecurrenceDaily, nil, noon)
	c, _ = Complete(c, true, noon)

	c, ok := Approve(c)
	if !ok {
		t.Fatal("approve should succeed")
	}
	if c.PendingApproval {
		t.Error("pendingApproval should be cleared")
	}
	if !c.Completed {
		t.Error("completed should survive approval")
	}

	if _, ok := Approve(c); ok {
		t.Error("second approve should be a no-op")
	}
}

func TestResetForRedo(t *testing.T) {
	c := New("Dishes", "🍽️", 5, model.RecurrenceDaily, nil, noon)
	c, _ = Complete(c, true, noon)

	c = ResetForRedo(c)
	if c.Completed || c.PendingApproval || c.CompletedAt != nil {
		t.Error("redo should clear completion state")
	}

	if _, ok := Complete(c, true, noon.Add(time.Hour)); !ok {
		t.Error("chore should be completable again after redo")
	}
}

func TestResetPeriodDaily(t *testing.T) {
	c := New("Dishes", "🍽️", 5, model.RecurrenceDaily, nil, noon.AddDate(0, 0, -1))
	c, _ = Complete(c, true, noon.AddDate(0, 0, -1))

	c, ok := ResetPeriod(c, time.Sunday, noon)
	if !ok {
		t.Fatal("reset should fire across a day boundary")
	}
	if c.Completed || c.PendingApproval || c.CompletedAt != nil {
		t.Error("reset should clear completion state")
	}
	if !c.LastReset.Equal(noon) {
		t.Errorf("lastReset = %v, want %v", c.LastReset, noon)
	}
}

func TestResetPeriodSkipsFreshChore(t *testing.T) {
	c := New("Dishes", "🍽️", 5, model.RecurrenceDaily, nil, noon.Add(-time.Hour))
	c, _ = Complete(c, false, noon.Add(-time.Hour))

	c, ok := ResetPeriod(c, time.Sunday, noon)
	if ok {
		t.Error("reset should not fire within the same day")
	}
	if !c.Completed {
		t.Error("completion must survive a skipped reset")
	}
}

func TestResetPeriodWeekly(t *testing.T) {
	c := New("Laundry", "🧺", 10, model.RecurrenceWeekly, nil, noon.AddDate(0, 0, -8))
	c.Completed = true

	if _, ok := ResetPeriod(c, time.Sunday, noon); !ok {
		t.Error("weekly chore last reset 8 days ago should reset")
	}

	c.LastReset = noon.Add(-time.Hour)
	if _, ok := ResetPeriod(c, time.Sunday, noon); ok {
		t.Error("weekly chore reset an hour ago should not reset")
	}
}

func TestCountsTowardUnlock(t *testing.T) {
	c := New("Dishes", "🍽️", 5, model.RecurrenceDaily, nil, noon)

	if CountsTowardUnlock(c, time.Sunday, noon) {
		t.Error("incomplete chore should not count")
	}

	c, _ = Complete(c, true, noon)
	if CountsTowardUnlock(c, time.Sunday, noon) {
		t.Error("pending-approval chore should not count")
	}

	c, _ = Approve(c)
	if !CountsTowardUnlock(c, time.Sunday, noon) {
		t.Error("approved chore in the current period should count")
	}

	stale := noon.AddDate(0, 0, -2)
	c.CompletedAt = &stale
	if CountsTowardUnlock(c, time.Sunday, noon) {
		t.Error("completion outside the current period should not count")
	}
}

func TestAdvanceStreakFirstCompletion(t *testing.T) {
	u := model.User{Name: "Ada"}
	u = AdvanceStreak(u, noon)
	if u.CurrentStreak != 1 || u.LongestStreak != 1 {
		t.Errorf("streak = %d/%d, want 1/1", u.CurrentStreak, u.LongestStreak)
	}
}

func TestAdvanceStreakConsecutiveDays(t *testing.T) {
	u := model.User{Name: "Ada"}
	u = AdvanceStreak(u, noon)
	u = AdvanceStreak(u, noon.AddDate(0, 0, 1))
	u = AdvanceStreak(u, noon.AddDate(0, 0, 2))
	if u.CurrentStreak != 3 || u.LongestStreak != 3 {
		t.Errorf("streak = %d/%d, want 3/3", u.CurrentStreak, u.LongestStreak)
	}
}

func TestAdvanceStreakSameDayNoDouble(t *testing.T) {
	u := model.User{Name: "Ada"}
	u = AdvanceStreak(u, noon)
	u = AdvanceStreak(u, noon.Add(2*time.Hour))
	if u.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1 (same-day completions must not double count)", u.CurrentStreak)
	}
}

func TestAdvanceStreakGapResets(t *testing.T) {
	u := model.User{Name: "Ada"}
	u = AdvanceStreak(u, noon)
	u = AdvanceStreak(u, noon.AddDate(0, 0, 1))
	u = AdvanceStreak(u, noon.AddDate(0, 0, 4))
	if u.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1 after a gap", u.CurrentStreak)
	}
	if u.LongestStreak != 2 {
		t.Errorf("longest = %d, want 2 preserved", u.LongestStreak)
	}
}
