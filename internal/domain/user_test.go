package domain

import (
	"testing"
	"time"
)

func TestUserIdleFor(t *testing.T) {
	now := time.Now()
	u := &User{LastSeenAt: now.Add(-5 * time.Minute)}
	if got := u.IdleFor(now); got != 5*time.Minute {
		t.Errorf("IdleFor = %v, want 5m", got)
	}

	future := &User{LastSeenAt: now.Add(time.Minute)}
	if got := future.IdleFor(now); got != 0 {
		t.Errorf("IdleFor for future last-seen = %v, want 0", got)
	}
}

func TestQuestionIsCorrect(t *testing.T) {
	q := Question{ID: "q1", Correct: "B"}
	if !q.IsCorrect("B") {
		t.Error("expected B to be correct")
	}
	if q.IsCorrect("A") {
		t.Error("expected A to be wrong")
	}
	if (Question{}).IsCorrect("") {
		t.Error("empty answer must never match")
	}
}
