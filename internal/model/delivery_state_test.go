package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemaining(t *testing.T) {
	now := time.Now()

	untimed := NewDeliverySessionState("p1", "a1", StateQuestions)
	assert.Equal(t, -1, untimed.Remaining(now), "no deadline means no countdown")

	deadline := now.Add(90 * time.Second)
	timed := NewDeliverySessionState("p1", "a1", StateQuestions)
	timed.Deadline = &deadline
	assert.Equal(t, 90, timed.Remaining(now))
	assert.Equal(t, 0, timed.Remaining(now.Add(2*time.Minute)), "past deadline clamps at zero")
}

func TestCloneIsIndependent(t *testing.T) {
	st := NewDeliverySessionState("p1", "a1", StateQuestions)
	st.Answers["q1"] = SingleAnswer(2)
	st.FiredWarnings[300] = true

	copied := st.Clone()
	copied.Answers["q2"] = SingleAnswer(0)
	copied.FiredWarnings[120] = true
	copied.Cursor = 5

	assert.Len(t, st.Answers, 1)
	assert.False(t, st.FiredWarnings[120])
	assert.Equal(t, 0, st.Cursor)
}

func TestAnswersAsSubmission(t *testing.T) {
	st := NewDeliverySessionState("p1", "a1", StateQuestions)
	st.Answers["q1"] = SingleAnswer(1)
	st.Answers["q2"] = MultiAnswer(0, 3)

	flat := st.AnswersAsSubmission()
	assert.Len(t, flat, 2)

	seen := map[string]bool{}
	for _, a := range flat {
		seen[a.QuestionID] = true
	}
	assert.True(t, seen["q1"] && seen["q2"])
}
