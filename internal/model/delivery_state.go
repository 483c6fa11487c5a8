package model

import "time"

// Delivery session states. The flow runs register, intro, questions,
// submitting, then completed or results; the gate outcomes (not_started,
// expired, closed) and the generic error state are terminal screens
// resolved at load time and never stored.
const (
	StateRegister   = "register"
	StateIntro      = "intro"
	StateQuestions  = "questions"
	StateSubmitting = "submitting"
	StateCompleted  = "completed"
	StateResults    = "results"

	StateNotStarted = "not_started"
	StateExpired    = "expired"
	StateClosed     = "closed"
	StateError      = "error"
)

// DeliverySessionState is the server-held runtime state of one in-progress
// session: where the participant is, what they have answered so far, and
// the countdown bookkeeping. It is write-through cached; the durable
// outcome lives on the Participant row.
type DeliverySessionState struct {
	ParticipantID string                 `json:"participantId"`
	AssessmentID  string                 `json:"assessmentId"`
	State         string                 `json:"state"`
	Cursor        int                    `json:"cursor"`
	Answers       map[string]AnswerValue `json:"answers"`
	Deadline      *time.Time             `json:"deadline,omitempty"`
	FiredWarnings map[int]bool           `json:"firedWarnings,omitempty"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

func NewDeliverySessionState(participantID, assessmentID, state string) *DeliverySessionState {
	return &DeliverySessionState{
		ParticipantID: participantID,
		AssessmentID:  assessmentID,
		State:         state,
		Answers:       make(map[string]AnswerValue),
		FiredWarnings: make(map[int]bool),
		UpdatedAt:     time.Now(),
	}
}

// Clone returns an independent copy, maps included.
func (s *DeliverySessionState) Clone() *DeliverySessionState {
	copied := *s
	copied.Answers = make(map[string]AnswerValue, len(s.Answers))
	for k, v := range s.Answers {
		copied.Answers[k] = v
	}
	copied.FiredWarnings = make(map[int]bool, len(s.FiredWarnings))
	for k, v := range s.FiredWarnings {
		copied.FiredWarnings[k] = v
	}
	return &copied
}

// Remaining is the whole seconds left on the countdown, clamped at zero.
// Sessions without a time limit have no deadline and report -1.
func (s *DeliverySessionState) Remaining(now time.Time) int {
	if s.Deadline == nil {
		return -1
	}
	left := int(s.Deadline.Sub(now).Seconds())
	if left < 0 {
		return 0
	}
	return left
}

// AnswersAsSubmission flattens the accumulated answers for the scoring call.
// Order does not matter to the scorer.
func (s *DeliverySessionState) AnswersAsSubmission() []SubmittedAnswer {
	out := make([]SubmittedAnswer, 0, len(s.Answers))
	for qid, v := range s.Answers {
		out = append(out, SubmittedAnswer{QuestionID: qid, Value: v})
	}
	return out
}
