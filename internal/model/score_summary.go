package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
)

const (
	SummaryKindGraded = "graded"
	SummaryKindTrait  = "trait"
)

// GradedSummary is the correctness-based result arm.
type GradedSummary struct {
	TotalScore    int    `json:"totalScore"`
	TotalPossible int    `json:"totalPossible"`
	CorrectCount  int    `json:"correctCount"`
	Percentage    int    `json:"percentage"`
	Grade         string `json:"grade"`
}

// ScoreSummary is a tagged union so consumers (client renderer, PDF
// exporter) must handle both arms explicitly.
// swagger:model ScoreSummary
type ScoreSummary struct {
	Kind   string             `json:"kind"` // graded, trait
	Graded *GradedSummary     `json:"graded,omitempty"`
	Traits map[string]float64 `json:"traits,omitempty"`
}

// GradeFor maps a percentage onto a letter grade.
func GradeFor(percentage int) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

// Percentage rounds score/possible to a whole percent, 0 when possible is 0.
func Percentage(score, possible int) int {
	if possible == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(possible) * 100))
}

// Round2 rounds to 2 decimals, used for trait averages.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var ErrInvalidAnswerValue = errors.New("answer value must be a number or an array of numbers")

// AnswerValue is the wire union for one response: a single option index, an
// array of indices (multi-choice), or a Likert integer 1..5. The singular
// form is kept distinct from a one-element array so graded comparison
// matches the client contract exactly.
type AnswerValue struct {
	Single *int
	Multi  []int
}

func SingleAnswer(idx int) AnswerValue {
	return AnswerValue{Single: &idx}
}

func MultiAnswer(indices ...int) AnswerValue {
	return AnswerValue{Multi: indices}
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		v.Single = nil
		v.Multi = nil
		return nil
	}
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		v.Single = &single
		v.Multi = nil
		return nil
	}
	var multi []int
	if err := json.Unmarshal(data, &multi); err == nil {
		v.Single = nil
		v.Multi = multi
		return nil
	}
	return ErrInvalidAnswerValue
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.Single != nil {
		return json.Marshal(*v.Single)
	}
	if v.Multi != nil {
		return json.Marshal(v.Multi)
	}
	return []byte("null"), nil
}

// IsZero reports whether no value was supplied at all.
func (v AnswerValue) IsZero() bool {
	return v.Single == nil && v.Multi == nil
}

// SubmittedAnswer is one participant response to one question.
type SubmittedAnswer struct {
	QuestionID string      `json:"questionId"`
	Value      AnswerValue `json:"value"`
}
