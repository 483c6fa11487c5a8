package model

import "encoding/json"

// ParticipantResponse is the append-only audit row written once per graded
// answer at submission time. IsCorrect is set for graded questions only;
// ScoreValue holds 1/0 for graded questions and the direction-adjusted
// Likert value for trait questions.
// swagger:model ParticipantResponse
type ParticipantResponse struct {
	UUIDBase
	ParticipantID string          `gorm:"index;type:varchar(36)" json:"participantId"`
	QuestionID    string          `gorm:"index;type:varchar(36)" json:"questionId"`
	Answer        json.RawMessage `gorm:"type:json" json:"answer"`
	IsCorrect     *bool           `json:"isCorrect,omitempty"`
	ScoreValue    *float64        `json:"scoreValue,omitempty"`
}

func (ParticipantResponse) TableName() string {
	return "participant_responses"
}
