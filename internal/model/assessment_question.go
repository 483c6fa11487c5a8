package model

import "encoding/json"

const (
	TraitDirectionPositive = "positive"
	TraitDirectionNegative = "negative"
)

// AssessmentQuestion belongs to exactly one assessment. The answer key is
// either a correct option index (graded assessments) or a trait name plus a
// polarity direction (trait/profile assessments, answered on a 1..5 Likert
// scale). Questions are never mutated once the assessment has live sessions;
// the scorer relies on that.
// swagger:model AssessmentQuestion
type AssessmentQuestion struct {
	UUIDBase
	AssessmentID string          `gorm:"index;type:varchar(36)" json:"assessmentId"`
	Text         string          `gorm:"type:text;not null" json:"text"`
	TextAr       string          `gorm:"type:text" json:"textAr"`
	Options      json.RawMessage `gorm:"type:json" json:"options"` // JSON: []string
	Order        int             `gorm:"default:0" json:"order"`

	// Answer key. CorrectIndex for graded mode, Trait+TraitDirection for
	// trait mode. Both nullable: an authoring gap must not penalize the
	// participant.
	CorrectIndex   *int   `json:"-"`
	Trait          string `gorm:"size:100" json:"-"`
	TraitDirection string `gorm:"size:10" json:"-"` // positive, negative
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}

// HasGradedKey reports whether the question carries a usable correctness key.
func (q *AssessmentQuestion) HasGradedKey() bool {
	return q.CorrectIndex != nil
}

// HasTraitKey reports whether the question carries a usable trait key.
func (q *AssessmentQuestion) HasTraitKey() bool {
	return q.Trait != ""
}

// DeliveryQuestion is the participant-facing view: no answer key.
type DeliveryQuestion struct {
	ID      string          `json:"id"`
	Text    string          `json:"text"`
	TextAr  string          `json:"textAr,omitempty"`
	Options json.RawMessage `json:"options"`
	Order   int             `json:"order"`
}

func (q *AssessmentQuestion) ForDelivery() DeliveryQuestion {
	return DeliveryQuestion{
		ID:      q.ID,
		Text:    q.Text,
		TextAr:  q.TextAr,
		Options: q.Options,
		Order:   q.Order,
	}
}
