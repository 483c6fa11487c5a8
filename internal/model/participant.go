package model

import (
	"encoding/json"
	"time"
)

const (
	ParticipantStatusInvited   = "invited"
	ParticipantStatusStarted   = "started"
	ParticipantStatusCompleted = "completed"
)

// Participant is one person's single attempt at one assessment. Status is
// monotonic, moving from invited to started to completed with no
// regression. Once completed,
// ScoreSummary and CompletedAt are immutable; a second submission is
// rejected, never re-scored.
// swagger:model Participant
type Participant struct {
	UUIDBase
	OrganizationID string  `gorm:"index;type:varchar(36)" json:"organizationId"`
	AssessmentID   string  `gorm:"index;type:varchar(36)" json:"assessmentId"`
	GroupID        *string `gorm:"index;type:varchar(36)" json:"groupId,omitempty"`

	Name         string `gorm:"size:255" json:"name"`
	Email        string `gorm:"size:255;index" json:"email"`
	EmployeeCode string `gorm:"size:100;index" json:"employeeCode"`

	Status      string     `gorm:"size:20;default:'invited'" json:"status"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	ScoreSummary json.RawMessage `gorm:"type:json" json:"scoreSummary,omitempty"`
	AIReportText *string         `gorm:"type:text" json:"aiReportText,omitempty"`
}

func (Participant) TableName() string {
	return "participants"
}

func (p *Participant) Completed() bool {
	return p.Status == ParticipantStatusCompleted
}
