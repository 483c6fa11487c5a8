package model

import "time"

const (
	AssessmentStatusActive = "active"
	AssessmentStatusClosed = "closed"

	LanguageEnglish = "en"
	LanguageArabic  = "ar"
)

// Assessment is authored by the admin application and consumed read-only by
// the delivery and scoring flows.
// swagger:model Assessment
type Assessment struct {
	UUIDBase
	OrganizationID string `gorm:"index;type:varchar(36)" json:"organizationId"`
	Title          string `gorm:"size:255;not null" json:"title"`
	Description    string `gorm:"type:text" json:"description"`
	Language       string `gorm:"size:8;default:'en'" json:"language"` // en, ar
	Status         string `gorm:"size:20;default:'active'" json:"status"`

	IsGraded                 bool `gorm:"default:true" json:"isGraded"`
	AIFeedbackEnabled        bool `gorm:"default:false" json:"aiFeedbackEnabled"`
	ShowResultsToEmployee    bool `gorm:"default:false" json:"showResultsToEmployee"`
	AllowEmployeePDFDownload bool `gorm:"default:false" json:"allowEmployeePdfDownload"`

	TimeLimitMinutes int        `gorm:"default:0" json:"timeLimitMinutes"` // 0 = unlimited
	StartAt          *time.Time `json:"startAt,omitempty"`
	EndAt            *time.Time `json:"endAt,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// Window gates. A zero StartAt/EndAt means the side is open.
func (a *Assessment) NotYetOpen(now time.Time) bool {
	return a.StartAt != nil && now.Before(*a.StartAt)
}

func (a *Assessment) Expired(now time.Time) bool {
	return a.EndAt != nil && now.After(*a.EndAt)
}

func (a *Assessment) Closed() bool {
	return a.Status == AssessmentStatusClosed
}

// DeliveryConfig is the slice of assessment configuration the participant
// client is allowed to see.
type DeliveryConfig struct {
	IsGraded                 bool   `json:"isGraded"`
	Language                 string `json:"language"`
	ShowResultsToEmployee    bool   `json:"showResultsToEmployee"`
	AllowEmployeePDFDownload bool   `json:"allowEmployeePdfDownload"`
	TimeLimitMinutes         int    `json:"timeLimitMinutes"`
}

func (a *Assessment) DeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		IsGraded:                 a.IsGraded,
		Language:                 a.Language,
		ShowResultsToEmployee:    a.ShowResultsToEmployee,
		AllowEmployeePDFDownload: a.AllowEmployeePDFDownload,
		TimeLimitMinutes:         a.TimeLimitMinutes,
	}
}
