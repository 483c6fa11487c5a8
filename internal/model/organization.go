package model

// Organization is the tenant. Only the fields the delivery flow reads are
// modelled here; plan limits and billing live with the admin application.
// swagger:model Organization
type Organization struct {
	UUIDBase
	Name           string `gorm:"size:255;not null" json:"name"`
	NameAr         string `gorm:"size:255" json:"nameAr"`
	LogoKey        string `gorm:"size:512" json:"-"`
	PrimaryColor   string `gorm:"size:16" json:"primaryColor"`
	SecondaryColor string `gorm:"size:16" json:"secondaryColor"`
}

func (Organization) TableName() string {
	return "organizations"
}

// AssessmentGroup is a cohort link. Participants reaching an assessment
// through a group link self-register before taking it.
// swagger:model AssessmentGroup
type AssessmentGroup struct {
	UUIDBase
	OrganizationID string `gorm:"index;type:varchar(36)" json:"organizationId"`
	AssessmentID   string `gorm:"index;type:varchar(36)" json:"assessmentId"`
	Name           string `gorm:"size:255;not null" json:"name"`
}

func (AssessmentGroup) TableName() string {
	return "assessment_groups"
}

// Branding is the organization-specific look carried on every delivery
// payload, including the terminal gate screens.
type Branding struct {
	OrganizationName string `json:"organizationName"`
	LogoURL          string `json:"logoUrl,omitempty"`
	PrimaryColor     string `json:"primaryColor,omitempty"`
	SecondaryColor   string `json:"secondaryColor,omitempty"`
}
