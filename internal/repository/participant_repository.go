package repository

import (
	"encoding/json"
	"time"

	"taqyim_backend/internal/model"

	"gorm.io/gorm"
)

type ParticipantRepository struct {
	DB *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *ParticipantRepository {
	return &ParticipantRepository{DB: db}
}

func (r *ParticipantRepository) Create(p *model.Participant) error {
	return r.DB.Create(p).Error
}

func (r *ParticipantRepository) FindByID(id string) (*model.Participant, error) {
	var p model.Participant
	err := r.DB.First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// EmailUsed reports whether the email has already been used for this
// assessment within the organization. Per-assessment uniqueness is a
// business rule, not a schema constraint, because the same person may sit
// different assessments.
func (r *ParticipantRepository) EmailUsed(organizationID, assessmentID, email string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Participant{}).
		Where("organization_id = ? AND assessment_id = ? AND email = ?", organizationID, assessmentID, email).
		Count(&count).Error
	return count > 0, err
}

func (r *ParticipantRepository) EmployeeCodeUsed(organizationID, assessmentID, employeeCode string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Participant{}).
		Where("organization_id = ? AND assessment_id = ? AND employee_code = ?", organizationID, assessmentID, employeeCode).
		Count(&count).Error
	return count > 0, err
}

// MarkStarted flips an invited participant to started. Conditional so a
// replayed start cannot reset StartedAt.
func (r *ParticipantRepository) MarkStarted(id string, at time.Time) error {
	return r.DB.Model(&model.Participant{}).
		Where("id = ? AND status = ?", id, model.ParticipantStatusInvited).
		Updates(map[string]interface{}{
			"status":     model.ParticipantStatusStarted,
			"started_at": at,
		}).Error
}

// CompleteIfOpen is the idempotency boundary: a conditional update that
// only succeeds while the session is not yet completed. Of two concurrent
// submissions, exactly one sees RowsAffected == 1; the loser must treat the
// session as already submitted.
func (r *ParticipantRepository) CompleteIfOpen(id string, summary json.RawMessage, aiReport *string, completedAt time.Time) (bool, error) {
	res := r.DB.Model(&model.Participant{}).
		Where("id = ? AND status <> ?", id, model.ParticipantStatusCompleted).
		Updates(map[string]interface{}{
			"status":         model.ParticipantStatusCompleted,
			"completed_at":   completedAt,
			"score_summary":  summary,
			"ai_report_text": aiReport,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
