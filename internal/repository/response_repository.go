package repository

import (
	"taqyim_backend/internal/model"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

// CreateBatch appends the audit rows for one submission in a single insert.
// Rows are never updated afterwards.
func (r *ResponseRepository) CreateBatch(rows []model.ParticipantResponse) error {
	if len(rows) == 0 {
		return nil
	}
	return r.DB.Create(&rows).Error
}

func (r *ResponseRepository) ListByParticipant(participantID string) ([]model.ParticipantResponse, error) {
	var rows []model.ParticipantResponse
	err := r.DB.Where("participant_id = ?", participantID).
		Order("created_at asc").
		Find(&rows).Error
	return rows, err
}
