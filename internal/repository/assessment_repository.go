package repository

import (
	"taqyim_backend/internal/model"

	"gorm.io/gorm"
)

type AssessmentRepository struct {
	DB *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{DB: db}
}

func (r *AssessmentRepository) FindByID(id string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.DB.First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListQuestions returns the assessment's questions in authoring order,
// answer keys included. Callers that hand questions to participants must go
// through model.AssessmentQuestion.ForDelivery.
func (r *AssessmentRepository) ListQuestions(assessmentID string) ([]model.AssessmentQuestion, error) {
	var qs []model.AssessmentQuestion
	err := r.DB.Where("assessment_id = ?", assessmentID).
		Order("`order` asc, created_at asc").
		Find(&qs).Error
	return qs, err
}

func (r *AssessmentRepository) CountQuestions(assessmentID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AssessmentQuestion{}).
		Where("assessment_id = ?", assessmentID).
		Count(&count).Error
	return count, err
}
