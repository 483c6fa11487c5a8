package repository

import (
	"taqyim_backend/internal/model"

	"gorm.io/gorm"
)

type OrganizationRepository struct {
	DB *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{DB: db}
}

func (r *OrganizationRepository) FindByID(id string) (*model.Organization, error) {
	var org model.Organization
	err := r.DB.First(&org, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) FindGroup(id string) (*model.AssessmentGroup, error) {
	var g model.AssessmentGroup
	err := r.DB.First(&g, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}
