package repository

import (
	"college_edu_backend/internal/model"

	"gorm.io/gorm"
)

type CollegeRepository struct {
	DB *gorm.DB
}

func NewCollegeRepository(db *gorm.DB) *CollegeRepository {
	return &CollegeRepository{DB: db}
}

func (r *CollegeRepository) Create(c *model.College) error {
	return r.DB.Create(c).Error
}

func (r *CollegeRepository) FindByID(id uint) (*model.College, error) {
	var c model.College
	err := r.DB.First(&c, id).Error
	return &c, err
}

func (r *CollegeRepository) FindByCode(code string) (*model.College, error) {
	var c model.College
	err := r.DB.Where("code = ?", code).First(&c).Error
	return &c, err
}

func (r *CollegeRepository) List(page, limit int) ([]model.College, int64, error) {
	var cs []model.College
	var total int64
	query := r.DB.Model(&model.College{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("name asc").Offset(offset).Limit(limit).Find(&cs).Error
	return cs, total, err
}

func (r *CollegeRepository) Update(c *model.College) error {
	return r.DB.Save(c).Error
}

func (r *CollegeRepository) Delete(id uint) error {
	return r.DB.Delete(&model.College{}, id).Error
}
