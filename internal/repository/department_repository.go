package repository

import (
	"college_edu_backend/internal/model"

	"gorm.io/gorm"
)

type DepartmentRepository struct {
	DB *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{DB: db}
}

func (r *DepartmentRepository) Create(d *model.Department) error {
	return r.DB.Create(d).Error
}

func (r *DepartmentRepository) FindByID(id uint) (*model.Department, error) {
	var d model.Department
	err := r.DB.Preload("College").First(&d, id).Error
	return &d, err
}

func (r *DepartmentRepository) FindByCode(collegeID uint, code string) (*model.Department, error) {
	var d model.Department
	query := r.DB.Where("code = ?", code)
	if collegeID > 0 {
		query = query.Where("college_id = ?", collegeID)
	}
	err := query.First(&d).Error
	return &d, err
}

func (r *DepartmentRepository) List(collegeID uint, page, limit int) ([]model.Department, int64, error) {
	var ds []model.Department
	var total int64
	query := r.DB.Model(&model.Department{})
	if collegeID > 0 {
		query = query.Where("college_id = ?", collegeID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("College").Order("name asc").Offset(offset).Limit(limit).Find(&ds).Error
	return ds, total, err
}

func (r *DepartmentRepository) Update(d *model.Department) error {
	return r.DB.Save(d).Error
}

func (r *DepartmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Department{}, id).Error
}
