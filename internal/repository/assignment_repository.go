package repository

import (
	"college_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(a *model.Assignment) error {
	return r.DB.Create(a).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.Preload("Department").First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) FindByNumber(departmentID uint, number int) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.Where("department_id = ? AND assignment_number = ?", departmentID, number).First(&a).Error
	return &a, err
}

func (r *AssignmentRepository) List(departmentID uint, page, limit int) ([]model.Assignment, int64, error) {
	var as []model.Assignment
	var total int64
	query := r.DB.Model(&model.Assignment{})
	if departmentID > 0 {
		query = query.Where("department_id = ?", departmentID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("assignment_number asc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

// ListActive 列出当前时间窗口内开放的作业
func (r *AssignmentRepository) ListActive(departmentID uint, now time.Time) ([]model.Assignment, error) {
	var as []model.Assignment
	query := r.DB.Where("start_date <= ? AND end_date >= ?", now, now)
	if departmentID > 0 {
		query = query.Where("department_id = ?", departmentID)
	}
	err := query.Order("assignment_number asc").Find(&as).Error
	return as, err
}

func (r *AssignmentRepository) Update(a *model.Assignment) error {
	return r.DB.Save(a).Error
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Assignment{}, id).Error
}
