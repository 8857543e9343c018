package service

import (
	"college_edu_backend/internal/model"
	"college_edu_backend/internal/repository"
	"college_edu_backend/internal/util"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AssignmentService struct {
	Assignments *repository.AssignmentRepository
	Departments *repository.DepartmentRepository
}

func NewAssignmentService(assignments *repository.AssignmentRepository, departments *repository.DepartmentRepository) *AssignmentService {
	return &AssignmentService{Assignments: assignments, Departments: departments}
}

type AssignmentRequest struct {
	DepartmentID     uint   `json:"departmentId" binding:"required"`
	AssignmentNumber int    `json:"assignmentNumber" binding:"required"`
	TopicName        string `json:"topicName" binding:"required"`
	Description      string `json:"description"`
	StartDate        string `json:"startDate" binding:"required"` // 2006-01-02
	EndDate          string `json:"endDate" binding:"required"`
}

func (s *AssignmentService) Create(req AssignmentRequest, creatorID uint) (*model.Assignment, error) {
	if _, err := s.Departments.FindByID(req.DepartmentID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDepartmentNotFound
	} else if err != nil {
		return nil, err
	}
	if _, err := s.Assignments.FindByNumber(req.DepartmentID, req.AssignmentNumber); err == nil {
		return nil, fmt.Errorf("assignment %d already exists in this department", req.AssignmentNumber)
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate %q: %w", req.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid endDate %q: %w", req.EndDate, err)
	}
	if end.Before(start) {
		return nil, errors.New("endDate is before startDate")
	}

	a := &model.Assignment{
		DepartmentID:     req.DepartmentID,
		AssignmentNumber: req.AssignmentNumber,
		TopicName:        req.TopicName,
		Description:      req.Description,
		StartDate:        start,
		EndDate:          end,
		CreatorID:        creatorID,
	}
	if err := s.Assignments.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) Get(id uint) (*model.Assignment, error) {
	a, err := s.Assignments.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssignmentNotFound
	}
	return a, err
}

func (s *AssignmentService) List(departmentID uint, page, limit int) ([]model.Assignment, int64, error) {
	return s.Assignments.List(departmentID, page, limit)
}

// ListActive 学生可见：当前开放作答的作业
func (s *AssignmentService) ListActive(departmentID uint) ([]model.Assignment, error) {
	return s.Assignments.ListActive(departmentID, time.Now())
}

func (s *AssignmentService) Delete(id uint) error {
	return s.Assignments.Delete(id)
}
