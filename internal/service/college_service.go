package service

import (
	"college_edu_backend/internal/model"
	"college_edu_backend/internal/repository"
	"college_edu_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type CollegeService struct {
	Colleges    *repository.CollegeRepository
	Departments *repository.DepartmentRepository
}

func NewCollegeService(colleges *repository.CollegeRepository, departments *repository.DepartmentRepository) *CollegeService {
	return &CollegeService{Colleges: colleges, Departments: departments}
}

type CollegeRequest struct {
	Name    string `json:"name" binding:"required"`
	Code    string `json:"code" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (s *CollegeService) Create(req CollegeRequest) (*model.College, error) {
	if _, err := s.Colleges.FindByCode(req.Code); err == nil {
		return nil, util.ErrDuplicateCode
	}

	c := &model.College{
		Name:    req.Name,
		Code:    req.Code,
		Address: req.Address,
		Phone:   req.Phone,
	}
	if err := s.Colleges.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CollegeService) Get(id uint) (*model.College, error) {
	c, err := s.Colleges.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCollegeNotFound
	}
	return c, err
}

func (s *CollegeService) List(page, limit int) ([]model.College, int64, error) {
	return s.Colleges.List(page, limit)
}

func (s *CollegeService) Update(id uint, req CollegeRequest) (*model.College, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.Code = req.Code
	c.Address = req.Address
	c.Phone = req.Phone
	if err := s.Colleges.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CollegeService) Delete(id uint) error {
	return s.Colleges.Delete(id)
}

type DepartmentRequest struct {
	CollegeID uint   `json:"collegeId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
}

func (s *CollegeService) CreateDepartment(req DepartmentRequest) (*model.Department, error) {
	if _, err := s.Colleges.FindByID(req.CollegeID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCollegeNotFound
	} else if err != nil {
		return nil, err
	}
	if _, err := s.Departments.FindByCode(req.CollegeID, req.Code); err == nil {
		return nil, util.ErrDuplicateCode
	}

	d := &model.Department{
		CollegeID: req.CollegeID,
		Name:      req.Name,
		Code:      req.Code,
	}
	if err := s.Departments.Create(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CollegeService) GetDepartment(id uint) (*model.Department, error) {
	d, err := s.Departments.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDepartmentNotFound
	}
	return d, err
}

func (s *CollegeService) ListDepartments(collegeID uint, page, limit int) ([]model.Department, int64, error) {
	return s.Departments.List(collegeID, page, limit)
}

func (s *CollegeService) UpdateDepartment(id uint, req DepartmentRequest) (*model.Department, error) {
	d, err := s.GetDepartment(id)
	if err != nil {
		return nil, err
	}
	d.CollegeID = req.CollegeID
	d.Name = req.Name
	d.Code = req.Code
	if err := s.Departments.Update(d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *CollegeService) DeleteDepartment(id uint) error {
	return s.Departments.Delete(id)
}
