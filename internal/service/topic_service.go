package service

import (
	"college_edu_backend/internal/model"
	"college_edu_backend/internal/repository"
	"college_edu_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type TopicService struct {
	Topics      *repository.TopicRepository
	Departments *repository.DepartmentRepository
}

func NewTopicService(topics *repository.TopicRepository, departments *repository.DepartmentRepository) *TopicService {
	return &TopicService{Topics: topics, Departments: departments}
}

type TopicRequest struct {
	DepartmentID uint   `json:"departmentId" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
}

func (s *TopicService) Create(req TopicRequest) (*model.Topic, error) {
	if _, err := s.Departments.FindByID(req.DepartmentID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDepartmentNotFound
	} else if err != nil {
		return nil, err
	}

	t := &model.Topic{
		DepartmentID: req.DepartmentID,
		Name:         req.Name,
		Description:  req.Description,
	}
	if err := s.Topics.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TopicService) Get(id uint) (*model.Topic, error) {
	t, err := s.Topics.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTopicNotFound
	}
	return t, err
}

func (s *TopicService) List(departmentID uint, page, limit int) ([]model.Topic, int64, error) {
	return s.Topics.List(departmentID, page, limit)
}

func (s *TopicService) Update(id uint, req TopicRequest) (*model.Topic, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	t.DepartmentID = req.DepartmentID
	t.Name = req.Name
	t.Description = req.Description
	if err := s.Topics.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TopicService) Delete(id uint) error {
	return s.Topics.Delete(id)
}

type SubTopicRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *TopicService) CreateSubTopic(topicID uint, req SubTopicRequest) (*model.SubTopic, error) {
	if _, err := s.Get(topicID); err != nil {
		return nil, err
	}

	st := &model.SubTopic{
		TopicID:     topicID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.Topics.CreateSubTopic(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *TopicService) GetSubTopic(id uint) (*model.SubTopic, error) {
	st, err := s.Topics.FindSubTopicByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubTopicNotFound
	}
	return st, err
}

func (s *TopicService) ListSubTopics(topicID uint) ([]model.SubTopic, error) {
	return s.Topics.ListSubTopics(topicID)
}

func (s *TopicService) DeleteSubTopic(id uint) error {
	return s.Topics.DeleteSubTopic(id)
}
