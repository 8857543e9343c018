package service

import (
	"college_edu_backend/internal/model"
	"college_edu_backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	return s.Repo.FindByID(id)
}

func (s *UserService) List(role string, departmentID uint, name string, page, limit int) ([]model.User, int64, error) {
	return s.Repo.List(role, departmentID, name, page, limit)
}

type UpdateProfileRequest struct {
	Name       string `json:"name"`
	Password   string `json:"password"`
	RollNumber string `json:"rollNumber"`
}

func (s *UserService) UpdateProfile(id uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.RollNumber != "" {
		user.RollNumber = req.RollNumber
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) SetDisabled(id uint, disabled bool) error {
	return s.Repo.SetDisabled(id, disabled)
}
