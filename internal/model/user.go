package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Staff   UserRole = "staff"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name         string     `gorm:"size:100;not null" json:"name"`
	Email        string     `gorm:"size:100;unique;not null" json:"email"`
	Password     string     `gorm:"size:100;not null" json:"-"`
	Role         UserRole   `gorm:"type:enum('student','staff','admin');default:'student'" json:"role"`
	DepartmentID *uint      `gorm:"index;type:bigint unsigned" json:"departmentId,omitempty"`
	RollNumber   string     `gorm:"size:50" json:"rollNumber,omitempty"` // 学号，仅学生使用
	Disabled     bool       `gorm:"default:false" json:"disabled"`
	LastLogin    time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (User) TableName() string {
	return "users"
}
