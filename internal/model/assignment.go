package model

import "time"

// swagger:model Assignment
type Assignment struct {
	BaseModel
	DepartmentID     uint        `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_dept_assignment_no" json:"departmentId"`
	AssignmentNumber int         `gorm:"not null;uniqueIndex:idx_dept_assignment_no" json:"assignmentNumber"`
	TopicName        string      `gorm:"size:255;not null" json:"topicName"`
	Description      string      `gorm:"type:text" json:"description"`
	StartDate        time.Time   `gorm:"not null" json:"startDate"`
	EndDate          time.Time   `gorm:"not null" json:"endDate"`
	CreatorID        uint        `gorm:"index;type:bigint unsigned" json:"creatorId"`
	Department       *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}
