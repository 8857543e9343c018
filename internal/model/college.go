package model

// swagger:model College
type College struct {
	BaseModel
	Name    string `gorm:"size:255;not null;unique" json:"name"`
	Code    string `gorm:"size:50;not null;unique" json:"code"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"size:30" json:"phone"`
}

func (College) TableName() string {
	return "colleges"
}

// swagger:model Department
type Department struct {
	BaseModel
	CollegeID uint     `gorm:"index;type:bigint unsigned;not null;uniqueIndex:idx_college_dept_code" json:"collegeId"`
	Name      string   `gorm:"size:255;not null" json:"name"`
	Code      string   `gorm:"size:50;not null;uniqueIndex:idx_college_dept_code" json:"code"`
	College   *College `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
}

func (Department) TableName() string {
	return "departments"
}
