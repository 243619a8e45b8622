package employee

import (
	"time"
)

// Employee memakai ID pilihan user (bukan surrogate key) sebagai
// primary key, sesuai kontrak API.
type Employee struct {
	ID         string `gorm:"column:id;type:varchar(20);primaryKey"`
	Name       string `gorm:"column:name;type:varchar(100);not null"`
	Email      string `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_employee_email"`
	Department string `gorm:"column:department;type:varchar(50);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Employee) TableName() string {
	return "employees"
}
