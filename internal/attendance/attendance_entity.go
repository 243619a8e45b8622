package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// AttendanceRecord menyimpan satu status per (employee, date).
// Date disimpan sebagai string YYYY-MM-DD agar seragam di postgres
// dan sqlite; uniqueness dijaga constraint uq_attendance_employee_date.
type AttendanceRecord struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	EmployeeID string    `gorm:"column:employee_id;type:varchar(20);not null;index;uniqueIndex:uq_attendance_employee_date"`
	Date       string    `gorm:"column:date;type:varchar(10);not null;uniqueIndex:uq_attendance_employee_date"`
	Status     string    `gorm:"column:status;type:varchar(10);not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (AttendanceRecord) TableName() string {
	return "attendance"
}
