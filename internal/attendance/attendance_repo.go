package attendance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *AttendanceRecord) error
	FindByID(ctx context.Context, id string) (*AttendanceRecord, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*AttendanceRecord, error)
	FindAll(ctx context.Context) ([]AttendanceRecord, error)
	FindAllByDate(ctx context.Context, date string) ([]AttendanceRecord, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]AttendanceRecord, error)
	Update(ctx context.Context, rec *AttendanceRecord) error
	Delete(ctx context.Context, id string) (int64, error)
	CountEmployees(ctx context.Context) (int64, error)
	CountByDateAndStatus(ctx context.Context, date, status string) (int64, error)
	CountByEmployeeAndStatus(ctx context.Context, employeeID, status string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx mengembalikan repository yang seluruh query gorm-nya berjalan
// di atas tx milik service, bukan connection pool.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	gdb := r.db.Session(&gorm.Session{NewDB: true})
	gdb.Statement.ConnPool = tx
	return &repository{db: gdb, tx: tx}
}

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date = ?", date).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindAll(ctx context.Context) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Order("date DESC, employee_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByDate(ctx context.Context, date string) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("employee_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&AttendanceRecord{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *repository) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Count(&count).Error
	return count, err
}

func (r *repository) CountByDateAndStatus(ctx context.Context, date, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Where("date = ?", date).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) CountByEmployeeAndStatus(ctx context.Context, employeeID, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Where("employee_id = ?", employeeID).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
