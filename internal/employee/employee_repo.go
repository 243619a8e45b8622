package employee

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	Exists(ctx context.Context, id string) (bool, error)
	GetName(ctx context.Context, id string) (string, error)
	Update(ctx context.Context, empl *Employee) error
	Delete(ctx context.Context, id string) (int64, error)
	DeleteAttendanceByEmployee(ctx context.Context, id string) (int64, error)
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
	return &repository{
		db: gdb,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).First(&empl, "email = ?", email).Error
	return &empl, err
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	_, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repository) GetName(ctx context.Context, id string) (string, error) {
	empl, err := r.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	return empl.Name, nil
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Save(empl).Error
}

func (r *repository) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// DeleteAttendanceByEmployee menghapus semua record absensi milik
// employee dalam transaksi yang sama dengan delete employee (cascade
// eksplisit, FK ON DELETE CASCADE di DB hanya sebagai backstop).
func (r *repository) DeleteAttendanceByEmployee(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Exec("DELETE FROM attendance WHERE employee_id = ?", id)
	return res.RowsAffected, res.Error
}
