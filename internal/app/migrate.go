package app

import (
	"hrms-lite/internal/attendance"
	"hrms-lite/internal/employee"
	"hrms-lite/internal/shared/connection"

	"gorm.io/gorm"
)

// sqlite tidak mendukung ALTER TABLE ADD CONSTRAINT, jadi tabel attendance
// dibuat lebih dulu lengkap dengan FK sebelum AutoMigrate jalan. Tipe kolom
// harus persis sama dengan tag gorm di entity supaya AutoMigrate tidak
// melakukan table rebuild.
const sqliteAttendanceDDL = `
CREATE TABLE IF NOT EXISTS attendance (
	id uuid PRIMARY KEY,
	employee_id varchar(20) NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
	date varchar(10) NOT NULL,
	status varchar(10) NOT NULL,
	created_at datetime,
	updated_at datetime
)`

// Idempoten: duplicate_object dilempar kalau constraint sudah ada.
const postgresAttendanceFKDDL = `
DO $$
BEGIN
	ALTER TABLE attendance
		ADD CONSTRAINT fk_attendance_employee
		FOREIGN KEY (employee_id) REFERENCES employees(id)
		ON DELETE CASCADE;
EXCEPTION WHEN duplicate_object THEN NULL;
END $$`

// migrateSchema menjalankan AutoMigrate plus FK employee_id -> employees(id)
// dengan ON DELETE CASCADE sebagai backstop di level database.
func migrateSchema(gormDB *gorm.DB, driver string) error {
	if err := gormDB.AutoMigrate(&employee.Employee{}); err != nil {
		return err
	}
	if driver == connection.DriverSQLite {
		if err := gormDB.Exec(sqliteAttendanceDDL).Error; err != nil {
			return err
		}
	}
	if err := gormDB.AutoMigrate(&attendance.AttendanceRecord{}); err != nil {
		return err
	}
	if driver == connection.DriverPostgres {
		if err := gormDB.Exec(postgresAttendanceFKDDL).Error; err != nil {
			return err
		}
	}
	return nil
}
