package attendanceerrors

import (
	"hrms-lite/internal/shared/apperror"
	"net/http"
)

var (
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrAlreadyMarked = apperror.New(
		apperror.CodeConflict,
		"Attendance already marked for this employee and date",
		http.StatusConflict,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be 'Present' or 'Absent'",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"Date must be in YYYY-MM-DD format",
		http.StatusUnprocessableEntity,
	)
	ErrFutureDate = apperror.New(
		apperror.CodeInvalidInput,
		"Attendance date cannot be in the future",
		http.StatusUnprocessableEntity,
	)
)
