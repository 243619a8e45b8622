package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hrms-lite/internal/attendance"
	attendanceerrors "hrms-lite/internal/attendance/errors"
	"hrms-lite/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	markFn               func(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error)
	bulkMarkFn           func(ctx context.Context, req attendance.BulkMarkRequest) (attendance.BulkMarkResponse, error)
	getAllFn             func(ctx context.Context, dateFilter string) ([]attendance.AttendanceResponse, error)
	getByEmployeeFn      func(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error)
	updateStatusFn       func(ctx context.Context, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error)
	deleteFn             func(ctx context.Context, id string) error
	getEmployeeSummaryFn func(ctx context.Context, employeeID string) (attendance.EmployeeSummaryResponse, error)
	getDailySummaryFn    func(ctx context.Context, date string) (attendance.DashboardSummaryResponse, error)
}

func (f *fakeService) Mark(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	return f.markFn(ctx, req)
}
func (f *fakeService) BulkMark(ctx context.Context, req attendance.BulkMarkRequest) (attendance.BulkMarkResponse, error) {
	return f.bulkMarkFn(ctx, req)
}
func (f *fakeService) GetAll(ctx context.Context, dateFilter string) ([]attendance.AttendanceResponse, error) {
	return f.getAllFn(ctx, dateFilter)
}
func (f *fakeService) GetByEmployee(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error) {
	return f.getByEmployeeFn(ctx, employeeID)
}
func (f *fakeService) UpdateStatus(ctx context.Context, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	return f.updateStatusFn(ctx, id, req)
}
func (f *fakeService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}
func (f *fakeService) GetEmployeeSummary(ctx context.Context, employeeID string) (attendance.EmployeeSummaryResponse, error) {
	return f.getEmployeeSummaryFn(ctx, employeeID)
}
func (f *fakeService) GetDailySummary(ctx context.Context, date string) (attendance.DashboardSummaryResponse, error) {
	return f.getDailySummaryFn(ctx, date)
}

func TestAttendanceHandler_Mark(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeService{
			markFn: func(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
				assert.Equal(t, "EMP001", req.EmployeeID)
				return attendance.AttendanceResponse{
					ID:         uuid.New().String(),
					EmployeeID: req.EmployeeID,
					Date:       req.Date,
					Status:     attendance.StatusPresent,
				}, nil
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":"EMP001","date":"2026-03-14","status":"Present"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Mark(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "EMP001")
		assert.Contains(t, w.Body.String(), attendance.StatusPresent)
	})

	t.Run("validation error", func(t *testing.T) {
		h := attendance.NewHandler(&fakeService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Mark(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeInvalidInput)
	})

	t.Run("duplicate returns conflict", func(t *testing.T) {
		svc := &fakeService{
			markFn: func(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrAlreadyMarked
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":"EMP001","date":"2026-03-14","status":"Present"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Mark(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeConflict)
	})

	t.Run("future date returns 422", func(t *testing.T) {
		svc := &fakeService{
			markFn: func(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrFutureDate
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"employee_id":"EMP001","date":"2030-01-01","status":"Present"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Mark(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "future")
	})
}

func TestAttendanceHandler_BulkMark(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("partial failure tetap 200 dengan tally", func(t *testing.T) {
		svc := &fakeService{
			bulkMarkFn: func(ctx context.Context, req attendance.BulkMarkRequest) (attendance.BulkMarkResponse, error) {
				assert.Len(t, req.Statuses, 2)
				return attendance.BulkMarkResponse{
					Date:      req.Date,
					Requested: 2,
					Succeeded: 1,
					Failed:    1,
					Failures: []attendance.BulkFailure{
						{EmployeeID: "EMP404", Error: "Employee not found"},
					},
				}, nil
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"date":"2026-03-14","statuses":{"EMP001":"Present","EMP404":"Absent"}}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/attendance/bulk", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.BulkMark(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "\"succeeded\":1")
		assert.Contains(t, w.Body.String(), "\"failed\":1")
		assert.Contains(t, w.Body.String(), "EMP404")
	})

	t.Run("statuses kosong -> validation error", func(t *testing.T) {
		h := attendance.NewHandler(&fakeService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"date":"2026-03-14","statuses":{}}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/attendance/bulk", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.BulkMark(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAttendanceHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success dengan meta pagination", func(t *testing.T) {
		svc := &fakeService{
			getAllFn: func(ctx context.Context, dateFilter string) ([]attendance.AttendanceResponse, error) {
				assert.Equal(t, "2026-03-14", dateFilter)
				return []attendance.AttendanceResponse{
					{ID: uuid.New().String(), EmployeeID: "EMP001", Date: dateFilter, Status: attendance.StatusPresent},
					{ID: uuid.New().String(), EmployeeID: "EMP002", Date: dateFilter, Status: attendance.StatusAbsent},
				}, nil
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/attendance?date=2026-03-14", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "\"meta\"")
		assert.Contains(t, w.Body.String(), "EMP002")
	})

	t.Run("invalid date filter", func(t *testing.T) {
		svc := &fakeService{
			getAllFn: func(ctx context.Context, dateFilter string) ([]attendance.AttendanceResponse, error) {
				return nil, attendanceerrors.ErrInvalidDateFormat
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/attendance?date=bad", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAttendanceHandler_GetByEmployee(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeService{
			getByEmployeeFn: func(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error) {
				assert.Equal(t, "EMP001", employeeID)
				return []attendance.AttendanceResponse{
					{ID: uuid.New().String(), EmployeeID: employeeID, Date: "2026-03-14", Status: attendance.StatusPresent},
				}, nil
			},
		}

		r := gin.New()
		h := attendance.NewHandler(svc)
		r.GET("/api/attendance/employee/:id", h.GetByEmployee)

		req := httptest.NewRequest(http.MethodGet, "/api/attendance/employee/EMP001", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "EMP001")
	})

	t.Run("unknown employee", func(t *testing.T) {
		svc := &fakeService{
			getByEmployeeFn: func(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error) {
				return nil, attendanceerrors.ErrEmployeeNotFound
			},
		}

		r := gin.New()
		h := attendance.NewHandler(svc)
		r.GET("/api/attendance/employee/:id", h.GetByEmployee)

		req := httptest.NewRequest(http.MethodGet, "/api/attendance/employee/EMP404", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAttendanceHandler_Update(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		recID := uuid.New().String()
		svc := &fakeService{
			updateStatusFn: func(ctx context.Context, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
				assert.Equal(t, recID, id)
				return attendance.AttendanceResponse{ID: id, Status: attendance.StatusAbsent}, nil
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPut, "/api/attendance/"+recID, strings.NewReader(`{"status":"Absent"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: recID}}

		h.Update(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), attendance.StatusAbsent)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc := &fakeService{
			updateStatusFn: func(ctx context.Context, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodPut, "/api/attendance/123", strings.NewReader(`{"status":"Late"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: "123"}}

		h.Update(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestAttendanceHandler_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success - 204 tanpa body", func(t *testing.T) {
		recID := uuid.New().String()
		svc := &fakeService{
			deleteFn: func(ctx context.Context, id string) error {
				assert.Equal(t, recID, id)
				return nil
			},
		}

		r := gin.New()
		h := attendance.NewHandler(svc)
		r.DELETE("/api/attendance/:id", h.Delete)

		req := httptest.NewRequest(http.MethodDelete, "/api/attendance/"+recID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeService{
			deleteFn: func(ctx context.Context, id string) error {
				return attendanceerrors.ErrAttendanceNotFound
			},
		}

		r := gin.New()
		h := attendance.NewHandler(svc)
		r.DELETE("/api/attendance/:id", h.Delete)

		req := httptest.NewRequest(http.MethodDelete, "/api/attendance/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAttendanceHandler_Summaries(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("dashboard summary", func(t *testing.T) {
		svc := &fakeService{
			getDailySummaryFn: func(ctx context.Context, date string) (attendance.DashboardSummaryResponse, error) {
				assert.Equal(t, "2026-03-14", date)
				return attendance.DashboardSummaryResponse{
					TotalEmployees: 10,
					TotalPresent:   7,
					TotalAbsent:    2,
				}, nil
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/attendance/dashboard/summary?date=2026-03-14", nil)

		h.DashboardSummary(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "\"total_employees\":10")
		assert.Contains(t, w.Body.String(), "\"total_present\":7")
		assert.Contains(t, w.Body.String(), "\"total_absent\":2")
	})

	t.Run("employee summary", func(t *testing.T) {
		svc := &fakeService{
			getEmployeeSummaryFn: func(ctx context.Context, employeeID string) (attendance.EmployeeSummaryResponse, error) {
				return attendance.EmployeeSummaryResponse{
					EmployeeID:   employeeID,
					Name:         "Andi Wijaya",
					TotalPresent: 18,
					TotalAbsent:  2,
				}, nil
			},
		}

		r := gin.New()
		h := attendance.NewHandler(svc)
		r.GET("/api/attendance/summary/:id", h.GetEmployeeSummary)

		req := httptest.NewRequest(http.MethodGet, "/api/attendance/summary/EMP001", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Andi Wijaya")
	})
}
