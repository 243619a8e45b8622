package attendance

type MarkAttendanceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,min=4,max=20"`
	Date       string `json:"date" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

type BulkMarkRequest struct {
	Date     string            `json:"date" binding:"required"`
	Statuses map[string]string `json:"statuses" binding:"required,min=1"`
}

type UpdateAttendanceRequest struct {
	Status string `json:"status" binding:"required"`
}

type AttendanceResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type BulkFailure struct {
	EmployeeID string `json:"employee_id"`
	Error      string `json:"error"`
}

// BulkMarkResponse melaporkan tally partial-success: entry yang sudah
// commit tidak di-rollback saat entry berikutnya gagal.
type BulkMarkResponse struct {
	Date      string        `json:"date"`
	Requested int           `json:"requested"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []BulkFailure `json:"failures,omitempty"`
}

type DashboardSummaryResponse struct {
	TotalEmployees int64 `json:"total_employees"`
	TotalPresent   int64 `json:"total_present"`
	TotalAbsent    int64 `json:"total_absent"`
}

type EmployeeSummaryResponse struct {
	EmployeeID   string `json:"employee_id"`
	Name         string `json:"name"`
	TotalPresent int64  `json:"total_present"`
	TotalAbsent  int64  `json:"total_absent"`
}
