package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	attendanceerrors "hrms-lite/internal/attendance/errors"
	"hrms-lite/internal/events"
	"hrms-lite/internal/messaging/kafka"
	"hrms-lite/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"

	summaryCacheKeyPrefix = "attendance:summary:"
	summaryCacheTTL       = 60 * time.Second
)

func SummaryCacheKey(date string) string {
	return summaryCacheKeyPrefix + date
}

// EmployeeDirectory adalah potongan kecil dari employee repository
// yang dibutuhkan ledger untuk cek foreign key; didefinisikan di sini
// agar modul attendance tidak bergantung langsung pada modul employee.
type EmployeeDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
	GetName(ctx context.Context, id string) (string, error)
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)
	BulkMark(ctx context.Context, req BulkMarkRequest) (BulkMarkResponse, error)
	GetAll(ctx context.Context, dateFilter string) ([]AttendanceResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]AttendanceResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateAttendanceRequest) (AttendanceResponse, error)
	Delete(ctx context.Context, id string) error
	GetEmployeeSummary(ctx context.Context, employeeID string) (EmployeeSummaryResponse, error)
	GetDailySummary(ctx context.Context, date string) (DashboardSummaryResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeDirectory
	outbox    kafka.OutboxRepository
	rdb       *redis.Client
	sf        *singleflight.Group
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(db *sql.DB, repo Repository, employees EmployeeDirectory, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, employees, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	employees EmployeeDirectory,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outboxRepo,
		rdb:       rdb,
		sf:        &singleflight.Group{},
		logger:    l,
		now:       time.Now,
	}
}

// normalizeStatus menerima variasi kapitalisasi ("present", "ABSENT")
// dan mengembalikan bentuk kanonik.
func normalizeStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "present":
		return StatusPresent, nil
	case "absent":
		return StatusAbsent, nil
	default:
		return "", attendanceerrors.ErrInvalidStatus
	}
}

// validateDate memastikan format YYYY-MM-DD dan menolak tanggal masa depan
func (s *service) validateDate(date string) (string, error) {
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", attendanceerrors.ErrInvalidDateFormat
	}
	today := s.now().UTC().Format(dateLayout)
	if parsed.Format(dateLayout) > today {
		return "", attendanceerrors.ErrFutureDate
	}
	return parsed.Format(dateLayout), nil
}

func (s *service) Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	employeeID := strings.ToUpper(strings.TrimSpace(req.EmployeeID))

	s.logger.Debug("mark attendance requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("date", req.Date),
		zap.String("status", req.Status),
	)

	resp, err := s.markOne(ctx, rid, employeeID, req.Date, req.Status)
	if err != nil {
		return AttendanceResponse{}, err
	}

	s.invalidateSummaryCache(ctx, resp.Date)

	s.logger.Info("mark attendance success",
		zap.String("request_id", rid),
		zap.String("attendance_id", resp.ID),
		zap.String("employee_id", employeeID),
	)
	return resp, nil
}

// markOne menjalankan satu penandaan dalam transaksinya sendiri.
// Dipakai oleh Mark dan per-entry oleh BulkMark.
func (s *service) markOne(ctx context.Context, rid, employeeID, date, status string) (AttendanceResponse, error) {
	canonicalDate, err := s.validateDate(date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	canonicalStatus, err := normalizeStatus(status)
	if err != nil {
		return AttendanceResponse{}, err
	}

	exists, err := s.employees.Exists(ctx, employeeID)
	if err != nil {
		s.logger.Error("mark attendance employee lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if !exists {
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("mark attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByEmployeeAndDate(ctx, employeeID, canonicalDate); err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyMarked
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	rec := &AttendanceRecord{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Date:       canonicalDate,
		Status:     canonicalStatus,
	}

	// Race antara lookup dan insert ditangkap unique constraint dan
	// dipetakan ke conflict oleh mapper.
	if err := qtx.Create(ctx, rec); err != nil {
		s.logger.Error("mark attendance persist failed", zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.AttendanceMarkedEvent{
			EventType:    "attendance_marked",
			RequestID:    rid,
			AttendanceID: rec.ID.String(),
			EmployeeID:   employeeID,
			Date:         canonicalDate,
			Status:       canonicalStatus,
			OccurredAt:   time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return AttendanceResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "attendance",
			AggregateID:   rec.ID.String(),
			EventType:     event.EventType,
			Topic:         events.AttendanceTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("mark attendance outbox persist failed", zap.Error(err))
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("mark attendance commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	return mapToResponse(*rec), nil
}

// BulkMark menjalankan penandaan per-entry secara berurutan, masing-
// masing dalam transaksinya sendiri: best-effort, tanpa rollback atas
// entry yang sudah commit. Caller membaca tally untuk partial success.
func (s *service) BulkMark(ctx context.Context, req BulkMarkRequest) (BulkMarkResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	// Tanggal divalidasi sekali di depan: kalau salah, tidak ada
	// satupun entry yang dieksekusi.
	canonicalDate, err := s.validateDate(req.Date)
	if err != nil {
		return BulkMarkResponse{}, err
	}

	s.logger.Info("bulk mark requested",
		zap.String("request_id", rid),
		zap.String("date", canonicalDate),
		zap.Int("entries", len(req.Statuses)),
	)

	// Urutan deterministik agar hasil partial failure bisa direproduksi
	employeeIDs := make([]string, 0, len(req.Statuses))
	for id := range req.Statuses {
		employeeIDs = append(employeeIDs, id)
	}
	sort.Strings(employeeIDs)

	result := BulkMarkResponse{
		Date:      canonicalDate,
		Requested: len(employeeIDs),
	}

	for _, employeeID := range employeeIDs {
		normalizedID := strings.ToUpper(strings.TrimSpace(employeeID))
		_, err := s.markOne(ctx, rid, normalizedID, canonicalDate, req.Statuses[employeeID])
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, BulkFailure{
				EmployeeID: normalizedID,
				Error:      err.Error(),
			})
			s.logger.Warn("bulk mark entry failed",
				zap.String("request_id", rid),
				zap.String("employee_id", normalizedID),
				zap.Error(err),
			)
			continue
		}
		result.Succeeded++
	}

	s.invalidateSummaryCache(ctx, canonicalDate)

	s.logger.Info("bulk mark finished",
		zap.String("request_id", rid),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

func (s *service) GetAll(ctx context.Context, dateFilter string) ([]AttendanceResponse, error) {
	var (
		rows []AttendanceRecord
		err  error
	)

	if dateFilter != "" {
		if _, parseErr := time.Parse(dateLayout, dateFilter); parseErr != nil {
			return nil, attendanceerrors.ErrInvalidDateFormat
		}
		rows, err = s.repo.FindAllByDate(ctx, dateFilter)
	} else {
		rows, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		s.logger.Error("get attendance failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(rows), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]AttendanceResponse, error) {
	employeeID = strings.ToUpper(strings.TrimSpace(employeeID))

	exists, err := s.employees.Exists(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, attendanceerrors.ErrEmployeeNotFound
	}

	rows, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("get employee attendance failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(rows), nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateAttendanceRequest) (AttendanceResponse, error) {
	canonicalStatus, err := normalizeStatus(req.Status)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	rec.Status = canonicalStatus
	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("update attendance persist failed", zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update attendance commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.invalidateSummaryCache(ctx, rec.Date)

	s.logger.Info("update attendance success", zap.String("attendance_id", id))
	return mapToResponse(*rec), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete attendance begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Record diambil dulu agar tahu tanggal mana yang cache-nya harus
	// di-invalidate setelah delete.
	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	deleted, err := qtx.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete attendance failed", zap.Error(err))
		return mapRepositoryError(err)
	}
	if deleted == 0 {
		return attendanceerrors.ErrAttendanceNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete attendance commit failed", zap.Error(err))
		return err
	}

	s.invalidateSummaryCache(ctx, rec.Date)

	s.logger.Info("delete attendance success", zap.String("attendance_id", id))
	return nil
}

func (s *service) GetEmployeeSummary(ctx context.Context, employeeID string) (EmployeeSummaryResponse, error) {
	employeeID = strings.ToUpper(strings.TrimSpace(employeeID))

	name, err := s.employees.GetName(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeSummaryResponse{}, attendanceerrors.ErrEmployeeNotFound
		}
		return EmployeeSummaryResponse{}, err
	}

	present, err := s.repo.CountByEmployeeAndStatus(ctx, employeeID, StatusPresent)
	if err != nil {
		return EmployeeSummaryResponse{}, mapRepositoryError(err)
	}
	absent, err := s.repo.CountByEmployeeAndStatus(ctx, employeeID, StatusAbsent)
	if err != nil {
		return EmployeeSummaryResponse{}, mapRepositoryError(err)
	}

	return EmployeeSummaryResponse{
		EmployeeID:   employeeID,
		Name:         name,
		TotalPresent: present,
		TotalAbsent:  absent,
	}, nil
}

// GetDailySummary menghitung {total_employees, total_present,
// total_absent} untuk satu tanggal. Employee tanpa record di tanggal
// itu hanya masuk ke total_employees (residual "unmarked").
func (s *service) GetDailySummary(ctx context.Context, date string) (DashboardSummaryResponse, error) {
	if date == "" {
		date = s.now().UTC().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return DashboardSummaryResponse{}, attendanceerrors.ErrInvalidDateFormat
	}

	cacheKey := SummaryCacheKey(date)

	// 1. Cek Redis
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp DashboardSummaryResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// 2. Singleflight untuk menahan stampede saat dashboard di-refresh
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		totalEmployees, err := s.repo.CountEmployees(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		present, err := s.repo.CountByDateAndStatus(ctx, date, StatusPresent)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		absent, err := s.repo.CountByDateAndStatus(ctx, date, StatusAbsent)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := DashboardSummaryResponse{
			TotalEmployees: totalEmployees,
			TotalPresent:   present,
			TotalAbsent:    absent,
		}

		// 3. Simpan ke Redis dengan TTL pendek; perubahan employee
		// count cukup menunggu TTL, write attendance meng-invalidate
		// key-nya langsung.
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, summaryCacheTTL)
			}
		}

		return resp, nil
	})

	if err != nil {
		return DashboardSummaryResponse{}, err
	}

	return v.(DashboardSummaryResponse), nil
}

func (s *service) invalidateSummaryCache(ctx context.Context, date string) {
	if s.rdb == nil {
		return
	}
	cacheKey := SummaryCacheKey(date)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate summary cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(rec AttendanceRecord) AttendanceResponse {
	return AttendanceResponse{
		ID:         rec.ID.String(),
		EmployeeID: rec.EmployeeID,
		Date:       rec.Date,
		Status:     rec.Status,
		CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(rows []AttendanceRecord) []AttendanceResponse {
	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
