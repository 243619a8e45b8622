package kafka_test

import (
	"context"
	"testing"

	"hrms-lite/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestEnsureOutboxTable(t *testing.T) {
	ctx := context.Background()

	t.Run("membuat tabel dan index saat startup", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS outbox_events").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("CREATE INDEX IF NOT EXISTS idx_outbox_events_status").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := kafka.EnsureOutboxTable(ctx, db)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error DDL diteruskan ke pemanggil", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS outbox_events").
			WillReturnError(assert.AnError)

		err := kafka.EnsureOutboxTable(ctx, db)

		assert.Error(t, err)
	})
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()

	validEvent := kafka.OutboxEvent{
		ID:            "11111111-1111-1111-1111-111111111111",
		RequestID:     "req-1",
		AggregateType: "employee",
		AggregateID:   "EMP001",
		EventType:     "employee_created",
		Topic:         "hrms.employee.events",
		Payload:       []byte(`{"employeeId":"EMP001"}`),
		Status:        kafka.OutboxStatusPending,
	}

	t.Run("event valid di-insert", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		mock.ExpectExec("INSERT INTO outbox_events").
			WithArgs(
				validEvent.ID, validEvent.RequestID, validEvent.AggregateType,
				validEvent.AggregateID, validEvent.EventType, validEvent.Topic,
				validEvent.Payload, validEvent.Status,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := kafka.NewOutboxRepository(db)
		err := repo.Create(ctx, validEvent)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("event invalid ditolak sebelum menyentuh database", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		invalid := validEvent
		invalid.Payload = nil

		repo := kafka.NewOutboxRepository(db)
		err := repo.Create(ctx, invalid)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestValidateOutboxEvent(t *testing.T) {
	base := kafka.OutboxEvent{
		ID:      "11111111-1111-1111-1111-111111111111",
		Topic:   "hrms.employee.events",
		Payload: []byte(`{}`),
		Status:  kafka.OutboxStatusPending,
	}

	t.Run("event lengkap lolos", func(t *testing.T) {
		assert.NoError(t, kafka.ValidateOutboxEvent(base))
	})

	t.Run("id kosong ditolak", func(t *testing.T) {
		e := base
		e.ID = ""
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})

	t.Run("topic kosong ditolak", func(t *testing.T) {
		e := base
		e.Topic = ""
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})

	t.Run("payload kosong ditolak", func(t *testing.T) {
		e := base
		e.Payload = nil
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})

	t.Run("status di luar enum ditolak", func(t *testing.T) {
		e := base
		e.Status = "queued"
		assert.Error(t, kafka.ValidateOutboxEvent(e))
	})
}
