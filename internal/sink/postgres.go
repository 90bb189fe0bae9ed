package sink

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/geo_event_pump/internal/models"
	"github.com/shenikar/geo_event_pump/internal/service"
)

// DB - часть *pgxpool.Pool, которая нужна PostgresSink
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresSink - реализация AppendSink поверх таблицы events в PostgreSQL
type PostgresSink struct {
	db DB
}

func NewPostgresSink(db DB) service.AppendSink {
	return &PostgresSink{
		db: db,
	}
}

// Append вставляет событие в таблицу events
func (s *PostgresSink) Append(ctx context.Context, stream string, expected models.ExpectedVersion, event models.EventData) error {
	// metadata в таблице NOT NULL, а pgx передает nil-срез как NULL
	metadata := event.Metadata
	if metadata == nil {
		metadata = []byte{}
	}

	if expected == models.ExpectedVersionAny {
		query := `
			INSERT INTO events (event_id, stream_name, event_type, is_json, data, metadata)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		_, err := s.db.Exec(ctx, query,
			event.ID,
			stream,
			event.Type,
			event.IsJSON,
			event.Data,
			metadata,
		)
		if err != nil {
			return fmt.Errorf("failed to append event to stream %s: %w", stream, err)
		}
		return nil
	}

	return s.appendExpected(ctx, stream, expected, event, metadata)
}

// appendExpected проверяет версию и вставляет событие в одной транзакции.
// Блокировка потока держится до конца транзакции, поэтому конкурирующие
// добавления с той же ожидаемой версией видят уже вставленную строку.
func (s *PostgresSink) appendExpected(ctx context.Context, stream string, expected models.ExpectedVersion, event models.EventData, metadata []byte) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for stream %s: %w", stream, err)
	}

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, stream); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to lock stream %s: %w", stream, err)
	}

	// Версия потока - номер последнего события, т.е. количество событий минус один
	query := `
		INSERT INTO events (event_id, stream_name, event_type, is_json, data, metadata)
		SELECT $1::uuid, $2::text, $3::text, $4::boolean, $5::bytea, $6::bytea
		WHERE (SELECT COUNT(*) FROM events WHERE stream_name = $2) = $7::bigint + 1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		event.ID,
		stream,
		event.Type,
		event.IsJSON,
		event.Data,
		metadata,
		int64(expected),
	)
	if err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("failed to append event to stream %s: %w", stream, err)
	}

	if cmdTag.RowsAffected() == 0 {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("stream %s, expected version %d: %w", stream, expected, ErrWrongExpectedVersion)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit append to stream %s: %w", stream, err)
	}
	return nil
}
