package booking

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SharingService/pkg/psqlbuilder"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id          BIGSERIAL PRIMARY KEY,
		item_id     BIGINT       NOT NULL,
		item_name   VARCHAR(255) NOT NULL DEFAULT '',
		booker_id   BIGINT       NOT NULL,
		owner_id    BIGINT       NOT NULL,
		start_time  TIMESTAMPTZ  NOT NULL,
		end_time    TIMESTAMPTZ  NOT NULL,
		status      VARCHAR(16)  NOT NULL,
		created_at  TIMESTAMPTZ  NOT NULL,
		updated_at  TIMESTAMPTZ  NOT NULL,
		CONSTRAINT bookings_interval_check CHECK (end_time > start_time),
		CONSTRAINT bookings_status_check CHECK (status IN ('WAITING', 'APPROVED', 'REJECTED'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_booker_start ON bookings (booker_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_owner_start ON bookings (owner_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_item_status_start ON bookings (item_id, status, start_time)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id     INTEGER   NOT NULL,
		item_name   TEXT      NOT NULL DEFAULT '',
		booker_id   INTEGER   NOT NULL,
		owner_id    INTEGER   NOT NULL,
		start_time  TIMESTAMP NOT NULL,
		end_time    TIMESTAMP NOT NULL,
		status      TEXT      NOT NULL CHECK (status IN ('WAITING', 'APPROVED', 'REJECTED')),
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_booker_start ON bookings (booker_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_owner_start ON bookings (owner_id, start_time)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_item_status_start ON bookings (item_id, status, start_time)`,
}

// EnsureSchema создает таблицу бронирований и индексы, если их еще нет
func EnsureSchema(ctx context.Context, db DBExecutor, driver string) error {
	var statements []string
	switch driver {
	case psqlbuilder.DriverPostgres:
		statements = postgresSchema
	case psqlbuilder.DriverSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("%w: EnsureSchema - unsupported driver %q", ErrBuildQuery, driver)
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: EnsureSchema - apply schema: %v", ErrExecQuery, err)
		}
	}

	return nil
}
