package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel/attribute"

	"order-dashboard/internal/domain"
	"order-dashboard/internal/observability"
	"order-dashboard/internal/storage"
	"order-dashboard/internal/trace"
)

const databaseLabel = "postgres"

// Querier runs one statement and returns its rows as records.
type Querier interface {
	Query(ctx context.Context, operation string, q Query) ([]domain.Record, error)
}

// Connector opens a fresh connection for every query and closes it before
// returning. There is no pool.
type Connector struct {
	config *pgx.ConnConfig
}

// Compile-time interface check.
var _ Querier = (*Connector)(nil)

// NewConnector parses dsn. No connection is opened.
func NewConnector(dsn string) (*Connector, error) {
	config, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	return &Connector{config: config}, nil
}

// Ping opens a connection, pings and closes it.
func (c *Connector) Ping(ctx context.Context) error {
	conn, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(context.WithoutCancel(ctx))

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping postgres: %w", storage.ErrDataAccess, err)
	}
	return nil
}

// Query executes q on its own connection and maps every row to a record.
// The connection is released on every path, including failures.
// Errors wrap storage.ErrDataAccess.
func (c *Connector) Query(ctx context.Context, operation string, q Query) (records []domain.Record, err error) {
	ctx, span := trace.StartSpan(ctx, "postgres.query",
		attribute.String("db.operation", operation),
		attribute.Int("db.args", len(q.Args)),
	)
	start := time.Now()
	defer func() {
		observability.RecordDBQuery(databaseLabel, operation, time.Since(start).Seconds(), err)
		trace.EndSpan(span, err)
	}()

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(context.WithoutCancel(ctx))

	rows, err := conn.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s query: %w", storage.ErrDataAccess, operation, err)
	}

	records, err = pgx.CollectRows(rows, rowToRecord)
	if err != nil {
		return nil, fmt.Errorf("%w: %s rows: %w", storage.ErrDataAccess, operation, err)
	}
	return records, nil
}

func (c *Connector) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, c.config)
	if err != nil {
		return nil, fmt.Errorf("%w: connect to postgres: %w", storage.ErrDataAccess, err)
	}
	observability.RecordConnectionOpened()
	return conn, nil
}

// rowToRecord maps a row to a record keyed by column name.
// DATE columns become domain.Date and TIMESTAMP columns domain.LocalTime,
// so neither is later rendered with an offset it never had.
func rowToRecord(row pgx.CollectableRow) (domain.Record, error) {
	values, err := row.Values()
	if err != nil {
		return nil, err
	}

	fields := row.FieldDescriptions()
	record := make(domain.Record, len(fields))
	for i, fd := range fields {
		v := values[i]
		if t, ok := v.(time.Time); ok {
			switch fd.DataTypeOID {
			case pgtype.DateOID:
				v = domain.DateOf(t)
			case pgtype.TimestampOID:
				v = domain.LocalTime{Time: t}
			}
		}
		record[fd.Name] = v
	}
	return record, nil
}

// PostgreSQL error codes
const (
	pgErrUndefinedTable  = "42P01" // undefined_table
	pgErrUndefinedSchema = "3F000" // invalid_schema_name
)

// isMissingRelationError checks if err reports a missing orders table or schema.
func isMissingRelationError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUndefinedTable || pgErr.Code == pgErrUndefinedSchema
	}
	return false
}
