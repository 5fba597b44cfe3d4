package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lazygrid/lazygrid/internal/models"
)

// Postgres loads a table's columns and rows over a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool for the given DSN and verifies it
// with a ping.
func Connect(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}

	cfg.MaxConns = 5
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Load fetches column metadata and up to limit rows for a table. Rows
// come back typed, ready for in-process filtering.
func (p *Postgres) Load(ctx context.Context, schema, table string, limit int) ([]models.ColumnInfo, []models.Row, error) {
	columns, err := p.tableColumns(ctx, schema, table)
	if err != nil {
		return nil, nil, err
	}

	sql := fmt.Sprintf(`SELECT * FROM %q.%q LIMIT %d`, schema, table, limit)
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query table data: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var result []models.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row: %w", err)
		}
		row := make(models.Row, len(fields))
		for i, fd := range fields {
			row[string(fd.Name)] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return columns, result, nil
}

// tableColumns retrieves column metadata from information_schema.
func (p *Postgres) tableColumns(ctx context.Context, schema, table string) ([]models.ColumnInfo, error) {
	sql := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`
	rows, err := p.pool.Query(ctx, sql, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}
	defer rows.Close()

	var columns []models.ColumnInfo
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		columns = append(columns, models.ColumnInfo{
			Name:       name,
			Kind:       kindForDataType(dataType),
			Filterable: true,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s not found", schema, table)
	}
	return columns, nil
}

// kindForDataType maps a PostgreSQL data type onto the grid's closed
// kind set.
func kindForDataType(dataType string) models.Kind {
	switch {
	case strings.Contains(dataType, "int") || strings.Contains(dataType, "numeric") ||
		strings.Contains(dataType, "real") || strings.Contains(dataType, "double") ||
		strings.Contains(dataType, "decimal"):
		return models.KindNumeric
	case strings.Contains(dataType, "char") || strings.Contains(dataType, "text"):
		return models.KindString
	case strings.Contains(dataType, "bool"):
		return models.KindBoolean
	case strings.Contains(dataType, "date") || strings.Contains(dataType, "timestamp"):
		return models.KindDate
	default:
		return models.KindOther
	}
}

// normalizeValue flattens pgx driver values onto the cell types the
// filter and query layers understand.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil, bool, string, time.Time,
		int, int16, int32, int64, float32, float64:
		return val
	case pgtype.Numeric:
		if f, err := val.Float64Value(); err == nil && f.Valid {
			return f.Float64
		}
		return nil
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
