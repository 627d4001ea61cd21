package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"z3-dashboard/models"
	"z3-dashboard/utils"
)

// PostgresSource reads listings from a table whose columns mirror the CSV
// header. It only ever issues SELECT statements.
type PostgresSource struct {
	db     *sql.DB
	table  string
	retry  *utils.RetryConfig
	logger *utils.Logger
}

// NewPostgresSource opens a connection pool; the connection itself is checked
// lazily on the first read.
func NewPostgresSource(dsn, table string, maxRetries int, logger *utils.Logger) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	return &PostgresSource{
		db:    db,
		table: table,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
		logger: logger,
	}, nil
}

func (p *PostgresSource) Key() string {
	return "postgres:" + p.table
}

// ReadRaw pings the database with retries, then reads every row.
func (p *PostgresSource) ReadRaw(ctx context.Context) (*RawBatch, error) {
	err := p.retry.Do(ctx, "postgres ping", func() error {
		return p.db.PingContext(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: %v: %w", err, models.ErrSourceUnavailable)
	}

	rows, err := p.db.QueryContext(ctx, selectQuery(p.table))
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var out []*models.RawListing
	n := 0
	for rows.Next() {
		n++
		vals := make([]any, len(Header))
		ptrs := make([]any, len(Header))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			// Unreadable rows reach the cleaner empty and are dropped there.
			p.logger.Debug("[postgres] Skipping row %d: %v", n, err)
			out = append(out, &models.RawListing{Row: n})
			continue
		}
		out = append(out, rawListingFromRow(n, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate rows: %w", err)
	}

	p.logger.Debug("[postgres] Read %d rows from %s", n, p.table)
	return &RawBatch{Rows: out}, nil
}

func (p *PostgresSource) Close() error {
	return p.db.Close()
}

func selectQuery(table string) string {
	cols := make([]string, len(Header))
	for i, c := range Header {
		cols[i] = pq.QuoteIdentifier(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), quoteTable(table))
}

// quoteTable quotes an optionally schema-qualified table name.
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}

// rawListingFromRow turns one row, in Header order, into raw text. Column
// types are not trusted: a NUMERIC price or a TEXT date is handed to the
// cleaner as written.
func rawListingFromRow(n int, vals []any) *models.RawListing {
	get := func(i int) string {
		if i >= len(vals) {
			return ""
		}
		return rawText(vals[i])
	}
	return &models.RawListing{
		Row:             n,
		Title:           get(0),
		PublicationDate: get(1),
		ModelYear:       get(2),
		Mileage:         get(3),
		Price:           get(4),
		City:            get(5),
		SellerType:      get(6),
		URL:             get(7),
	}
}

func rawText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return strings.TrimSpace(string(t))
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format(models.DateLayout)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
