package clickhouse

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"poalerts/config"
	"poalerts/internal/report"
	"poalerts/models"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/shopspring/decimal"
)

type Client struct {
	conn     driver.Conn
	database string
}

func NewClient(cfg config.ClickHouseConfig) (*Client, error) {
	conn, err := clickhouse.Open(clientOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{
		conn:     conn,
		database: cfg.Database,
	}, nil
}

func clientOptions(cfg config.ClickHouseConfig) *clickhouse.Options {
	opts := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		DialTimeout:  time.Second * 30,
	}

	if cfg.Secure {
		opts.TLS = &tls.Config{ServerName: cfg.Host}
	}
	return opts
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// FetchDueLines reads open lines from the warehouse replica with the same
// window and ordering as the Postgres source.
func (c *Client) FetchDueLines(ctx context.Context, today time.Time, opts report.Options) ([]models.OrderLineRecord, error) {
	from, to := report.Window(today, opts)

	rows, err := c.conn.Query(ctx, dueLinesQuery(c.database),
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
		today.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due order lines: %w", err)
	}
	defer rows.Close()

	var out []models.OrderLineRecord
	for rows.Next() {
		var (
			rec      models.OrderLineRecord
			promised *time.Time
			quantity string
		)
		if err := rows.Scan(
			&rec.PurchaseOrderNumber,
			&rec.PurchaseOrderItem,
			&rec.SupplierCode,
			&rec.SupplierName,
			&rec.PartNumber,
			&rec.Description,
			&promised,
			&quantity,
			&rec.UnitOfMeasure,
			&rec.OpNumber,
			&rec.LineStatus,
			&rec.ReferenceNumber,
			&rec.Comments,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		rec.DatePromised = promised
		rec.Quantity = parseQuantity(quantity)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read order lines: %w", err)
	}
	return out, nil
}

func dueLinesQuery(database string) string {
	return fmt.Sprintf(`
		SELECT
			trimBoth(po_number),
			toString(item_number),
			ifNull(supplier_code, ''),
			ifNull(supplier_name, ''),
			ifNull(part_number, ''),
			ifNull(description, ''),
			date_promised,
			ifNull(toString(quantity), ''),
			ifNull(unit_of_measure, ''),
			ifNull(toString(op_number), ''),
			ifNull(line_status, ''),
			ifNull(reference_number, ''),
			ifNull(comments, '')
		FROM %s.po_lines_open FINAL
		WHERE date_promised IS NOT NULL
			AND line_complete = 0
			AND date_promised BETWEEN toDate(?) AND toDate(?)
		ORDER BY trimBoth(po_number), dateDiff('day', toDate(?), assumeNotNull(date_promised)), item_number
	`, database)
}

func parseQuantity(value string) decimal.NullDecimal {
	if value == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
