package postgres

import (
	"context"
	"fmt"
	"time"

	"poalerts/internal/report"
	"poalerts/models"
)

const dueLinesSQL = `
	SELECT
		TRIM(po.po_number) AS purchase_order_number,
		pol.item_number::text AS purchase_order_item,
		COALESCE(s.supplier_code, '') AS supplier_code,
		COALESCE(s.supplier_name, '') AS supplier_name,
		COALESCE(pol.part_number, '') AS part_number,
		COALESCE(pol.description, '') AS description,
		pol.date_promised::date AS date_promised,
		pol.quantity,
		COALESCE(pol.unit_of_measure, '') AS unit_of_measure,
		COALESCE(pol.op_number::text, '') AS op_number,
		COALESCE(pol.line_status, '') AS line_status,
		COALESCE(pol.reference_number, '') AS reference_number,
		COALESCE(pol.comments, '') AS comments
	FROM purchase_order_lines pol
	INNER JOIN purchase_orders po ON po.id = pol.purchase_order_id
	LEFT JOIN suppliers s ON s.id = po.supplier_id
	WHERE pol.date_promised IS NOT NULL
		AND COALESCE(pol.line_complete, false) = false
		AND pol.date_promised::date BETWEEN ?::date AND ?::date
	ORDER BY TRIM(po.po_number), (pol.date_promised::date - ?::date), pol.item_number
`

// FetchDueLines returns open lines promised inside the report window, sorted by
// PO number, then urgency, then item.
func (c *Client) FetchDueLines(ctx context.Context, today time.Time, opts report.Options) ([]models.OrderLineRecord, error) {
	var rows []models.OrderLineRecord
	if err := c.db.WithContext(ctx).Raw(dueLinesSQL, dueLinesArgs(today, opts)...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query due order lines: %w", err)
	}
	return rows, nil
}

func dueLinesArgs(today time.Time, opts report.Options) []interface{} {
	from, to := report.Window(today, opts)
	return []interface{}{
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
		today.Format("2006-01-02"),
	}
}
