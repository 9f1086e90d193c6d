package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"poalerts/internal/report"
)

func TestDueLinesArgs(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

	assert.Equal(t, []interface{}{"2024-06-07", "2024-06-13", "2024-06-10"},
		dueLinesArgs(today, report.Options{ThresholdDays: 3, IncludeOverdue: true}))
	assert.Equal(t, []interface{}{"2024-06-10", "2024-06-13", "2024-06-10"},
		dueLinesArgs(today, report.Options{ThresholdDays: 3}))
}

func TestDueLinesSQL_ExcludesCompleteAndUndated(t *testing.T) {
	assert.Contains(t, dueLinesSQL, "pol.date_promised IS NOT NULL")
	assert.Contains(t, dueLinesSQL, "COALESCE(pol.line_complete, false) = false")
	assert.Contains(t, dueLinesSQL, "ORDER BY TRIM(po.po_number)")
}
