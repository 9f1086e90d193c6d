package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poalerts/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func line(po, item string, promised *time.Time) models.OrderLineRecord {
	return models.OrderLineRecord{
		PurchaseOrderNumber: po,
		PurchaseOrderItem:   item,
		DatePromised:        promised,
	}
}

func TestDaysBetween(t *testing.T) {
	today := date(2024, 6, 10)

	assert.Equal(t, 0, DaysBetween(today, date(2024, 6, 10)))
	assert.Equal(t, 2, DaysBetween(today, date(2024, 6, 12)))
	assert.Equal(t, -5, DaysBetween(today, date(2024, 6, 5)))
	assert.Equal(t, 21, DaysBetween(today, date(2024, 7, 1)))

	// time of day is ignored
	late := time.Date(2024, 6, 12, 23, 59, 0, 0, time.Local)
	early := time.Date(2024, 6, 10, 0, 1, 0, 0, time.Local)
	assert.Equal(t, 2, DaysBetween(early, late))
	assert.Equal(t, -2, DaysBetween(late, early))
}

func TestDaysBetween_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone data unavailable")
	}
	before := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	after := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)
	assert.Equal(t, 2, DaysBetween(before, after))
}

func TestWindow(t *testing.T) {
	today := time.Date(2024, 6, 10, 15, 30, 0, 0, time.Local)

	from, to := Window(today, Options{ThresholdDays: 3, IncludeOverdue: true})
	assert.Equal(t, time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), to)

	from, to = Window(today, Options{ThresholdDays: 3})
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), to)
}

func TestClassifyLine_Buckets(t *testing.T) {
	today := date(2024, 6, 10)
	opts := Options{ThresholdDays: 3, IncludeOverdue: true}

	testCases := []struct {
		name     string
		promised *time.Time
		wantOK   bool
		bucket   models.Bucket
		days     int
	}{
		{"today", datePtr(2024, 6, 10), true, models.BucketDueSoon, 0},
		{"within threshold", datePtr(2024, 6, 12), true, models.BucketDueSoon, 2},
		{"at threshold", datePtr(2024, 6, 13), true, models.BucketDueSoon, 3},
		{"beyond threshold", datePtr(2024, 6, 14), false, "", 0},
		{"one day late", datePtr(2024, 6, 9), true, models.BucketOverdue, -1},
		{"late at threshold", datePtr(2024, 6, 7), true, models.BucketOverdue, -3},
		{"too late", datePtr(2024, 6, 5), false, "", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := ClassifyLine(line("1001", "1", tc.promised), today, opts)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.bucket, got.Bucket)
				assert.Equal(t, tc.days, got.DaysUntilPromised)
			}
		})
	}
}

func TestClassifyLine_OverdueDisabled(t *testing.T) {
	today := date(2024, 6, 10)
	opts := Options{ThresholdDays: 3, IncludeOverdue: false}

	_, ok, err := ClassifyLine(line("1002", "1", datePtr(2024, 6, 9)), today, opts)
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := ClassifyLine(line("1002", "2", datePtr(2024, 6, 10)), today, opts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.BucketDueSoon, got.Bucket)
}

func TestClassifyLine_ZeroThreshold(t *testing.T) {
	today := date(2024, 6, 10)
	opts := Options{ThresholdDays: 0, IncludeOverdue: true}

	got, ok, err := ClassifyLine(line("1", "1", datePtr(2024, 6, 10)), today, opts)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.BucketDueSoon, got.Bucket)

	_, ok, err = ClassifyLine(line("1", "2", datePtr(2024, 6, 9)), today, opts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClassifyLine_MissingDate(t *testing.T) {
	_, ok, err := ClassifyLine(line(" 1003 ", "4", nil), date(2024, 6, 10), Options{ThresholdDays: 3})

	assert.False(t, ok)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRecord))

	var invalid *InvalidRecordError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "1003", invalid.PurchaseOrderNumber)
	assert.Equal(t, "4", invalid.PurchaseOrderItem)
	assert.Contains(t, err.Error(), "missing promised date")
}

func TestClassifyLine_NormalizesPONumber(t *testing.T) {
	got, ok, err := ClassifyLine(line("  1001\t", "1", datePtr(2024, 6, 11)), date(2024, 6, 10), Options{ThresholdDays: 3})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1001", got.PurchaseOrderNumber)
}

func TestClassify_SkipsInvalidAndKeepsOrder(t *testing.T) {
	records := []models.OrderLineRecord{
		line("1001", "1", datePtr(2024, 6, 12)),
		line("1001", "2", nil),
		line("1002", "1", datePtr(2024, 6, 5)),
		line("1002", "2", datePtr(2024, 6, 9)),
	}

	result := Classify(records, date(2024, 6, 10), Options{ThresholdDays: 3, IncludeOverdue: true})

	require.Len(t, result.Lines, 2)
	assert.Equal(t, "1001", result.Lines[0].PurchaseOrderNumber)
	assert.Equal(t, "1002", result.Lines[1].PurchaseOrderNumber)
	assert.Equal(t, "2", result.Lines[1].PurchaseOrderItem)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "2", result.Rejected[0].PurchaseOrderItem)
	assert.Equal(t, 1, result.Dropped)
}

func TestClassify_Empty(t *testing.T) {
	result := Classify(nil, date(2024, 6, 10), Options{ThresholdDays: 3})
	assert.Empty(t, result.Lines)
	assert.Empty(t, result.Rejected)
}
