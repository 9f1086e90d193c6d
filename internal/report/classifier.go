// Package report turns fetched order lines into the due-date report:
// classification against today, grouping by purchase order and rendering
// of the plain-text and HTML bodies. Nothing in here performs I/O or reads
// the clock; callers inject today and all run parameters.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"poalerts/models"
)

// ErrInvalidRecord marks a record that violates the data source contract.
var ErrInvalidRecord = errors.New("invalid order line record")

// InvalidRecordError describes a single rejected record.
type InvalidRecordError struct {
	PurchaseOrderNumber string
	PurchaseOrderItem   string
	Reason              string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record PO %q item %q: %s", e.PurchaseOrderNumber, e.PurchaseOrderItem, e.Reason)
}

func (e *InvalidRecordError) Unwrap() error {
	return ErrInvalidRecord
}

// Options controls the classification window.
type Options struct {
	ThresholdDays  int
	IncludeOverdue bool
}

// Classification is the result of classifying a batch of records.
type Classification struct {
	Lines    []models.ClassifiedLine
	Rejected []*InvalidRecordError
	Dropped  int // valid records outside the window
}

// NormalizePONumber is the single place purchase order numbers are normalized.
func NormalizePONumber(po string) string {
	return strings.TrimSpace(po)
}

// DaysBetween returns the signed whole-day offset to - from, comparing calendar dates only.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Window returns the inclusive promised-date range a data source should return
// for today and opts. Both bounds are calendar dates at midnight UTC.
func Window(today time.Time, opts Options) (from, to time.Time) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	from = day
	if opts.IncludeOverdue {
		from = day.AddDate(0, 0, -opts.ThresholdDays)
	}
	return from, day.AddDate(0, 0, opts.ThresholdDays)
}

// ClassifyLine assigns a bucket to rec. ok is false when the line falls outside
// both windows; err is non-nil only for records without a promised date.
func ClassifyLine(rec models.OrderLineRecord, today time.Time, opts Options) (models.ClassifiedLine, bool, error) {
	rec.PurchaseOrderNumber = NormalizePONumber(rec.PurchaseOrderNumber)
	if rec.DatePromised == nil || rec.DatePromised.IsZero() {
		return models.ClassifiedLine{}, false, &InvalidRecordError{
			PurchaseOrderNumber: rec.PurchaseOrderNumber,
			PurchaseOrderItem:   rec.PurchaseOrderItem,
			Reason:              "missing promised date",
		}
	}

	days := DaysBetween(today, *rec.DatePromised)
	line := models.ClassifiedLine{OrderLineRecord: rec, DaysUntilPromised: days}

	switch {
	case days >= 0 && days <= opts.ThresholdDays:
		line.Bucket = models.BucketDueSoon
	case days < 0 && opts.IncludeOverdue && days >= -opts.ThresholdDays:
		line.Bucket = models.BucketOverdue
	default:
		return models.ClassifiedLine{}, false, nil
	}
	return line, true, nil
}

// Classify classifies records in order. Invalid records are collected rather
// than aborting so one bad row cannot suppress the whole report.
func Classify(records []models.OrderLineRecord, today time.Time, opts Options) Classification {
	result := Classification{Lines: make([]models.ClassifiedLine, 0, len(records))}
	for _, rec := range records {
		line, ok, err := ClassifyLine(rec, today, opts)
		if err != nil {
			var invalid *InvalidRecordError
			if errors.As(err, &invalid) {
				result.Rejected = append(result.Rejected, invalid)
			}
			continue
		}
		if !ok {
			result.Dropped++
			continue
		}
		result.Lines = append(result.Lines, line)
	}
	return result
}
