package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRecord is one open purchase order line as returned by the data source.
// Supplier fields belong to the PO but arrive denormalized on every line.
type OrderLineRecord struct {
	PurchaseOrderNumber string              `gorm:"column:purchase_order_number"`
	PurchaseOrderItem   string              `gorm:"column:purchase_order_item"`
	SupplierCode        string              `gorm:"column:supplier_code"`
	SupplierName        string              `gorm:"column:supplier_name"`
	PartNumber          string              `gorm:"column:part_number"`
	Description         string              `gorm:"column:description"`
	DatePromised        *time.Time          `gorm:"column:date_promised"`
	Quantity            decimal.NullDecimal `gorm:"column:quantity"`
	UnitOfMeasure       string              `gorm:"column:unit_of_measure"`
	OpNumber            string              `gorm:"column:op_number"`
	LineStatus          string              `gorm:"column:line_status"`
	ReferenceNumber     string              `gorm:"column:reference_number"`
	Comments            string              `gorm:"column:comments"`
}

// Bucket classifies a line relative to today and the threshold
type Bucket string

const (
	BucketDueSoon Bucket = "due_soon"
	BucketOverdue Bucket = "overdue"
)

func (b Bucket) String() string {
	switch b {
	case BucketDueSoon:
		return "Due soon"
	case BucketOverdue:
		return "Overdue"
	default:
		return "Unknown"
	}
}

// ClassifiedLine is an order line with its signed day offset (promised - today)
type ClassifiedLine struct {
	OrderLineRecord
	DaysUntilPromised int
	Bucket            Bucket
}

// DaysLate is the absolute number of days an overdue line is past its promised date.
func (l ClassifiedLine) DaysLate() int {
	if l.DaysUntilPromised < 0 {
		return -l.DaysUntilPromised
	}
	return 0
}

// PurchaseOrderGroup holds the classified lines of one PO in received order
type PurchaseOrderGroup struct {
	PurchaseOrderNumber string
	SupplierCode        string
	SupplierName        string
	Lines               []ClassifiedLine
}

// DueSoon returns the group's due-soon lines in their original relative order.
func (g PurchaseOrderGroup) DueSoon() []ClassifiedLine {
	return g.linesIn(BucketDueSoon)
}

// Overdue returns the group's overdue lines in their original relative order.
func (g PurchaseOrderGroup) Overdue() []ClassifiedLine {
	return g.linesIn(BucketOverdue)
}

func (g PurchaseOrderGroup) linesIn(bucket Bucket) []ClassifiedLine {
	var out []ClassifiedLine
	for _, line := range g.Lines {
		if line.Bucket == bucket {
			out = append(out, line)
		}
	}
	return out
}

// Report is the rendered output of one pipeline run
type Report struct {
	Subject  string
	TextBody string
	HTMLBody string
}
