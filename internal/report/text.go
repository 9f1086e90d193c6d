package report

import (
	"fmt"
	"strings"

	"poalerts/models"
)

func renderText(groups []models.PurchaseOrderGroup, params RenderParams) string {
	var b strings.Builder
	summary := Summarize(groups)

	fmt.Fprintln(&b, headline(params))
	fmt.Fprintln(&b, overdueNote(params))
	fmt.Fprintf(&b, "Purchase orders: %d | Due soon: %d | Overdue: %d\n",
		summary.PurchaseOrders, summary.DueSoon, summary.Overdue)

	for _, g := range groups {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "PO %s | Supplier: %s\n", g.PurchaseOrderNumber, SupplierLabel(g.SupplierName, g.SupplierCode))
		writeTextSection(&b, models.BucketDueSoon, g.DueSoon())
		writeTextSection(&b, models.BucketOverdue, g.Overdue())
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "--")
	fmt.Fprintln(&b, footer(params))
	return b.String()
}

func writeTextSection(b *strings.Builder, bucket models.Bucket, lines []models.ClassifiedLine) {
	fmt.Fprintf(b, "  %s (%d):\n", bucket, len(lines))
	if len(lines) == 0 {
		fmt.Fprintln(b, "    none")
		return
	}
	for _, line := range lines {
		fmt.Fprintf(b, "    - %s\n", textLine(line))
	}
}

func textLine(line models.ClassifiedLine) string {
	fields := []string{"Item " + line.PurchaseOrderItem}
	if line.PartNumber != "" {
		fields = append(fields, "Part "+line.PartNumber)
	}
	if line.Description != "" {
		fields = append(fields, line.Description)
	}
	fields = append(fields, "Promised "+promisedDate(line))
	if line.Bucket == models.BucketOverdue {
		fields = append(fields, fmt.Sprintf("%d day(s) late", displayDays(line)))
	} else {
		fields = append(fields, fmt.Sprintf("Due in %d day(s)", displayDays(line)))
	}
	if qty := quantity(line); qty != "" {
		fields = append(fields, strings.TrimSpace("Qty "+qty+" "+line.UnitOfMeasure))
	}
	if line.OpNumber != "" {
		fields = append(fields, "Op "+line.OpNumber)
	}
	if line.LineStatus != "" {
		fields = append(fields, "Status "+line.LineStatus)
	}
	if line.ReferenceNumber != "" {
		fields = append(fields, "Ref "+line.ReferenceNumber)
	}
	if line.Comments != "" {
		fields = append(fields, "Note: "+line.Comments)
	}
	return strings.Join(fields, " | ")
}
