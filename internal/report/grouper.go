package report

import "poalerts/models"

// Group partitions lines by purchase order number. Groups appear in the order
// their PO number is first seen, take their supplier from that first line, and
// keep lines in received order. Keys are compared as exact strings so "0001"
// and "1" stay distinct.
func Group(lines []models.ClassifiedLine) []models.PurchaseOrderGroup {
	groups := make([]models.PurchaseOrderGroup, 0)
	index := make(map[string]int)

	for _, line := range lines {
		key := NormalizePONumber(line.PurchaseOrderNumber)
		i, exists := index[key]
		if !exists {
			groups = append(groups, models.PurchaseOrderGroup{
				PurchaseOrderNumber: key,
				SupplierCode:        line.SupplierCode,
				SupplierName:        line.SupplierName,
			})
			i = len(groups) - 1
			index[key] = i
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}

	return groups
}

// Summary counts what a set of groups contains.
type Summary struct {
	PurchaseOrders int
	DueSoon        int
	Overdue        int
}

// Lines is the total number of lines across both buckets.
func (s Summary) Lines() int {
	return s.DueSoon + s.Overdue
}

// Summarize counts purchase orders and lines per bucket.
func Summarize(groups []models.PurchaseOrderGroup) Summary {
	s := Summary{PurchaseOrders: len(groups)}
	for _, g := range groups {
		for _, line := range g.Lines {
			switch line.Bucket {
			case models.BucketDueSoon:
				s.DueSoon++
			case models.BucketOverdue:
				s.Overdue++
			}
		}
	}
	return s
}
