package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poalerts/models"
)

func classified(po, item string, days int, bucket models.Bucket) models.ClassifiedLine {
	return models.ClassifiedLine{
		OrderLineRecord: models.OrderLineRecord{
			PurchaseOrderNumber: po,
			PurchaseOrderItem:   item,
		},
		DaysUntilPromised: days,
		Bucket:            bucket,
	}
}

func TestGroup_FirstSeenOrderAndPartition(t *testing.T) {
	lines := []models.ClassifiedLine{
		classified("2002", "1", 1, models.BucketDueSoon),
		classified("1001", "1", -1, models.BucketOverdue),
		classified("2002", "2", 2, models.BucketDueSoon),
		classified("1001", "3", 0, models.BucketDueSoon),
		classified("3003", "1", 3, models.BucketDueSoon),
	}

	groups := Group(lines)

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"2002", "1001", "3003"}, []string{
		groups[0].PurchaseOrderNumber, groups[1].PurchaseOrderNumber, groups[2].PurchaseOrderNumber,
	})

	total := 0
	seen := map[string]bool{}
	for _, g := range groups {
		for _, l := range g.Lines {
			key := l.PurchaseOrderNumber + "/" + l.PurchaseOrderItem
			assert.False(t, seen[key], "line %s appears twice", key)
			seen[key] = true
			assert.Equal(t, g.PurchaseOrderNumber, l.PurchaseOrderNumber)
			total++
		}
	}
	assert.Equal(t, len(lines), total)

	assert.Equal(t, "1", groups[1].Lines[0].PurchaseOrderItem)
	assert.Equal(t, "3", groups[1].Lines[1].PurchaseOrderItem)
}

func TestGroup_SupplierFromFirstLine(t *testing.T) {
	first := classified("1001", "1", 1, models.BucketDueSoon)
	first.SupplierCode = "AC01"
	first.SupplierName = "Acme"
	second := classified("1001", "2", 2, models.BucketDueSoon)
	second.SupplierCode = "ZZ99"
	second.SupplierName = "Other"

	groups := Group([]models.ClassifiedLine{first, second})

	require.Len(t, groups, 1)
	assert.Equal(t, "AC01", groups[0].SupplierCode)
	assert.Equal(t, "Acme", groups[0].SupplierName)
	assert.Len(t, groups[0].Lines, 2)
}

func TestGroup_TrimsButDoesNotCoerceKeys(t *testing.T) {
	lines := []models.ClassifiedLine{
		classified(" 0001", "1", 1, models.BucketDueSoon),
		classified("1", "1", 1, models.BucketDueSoon),
		classified("0001 ", "2", 1, models.BucketDueSoon),
	}

	groups := Group(lines)

	require.Len(t, groups, 2)
	assert.Equal(t, "0001", groups[0].PurchaseOrderNumber)
	assert.Len(t, groups[0].Lines, 2)
	assert.Equal(t, "1", groups[1].PurchaseOrderNumber)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil))
}

func TestPurchaseOrderGroup_Partitions(t *testing.T) {
	g := Group([]models.ClassifiedLine{
		classified("1", "1", -2, models.BucketOverdue),
		classified("1", "2", 1, models.BucketDueSoon),
		classified("1", "3", -1, models.BucketOverdue),
		classified("1", "4", 0, models.BucketDueSoon),
	})[0]

	due := g.DueSoon()
	over := g.Overdue()
	require.Len(t, due, 2)
	require.Len(t, over, 2)
	assert.Equal(t, "2", due[0].PurchaseOrderItem)
	assert.Equal(t, "4", due[1].PurchaseOrderItem)
	assert.Equal(t, "1", over[0].PurchaseOrderItem)
	assert.Equal(t, "3", over[1].PurchaseOrderItem)
}

func TestSummarize(t *testing.T) {
	groups := Group([]models.ClassifiedLine{
		classified("1", "1", -2, models.BucketOverdue),
		classified("1", "2", 1, models.BucketDueSoon),
		classified("2", "1", 0, models.BucketDueSoon),
	})

	s := Summarize(groups)
	assert.Equal(t, Summary{PurchaseOrders: 2, DueSoon: 2, Overdue: 1}, s)
	assert.Equal(t, 3, s.Lines())
}
