package report

import (
	"fmt"
	"strings"
	"time"

	"poalerts/models"
)

const dateLayout = "2006-01-02"

// RenderParams are the run parameters the renderer needs besides the groups.
type RenderParams struct {
	Today          time.Time
	ThresholdDays  int
	IncludeOverdue bool
	SubjectPrefix  string
	SystemName     string
}

// Render builds the subject and both bodies. It is a pure function of its
// inputs: rendering the same groups and params twice yields identical output.
func Render(groups []models.PurchaseOrderGroup, params RenderParams) (models.Report, error) {
	html, err := renderHTML(groups, params)
	if err != nil {
		return models.Report{}, err
	}

	return models.Report{
		Subject:  Subject(params.SubjectPrefix, params.Today),
		TextBody: renderText(groups, params),
		HTMLBody: html,
	}, nil
}

// Subject returns "{prefix} {YYYY-MM-DD}".
func Subject(prefix string, today time.Time) string {
	date := today.Format(dateLayout)
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		return date
	}
	return prefix + " " + date
}

// SupplierLabel formats a supplier as "Name (CODE)", the bare code, or "n/a".
func SupplierLabel(name, code string) string {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name != "" {
		if code == "" {
			code = "n/a"
		}
		return fmt.Sprintf("%s (%s)", name, code)
	}
	if code != "" {
		return code
	}
	return "n/a"
}

func headline(params RenderParams) string {
	return fmt.Sprintf("Open purchase order lines promised within %d day(s) of %s.",
		params.ThresholdDays, params.Today.Format(dateLayout))
}

func overdueNote(params RenderParams) string {
	if params.IncludeOverdue {
		return fmt.Sprintf("Lines up to %d day(s) past their promised date are included.", params.ThresholdDays)
	}
	return "Lines past their promised date are not included."
}

func footer(params RenderParams) string {
	name := strings.TrimSpace(params.SystemName)
	if name == "" {
		name = "the PO due-date monitor"
	}
	return fmt.Sprintf("Sent automatically by %s on %s.", name, params.Today.Format(dateLayout))
}

func promisedDate(line models.ClassifiedLine) string {
	if line.DatePromised == nil {
		return ""
	}
	return line.DatePromised.Format(dateLayout)
}

func quantity(line models.ClassifiedLine) string {
	if !line.Quantity.Valid {
		return ""
	}
	return line.Quantity.Decimal.String()
}

// displayDays is the raw offset for due-soon lines and days late for overdue ones.
func displayDays(line models.ClassifiedLine) int {
	if line.Bucket == models.BucketOverdue {
		return line.DaysLate()
	}
	return line.DaysUntilPromised
}
