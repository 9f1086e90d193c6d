package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"poalerts/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var htmlTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

type htmlView struct {
	Subject     string
	Headline    string
	OverdueNote string
	Footer      string
	Summary     Summary
	Groups      []htmlGroup
}

type htmlGroup struct {
	PurchaseOrderNumber string
	Supplier            string
	Sections            []htmlSection
}

type htmlSection struct {
	Title      string
	Overdue    bool
	DaysHeader string
	Lines      []htmlLine
}

type htmlLine struct {
	Item        string
	PartNumber  string
	Description string
	Promised    string
	Days        int
	Quantity    string
	Unit        string
	OpNumber    string
	Status      string
	Reference   string
	Comments    string
}

// renderHTML relies on html/template contextual escaping for every display value.
func renderHTML(groups []models.PurchaseOrderGroup, params RenderParams) (string, error) {
	view := htmlView{
		Subject:     Subject(params.SubjectPrefix, params.Today),
		Headline:    headline(params),
		OverdueNote: overdueNote(params),
		Footer:      footer(params),
		Summary:     Summarize(groups),
		Groups:      make([]htmlGroup, 0, len(groups)),
	}

	for _, g := range groups {
		view.Groups = append(view.Groups, htmlGroup{
			PurchaseOrderNumber: g.PurchaseOrderNumber,
			Supplier:            SupplierLabel(g.SupplierName, g.SupplierCode),
			Sections: []htmlSection{
				newHTMLSection(models.BucketDueSoon, g.DueSoon()),
				newHTMLSection(models.BucketOverdue, g.Overdue()),
			},
		})
	}

	var buf bytes.Buffer
	if err := htmlTemplate.ExecuteTemplate(&buf, "report.html", view); err != nil {
		return "", fmt.Errorf("failed to render html report: %w", err)
	}
	return buf.String(), nil
}

func newHTMLSection(bucket models.Bucket, lines []models.ClassifiedLine) htmlSection {
	section := htmlSection{
		Title:      bucket.String(),
		Overdue:    bucket == models.BucketOverdue,
		DaysHeader: "Days until due",
		Lines:      make([]htmlLine, 0, len(lines)),
	}
	if section.Overdue {
		section.DaysHeader = "Days late"
	}

	for _, line := range lines {
		section.Lines = append(section.Lines, htmlLine{
			Item:        line.PurchaseOrderItem,
			PartNumber:  line.PartNumber,
			Description: line.Description,
			Promised:    promisedDate(line),
			Days:        displayDays(line),
			Quantity:    quantity(line),
			Unit:        line.UnitOfMeasure,
			OpNumber:    line.OpNumber,
			Status:      line.LineStatus,
			Reference:   line.ReferenceNumber,
			Comments:    line.Comments,
		})
	}
	return section
}
