package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CoverSection is one row of the paper structure table.
type CoverSection struct {
	Name      string
	Questions int
	Marks     int
}

// CoverSheet holds what goes on the front page of a print pack.
type CoverSheet struct {
	School          string
	Title           string
	Subject         string
	Grade           string
	ExamDate        time.Time
	DurationMinutes int
	TotalMarks      int
	PaperFormat     string
	Confidential    bool
	Sections        []CoverSection
	GeneratedBy     string
	GeneratedAt     time.Time
}

// PDFExporter renders print pack cover sheets.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// RenderCoverSheet produces a single page A4 cover sheet.
func (e *PDFExporter) RenderCoverSheet(sheet CoverSheet) ([]byte, error) {
	if strings.TrimSpace(sheet.Title) == "" {
		return nil, fmt.Errorf("cover sheet requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	if sheet.Confidential {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(180, 0, 0)
		pdf.CellFormat(0, 8, "CONFIDENTIAL - EXAM COMMITTEE ONLY", "1", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	if sheet.School != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, sheet.School, "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 12, strings.ToUpper(sheet.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	details := [][2]string{
		{"Subject", sheet.Subject},
		{"Grade", sheet.Grade},
		{"Exam date", sheet.ExamDate.Format("Monday, 02 January 2006 15:04")},
		{"Duration", fmt.Sprintf("%d minutes", sheet.DurationMinutes)},
		{"Total marks", fmt.Sprintf("%d", sheet.TotalMarks)},
	}
	if sheet.PaperFormat != "" {
		details = append(details, [2]string{"Format", sheet.PaperFormat})
	}
	for _, row := range details {
		pdf.CellFormat(45, 7, row[0], "1", 0, "", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "1", 1, "", false, 0, "")
	}

	if len(sheet.Sections) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(100, 8, "Section", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, "Questions", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, "Marks", "1", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, section := range sheet.Sections {
			pdf.CellFormat(100, 7, section.Name, "1", 0, "", false, 0, "")
			pdf.CellFormat(40, 7, fmt.Sprintf("%d", section.Questions), "1", 0, "C", false, 0, "")
			pdf.CellFormat(40, 7, fmt.Sprintf("%d", section.Marks), "1", 1, "C", false, 0, "")
		}
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s by %s", sheet.GeneratedAt.UTC().Format(time.RFC3339), sheet.GeneratedBy), "", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
