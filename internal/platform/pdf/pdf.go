// Package pdf is the document-renderer boundary. The workflow core only keeps
// the URLs this package hands out; the download endpoint streams a placeholder
// printable document for each exit-document type.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"hradmin/internal/domain/offboarding"
)

type Renderer struct {
	BaseURL string
}

func NewRenderer(baseURL string) *Renderer {
	return &Renderer{BaseURL: baseURL}
}

func (r *Renderer) DocumentURL(recordID string, key offboarding.DocumentKey) string {
	return fmt.Sprintf("%s/api/v1/offboarding/download-dummy/%s?record=%s", r.BaseURL, key, recordID)
}

type DocumentData struct {
	EmployeeName   string
	EmployeeNumber string
	Designation    string
	LastWorkingDay *time.Time
	IssuedOn       time.Time
}

// Render writes a placeholder PDF for the given document type.
func (r *Renderer) Render(w io.Writer, key offboarding.DocumentKey, data DocumentData) error {
	label := offboarding.DocumentLabel(key)
	if label == "" {
		return offboarding.ErrInvalidDocumentType
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(40, 12, label)
	pdf.Ln(16)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", orPlaceholder(data.EmployeeName)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Employee No: %s", orPlaceholder(data.EmployeeNumber)))
	pdf.Ln(7)
	if data.Designation != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Designation: %s", data.Designation))
		pdf.Ln(7)
	}
	if data.LastWorkingDay != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Last Working Day: %s", data.LastWorkingDay.Format("2006-01-02")))
		pdf.Ln(7)
	}
	pdf.Ln(5)
	pdf.MultiCell(0, 7, bodyText(key), "", "L", false)
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Issued on: %s", data.IssuedOn.Format("2006-01-02")))

	return pdf.Output(w)
}

func orPlaceholder(value string) string {
	if value == "" {
		return "________________"
	}
	return value
}

func bodyText(key offboarding.DocumentKey) string {
	switch key {
	case offboarding.DocRelievingLetter:
		return "This is to certify that the above employee has been relieved of their duties with effect from their last working day. We thank them for their services and wish them success in their future endeavours."
	case offboarding.DocExperienceLetter:
		return "This is to certify that the above employee was employed with the organization and discharged their responsibilities satisfactorily during their tenure."
	case offboarding.DocNoDuesCertificate:
		return "This is to certify that the above employee has no outstanding dues with any department of the organization as of their last working day."
	}
	return ""
}
