package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/warp/payroll-engine/payroll"
)

type pdfColumn struct {
	title string
	width float64
	align string
	value func(payroll.PaymentResult) string
}

var pdfColumns = []pdfColumn{
	{"Name", 55, "L", func(r payroll.PaymentResult) string { return r.Name }},
	{"Employee No", 28, "L", func(r payroll.PaymentResult) string { return r.ExternalID }},
	{"Policy", 50, "L", func(r payroll.PaymentResult) string { return r.PolicyName }},
	{"Hours", 20, "R", func(r payroll.PaymentResult) string { return fmt.Sprint(r.TotalHours) }},
	{"Overtime h", 24, "R", func(r payroll.PaymentResult) string { return r.OvertimeHours.String() }},
	{"Overtime Pay", 32, "R", func(r payroll.PaymentResult) string { return r.OvertimePay.StringFixed(2) }},
	{"Total", 32, "R", func(r payroll.PaymentResult) string { return r.TotalPayment.StringFixed(2) }},
}

// WriteReportPDF renders the month's report: a summary table followed by
// each employee's calculation trail.
func WriteReportPDF(w io.Writer, ym payroll.YearMonth, rows []payroll.PaymentResult) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Overtime report "+ym.String(), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Overtime report "+ym.String())
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, 6, tr(c.value(r)), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Calculation details")
	pdf.Ln(9)

	for _, r := range rows {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 6, tr(r.Name))
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9)
		for _, line := range r.Details {
			pdf.MultiCell(0, 5, tr("  "+line), "", "L", false)
		}
		pdf.Ln(2)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report pdf: %w", err)
	}
	return pdf.Output(w)
}
