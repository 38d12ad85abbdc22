package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/lupa-autoricambi/gestionale/internal/models"
)

// ShopName is printed in report headers.
const ShopName = "Lupa Autoricambi"

// CustomerReportFilename is the download name of a customer's report.
func CustomerReportFilename(c *models.Customer, day time.Time) string {
	return fmt.Sprintf("Report-%s-%s.pdf", c.Name, day.Format("02-01-2006"))
}

// WriteCustomerReport renders an A4 report with the customer's details,
// the total outstanding balance and one row per account.
func WriteCustomerReport(w io.Writer, c *models.Customer, accounts []models.Account, generated time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle("Report Cliente - "+ShopName, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, tr("Report Cliente - "+ShopName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, generated.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// customer
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, tr(c.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if c.Phone != nil {
		pdf.CellFormat(contentW, 5, tr("Telefono: "+*c.Phone), "", 1, "L", false, 0, "")
	}
	kind := "Privato"
	if c.IsWorkshop() {
		kind = "Meccanico"
		if c.WorkshopName != nil {
			kind += " - " + *c.WorkshopName
		}
	}
	pdf.CellFormat(contentW, 5, tr("Tipo: "+kind), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	pdf.SetFont("Helvetica", "B", 11)
	if total.IsPositive() {
		pdf.SetTextColor(200, 30, 30)
	}
	pdf.CellFormat(contentW, 7, tr("Saldo totale: "+total.StringFixed(2)+" €"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(3)

	// accounts table
	cols := []float64{contentW * 0.18, contentW * 0.46, contentW * 0.18, contentW * 0.18}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Data", "Descrizione", "Acconto (€)", "Saldo (€)"} {
		align := "L"
		if i >= 2 {
			align = "R"
		}
		pdf.CellFormat(cols[i], 7, tr(h), "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(accounts) == 0 {
		pdf.CellFormat(contentW, 7, tr("Nessuna pratica"), "1", 1, "C", false, 0, "")
	}
	for _, a := range accounts {
		desc := a.Description
		if len([]rune(desc)) > 48 {
			desc = string([]rune(desc)[:47]) + "..."
		}
		pdf.CellFormat(cols[0], 6, a.CreatedAt.Format("02/01/2006"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 6, tr(desc), "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 6, a.PaidSoFar.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 6, a.Balance.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write report: %w", err)
	}
	return nil
}
