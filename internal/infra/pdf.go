package infra

// pdf.go — Receipt PDF generation using go-pdf/fpdf.
// Renders a thermal-receipt-style loyalty receipt with the discount and
// points breakdown. The output file is saved to storagePath/receipt_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

// Receipt carries the already-formatted lines for one receipt. Amounts arrive
// as fixed-point strings; the renderer never does arithmetic.
type Receipt struct {
	PaymentID        string
	Phone            string
	OriginalAmount   string
	BirthdayDiscount string
	RewardDiscount   string
	PointsRedeemed   string
	FinalAmount      string
	PointsEarned     string
	TotalPoints      string
	Method           string
	Timestamp        string
}

// GenerateReceiptPDF writes the receipt PDF and returns its absolute path.
// storagePath is created if needed.
func GenerateReceiptPDF(r Receipt, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", r.PaymentID)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm
	labelW := contentW * 0.62
	valueW := contentW * 0.38

	line := func(label, value string) {
		pdf.CellFormat(labelW, 5, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 5, value, "", 1, "R", false, 0, "")
	}

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "LoyaltyPOS", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Purchase Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Transaction info ─────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "Customer "+r.Phone, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, r.Timestamp, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Amounts ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	line("Subtotal:", "$"+r.OriginalAmount)
	if r.BirthdayDiscount != "" && r.BirthdayDiscount != "0.00" {
		line("Birthday discount:", "-$"+r.BirthdayDiscount)
	}
	if r.RewardDiscount != "" && r.RewardDiscount != "0.00" {
		line("Reward discount:", "-$"+r.RewardDiscount)
	}
	if r.PointsRedeemed != "" && r.PointsRedeemed != "0.00" {
		line("Points redeemed:", "-$"+r.PointsRedeemed)
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(labelW, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(valueW, 6, "$"+r.FinalAmount, "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	line("Paid ("+r.Method+"):", "$"+r.FinalAmount)

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Loyalty summary ──────────────────────────────────────────────────────
	line("Points earned:", r.PointsEarned)
	line("Points balance:", r.TotalPoints)

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for your purchase!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
