package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/MrJamesThe3rd/findules/internal/fuelcoupon"
	"github.com/MrJamesThe3rd/findules/internal/money"
)

// WriteCouponPDF renders a printable voucher for c.
func WriteCouponPDF(w io.Writer, c *fuelcoupon.Coupon, orgName string) error {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, tr(orgName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, "FUEL COUPON", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Courier", "B", 13)
	pdf.CellFormat(0, 8, c.Number, "1", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := [][2]string{
		{"Branch", c.BranchName},
		{"Issue date", c.IssueDate.Format("02 Jan 2006")},
		{"Vehicle", c.VehicleNumber},
		{"Driver", c.DriverName},
		{"Fuel type", string(c.FuelType)},
		{"Litres", c.Litres.StringFixed(2)},
		{"Price per litre", money.Format(c.PricePerLitre)},
	}

	for _, r := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 7, r[0], "B", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, tr(r[1]), "B", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(40, 9, "Amount", "1", 0, "L", false, 0, "")
	pdf.CellFormat(0, 9, "NGN "+money.Format(c.Amount), "1", 1, "R", false, 0, "")

	pdf.Ln(14)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(55, 5, "Authorised by", "T", 0, "C", false, 0, "")
	pdf.CellFormat(14, 5, "", "", 0, "C", false, 0, "")
	pdf.CellFormat(55, 5, "Received by", "T", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing coupon %s: %w", c.Number, err)
	}

	return nil
}
