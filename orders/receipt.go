package orders

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"agroverse/models"
	"agroverse/utils"
)

// QRPayload is what the receipt's QR code encodes.
func QRPayload(o models.Order) string {
	return "agroverse-order|" + o.ID.String()
}

// Receipt renders one order as a PDF with a QR code of its id.
func Receipt(o models.Order) ([]byte, error) {
	if o.ID == "" {
		return nil, fmt.Errorf("receipt: order has no id")
	}
	qrPNG, err := qrcode.Encode(QRPayload(o), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("receipt qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "AgroMart Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", o.ID))
	pdf.Ln(8)
	if o.CreatedAt != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Placed: %s", o.CreatedAt.Format(time.DateTime)))
		pdf.Ln(8)
	}
	if o.User != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Customer: %s (%s)", o.User.Name, o.User.Email))
		pdf.Ln(8)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Address: %s", o.Address))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Contact: %s", o.Contact))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Payment: %s   Status: %s", o.PaymentMode, o.Status))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(90, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "B", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	for _, l := range o.Items {
		pdf.CellFormat(90, 8, l.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprint(l.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, "Rs. "+l.UnitPrice.String(), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, "Rs. "+formatAmount(l.Subtotal()), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(145, 10, "Total", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 10, "Rs. "+formatAmount(o.Total), "T", 1, "R", false, 0, "")

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteReceipts writes receipt-<id>.pdf for every order into dir and
// returns the paths written.
func WriteReceipts(dir string, orders []models.Order) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for _, o := range orders {
		pdf, err := Receipt(o)
		if err != nil {
			return paths, err
		}
		name := strings.ReplaceAll(o.ID.String(), string(filepath.Separator), "_")
		path := filepath.Join(dir, utils.SanitizeFilename("receipt-"+name+".pdf"))
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
