package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"threadmart/db"
	"threadmart/models"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func invoiceSecret() []byte {
	if s := os.Getenv("INVOICE_HMAC_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("invoice-dev-secret")
}

// invoiceQRPayload signs orderID|date so a scanned invoice can be verified
// against the order record.
func invoiceQRPayload(orderID string, date int64) string {
	data := fmt.Sprintf("%s|%d", orderID, date)
	h := hmac.New(sha256.New, invoiceSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintInvoice renders the order as a PDF invoice with a verification QR.
// GET /api/order/invoice/:orderId (admin)
func PrintInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := ps.ByName("orderId")

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not load order", http.StatusInternalServerError)
		return
	}

	qrPNG, err := qrcode.Encode(invoiceQRPayload(order.OrderID, order.Date), qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %s", order.OrderID))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", time.UnixMilli(order.Date).Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s    Payment: %s (%v)", order.Status, order.PaymentMethod, order.Payment))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Ship to: %s %s, %s, %s %s, %s",
		order.Address.FirstName, order.Address.LastName, order.Address.Street,
		order.Address.City, order.Address.Zipcode, order.Address.Country))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Item", "1", 0, "", false, 0, "")
	pdf.CellFormat(45, 8, "Variant", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		variant := item.Color
		if item.Size != "" {
			variant += " / " + item.Size
		}
		if item.Age != "" {
			variant += " / " + item.Age + " " + item.AgeUnit
		}
		pdf.CellFormat(80, 8, item.ProductName, "1", 0, "", false, 0, "")
		pdf.CellFormat(45, 8, variant, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f", order.Amount))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("invoice-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("invoice-qr", 150, 20, 40, 40, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", order.OrderID))
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Failed to render invoice", http.StatusInternalServerError)
	}
}
