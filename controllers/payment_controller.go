package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/rk-consultants/rk-server/config"
	"github.com/rk-consultants/rk-server/models"
	"github.com/rk-consultants/rk-server/payments"
	"github.com/rk-consultants/rk-server/utils"
	"gorm.io/gorm"
)

// CreatePaymentOrderRequest is the body of POST /api/payment/create-order.
// Amount is in major units.
type CreatePaymentOrderRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	ClientID  uint    `json:"client_id" binding:"required"`
	ServiceID *uint   `json:"service_id"`
	Currency  string  `json:"currency" binding:"omitempty,iso_currency"`
}

// VerifyPaymentRequest carries the gateway checkout result
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
}

func paymentService(c *gin.Context) (*payments.Service, bool) {
	if opts.Payments == nil {
		utils.LogError("Payment request on %s but payments are not configured", c.Request.URL.Path)
		utils.RespondError(c, utils.UpstreamError("Payments are not configured", nil))
		return nil, false
	}
	return opts.Payments, true
}

// POST /api/payment/create-order
func CreatePaymentOrder(c *gin.Context) {
	svc, ok := paymentService(c)
	if !ok {
		return
	}
	var req CreatePaymentOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	order, reused, err := svc.CreateOrder(ctx, payments.CreateOrderRequest{
		ClientID:       req.ClientID,
		ServiceID:      req.ServiceID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		IdempotencyKey: strings.TrimSpace(c.GetHeader("Idempotency-Key")),
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	data := gin.H{
		"order_id": order.OrderID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"receipt":  order.Receipt,
		"status":   order.Status,
		"key_id":   opts.RazorpayKeyID,
	}
	if reused {
		utils.Success(c, "Payment order already exists", data)
		return
	}
	utils.Created(c, "Payment order created successfully", data)
}

// POST /api/payment/verify
func VerifyPayment(c *gin.Context) {
	svc, ok := paymentService(c)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	order, err := svc.Verify(ctx, payments.VerifyRequest{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Payment verified successfully", gin.H{
		"order_id":   order.OrderID,
		"payment_id": order.PaymentID,
		"status":     order.Status,
		"client_id":  order.ClientID,
	})
}

// GET /api/payment/list
func ListPaymentOrders(c *gin.Context) {
	status := c.Query("status")
	if err := utils.CheckEnum("status", status, []string{
		models.PaymentStatusPending, models.PaymentStatusSuccess, models.PaymentStatusFailed,
	}); err != nil {
		utils.RespondError(c, err)
		return
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	query := func() *gorm.DB {
		q := config.DB.WithContext(ctx).Model(&models.PaymentOrder{})
		if status != "" {
			q = q.Where("status = ?", status)
		}
		return q
	}

	p := utils.NewPagination(c)
	var total int64
	if err := query().Count(&total).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to count payment orders", err))
		return
	}
	p.SetTotal(total)

	var orders []models.PaymentOrder
	if err := query().Order("created_at DESC").Offset(p.Offset).Limit(p.Limit).Find(&orders).Error; err != nil {
		utils.RespondError(c, utils.PersistenceError("Failed to fetch payment orders", err))
		return
	}
	utils.SuccessWithPagination(c, "Payment orders retrieved successfully", orders, p)
}

// GET /api/payment/:id
func GetPaymentOrder(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var order models.PaymentOrder
	if err := loadByID(ctx, &order, id, "Payment order"); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Payment order retrieved successfully", order)
}

// GET /api/payment/:id/receipt
func DownloadPaymentReceipt(c *gin.Context) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	var order models.PaymentOrder
	if err := loadByID(ctx, &order, id, "Payment order"); err != nil {
		utils.RespondError(c, err)
		return
	}
	if order.Status != models.PaymentStatusSuccess {
		utils.RespondError(c, utils.ConflictError("Receipts are only available for successful payments", nil))
		return
	}

	var client models.Client
	if err := loadByID(ctx, &client, order.ClientID, "Client"); err != nil {
		utils.RespondError(c, err)
		return
	}
	var service *models.Service
	if order.ServiceID != nil {
		var s models.Service
		err := loadByID(ctx, &s, *order.ServiceID, "Service")
		switch {
		case err == nil:
			service = &s
		case !utils.IsKind(err, utils.KindNotFound):
			utils.LogError("Failed to load service %d for receipt of payment order %d: %v", *order.ServiceID, order.ID, err)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(90, 8, "Receipt: "+order.Receipt)
	pdf.Cell(90, 8, "Date: "+order.UpdatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(90, 8, "Order ID: "+order.OrderID)
	pdf.Cell(90, 8, "Payment ID: "+order.PaymentID)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, client.Name)
	pdf.Ln(6)
	if client.Email != "" {
		pdf.Cell(100, 8, client.Email)
		pdf.Ln(6)
	}
	if client.Phone != "" {
		pdf.Cell(100, 8, "Phone: "+client.Phone)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(120, 8, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 8, "Amount ("+order.Currency+")", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	description := "Consultancy payment"
	if service != nil {
		description = service.Name
	}
	pdf.CellFormat(120, 8, description, "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, formatMinor(order.Amount), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Total Paid:", "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 10, formatMinor(order.Amount), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for choosing "+utils.AppName+"!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to render receipt for payment order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate receipt", nil)
		return
	}
	utils.LogInfo("Receipt generated for payment order %d", order.ID)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt_%s.pdf", order.Receipt))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// formatMinor renders a minor-unit amount as major units with two decimals
func formatMinor(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}
