package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taxdesk/backend/database"
	"github.com/taxdesk/backend/models"
	"github.com/taxdesk/backend/services"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CreateInvoice handles POST /api/invoices/create - create an invoice
// with its line items in a single transaction.
func CreateInvoice(c *gin.Context) {
	var req struct {
		InvoiceNumber string               `json:"invoiceNumber" binding:"required"`
		ClientName    string               `json:"clientName" binding:"required"`
		ClientEmail   string               `json:"clientEmail"`
		ClientAddress string               `json:"clientAddress"`
		Date          string               `json:"date"`
		DueDate       string               `json:"dueDate"`
		Notes         string               `json:"notes"`
		Status        models.InvoiceStatus `json:"status"`
		Items         []struct {
			Description string  `json:"description"`
			Quantity    float64 `json:"quantity"`
			Rate        float64 `json:"rate"`
		} `json:"items"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	status := req.Status
	if status == "" {
		status = models.InvoicePending
	}
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status value"})
		return
	}

	items := make([]models.InvoiceItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = models.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
		}
	}
	// Amounts and the total are always recomputed here; whatever the
	// client calculated is ignored.
	total := models.ComputeTotals(items)

	invoice := models.Invoice{
		UserID:        currentUserID(c),
		InvoiceNumber: req.InvoiceNumber,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientAddress: req.ClientAddress,
		Date:          req.Date,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
		Total:         total,
		Status:        status,
		Items:         items,
	}

	// Header and items commit or roll back as one; a failure partway
	// through must not leave a parent with a partial item set.
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&invoice).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		return
	}

	publishInvoiceEvent(services.InvoiceEvent{
		Type:          services.EventInvoiceCreated,
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		UserID:        invoice.UserID,
		Status:        string(invoice.Status),
		Total:         invoice.Total,
		Timestamp:     time.Now(),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Invoice created successfully",
		"invoiceId": invoice.ID,
	})
}

// InvoiceSummary is the row shape returned to a client's own listing.
type InvoiceSummary struct {
	ID            int64                `json:"id"`
	InvoiceNumber string               `json:"invoiceNumber"`
	Date          string               `json:"date"`
	Amount        float64              `json:"amount"`
	Status        models.InvoiceStatus `json:"status"`
	Description   string               `json:"description"`
}

// MyInvoices handles GET /api/invoices/my-invoices - the caller's own
// invoices, newest created first.
func MyInvoices(c *gin.Context) {
	var invoices []models.Invoice
	if err := database.DB.
		Where("user_id = ?", currentUserID(c)).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}

	summaries := make([]InvoiceSummary, len(invoices))
	for i, inv := range invoices {
		summaries[i] = InvoiceSummary{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Date:          inv.Date,
			Amount:        inv.Total,
			Status:        inv.Status,
			Description:   inv.Notes,
		}
	}

	c.JSON(http.StatusOK, summaries)
}

// AdminListInvoices handles GET /api/admin/invoices - every invoice,
// newest business date first.
func AdminListInvoices(c *gin.Context) {
	var invoices []models.Invoice
	if err := database.DB.Order("date DESC").Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// UpdateInvoiceStatus handles PATCH /api/admin/:invoiceId - drive the
// status workflow. Unknown literals fail before any row is read;
// disallowed transitions fail against the current row state.
func UpdateInvoiceStatus(c *gin.Context) {
	var req struct {
		Status models.InvoiceStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status value"})
		return
	}

	id, err := strconv.ParseInt(c.Param("invoiceId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
		return
	}

	var invoice models.Invoice
	if err := database.DB.First(&invoice, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if !invoice.Status.CanTransitionTo(req.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"message": "Invalid status transition",
			"from":    invoice.Status,
			"to":      req.Status,
		})
		return
	}

	previous := invoice.Status
	invoice.Status = req.Status
	if err := database.DB.Model(&invoice).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	if previous != invoice.Status {
		publishInvoiceEvent(services.InvoiceEvent{
			Type:          services.EventStatusChanged,
			InvoiceID:     invoice.ID,
			InvoiceNumber: invoice.InvoiceNumber,
			UserID:        invoice.UserID,
			Status:        string(invoice.Status),
			Total:         invoice.Total,
			Timestamp:     time.Now(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice status updated successfully",
		"invoice": invoice,
	})
}

// DownloadInvoice handles GET /api/admin/invoices/:id/download - render
// any invoice as a spreadsheet.
func DownloadInvoice(c *gin.Context) {
	writeInvoiceWorkbook(c, 0)
}

// DownloadOwnInvoice handles GET /api/auth/invoices/:id/download - same
// rendering, scoped to invoices the caller owns.
func DownloadOwnInvoice(c *gin.Context) {
	writeInvoiceWorkbook(c, currentUserID(c))
}

// writeInvoiceWorkbook loads invoice, owner and items, renders the
// workbook and streams it. ownerID of zero skips the ownership scope.
func writeInvoiceWorkbook(c *gin.Context, ownerID uint) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
		return
	}

	query := database.DB.Preload("Items")
	if ownerID != 0 {
		query = query.Where("user_id = ?", ownerID)
	}

	var invoice models.Invoice
	if err := query.First(&invoice, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
		return
	}

	owner, err := findUser(invoice.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invoice creator not found"})
		return
	}

	workbook, err := services.RenderInvoiceWorkbook(&invoice, owner, invoice.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+invoice.InvoiceNumber+".xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
