package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/services/dashboard"
	"invoice-dashboard-backend/internal/services/invoices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const listCacheTTL = 5 * time.Minute

type invoiceReader interface {
	SearchInvoices(ctx context.Context, query string, page int) ([]repository.InvoiceRow, error)
	CountPages(ctx context.Context, query string) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
}

type customerLister interface {
	List(ctx context.Context) ([]models.Customer, error)
}

type InvoiceHandler struct {
	actions   *invoices.Actions
	invoices  invoiceReader
	customers customerLister
	cache     cache.RouteCache
}

func NewInvoiceHandler(actions *invoices.Actions, reader invoiceReader, customers customerLister, routeCache cache.RouteCache) *InvoiceHandler {
	return &InvoiceHandler{
		actions:   actions,
		invoices:  reader,
		customers: customers,
		cache:     routeCache,
	}
}

// Create handles the new-invoice form post.
func (h *InvoiceHandler) Create(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}

	res := h.actions.Create(c.Request.Context(), invoices.State{}, invoices.FieldsFromForm(c.Request.PostForm))
	respond(c, res)
}

// Update handles the edit-invoice form post. Invalid input goes to the error
// boundary instead of back to the form.
func (h *InvoiceHandler) Update(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}

	res, err := h.actions.Update(c.Request.Context(), c.Param("id"), invoices.FieldsFromForm(c.Request.PostForm))
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, res)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.actions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respond(c *gin.Context, res invoices.Result) {
	if res.Redirect != "" {
		c.Redirect(http.StatusSeeOther, res.Redirect)
		return
	}

	status := http.StatusUnprocessableEntity
	if res.Stage == invoices.StageFailed {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res.State)
}

type invoiceResponse struct {
	ID            uuid.UUID `json:"id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ImageURL      string    `json:"image_url"`
	Amount        int64     `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	Date          string    `json:"date"`
	Status        string    `json:"status"`
}

// List serves one page of the invoice table, read through the route cache.
func (h *InvoiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	query := c.Query("query")
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	key := fmt.Sprintf("query=%s&page=%d", query, page)

	if cached, ok, err := h.cache.Get(ctx, invoices.InvoicesPath, key); err != nil {
		slog.WarnContext(ctx, "route cache read failed", "path", invoices.InvoicesPath, "error", err)
	} else if ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
		return
	}

	rows, err := h.invoices.SearchInvoices(ctx, query, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoices"})
		return
	}

	items := make([]invoiceResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, invoiceResponse{
			ID:            row.ID,
			CustomerID:    row.CustomerID,
			Name:          row.Name,
			Email:         row.Email,
			ImageURL:      row.ImageURL,
			Amount:        row.Amount,
			AmountDisplay: dashboard.FormatCurrency(row.Amount),
			Date:          time.Time(row.Date).Format(time.DateOnly),
			Status:        row.Status,
		})
	}

	body, err := json.Marshal(gin.H{"items": items, "page": page})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.cache.Set(ctx, invoices.InvoicesPath, key, string(body), listCacheTTL); err != nil {
		slog.WarnContext(ctx, "route cache write failed", "path", invoices.InvoicesPath, "error", err)
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (h *InvoiceHandler) Pages(c *gin.Context) {
	pages, err := h.invoices.CountPages(c.Request.Context(), c.Query("query"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count invoices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_pages": pages})
}

// Get returns a single invoice for the edit form, amount in major units.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}

	inv, err := h.invoices.GetByID(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoice"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          inv.ID,
		"customer_id": inv.CustomerID,
		"amount":      decimal.New(inv.Amount, -2).StringFixed(2),
		"status":      inv.Status,
		"date":        time.Time(inv.Date).Format(time.DateOnly),
	})
}

func (h *InvoiceHandler) Customers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch customers"})
		return
	}

	out := make([]gin.H, 0, len(customers))
	for _, cu := range customers {
		out = append(out, gin.H{"id": cu.ID, "name": cu.Name})
	}
	c.JSON(http.StatusOK, out)
}
