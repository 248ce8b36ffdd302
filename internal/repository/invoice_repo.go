package repository

import (
	"context"
	"fmt"

	"invoice-dashboard-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ItemsPerPage is the page size of the invoice table.
const ItemsPerPage = 6

const (
	insertInvoiceSQL = `INSERT INTO invoices (customer_id, amount, status, date) VALUES (?, ?, ?, ?)`
	updateInvoiceSQL = `UPDATE invoices SET customer_id = ?, amount = ?, status = ?, date = ? WHERE id = ?`
	deleteInvoiceSQL = `DELETE FROM invoices WHERE id = ?`
)

const invoiceFilter = `customers.name ILIKE ? OR customers.email ILIKE ? OR invoices.amount::text ILIKE ? OR invoices.date::text ILIKE ? OR invoices.status ILIKE ?`

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Insert writes a new invoice row. The id is generated by the database.
func (r *InvoiceRepository) Insert(ctx context.Context, customerID string, amountCents int64, status, date string) error {
	err := r.db.WithContext(ctx).Exec(insertInvoiceSQL, customerID, amountCents, status, date).Error
	if err != nil {
		return fmt.Errorf("insert invoice for customer %q: %w", customerID, err)
	}
	return nil
}

// Update overwrites every mutable column of the invoice with the given id.
func (r *InvoiceRepository) Update(ctx context.Context, id, customerID string, amountCents int64, status, date string) error {
	err := r.db.WithContext(ctx).Exec(updateInvoiceSQL, customerID, amountCents, status, date, id).Error
	if err != nil {
		return fmt.Errorf("update invoice %q: %w", id, err)
	}
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Exec(deleteInvoiceSQL, id).Error
	if err != nil {
		return fmt.Errorf("delete invoice %q: %w", id, err)
	}
	return nil
}

// GetByID fetch a single invoice by ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// InvoiceRow is an invoice joined with its customer, as listed in the table view.
type InvoiceRow struct {
	ID         uuid.UUID      `json:"id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	ImageURL   string         `json:"image_url"`
	Amount     int64          `json:"amount"`
	Date       datatypes.Date `json:"-"`
	Status     string         `json:"status"`
}

// SearchInvoices returns one page (1-based) of invoices whose customer, amount,
// date or status matches query, newest first.
func (r *InvoiceRepository) SearchInvoices(ctx context.Context, query string, page int) ([]InvoiceRow, error) {
	if page < 1 {
		page = 1
	}

	var rows []InvoiceRow
	err := r.filtered(ctx, query).
		Select("invoices.id, invoices.customer_id, customers.name, customers.email, customers.image_url, invoices.amount, invoices.date, invoices.status").
		Order("invoices.date DESC").
		Limit(ItemsPerPage).
		Offset((page - 1) * ItemsPerPage).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("search invoices: %w", err)
	}
	return rows, nil
}

// CountPages returns how many pages SearchInvoices can serve for query.
func (r *InvoiceRepository) CountPages(ctx context.Context, query string) (int, error) {
	var total int64
	if err := r.filtered(ctx, query).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return int((total + ItemsPerPage - 1) / ItemsPerPage), nil
}

func (r *InvoiceRepository) filtered(ctx context.Context, query string) *gorm.DB {
	like := "%" + query + "%"
	return r.db.WithContext(ctx).
		Table("invoices").
		Joins("JOIN customers ON invoices.customer_id = customers.id").
		Where(invoiceFilter, like, like, like, like, like)
}

type StatRow struct {
	Status string
	Count  int64
	Sum    int64
}

// CardStats holds the dashboard aggregates. Sums are in cents.
type CardStats struct {
	NumberOfInvoices  int64
	NumberOfCustomers int64
	TotalPaid         int64
	TotalPending      int64
}

func (r *InvoiceRepository) GetCardStats(ctx context.Context) (CardStats, error) {
	var stats CardStats
	var rows []StatRow

	err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(amount),0) AS sum").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return stats, fmt.Errorf("aggregate invoices: %w", err)
	}

	for _, row := range rows {
		stats.NumberOfInvoices += row.Count
		switch row.Status {
		case models.StatusPaid:
			stats.TotalPaid = row.Sum
		case models.StatusPending:
			stats.TotalPending = row.Sum
		}
	}

	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&stats.NumberOfCustomers).Error; err != nil {
		return stats, fmt.Errorf("count customers: %w", err)
	}

	return stats, nil
}
