package invoices

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// InvoicesPath is the invoice list view, both the cache entry dropped after a
// mutation and the redirect target.
const InvoicesPath = "/dashboard/invoices"

const (
	MsgCreateMissingFields = "Missing Fields, failed to create invoice"
	// The update path reports the create wording.
	MsgDatabaseError = "Database Error: Failed to Create Invoice."
)

// ErrDeleteInvoice is returned by every delete.
var ErrDeleteInvoice = errors.New("failed to delete invoice")

// Store is the persistence gateway. Each call is one parameterized statement.
type Store interface {
	Insert(ctx context.Context, customerID string, amountCents int64, status, date string) error
	Update(ctx context.Context, id, customerID string, amountCents int64, status, date string) error
	Delete(ctx context.Context, id string) error
}

// Invalidator drops cached renderings of a route.
type Invalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// Stage is where a single action invocation ended.
type Stage string

const (
	StageRedirected Stage = "redirected"
	StageRejected   Stage = "rejected"
	StageFailed     Stage = "failed"
)

// FormValues echoes rejected input back to the form.
type FormValues struct {
	CustomerID string `json:"customerId,omitempty"`
	Amount     string `json:"amount,omitempty"`
	Status     string `json:"status,omitempty"`
}

// State is what an action hands back to the form when it does not navigate.
type State struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Values  *FormValues         `json:"values,omitempty"`
	Message string              `json:"message,omitempty"`
}

type Result struct {
	Stage Stage
	State State
	// Redirect is set once navigation was issued.
	Redirect string
	// PersistErr is set when create's insert failed and the flow went on to
	// invalidate and redirect anyway.
	PersistErr error
}

type Actions struct {
	store Store
	cache Invalidator
	now   func() time.Time
}

type Option func(*Actions)

// WithClock replaces time.Now as the source of the invoice date.
func WithClock(now func() time.Time) Option {
	return func(a *Actions) { a.now = now }
}

func NewActions(store Store, cache Invalidator, opts ...Option) *Actions {
	a := &Actions{store: store, cache: cache, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Create validates the form and inserts a new invoice. A failed insert is
// logged and does not stop the invalidate and redirect steps.
func (a *Actions) Create(ctx context.Context, _ State, form Fields) Result {
	raw := extract(form)

	res := Validate(CreateInvoiceSchema, raw)
	if !res.Success {
		values := toFormValues(raw)
		return Result{
			Stage: StageRejected,
			State: State{
				Errors:  res.FieldErrors,
				Message: MsgCreateMissingFields,
				Values:  &values,
			},
		}
	}

	customerID, amountCents, status, date := a.record(res.Data)

	var persistErr error
	if err := a.store.Insert(ctx, customerID, amountCents, status, date); err != nil {
		slog.ErrorContext(ctx, "insert invoice failed, continuing",
			"customer_id", customerID,
			"amount_cents", amountCents,
			"status", status,
			"error", err,
		)
		persistErr = err
	}

	out := a.finish(ctx)
	out.PersistErr = persistErr
	return out
}

// Update validates the form and overwrites the invoice. Invalid input is
// returned as a *ValidationError before anything is written.
func (a *Actions) Update(ctx context.Context, id string, form Fields) (Result, error) {
	payload, err := MustValidate(UpdateInvoiceSchema, extract(form))
	if err != nil {
		return Result{Stage: StageRejected}, err
	}

	customerID, amountCents, status, date := a.record(payload)

	if err := a.store.Update(ctx, id, customerID, amountCents, status, date); err != nil {
		slog.ErrorContext(ctx, "update invoice failed", "invoice_id", id, "error", err)
		return Result{Stage: StageFailed, State: State{Message: MsgDatabaseError}}, nil
	}

	return a.finish(ctx), nil
}

// Delete is disabled: it fails before any id check or statement runs.
func (a *Actions) Delete(ctx context.Context, id string) error {
	slog.WarnContext(ctx, "delete invoice rejected", "invoice_id", id)
	return ErrDeleteInvoice
}

// record derives the stored columns. The date is always today in UTC, also
// on update.
func (a *Actions) record(p Payload) (customerID string, amountCents int64, status, date string) {
	return p.String("customerId"),
		Cents(p.Decimal("amount")),
		p.String("status"),
		a.now().UTC().Format(time.DateOnly)
}

func (a *Actions) finish(ctx context.Context) Result {
	if err := a.cache.Invalidate(ctx, InvoicesPath); err != nil {
		slog.WarnContext(ctx, "route cache invalidation failed", "path", InvoicesPath, "error", err)
	}
	return Result{Stage: StageRedirected, Redirect: InvoicesPath}
}

// Cents converts a major-unit amount to whole minor units, rounding half away
// from zero. Validate rejects amounts whose cents do not fit in an int64.
func Cents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// extract keeps only the fields a caller may submit.
func extract(form Fields) Fields {
	raw := Fields{}
	for _, name := range []string{"customerId", "amount", "status"} {
		if v, ok := form[name]; ok {
			raw[name] = v
		}
	}
	return raw
}

func toFormValues(raw Fields) FormValues {
	return FormValues{
		CustomerID: raw["customerId"],
		Amount:     raw["amount"],
		Status:     raw["status"],
	}
}
