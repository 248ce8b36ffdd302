package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"invoice-dashboard-backend/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Every card currently renders with the same title and icon type, whatever
// metric it shows.
const (
	CardTitle = "Collected"
	CardType  = "collected"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Source provides the aggregate the cards read from.
type Source interface {
	GetCardStats(ctx context.Context) (repository.CardStats, error)
}

type CardData struct {
	NumberOfCustomers    int64
	NumberOfInvoices     int64
	TotalPaidInvoices    string
	TotalPendingInvoices string
}

type Card struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Value any    `json:"value,omitempty"`
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

// Loader reads one metric out of CardData after a fixed delay.
type Loader struct {
	Name  string
	Delay time.Duration
	Value func(CardData) any
}

var Loaders = []Loader{
	{
		Name:  "total_paid_invoices",
		Delay: 50 * time.Millisecond,
		Value: func(d CardData) any { return d.TotalPaidInvoices },
	},
	{
		Name:  "total_pending_invoices",
		Delay: 80 * time.Millisecond,
		Value: func(d CardData) any { return d.TotalPendingInvoices },
	},
	{
		Name:  "number_of_invoices",
		Delay: 100 * time.Millisecond,
		Value: func(d CardData) any { return d.NumberOfInvoices },
	},
	{
		Name:  "number_of_customers",
		Delay: 120 * time.Millisecond,
		Value: func(d CardData) any { return d.NumberOfCustomers },
	},
}

type Service struct {
	source  Source
	loaders []Loader
}

func NewService(source Source) *Service {
	return &Service{source: source, loaders: Loaders}
}

func (s *Service) FetchCardData(ctx context.Context) (CardData, error) {
	stats, err := s.source.GetCardStats(ctx)
	if err != nil {
		return CardData{}, fmt.Errorf("fetch card data: %w", err)
	}
	return CardData{
		NumberOfCustomers:    stats.NumberOfCustomers,
		NumberOfInvoices:     stats.NumberOfInvoices,
		TotalPaidInvoices:    FormatCurrency(stats.TotalPaid),
		TotalPendingInvoices: FormatCurrency(stats.TotalPending),
	}, nil
}

// Load fetches card data for a single card and waits out its delay. The wait
// ignores ctx. A failed card is still returned, carrying the error text.
func (s *Service) Load(ctx context.Context, l Loader) (Card, error) {
	card := Card{Name: l.Name, Title: CardTitle, Type: CardType}

	data, err := s.FetchCardData(ctx)
	if err != nil {
		card.Error = err.Error()
		return card, fmt.Errorf("card %s: %w", l.Name, err)
	}

	time.Sleep(l.Delay)
	card.Value = l.Value(data)
	return card, nil
}

// Cards loads every card concurrently and returns them in loader order. A
// failed card carries its error and does not affect the others; the first
// failure is also returned once every card has finished.
func (s *Service) Cards(ctx context.Context) ([]Card, error) {
	cards := make([]Card, len(s.loaders))

	var g errgroup.Group
	for i, l := range s.loaders {
		g.Go(func() error {
			var err error
			cards[i], err = s.Load(ctx, l)
			return err
		})
	}

	return cards, g.Wait()
}

// Stream loads every card concurrently and sends each one as soon as it is
// ready. The channel is closed after the last card.
func (s *Service) Stream(ctx context.Context) <-chan Card {
	out := make(chan Card, len(s.loaders))

	var g errgroup.Group
	for _, l := range s.loaders {
		g.Go(func() error {
			card, err := s.Load(ctx, l)
			out <- card
			return err
		})
	}
	go func() {
		if err := g.Wait(); err != nil {
			slog.ErrorContext(ctx, "card stream incomplete", "error", err)
		}
		close(out)
	}()

	return out
}

// FormatCurrency renders cents as US dollars, e.g. 123456 -> "$1,234.56".
func FormatCurrency(cents int64) string {
	return printer.Sprintf("$%.2f", decimal.New(cents, -2).InexactFloat64())
}
