// Package checkout turns the shopper's cart into a placed order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/notify"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/selection"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/shared/apperr"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/shared/validation"
)

type Line struct {
	Product catalog.Product
}

type Summary struct {
	Lines []Line
	Total decimal.Decimal
}

// Order lives for one submission and the confirmation render. It is never
// persisted.
type Order struct {
	Number        string
	PlacedAt      time.Time
	Shopper       string
	Customer      Input
	PaymentMethod PaymentMethod
	Lines         []Line
	Total         decimal.Decimal
}

// Dispatcher receives the post-commit event.
type Dispatcher interface {
	Dispatch(ev notify.OrderPlaced)
}

// Observer is told about every placed order.
type Observer interface {
	OrderPlaced()
}

type Service struct {
	store      *selection.Store
	getter     catalog.Getter
	dispatcher Dispatcher
	workers    int
	logger     *slog.Logger
	obs        Observer

	validate *validator.Validate
	now      func() time.Time
}

type Option func(*Service)

func WithObserver(o Observer) Option        { return func(s *Service) { s.obs = o } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }
func WithLogger(l *slog.Logger) Option      { return func(s *Service) { s.logger = l } }

func NewService(store *selection.Store, getter catalog.Getter, d Dispatcher, workers int, opts ...Option) *Service {
	s := &Service{
		store:      store,
		getter:     getter,
		dispatcher: d,
		workers:    workers,
		logger:     slog.Default(),
		validate:   newValidator(),
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Summary returns freshly priced cart lines for the checkout page.
func (s *Service) Summary(ctx context.Context, shopper string) (Summary, error) {
	ids := s.store.Get(ctx, shopper, selection.Cart)
	if len(ids) == 0 {
		return Summary{}, ErrEmptyCart
	}
	return s.resolve(ctx, ids)
}

// Validate checks in without touching the cart.
func (s *Service) Validate(in *Input) error {
	in.Normalize()
	if err := s.validate.Struct(*in); err != nil {
		return apperr.InvalidErr("Please fix the highlighted fields.", validation.FromBindError(err, in))
	}
	return nil
}

// PlaceOrder validates in, prices the cart from fresh lookups, clears the
// cart and hands the order to the dispatcher. Pricing and clearing happen
// under the shopper's cart lock, so concurrent submissions place at most
// one order per cart. On any error before the clear the cart is left
// untouched and no order number is issued.
func (s *Service) PlaceOrder(ctx context.Context, shopper string, in Input) (Order, error) {
	if len(s.store.Get(ctx, shopper, selection.Cart)) == 0 {
		return Order{}, ErrEmptyCart
	}
	if err := s.Validate(&in); err != nil {
		return Order{}, err
	}

	var o Order
	err := s.store.Drain(ctx, shopper, selection.Cart, func(ids []int) error {
		if len(ids) == 0 {
			return ErrEmptyCart
		}
		sum, err := s.resolve(ctx, ids)
		if err != nil {
			return err
		}
		placedAt := s.now()
		o = Order{
			Number:        OrderNumber(placedAt),
			PlacedAt:      placedAt,
			Shopper:       shopper,
			Customer:      in,
			PaymentMethod: in.Method(),
			Lines:         sum.Lines,
			Total:         sum.Total,
		}
		return nil
	})
	switch {
	case errors.Is(err, selection.ErrClearFailed):
		s.logger.LogAttrs(ctx, slog.LevelError, "cart_clear_failed",
			slog.String("order", o.Number),
			slog.String("err", err.Error()),
		)
	case err != nil:
		return Order{}, err
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "order_placed",
		slog.String("order", o.Number),
		slog.Int("lines", len(o.Lines)),
		slog.String("total", o.Total.StringFixed(2)),
		slog.String("payment_method", string(o.PaymentMethod)),
	)
	if s.obs != nil {
		s.obs.OrderPlaced()
	}
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(o.Event())
	}
	return o, nil
}

func (s *Service) resolve(ctx context.Context, ids []int) (Summary, error) {
	sum := Summary{Lines: make([]Line, 0, len(ids)), Total: decimal.Zero}
	for _, r := range catalog.ResolveMany(ctx, s.getter, ids, s.workers) {
		if r.Err != nil {
			var ne *catalog.NetworkError
			if !errors.As(r.Err, &ne) {
				ne = &catalog.NetworkError{Op: "get_product", Err: r.Err}
			}
			return Summary{}, ne
		}
		sum.Lines = append(sum.Lines, Line{Product: r.Product})
		sum.Total = sum.Total.Add(r.Product.Price)
	}
	return sum, nil
}

// OrderNumber is "ORD-" followed by the last 8 digits of t in unix millis.
func OrderNumber(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "ORD-" + ms
}

// Event converts o to the notification payload.
func (o Order) Event() notify.OrderPlaced {
	lines := make([]notify.Line, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = notify.Line{ProductID: l.Product.ID, Title: l.Product.Title, Price: l.Product.Price}
	}
	return notify.OrderPlaced{
		Number:        o.Number,
		Shopper:       o.Shopper,
		PlacedAt:      o.PlacedAt,
		CustomerName:  o.Customer.Name,
		Email:         o.Customer.Email,
		Phone:         o.Customer.Phone,
		Address:       o.Customer.Address,
		PaymentMethod: string(o.PaymentMethod),
		Total:         o.Total,
		Lines:         lines,
	}
}

func (o Order) String() string {
	return fmt.Sprintf("%s (%s, %d lines)", o.Number, o.Total.StringFixed(2), len(o.Lines))
}
