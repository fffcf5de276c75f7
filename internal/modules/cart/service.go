// Package cart owns the cart and wishlist panels: adding and removing ids and
// hydrating stored ids into priced rows.
package cart

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/selection"
)

// Notice is the outcome of a list mutation, shown to the shopper as a toast.
type Notice string

const (
	NoticeAdded     Notice = "added"
	NoticeDuplicate Notice = "duplicate"
	NoticeRemoved   Notice = "removed"
)

// Message returns the toast text for n on list.
func (n Notice) Message(list selection.List) string {
	where := "cart"
	if list == selection.Wishlist {
		where = "wishlist"
	}
	switch n {
	case NoticeAdded:
		return "Added to " + where
	case NoticeDuplicate:
		return "Already in " + where
	case NoticeRemoved:
		return "Removed from " + where
	}
	return ""
}

type Result struct {
	Notice Notice
	Counts selection.Counts
}

type Row struct {
	Product catalog.Product
}

// Panel is a hydrated list. Rows follow selection order; Missing holds ids
// whose lookup failed.
type Panel struct {
	List    selection.List
	Rows    []Row
	Total   decimal.Decimal
	Missing []int
}

func (p Panel) Empty() bool { return len(p.Rows) == 0 && len(p.Missing) == 0 }

type Service struct {
	store   *selection.Store
	getter  catalog.Getter
	workers int
	logger  *slog.Logger
}

func NewService(store *selection.Store, getter catalog.Getter, workers int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, getter: getter, workers: workers, logger: logger}
}

func (s *Service) Add(ctx context.Context, shopper string, list selection.List, id int) (Result, error) {
	added, err := s.store.Add(ctx, shopper, list, id)
	if err != nil {
		return Result{}, err
	}
	n := NoticeAdded
	if !added {
		n = NoticeDuplicate
	}
	return Result{Notice: n, Counts: s.store.Counts(ctx, shopper)}, nil
}

func (s *Service) Remove(ctx context.Context, shopper string, list selection.List, id int) (Result, error) {
	if err := s.store.Remove(ctx, shopper, list, id); err != nil {
		return Result{}, err
	}
	return Result{Notice: NoticeRemoved, Counts: s.store.Counts(ctx, shopper)}, nil
}

func (s *Service) Counts(ctx context.Context, shopper string) selection.Counts {
	return s.store.Counts(ctx, shopper)
}

// Panel resolves every stored id concurrently and waits for all lookups
// before building rows. Failed lookups are skipped and reported in Missing.
func (s *Service) Panel(ctx context.Context, shopper string, list selection.List) Panel {
	ids := s.store.Get(ctx, shopper, list)
	p := Panel{List: list, Rows: []Row{}, Total: decimal.Zero}

	for _, r := range catalog.ResolveMany(ctx, s.getter, ids, s.workers) {
		if r.Err != nil {
			p.Missing = append(p.Missing, r.ID)
			s.logger.LogAttrs(ctx, slog.LevelWarn, "panel_item_unresolved",
				slog.String("list", string(list)),
				slog.Int("product_id", r.ID),
				slog.String("err", r.Err.Error()),
			)
			continue
		}
		p.Rows = append(p.Rows, Row{Product: r.Product})
		p.Total = p.Total.Add(r.Product.Price)
	}
	return p
}
