// Package catalogview holds the per-shopper listing state: the active
// category, the cached listing, the query and sort key, and the currently
// derived view.
package catalogview

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/listing"
)

// ErrStale is returned by Complete when a newer Begin superseded the ticket.
var ErrStale = errors.New("catalogview: stale request")

const MinPlaceholders = 6

type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Ticket identifies one Begin call. Only the latest ticket may publish.
type Ticket uint64

// Lister is the slice of the catalog client the controller needs.
type Lister interface {
	ListProducts(ctx context.Context, category string) ([]catalog.Product, error)
}

type Options struct {
	Placeholders int
	RenderDelay  time.Duration
	Engine       listing.Engine
	Logger       *slog.Logger

	// sleep is replaced in tests.
	sleep func(context.Context, time.Duration)
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	Phase        Phase
	Ticket       Ticket
	Category     string
	Query        string
	Sort         listing.SortKey
	Placeholders int
	Visible      []catalog.Product
	Total        int
	Err          error
}

// Empty reports a ready view with nothing to show.
func (s Snapshot) Empty() bool { return s.Phase == Ready && len(s.Visible) == 0 }

type Controller struct {
	lister Lister
	opts   Options

	mu       sync.Mutex
	phase    Phase
	ticket   Ticket
	category string
	query    string
	sort     listing.SortKey
	all      []catalog.Product
	visible  []catalog.Product
	err      error
	touched  time.Time
}

func New(lister Lister, opts Options) *Controller {
	if opts.Placeholders < MinPlaceholders {
		opts.Placeholders = MinPlaceholders
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.sleep == nil {
		opts.sleep = sleepCtx
	}
	return &Controller{lister: lister, opts: opts, touched: time.Now()}
}

// Begin enters Loading for category, drops the previous listing and issues a
// new ticket. The caller renders Placeholders skeleton cards before calling
// Complete.
func (c *Controller) Begin(category string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ticket++
	c.phase = Loading
	c.category = strings.TrimSpace(category)
	c.all = nil
	c.visible = nil
	c.err = nil
	c.touched = time.Now()
	return c.snapshotLocked()
}

// Complete fetches the listing for the ticket's category and publishes it if
// the ticket is still current. The fetch and the render delay run unlocked.
func (c *Controller) Complete(ctx context.Context, t Ticket) (Snapshot, error) {
	c.mu.Lock()
	if t != c.ticket {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s, ErrStale
	}
	category := c.category
	c.mu.Unlock()

	items, err := c.lister.ListProducts(ctx, category)
	if err == nil {
		c.opts.sleep(ctx, c.opts.RenderDelay)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touched = time.Now()

	if t != c.ticket {
		c.opts.Logger.LogAttrs(ctx, slog.LevelDebug, "catalog_result_discarded",
			slog.Uint64("ticket", uint64(t)),
			slog.Uint64("latest", uint64(c.ticket)),
			slog.String("category", category),
		)
		return c.snapshotLocked(), ErrStale
	}

	if err != nil {
		c.phase = Failed
		c.err = err
		c.all = nil
		c.visible = nil
		c.opts.Logger.LogAttrs(ctx, slog.LevelWarn, "catalog_fetch_failed",
			slog.String("category", category),
			slog.String("err", err.Error()),
		)
		return c.snapshotLocked(), err
	}

	c.phase = Ready
	c.all = items
	c.visible = c.opts.Engine.Derive(c.all, c.query, c.sort)
	return c.snapshotLocked(), nil
}

// Load runs Begin and Complete back to back.
func (c *Controller) Load(ctx context.Context, category string) (Snapshot, error) {
	s := c.Begin(category)
	return c.Complete(ctx, s.Ticket)
}

func (c *Controller) SetQuery(query string) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	return c.rederiveLocked()
}

func (c *Controller) SetSort(key listing.SortKey) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = key
	return c.rederiveLocked()
}

// Refine records query and sort and re-derives from the cached listing. It
// never touches the network. While Loading the values are only recorded and
// apply once the pending fetch lands.
func (c *Controller) Refine(query string, key listing.SortKey) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
	c.sort = key
	return c.rederiveLocked()
}

func (c *Controller) rederiveLocked() Snapshot {
	c.touched = time.Now()
	if c.phase == Ready {
		c.visible = c.opts.Engine.Derive(c.all, c.query, c.sort)
	}
	return c.snapshotLocked()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// IdleSince reports the last time the controller was used.
func (c *Controller) IdleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		Phase:        c.phase,
		Ticket:       c.ticket,
		Category:     c.category,
		Query:        c.query,
		Sort:         c.sort,
		Placeholders: c.opts.Placeholders,
		Total:        len(c.all),
		Err:          c.err,
	}
	if c.visible != nil {
		s.Visible = append([]catalog.Product(nil), c.visible...)
	}
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
