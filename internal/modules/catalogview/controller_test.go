package catalogview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/catalog"
	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/modules/listing"
)

type fakeLister struct {
	mu    sync.Mutex
	calls int32
	data  map[string][]catalog.Product
	err   error
	// gate, when set for a category, blocks ListProducts until closed.
	gate map[string]chan struct{}
}

func (f *fakeLister) ListProducts(ctx context.Context, category string) ([]catalog.Product, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	g := f.gate[category]
	f.mu.Unlock()
	if g != nil {
		<-g
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.data[category], nil
}

func p(id int, title, price string) catalog.Product {
	return catalog.Product{ID: id, Title: title, Price: decimal.RequireFromString(price)}
}

func newController(l Lister) *Controller {
	return New(l, Options{
		Placeholders: 10,
		RenderDelay:  300 * time.Millisecond,
		Engine:       listing.NewEngine("en"),
		sleep:        func(context.Context, time.Duration) {},
	})
}

func TestController(t *testing.T) {
	ctx := context.Background()

	t.Run("Begin_EntersLoadingWithPlaceholders", func(t *testing.T) {
		c := newController(&fakeLister{})
		require.Equal(t, Idle, c.Snapshot().Phase)

		s := c.Begin("laptops")
		require.Equal(t, Loading, s.Phase)
		require.Equal(t, 10, s.Placeholders)
		require.Equal(t, "laptops", s.Category)
		require.Empty(t, s.Visible)
	})

	t.Run("Placeholders_AtLeastSix", func(t *testing.T) {
		c := New(&fakeLister{}, Options{Placeholders: 2})
		require.Equal(t, MinPlaceholders, c.Begin("").Placeholders)
	})

	t.Run("Load_ReadyWithListing", func(t *testing.T) {
		l := &fakeLister{data: map[string][]catalog.Product{"laptops": {p(1, "B", "2"), p(2, "A", "1")}}}
		c := newController(l)

		s, err := c.Load(ctx, "laptops")
		require.NoError(t, err)
		require.Equal(t, Ready, s.Phase)
		require.Equal(t, 2, s.Total)
		require.Equal(t, []int{1, 2}, idsOf(s.Visible))
	})

	t.Run("Load_FailureEntersFailed", func(t *testing.T) {
		boom := &catalog.NetworkError{Op: "list_category", Err: errors.New("down")}
		c := newController(&fakeLister{err: boom})

		s, err := c.Load(ctx, "laptops")
		require.ErrorIs(t, err, boom)
		require.Equal(t, Failed, s.Phase)
		require.Empty(t, s.Visible)
		require.True(t, catalog.IsNetworkError(s.Err))
	})

	t.Run("Load_EmptyCategoryIsReadyAndEmpty", func(t *testing.T) {
		c := newController(&fakeLister{data: map[string][]catalog.Product{}})
		s, err := c.Load(ctx, "nothing")
		require.NoError(t, err)
		require.True(t, s.Empty())
	})

	t.Run("Refine_NoNetworkCall", func(t *testing.T) {
		l := &fakeLister{data: map[string][]catalog.Product{"": {p(1, "B", "2"), p(2, "A", "1")}}}
		c := newController(l)
		_, err := c.Load(ctx, "")
		require.NoError(t, err)
		before := atomic.LoadInt32(&l.calls)

		s := c.SetSort(listing.SortTitleAsc)
		require.Equal(t, []int{2, 1}, idsOf(s.Visible))
		s = c.SetQuery("b")
		require.Equal(t, []int{1}, idsOf(s.Visible))
		s = c.Refine("", listing.SortPriceAsc)
		require.Equal(t, []int{2, 1}, idsOf(s.Visible))

		require.Equal(t, before, atomic.LoadInt32(&l.calls))
	})

	t.Run("Refine_WhileLoadingAppliesOnArrival", func(t *testing.T) {
		l := &fakeLister{data: map[string][]catalog.Product{"x": {p(1, "Alpha", "5"), p(2, "Beta", "1")}}}
		c := newController(l)

		begin := c.Begin("x")
		s := c.Refine("beta", listing.SortNone)
		require.Equal(t, Loading, s.Phase)
		require.Empty(t, s.Visible)

		s, err := c.Complete(ctx, begin.Ticket)
		require.NoError(t, err)
		require.Equal(t, []int{2}, idsOf(s.Visible))
		require.Equal(t, 2, s.Total)
	})

	t.Run("Complete_StaleTicketDiscarded", func(t *testing.T) {
		gate := make(chan struct{})
		l := &fakeLister{
			data: map[string][]catalog.Product{"a": {p(1, "Old", "1")}, "b": {p(2, "New", "1")}},
			gate: map[string]chan struct{}{"a": gate},
		}
		c := newController(l)

		first := c.Begin("a")
		done := make(chan error, 1)
		go func() {
			_, err := c.Complete(ctx, first.Ticket)
			done <- err
		}()

		second := c.Begin("b")
		s, err := c.Complete(ctx, second.Ticket)
		require.NoError(t, err)
		require.Equal(t, []int{2}, idsOf(s.Visible))

		close(gate)
		require.ErrorIs(t, <-done, ErrStale)
		s = c.Snapshot()
		require.Equal(t, "b", s.Category)
		require.Equal(t, []int{2}, idsOf(s.Visible))
	})

	t.Run("Complete_OldTicketRejectedUpFront", func(t *testing.T) {
		c := newController(&fakeLister{})
		old := c.Begin("a")
		c.Begin("b")
		_, err := c.Complete(ctx, old.Ticket)
		require.ErrorIs(t, err, ErrStale)
	})

	t.Run("Complete_WaitsRenderDelay", func(t *testing.T) {
		var slept time.Duration
		c := New(&fakeLister{}, Options{RenderDelay: 300 * time.Millisecond, sleep: func(_ context.Context, d time.Duration) { slept = d }})
		_, err := c.Load(ctx, "")
		require.NoError(t, err)
		require.Equal(t, 300*time.Millisecond, slept)
	})

	t.Run("Snapshot_IsACopy", func(t *testing.T) {
		c := newController(&fakeLister{data: map[string][]catalog.Product{"": {p(1, "A", "1")}}})
		s, _ := c.Load(ctx, "")
		s.Visible[0].Title = "mutated"
		require.Equal(t, "A", c.Snapshot().Visible[0].Title)
	})
}

func TestRegistry(t *testing.T) {
	t.Run("For_ReturnsSameControllerPerShopper", func(t *testing.T) {
		r := NewRegistry(&fakeLister{}, Options{}, time.Minute)
		a := r.For("s1")
		require.Same(t, a, r.For("s1"))
		require.NotSame(t, a, r.For("s2"))
		require.Equal(t, 2, r.Len())
	})

	t.Run("Prune_DropsIdle", func(t *testing.T) {
		r := NewRegistry(&fakeLister{}, Options{}, time.Minute)
		r.For("s1")
		require.Zero(t, r.Prune())

		r.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		require.Equal(t, 1, r.Prune())
		require.Zero(t, r.Len())
	})
}

func idsOf(ps []catalog.Product) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
