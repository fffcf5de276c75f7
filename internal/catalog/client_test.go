package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	mu    sync.Mutex
	calls map[string]int
}

func (o *countingObserver) CatalogCall(op, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = map[string]int{}
	}
	o.calls[op+":"+outcome]++
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	t.Run("ListProducts_AllProducts", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/products", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"products":[{"id":2,"title":"B","price":9.5,"rating":4.2},{"id":1,"title":"A","price":3}],"total":2}`))
		})
		obs := &countingObserver{}
		c := NewClient(srv.URL, WithObserver(obs))

		items, err := c.ListProducts(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.Equal(t, 2, items[0].ID)
		require.True(t, items[0].Price.Equal(decimal.RequireFromString("9.5")))
		require.NotNil(t, items[0].Rating)
		require.Nil(t, items[1].Rating)
		require.Equal(t, 1, obs.calls["list_products:ok"])
	})

	t.Run("ListProducts_CategoryPathAndLimit", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/products/category/laptops", r.URL.Path)
			require.Equal(t, "30", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"products":[]}`))
		})
		c := NewClient(srv.URL, WithPageLimit(30))

		items, err := c.ListProducts(context.Background(), "laptops")
		require.NoError(t, err)
		require.NotNil(t, items)
		require.Empty(t, items)
	})

	t.Run("ListProducts_BareArray", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"id":7,"title":"Lamp","price":12}]`))
		})
		items, err := NewClient(srv.URL).ListProducts(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, "Lamp", items[0].Title)
	})

	t.Run("ListProducts_ServerErrorIsNetworkError", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		obs := &countingObserver{}
		_, err := NewClient(srv.URL, WithObserver(obs)).ListProducts(context.Background(), "")

		var ne *NetworkError
		require.ErrorAs(t, err, &ne)
		require.Equal(t, http.StatusInternalServerError, ne.Status)
		require.Equal(t, "list_products", ne.Op)
		require.Equal(t, 1, obs.calls["list_products:status_500"])
	})

	t.Run("ListProducts_MalformedBodyIsNetworkError", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"products": nope`))
		})
		_, err := NewClient(srv.URL).ListProducts(context.Background(), "")
		require.True(t, IsNetworkError(err))
	})

	t.Run("ListProducts_TransportFailureIsNetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewClient(url, WithTimeout(time.Second)).ListProducts(context.Background(), "")
		var ne *NetworkError
		require.ErrorAs(t, err, &ne)
		require.Zero(t, ne.Status)
	})

	t.Run("GetProduct_NotFound", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/products/99", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := NewClient(srv.URL).GetProduct(context.Background(), 99)
		var ne *NetworkError
		require.ErrorAs(t, err, &ne)
		require.True(t, ne.NotFound())
	})

	t.Run("ListCategories_StringsAndObjects", func(t *testing.T) {
		srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/products/category-list", r.URL.Path)
			_, _ = w.Write([]byte(`["home-decoration",{"slug":"mens-shirts","name":"Mens Shirts","url":"x"}]`))
		})
		cats, err := NewClient(srv.URL).ListCategories(context.Background())
		require.NoError(t, err)
		require.Len(t, cats, 2)
		require.Equal(t, "home decoration", cats[0].Label())
		require.Equal(t, "mens-shirts", cats[1].Slug)
	})

	t.Run("EmptyBaseURL", func(t *testing.T) {
		_, err := NewClient("").GetProduct(context.Background(), 1)
		require.True(t, IsNetworkError(err))
	})
}

func TestProduct_ImageURL(t *testing.T) {
	require.Equal(t, "t.png", Product{Thumbnail: "t.png", Images: []string{"a.png"}}.ImageURL())
	require.Equal(t, "a.png", Product{Images: []string{" ", "a.png"}}.ImageURL())
	require.Equal(t, "", Product{}.ImageURL())
}

type fakeGetter struct {
	delay map[int]time.Duration
	fail  map[int]bool
}

func (f fakeGetter) GetProduct(ctx context.Context, id int) (Product, error) {
	time.Sleep(f.delay[id])
	if f.fail[id] {
		return Product{}, &NetworkError{Op: "get_product", Err: errors.New("down")}
	}
	return Product{ID: id, Price: decimal.NewFromInt(int64(id))}, nil
}

func TestResolveMany(t *testing.T) {
	t.Run("KeepsIdOrderUnderOutOfOrderCompletion", func(t *testing.T) {
		g := fakeGetter{delay: map[int]time.Duration{1: 30 * time.Millisecond, 2: 0, 3: 10 * time.Millisecond}}
		out := ResolveMany(context.Background(), g, []int{1, 2, 3}, 3)

		require.Len(t, out, 3)
		for i, want := range []int{1, 2, 3} {
			require.Equal(t, want, out[i].ID)
			require.Equal(t, want, out[i].Product.ID)
			require.True(t, out[i].OK())
		}
	})

	t.Run("FailureDoesNotCancelSiblings", func(t *testing.T) {
		g := fakeGetter{fail: map[int]bool{2: true}}
		out := ResolveMany(context.Background(), g, []int{1, 2, 3}, 1)

		require.True(t, out[0].OK())
		require.False(t, out[1].OK())
		require.True(t, out[2].OK())
		require.Equal(t, 2, out[1].ID)
		require.Error(t, out[1].Err)
	})

	t.Run("Empty", func(t *testing.T) {
		require.Empty(t, ResolveMany(context.Background(), fakeGetter{}, nil, 4))
	})
}
