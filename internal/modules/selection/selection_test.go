package selection

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bilal-Junaid-Jiwani/fake-API/internal/storage"
)

func newStore(t *testing.T) (*Store, *storage.Memory, *bytes.Buffer) {
	t.Helper()
	mem := storage.NewMemory()
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	return NewStore(mem, logger), mem, &buf
}

func (s *Store) heldLocks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

type deleteFails struct{ storage.Backend }

func (deleteFails) Delete(context.Context, string) error { return errors.New("delete refused") }

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Get_EmptyByDefault", func(t *testing.T) {
		s, _, _ := newStore(t)
		ids := s.Get(ctx, "shopper", Cart)
		require.NotNil(t, ids)
		require.Empty(t, ids)
	})

	t.Run("Add_AppendsInOrderAndIsVisibleImmediately", func(t *testing.T) {
		s, _, _ := newStore(t)
		for _, id := range []int{5, 1, 9} {
			added, err := s.Add(ctx, "shopper", Cart, id)
			require.NoError(t, err)
			require.True(t, added)
		}
		require.Equal(t, []int{5, 1, 9}, s.Get(ctx, "shopper", Cart))
	})

	t.Run("Add_DuplicateReportsFalse", func(t *testing.T) {
		s, _, _ := newStore(t)
		_, err := s.Add(ctx, "shopper", Cart, 3)
		require.NoError(t, err)

		added, err := s.Add(ctx, "shopper", Cart, 3)
		require.NoError(t, err)
		require.False(t, added)
		require.Equal(t, []int{3}, s.Get(ctx, "shopper", Cart))
	})

	t.Run("ListsAreIndependent", func(t *testing.T) {
		s, _, _ := newStore(t)
		_, _ = s.Add(ctx, "shopper", Cart, 3)
		_, _ = s.Add(ctx, "shopper", Wishlist, 4)
		_, _ = s.Add(ctx, "other", Cart, 7)

		require.Equal(t, []int{3}, s.Get(ctx, "shopper", Cart))
		require.Equal(t, []int{4}, s.Get(ctx, "shopper", Wishlist))
		require.Equal(t, Counts{Cart: 1, Wishlist: 1}, s.Counts(ctx, "shopper"))
	})

	t.Run("Remove_PresentAndAbsent", func(t *testing.T) {
		s, _, _ := newStore(t)
		for _, id := range []int{1, 2, 3} {
			_, _ = s.Add(ctx, "shopper", Cart, id)
		}
		require.NoError(t, s.Remove(ctx, "shopper", Cart, 2))
		require.Equal(t, []int{1, 3}, s.Get(ctx, "shopper", Cart))

		require.NoError(t, s.Remove(ctx, "shopper", Cart, 42))
		require.Equal(t, []int{1, 3}, s.Get(ctx, "shopper", Cart))
	})

	t.Run("Get_CorruptValueReadsEmptyAndLogs", func(t *testing.T) {
		s, mem, buf := newStore(t)
		require.NoError(t, mem.Put(ctx, "shopper/cart", []byte(`{not json`)))

		require.Empty(t, s.Get(ctx, "shopper", Cart))
		require.Contains(t, buf.String(), "selection_read_failed")
	})

	t.Run("Get_BackendFailureReadsEmpty", func(t *testing.T) {
		s, mem, buf := newStore(t)
		mem.Fail = errors.New("disk on fire")

		require.Empty(t, s.Get(ctx, "shopper", Wishlist))
		require.Contains(t, buf.String(), "disk on fire")
	})

	t.Run("Add_WriteFailureSurfaces", func(t *testing.T) {
		s, mem, _ := newStore(t)
		mem.Fail = errors.New("read only")
		_, err := s.Add(ctx, "shopper", Cart, 1)
		require.Error(t, err)
	})

	t.Run("Get_DropsDuplicateIds", func(t *testing.T) {
		s, mem, _ := newStore(t)
		require.NoError(t, mem.Put(ctx, "shopper/cart", []byte(`[2,2,1,2]`)))
		require.Equal(t, []int{2, 1}, s.Get(ctx, "shopper", Cart))
	})

	t.Run("Add_ConcurrentWritersKeepEveryId", func(t *testing.T) {
		s, _, _ := newStore(t)
		var wg sync.WaitGroup
		for i := 1; i <= 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = s.Add(ctx, "shopper", Cart, i)
			}()
		}
		wg.Wait()
		require.Len(t, s.Get(ctx, "shopper", Cart), 20)
	})

	t.Run("Lock_ReleasedAfterUse", func(t *testing.T) {
		s, _, _ := newStore(t)
		var wg sync.WaitGroup
		for i := range 5000 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				shopper := fmt.Sprintf("shopper-%d", i)
				_, _ = s.Add(ctx, shopper, Cart, i)
				_ = s.Remove(ctx, shopper, Cart, i)
			}()
		}
		wg.Wait()
		require.Zero(t, s.heldLocks())
		require.Empty(t, s.Get(ctx, "shopper-42", Cart))
	})

	t.Run("Drain_DeletesAfterCallback", func(t *testing.T) {
		s, _, _ := newStore(t)
		_, _ = s.Add(ctx, "shopper", Cart, 4)
		_, _ = s.Add(ctx, "shopper", Cart, 2)

		var seen []int
		err := s.Drain(ctx, "shopper", Cart, func(ids []int) error {
			seen = ids
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []int{4, 2}, seen)
		require.Empty(t, s.Get(ctx, "shopper", Cart))
	})

	t.Run("Drain_CallbackErrorKeepsList", func(t *testing.T) {
		s, _, _ := newStore(t)
		_, _ = s.Add(ctx, "shopper", Cart, 4)
		boom := errors.New("boom")

		err := s.Drain(ctx, "shopper", Cart, func([]int) error { return boom })
		require.ErrorIs(t, err, boom)
		require.Equal(t, []int{4}, s.Get(ctx, "shopper", Cart))
	})

	t.Run("Drain_DeleteFailureWrapsClearFailed", func(t *testing.T) {
		mem := storage.NewMemory()
		s := NewStore(deleteFails{mem}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		_, _ = s.Add(ctx, "shopper", Cart, 4)

		err := s.Drain(ctx, "shopper", Cart, func([]int) error { return nil })
		require.ErrorIs(t, err, ErrClearFailed)
	})

	t.Run("Drain_SerializesConcurrentCallers", func(t *testing.T) {
		s, _, _ := newStore(t)
		_, _ = s.Add(ctx, "shopper", Cart, 1)

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			taken [][]int
		)
		for range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = s.Drain(ctx, "shopper", Cart, func(ids []int) error {
					mu.Lock()
					taken = append(taken, ids)
					mu.Unlock()
					return nil
				})
			}()
		}
		wg.Wait()

		require.Len(t, taken, 2)
		require.ElementsMatch(t, [][]int{{1}, {}}, taken)
	})
}

func TestStore_Theme(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsToDark", func(t *testing.T) {
		s, _, _ := newStore(t)
		require.Equal(t, Dark, s.Theme(ctx, "shopper"))
	})

	t.Run("Toggle_Persists", func(t *testing.T) {
		s, mem, _ := newStore(t)
		next, err := s.ToggleTheme(ctx, "shopper")
		require.NoError(t, err)
		require.Equal(t, Light, next)

		raw, err := mem.Get(ctx, "shopper/theme")
		require.NoError(t, err)
		require.JSONEq(t, `"light"`, string(raw))
		require.Equal(t, Light, s.Theme(ctx, "shopper"))
	})

	t.Run("SetTheme_RejectsUnknown", func(t *testing.T) {
		s, _, _ := newStore(t)
		require.Error(t, s.SetTheme(ctx, "shopper", Theme("sepia")))
	})

	t.Run("CorruptThemeReadsDefault", func(t *testing.T) {
		s, mem, _ := newStore(t)
		require.NoError(t, mem.Put(ctx, "shopper/theme", []byte(`"sepia"`)))
		require.Equal(t, Dark, s.Theme(ctx, "shopper"))
	})
}

func TestParseList(t *testing.T) {
	l, err := ParseList("Wishlist")
	require.NoError(t, err)
	require.Equal(t, Wishlist, l)

	_, err = ParseList("basket")
	require.ErrorIs(t, err, ErrUnknownList)
}
